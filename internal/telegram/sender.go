package telegram

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Sender sends outbound messages through the Telegram bot. It is created
// before the bot instance exists (the broadcast dispatcher needs it during
// handler wiring) and bound to the bot afterwards.
type Sender struct {
	mu sync.RWMutex
	b  *bot.Bot
}

// NewSender creates an unbound sender. Bind must be called before any
// send.
func NewSender() *Sender {
	return &Sender{}
}

// Bind attaches the sender to a live bot instance.
func (s *Sender) Bind(b *bot.Bot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.b = b
}

func (s *Sender) bot() (*bot.Bot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.b == nil {
		return nil, fmt.Errorf("telegram sender is not bound to a bot instance")
	}
	return s.b, nil
}

// SendText delivers a plain text message to the chat.
func (s *Sender) SendText(ctx context.Context, chatID int64, text string) error {
	b, err := s.bot()
	if err != nil {
		return err
	}

	_, err = b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
	return err
}

// SendPhoto delivers a photo by file id with an optional caption.
func (s *Sender) SendPhoto(ctx context.Context, chatID int64, fileID, caption string) error {
	b, err := s.bot()
	if err != nil {
		return err
	}

	_, err = b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:    chatID,
		Photo:     &models.InputFileString{Data: fileID},
		Caption:   caption,
		ParseMode: models.ParseModeHTML,
	})
	return err
}
