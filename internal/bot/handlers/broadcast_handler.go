package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewBroadcastHandler returns a handler for the /broadcast command. The
// command arms the operator: their next message becomes the broadcast
// payload. Authorization is enforced by the AdminOnly middleware.
func NewBroadcastHandler(deps HandlerDeps) bot.HandlerFunc {
	return broadcastHandler{deps}.Handle
}

// broadcastHandler processes the /broadcast command using injected
// dependencies.
type broadcastHandler struct {
	deps HandlerDeps
}

func (h broadcastHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "broadcast")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Broadcast handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID
	log.InfoContext(ctx, "Handling /broadcast command", "chat_id", chatID, "user_id", userID)

	h.deps.Dispatcher.Arm(userID)

	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        h.deps.Config.Messages.BroadcastPrompt,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: &models.ReplyKeyboardRemove{RemoveKeyboard: true},
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send broadcast prompt", "error", err, "chat_id", chatID)
	}
}
