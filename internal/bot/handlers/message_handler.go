package handlers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/drigmma/ankety/internal/broadcast"
)

// NewMessageHandler returns the default handler for every non-command
// message: survey flow input for regular users, broadcast payloads for
// armed operators.
func NewMessageHandler(deps HandlerDeps) bot.HandlerFunc {
	return messageHandler{deps}.Handle
}

// messageHandler processes non-command messages using injected
// dependencies.
type messageHandler struct {
	deps HandlerDeps
}

func (h messageHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "message")

	if update.Message == nil || update.Message.From == nil || update.Message.From.IsBot {
		return
	}

	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID

	if h.deps.Dispatcher.Armed(userID) && isAdmin(h.deps.Config, userID) {
		h.deps.Dispatcher.Disarm(userID)
		h.runBroadcast(ctx, b, log, chatID, broadcastPayload(update.Message))
		return
	}

	if update.Message.Text == helpButtonLabel {
		NewHelpHandler(h.deps)(ctx, b, update)
		return
	}

	// A non-text message mid-form still counts as an answer: the empty
	// text is recorded and the cursor advances.
	if update.Message.Text == "" && !h.deps.Engine.InForm(userID) {
		log.DebugContext(ctx, "Ignoring non-text message", "chat_id", chatID, "user_id", userID)
		return
	}

	replies, err := h.deps.Engine.HandleText(ctx, flowUser(update.Message.From), update.Message.Text)
	if err != nil {
		log.ErrorContext(ctx, "Failed to handle message", "error", err, "user_id", userID)
		return
	}

	sendReplies(ctx, b, h.deps, log, chatID, replies)
}

// runBroadcast executes a broadcast and reports progress back to the
// operator's chat.
func (h messageHandler) runBroadcast(ctx context.Context, b *bot.Bot, log *slog.Logger, chatID int64, msg broadcast.Message) {
	msgs := h.deps.Config.Messages

	recipients, err := h.deps.Store.ConsentedUserIDs(ctx)
	if err != nil {
		log.ErrorContext(ctx, "Failed to count broadcast recipients", "error", err)
		return
	}
	if len(recipients) == 0 {
		h.notify(ctx, b, log, chatID, msgs.BroadcastNoUsers)
		return
	}

	status, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      fmt.Sprintf(msgs.BroadcastStarted, len(recipients)),
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send broadcast status", "error", err, "chat_id", chatID)
	}

	// One snapshot: the announced count and the delivery set are the same.
	report := h.deps.Dispatcher.Deliver(ctx, recipients, msg)

	done := fmt.Sprintf(msgs.BroadcastDone, report.Sent, report.Failed)
	if status != nil {
		_, err = b.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:    chatID,
			MessageID: status.ID,
			Text:      done,
			ParseMode: models.ParseModeHTML,
		})
		if err != nil {
			log.ErrorContext(ctx, "Failed to edit broadcast status", "error", err, "chat_id", chatID)
		}
		return
	}
	h.notify(ctx, b, log, chatID, done)
}

func (h messageHandler) notify(ctx context.Context, b *bot.Bot, log *slog.Logger, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: mainMenuKeyboard(h.deps.Catalog),
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send broadcast status", "error", err, "chat_id", chatID)
	}
}

// broadcastPayload extracts the broadcast content from the operator's
// message: the largest photo size with its caption, or plain text.
func broadcastPayload(msg *models.Message) broadcast.Message {
	if len(msg.Photo) > 0 {
		return broadcast.Message{
			Text:        msg.Caption,
			PhotoFileID: msg.Photo[len(msg.Photo)-1].FileID,
		}
	}
	return broadcast.Message{Text: msg.Text}
}
