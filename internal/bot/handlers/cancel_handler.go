package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewCancelHandler returns a handler for the /cancel command. It aborts an
// in-progress form and, for operators, a pending broadcast.
func NewCancelHandler(deps HandlerDeps) bot.HandlerFunc {
	return cancelHandler{deps}.Handle
}

// cancelHandler processes the /cancel command using injected dependencies.
type cancelHandler struct {
	deps HandlerDeps
}

func (h cancelHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "cancel")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Cancel handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID
	log.InfoContext(ctx, "Handling /cancel command", "chat_id", chatID, "user_id", userID)

	if h.deps.Dispatcher.Armed(userID) {
		h.deps.Dispatcher.Disarm(userID)
		log.InfoContext(ctx, "Pending broadcast cancelled", "user_id", userID)

		_, err := b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:      chatID,
			Text:        h.deps.Config.Messages.BroadcastCancel,
			ParseMode:   models.ParseModeHTML,
			ReplyMarkup: mainMenuKeyboard(h.deps.Catalog),
		})
		if err != nil {
			log.ErrorContext(ctx, "Failed to send broadcast cancel confirmation", "error", err, "chat_id", chatID)
		}
		return
	}

	replies, err := h.deps.Engine.HandleCancel(ctx, flowUser(update.Message.From))
	if err != nil {
		log.ErrorContext(ctx, "Failed to handle /cancel", "error", err, "user_id", userID)
		return
	}

	sendReplies(ctx, b, h.deps, log, chatID, replies)
}
