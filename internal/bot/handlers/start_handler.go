package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/drigmma/ankety/internal/flow"
)

// NewStartHandler returns a handler for the /start command.
func NewStartHandler(deps HandlerDeps) bot.HandlerFunc {
	return startHandler{deps}.Handle
}

// startHandler processes the /start command using injected dependencies.
type startHandler struct {
	deps HandlerDeps
}

func (h startHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "start")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Start handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID
	log.InfoContext(ctx, "Handling /start command", "chat_id", chatID, "user_id", userID)

	// /start resets everything in progress, a pending broadcast included;
	// otherwise the next menu tap would be fanned out as the payload.
	if h.deps.Dispatcher.Armed(userID) {
		h.deps.Dispatcher.Disarm(userID)
		log.InfoContext(ctx, "Pending broadcast cancelled by /start", "user_id", userID)
	}

	replies, err := h.deps.Engine.HandleStart(ctx, flowUser(update.Message.From))
	if err != nil {
		log.ErrorContext(ctx, "Failed to handle /start", "error", err, "user_id", update.Message.From.ID)
		return
	}

	sendReplies(ctx, b, h.deps, log, chatID, replies)
}

// flowUser converts a Telegram sender into the engine's user identity.
func flowUser(from *models.User) flow.User {
	return flow.User{
		ID:        from.ID,
		Username:  from.Username,
		FirstName: from.FirstName,
	}
}
