package handlers

import (
	"context"
	"log/slog"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/drigmma/ankety/internal/flow"
	"github.com/drigmma/ankety/internal/forms"
)

// Reply keyboard labels. The consent labels must stay recognizable by the
// flow engine's consent answer parsing.
const (
	helpButtonLabel = "ℹ️ Помощь"
	consentYesLabel = "✅ Да, согласен"
	consentNoLabel  = "❌ Нет, не согласен"
)

// mainMenuKeyboard builds the form selection keyboard: one button per form
// plus a help row.
func mainMenuKeyboard(catalog *forms.Catalog) models.ReplyMarkup {
	var rows [][]models.KeyboardButton
	for _, formID := range catalog.IDs() {
		form, ok := catalog.Get(formID)
		if !ok {
			continue
		}
		rows = append(rows, []models.KeyboardButton{{Text: form.Button}})
	}
	rows = append(rows, []models.KeyboardButton{{Text: helpButtonLabel}})

	return &models.ReplyKeyboardMarkup{
		Keyboard:       rows,
		ResizeKeyboard: true,
	}
}

// consentKeyboard builds the yes/no consent keyboard.
func consentKeyboard() models.ReplyMarkup {
	return &models.ReplyKeyboardMarkup{
		Keyboard: [][]models.KeyboardButton{
			{{Text: consentYesLabel}},
			{{Text: consentNoLabel}},
		},
		ResizeKeyboard: true,
	}
}

// replyMarkup maps the engine's abstract markup request onto a concrete
// Telegram reply keyboard.
func replyMarkup(deps HandlerDeps, markup flow.Markup) models.ReplyMarkup {
	switch markup {
	case flow.MarkupMainMenu:
		return mainMenuKeyboard(deps.Catalog)
	case flow.MarkupConsent:
		return consentKeyboard()
	case flow.MarkupRemove:
		return &models.ReplyKeyboardRemove{RemoveKeyboard: true}
	default:
		return nil
	}
}

// sendReplies delivers the engine's replies to the chat in order. A failed
// send is logged and the remaining replies are still attempted.
func sendReplies(ctx context.Context, b *tgbot.Bot, deps HandlerDeps, log *slog.Logger, chatID int64, replies []flow.Reply) {
	for _, reply := range replies {
		_, err := b.SendMessage(ctx, &tgbot.SendMessageParams{
			ChatID:      chatID,
			Text:        reply.Text,
			ParseMode:   models.ParseModeHTML,
			ReplyMarkup: replyMarkup(deps, reply.Markup),
		})
		if err != nil {
			log.ErrorContext(ctx, "Failed to send reply", "error", err, "chat_id", chatID)
		}
	}
}
