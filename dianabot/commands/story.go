package commands

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/dianabot/dianabot/dianabot"
	"github.com/dianabot/dianabot/dianabot/narrative"
	tgbot "github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
)

// Callback data prefixes
const (
	DecisionCallbackPrefix = "decision:"
	ChapterCallbackPrefix  = "chapter:"
)

// StoryHandler handles /historia: shows the fragment the user is currently
// positioned at, or points them at /capitulos if they have not started.
func StoryHandler(b *dianabot.Bot) tgbot.HandlerFunc {
	return func(ctx context.Context, client *tgbot.Bot, update *tgmodels.Update) {
		// Channel and anonymous posts carry no sender.
		if update.Message == nil || update.Message.From == nil {
			return
		}
		userID := update.Message.From.ID
		chatID := update.Message.Chat.ID

		if _, err := b.UserRepository.GetOrCreate(ctx, userID, update.Message.From.Username, update.Message.From.FirstName); err != nil {
			replyError(ctx, client, chatID, err)
			return
		}

		result, err := b.Processor.CurrentFragment(ctx, userID)
		if err != nil {
			replyError(ctx, client, chatID, err)
			return
		}
		if result == nil {
			sendText(ctx, client, chatID, "Aún no has empezado ninguna historia. Usa /capitulos para elegir una.")
			return
		}

		sendFragment(ctx, client, chatID, result)
	}
}

// DecisionCallbackHandler processes an inline-keyboard decision pick. The
// response latency is measured from the user's last interaction.
func DecisionCallbackHandler(b *dianabot.Bot) tgbot.HandlerFunc {
	return func(ctx context.Context, client *tgbot.Bot, update *tgmodels.Update) {
		callback := update.CallbackQuery
		userID := callback.From.ID

		msg := callback.Message.Message
		if msg == nil {
			return
		}
		chatID := msg.Chat.ID

		decisionID, err := strconv.ParseInt(strings.TrimPrefix(callback.Data, DecisionCallbackPrefix), 10, 64)
		if err != nil {
			answerCallback(ctx, client, callback.ID, "Decisión inválida")
			return
		}

		responseTime := measureResponseTime(ctx, b, userID)
		result, err := b.Processor.TakeDecision(ctx, userID, decisionID, responseTime)
		if err != nil {
			answerCallback(ctx, client, callback.ID, userFacingError(err))
			return
		}

		answerCallback(ctx, client, callback.ID, "")
		if result.GrantedBesitos > 0 {
			sendText(ctx, client, chatID, fmt.Sprintf("Has ganado %d besitos 💋", result.GrantedBesitos))
		}
		sendFragment(ctx, client, chatID, result)
		if result.ChapterCompleted {
			sendText(ctx, client, chatID, "Has llegado al final de este capítulo ✨ Usa /capitulos para seguir explorando.")
		}
	}
}

func measureResponseTime(ctx context.Context, b *dianabot.Bot, userID int64) *float64 {
	progress, err := b.ProgressRepository.Progress(ctx, userID)
	if err != nil || progress == nil {
		return nil
	}
	seconds := time.Since(progress.LastInteraction).Seconds()
	if seconds < 0 {
		return nil
	}
	return &seconds
}

// sendFragment renders a fragment as speaker-tagged HTML plus one inline
// button per active decision, with costs surfaced on the label.
func sendFragment(ctx context.Context, client *tgbot.Bot, chatID int64, result *narrative.Result) {
	fragment := result.Fragment

	var sb strings.Builder
	if fragment.Speaker != "" {
		sb.WriteString(fmt.Sprintf("<b>%s</b>\n\n", html.EscapeString(fragment.Speaker)))
	}
	sb.WriteString(fragment.Content)

	var rows [][]tgmodels.InlineKeyboardButton
	for _, d := range result.Decisions {
		label := d.Label
		if d.BesitosCost > 0 {
			label = fmt.Sprintf("%s (💋 %d)", d.Label, d.BesitosCost)
		}
		rows = append(rows, []tgmodels.InlineKeyboardButton{{
			Text:         label,
			CallbackData: fmt.Sprintf("%s%d", DecisionCallbackPrefix, d.ID),
		}})
	}

	params := &tgbot.SendMessageParams{
		ChatID:    chatID,
		Text:      sb.String(),
		ParseMode: tgmodels.ParseModeHTML,
	}
	if len(rows) > 0 {
		params.ReplyMarkup = &tgmodels.InlineKeyboardMarkup{InlineKeyboard: rows}
	}

	if _, err := client.SendMessage(ctx, params); err != nil {
		slog.Error("Failed to send fragment",
			slog.String("type", "cmd"),
			slog.String("fragment_key", fragment.FragmentKey),
			slog.Any("error", err))
	}
}

// userFacingError maps the engine's typed failures to short user messages.
func userFacingError(err error) string {
	var denied *narrative.AccessDeniedError
	switch {
	case errors.As(err, &denied):
		return denied.Message
	case narrative.IsInsufficientFunds(err):
		return "No tienes suficientes besitos 💔"
	case narrative.IsNotFound(err), narrative.IsBrokenGraph(err):
		return "Esa opción ya no está disponible"
	default:
		return "Algo salió mal, inténtalo de nuevo"
	}
}
