package commands

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/dianabot/dianabot/dianabot"
	"github.com/dianabot/dianabot/dianabot/narrative"
	"github.com/dianabot/dianabot/dianabot/services"
	tgbot "github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
)

const searchResultLimit = 10

// requireAdmin gates a handler on the configured admin list.
func requireAdmin(b *dianabot.Bot, h tgbot.HandlerFunc) tgbot.HandlerFunc {
	return func(ctx context.Context, client *tgbot.Bot, update *tgmodels.Update) {
		if update.Message == nil || update.Message.From == nil {
			return
		}
		if !b.IsAdmin(update.Message.From.ID) {
			sendText(ctx, client, update.Message.Chat.ID, "Este comando es solo para administradores")
			return
		}
		h(ctx, client, update)
	}
}

// ValidateHandler handles /validar [chapter_id]: runs the graph validator and
// renders its report.
func ValidateHandler(b *dianabot.Bot) tgbot.HandlerFunc {
	return requireAdmin(b, func(ctx context.Context, client *tgbot.Bot, update *tgmodels.Update) {
		chatID := update.Message.Chat.ID
		args := commandArgs(update.Message.Text)

		var report *narrative.Report
		var err error
		if args == "" {
			report, err = b.Validator.ValidateGraph(ctx)
		} else {
			chapterID, perr := strconv.ParseInt(args, 10, 64)
			if perr != nil {
				sendText(ctx, client, chatID, "Uso: /validar [id de capítulo]")
				return
			}
			report, err = b.Validator.ValidateChapter(ctx, chapterID)
		}
		if err != nil {
			replyError(ctx, client, chatID, err)
			return
		}

		sendHTML(ctx, client, chatID, renderReport(report))
	})
}

func renderReport(report *narrative.Report) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<b>Validación del grafo narrativo</b>\n%d capítulos, %d fragmentos escaneados en %s\n\n",
		report.ScannedChapters, report.ScannedFragments, report.Took.Round(time.Millisecond)))

	if report.IsValid() && report.Warnings == 0 {
		sb.WriteString("✅ Sin problemas detectados")
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("❌ %d errores, ⚠️ %d advertencias\n\n", report.Errors, report.Warnings))
	for _, issue := range report.Issues {
		marker := "⚠️"
		if issue.Severity == narrative.SeverityError {
			marker = "❌"
		}
		sb.WriteString(fmt.Sprintf("%s <b>%s</b>", marker, issue.Code))
		if issue.FragmentKey != "" {
			sb.WriteString(fmt.Sprintf(" <code>%s</code>", html.EscapeString(issue.FragmentKey)))
		}
		sb.WriteString(fmt.Sprintf("\n%s\n", html.EscapeString(issue.Detail)))
	}
	return sb.String()
}

// ImportHandler handles /importar [update|skip] {json}: bulk-loads an
// authoring payload. The optional first argument resolves every fragment_key
// conflict the same way; without it, conflicts stop the import and get listed.
func ImportHandler(b *dianabot.Bot) tgbot.HandlerFunc {
	return requireAdmin(b, func(ctx context.Context, client *tgbot.Bot, update *tgmodels.Update) {
		chatID := update.Message.Chat.ID
		args := commandArgs(update.Message.Text)

		var resolution services.Resolution
		switch {
		case strings.HasPrefix(args, "update "):
			resolution = services.ResolutionUpdate
			args = strings.TrimSpace(strings.TrimPrefix(args, "update "))
		case strings.HasPrefix(args, "skip "):
			resolution = services.ResolutionSkip
			args = strings.TrimSpace(strings.TrimPrefix(args, "skip "))
		}
		if args == "" {
			sendText(ctx, client, chatID, "Uso: /importar [update|skip] {json del capítulo}")
			return
		}

		payload, err := b.Importer.Decode([]byte(args))
		if err != nil {
			var verr *narrative.ValidationError
			if errors.As(err, &verr) {
				sendText(ctx, client, chatID, fmt.Sprintf("Payload inválido: %s: %s", verr.Field, verr.Reason))
				return
			}
			replyError(ctx, client, chatID, err)
			return
		}

		resolutions := make(map[string]services.Resolution)
		if resolution != "" {
			for _, f := range payload.Fragments {
				resolutions[f.FragmentKey] = resolution
			}
		}

		report, err := b.Importer.Import(ctx, payload, resolutions)
		if errors.Is(err, services.ErrUnresolvedConflicts) {
			sendText(ctx, client, chatID, fmt.Sprintf(
				"Conflictos sin resolver (%s). Repite con /importar update … o /importar skip …",
				strings.Join(report.Conflicts, ", ")))
			return
		}
		if err != nil {
			replyError(ctx, client, chatID, err)
			return
		}

		sendText(ctx, client, chatID, fmt.Sprintf(
			"Importado el capítulo %q: %d creados, %d actualizados, %d omitidos",
			report.ChapterSlug, report.CreatedFragments, report.UpdatedFragments, report.SkippedFragments))
	})
}

// SearchHandler handles /buscar <texto>: fuzzy search over fragment keys and
// titles for authoring workflows.
func SearchHandler(b *dianabot.Bot) tgbot.HandlerFunc {
	return requireAdmin(b, func(ctx context.Context, client *tgbot.Bot, update *tgmodels.Update) {
		chatID := update.Message.Chat.ID
		query := commandArgs(update.Message.Text)
		if query == "" {
			sendText(ctx, client, chatID, "Uso: /buscar <texto>")
			return
		}

		fragments, err := b.FragmentSearch.Search(ctx, query, searchResultLimit)
		if err != nil {
			replyError(ctx, client, chatID, err)
			return
		}
		if len(fragments) == 0 {
			sendText(ctx, client, chatID, "Sin resultados")
			return
		}

		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("<b>Resultados para %q</b>\n\n", html.EscapeString(query)))
		for _, f := range fragments {
			sb.WriteString(fmt.Sprintf("<code>%s</code> — %s\n", html.EscapeString(f.FragmentKey), html.EscapeString(f.Title)))
		}
		sendHTML(ctx, client, chatID, sb.String())
	})
}

// GrantVIPHandler handles /vip <telegram_id> <días>: activates a subscription.
func GrantVIPHandler(b *dianabot.Bot) tgbot.HandlerFunc {
	return requireAdmin(b, func(ctx context.Context, client *tgbot.Bot, update *tgmodels.Update) {
		chatID := update.Message.Chat.ID
		fields := strings.Fields(commandArgs(update.Message.Text))
		if len(fields) != 2 {
			sendText(ctx, client, chatID, "Uso: /vip <telegram_id> <días>")
			return
		}

		targetID, err1 := strconv.ParseInt(fields[0], 10, 64)
		days, err2 := strconv.Atoi(fields[1])
		if err1 != nil || err2 != nil || days <= 0 {
			sendText(ctx, client, chatID, "Uso: /vip <telegram_id> <días>")
			return
		}

		if err := b.Subscriptions.GrantVIP(ctx, targetID, time.Duration(days)*24*time.Hour); err != nil {
			replyError(ctx, client, chatID, err)
			return
		}
		sendText(ctx, client, chatID, fmt.Sprintf("VIP activado para %d durante %d días 💎", targetID, days))
	})
}

// commandArgs strips the leading /command token from a message.
func commandArgs(text string) string {
	_, args, _ := strings.Cut(strings.TrimSpace(text), " ")
	return strings.TrimSpace(args)
}
