package commands

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/dianabot/dianabot/dianabot"
	tgbot "github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
)

// ChaptersHandler handles /capitulos: lists the active chapters as inline
// buttons, VIP ones marked.
func ChaptersHandler(b *dianabot.Bot) tgbot.HandlerFunc {
	return func(ctx context.Context, client *tgbot.Bot, update *tgmodels.Update) {
		if update.Message == nil || update.Message.From == nil {
			return
		}
		chatID := update.Message.Chat.ID

		if _, err := b.UserRepository.GetOrCreate(ctx, update.Message.From.ID, update.Message.From.Username, update.Message.From.FirstName); err != nil {
			replyError(ctx, client, chatID, err)
			return
		}

		chapters, err := b.GraphRepository.ActiveChapters(ctx)
		if err != nil {
			replyError(ctx, client, chatID, err)
			return
		}
		if len(chapters) == 0 {
			sendText(ctx, client, chatID, "Todavía no hay capítulos disponibles. Vuelve pronto 💋")
			return
		}

		var sb strings.Builder
		sb.WriteString("<b>Capítulos disponibles</b>\n\n")
		var rows [][]tgmodels.InlineKeyboardButton
		for _, ch := range chapters {
			label := ch.Name
			if ch.IsVIP() {
				label = "💎 " + label
			}
			if ch.Description != "" {
				sb.WriteString(fmt.Sprintf("<b>%s</b> — %s\n", html.EscapeString(label), html.EscapeString(ch.Description)))
			}
			rows = append(rows, []tgmodels.InlineKeyboardButton{{
				Text:         label,
				CallbackData: fmt.Sprintf("%s%d", ChapterCallbackPrefix, ch.ID),
			}})
		}
		sb.WriteString("\nElige por dónde quieres continuar:")

		if _, err := client.SendMessage(ctx, &tgbot.SendMessageParams{
			ChatID:      chatID,
			Text:        sb.String(),
			ParseMode:   tgmodels.ParseModeHTML,
			ReplyMarkup: &tgmodels.InlineKeyboardMarkup{InlineKeyboard: rows},
		}); err != nil {
			replyError(ctx, client, chatID, err)
		}
	}
}

// ChapterCallbackHandler starts a chapter picked from the /capitulos keyboard.
func ChapterCallbackHandler(b *dianabot.Bot) tgbot.HandlerFunc {
	return func(ctx context.Context, client *tgbot.Bot, update *tgmodels.Update) {
		callback := update.CallbackQuery
		userID := callback.From.ID

		msg := callback.Message.Message
		if msg == nil {
			return
		}
		chatID := msg.Chat.ID

		chapterID, err := strconv.ParseInt(strings.TrimPrefix(callback.Data, ChapterCallbackPrefix), 10, 64)
		if err != nil {
			answerCallback(ctx, client, callback.ID, "Capítulo inválido")
			return
		}

		result, err := b.Processor.StartChapter(ctx, userID, chapterID)
		if err != nil {
			answerCallback(ctx, client, callback.ID, userFacingError(err))
			return
		}

		answerCallback(ctx, client, callback.ID, "")
		sendFragment(ctx, client, chatID, result)
	}
}
