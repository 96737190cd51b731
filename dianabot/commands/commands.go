// Package commands contains the Telegram command and callback handlers.
// Handlers are thin: they parse the update, call into the engine and render
// the result. All business rules live in narrative, economy and services.
package commands

import (
	"context"
	"log/slog"

	tgbot "github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
)

func sendText(ctx context.Context, client *tgbot.Bot, chatID int64, text string) {
	if _, err := client.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}); err != nil {
		slog.Error("Failed to send message",
			slog.String("type", "cmd"),
			slog.Int64("chat_id", chatID),
			slog.Any("error", err))
	}
}

func sendHTML(ctx context.Context, client *tgbot.Bot, chatID int64, text string) {
	if _, err := client.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: tgmodels.ParseModeHTML,
	}); err != nil {
		slog.Error("Failed to send message",
			slog.String("type", "cmd"),
			slog.Int64("chat_id", chatID),
			slog.Any("error", err))
	}
}

// replyError logs the failure and tells the user something went wrong,
// with typed engine errors mapped to their user-facing messages.
func replyError(ctx context.Context, client *tgbot.Bot, chatID int64, err error) {
	slog.Error("Command failed",
		slog.String("type", "cmd"),
		slog.Int64("chat_id", chatID),
		slog.Any("error", err))
	sendText(ctx, client, chatID, userFacingError(err))
}

func answerCallback(ctx context.Context, client *tgbot.Bot, callbackID string, text string) {
	if _, err := client.AnswerCallbackQuery(ctx, &tgbot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
	}); err != nil {
		slog.Error("Failed to answer callback",
			slog.String("type", "cmd"),
			slog.Any("error", err))
	}
}
