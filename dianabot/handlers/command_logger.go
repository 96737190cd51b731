package handlers

import (
	"context"
	"log/slog"
	"time"

	tgbot "github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
)

const slowCommandThreshold = 2 * time.Second

// WrapWithLogging wraps a command or callback handler with start/finish
// logging and a slow-command warning.
func WrapWithLogging(name string, h tgbot.HandlerFunc) tgbot.HandlerFunc {
	return func(ctx context.Context, b *tgbot.Bot, update *tgmodels.Update) {
		start := time.Now()
		userID := updateUserID(update)

		slog.Info("Command started",
			slog.String("type", "cmd"),
			slog.String("name", name),
			slog.Int64("user_id", userID),
		)

		h(ctx, b, update)

		duration := time.Since(start)
		attrs := []any{
			slog.String("type", "cmd"),
			slog.String("name", name),
			slog.Int64("user_id", userID),
			slog.Duration("took", duration),
		}
		if duration > slowCommandThreshold {
			slog.Warn("Command executed slowly", attrs...)
		} else {
			slog.Info("Command completed", attrs...)
		}
	}
}

func updateUserID(update *tgmodels.Update) int64 {
	switch {
	case update.Message != nil && update.Message.From != nil:
		return update.Message.From.ID
	case update.CallbackQuery != nil:
		return update.CallbackQuery.From.ID
	}
	return 0
}
