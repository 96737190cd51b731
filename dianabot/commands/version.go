package commands

import (
	"context"
	"fmt"

	"github.com/dianabot/dianabot/dianabot"
	tgbot "github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
)

// VersionHandler handles /version.
func VersionHandler(b *dianabot.Bot) tgbot.HandlerFunc {
	return func(ctx context.Context, client *tgbot.Bot, update *tgmodels.Update) {
		if update.Message == nil {
			return
		}
		sendText(ctx, client, update.Message.Chat.ID,
			fmt.Sprintf("DianaBot %s (%s)", b.Version, b.Commit))
	}
}
