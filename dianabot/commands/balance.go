package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/dianabot/dianabot/dianabot"
	tgbot "github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
)

// BalanceHandler handles /besitos: shows the user's balance and VIP state.
func BalanceHandler(b *dianabot.Bot) tgbot.HandlerFunc {
	return func(ctx context.Context, client *tgbot.Bot, update *tgmodels.Update) {
		if update.Message == nil || update.Message.From == nil {
			return
		}
		chatID := update.Message.Chat.ID

		user, err := b.UserRepository.GetOrCreate(ctx, update.Message.From.ID, update.Message.From.Username, update.Message.From.FirstName)
		if err != nil {
			replyError(ctx, client, chatID, err)
			return
		}

		text := fmt.Sprintf("Tienes %d besitos 💋", user.Besitos)
		if user.HasActiveVIP(time.Now()) {
			text += fmt.Sprintf("\nTu suscripción VIP está activa hasta el %s 💎", user.VIPExpires.Format("02/01/2006"))
		}
		sendText(ctx, client, chatID, text)
	}
}
