package commands

import (
	"context"
	"testing"

	"github.com/dianabot/dianabot/dianabot"
	tgbot "github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
)

func Test_handlers_ignoreUpdatesWithoutSender(t *testing.T) {
	// Channel posts and anonymous admins arrive with no From; the handlers
	// must drop those updates before touching any service. The container is
	// left unwired so any service call would panic.
	b := dianabot.New(dianabot.Config{}, "test", "none")

	handlers := map[string]tgbot.HandlerFunc{
		"historia":  StoryHandler(b),
		"capitulos": ChaptersHandler(b),
		"besitos":   BalanceHandler(b),
	}
	updates := []*tgmodels.Update{
		{},
		{Message: &tgmodels.Message{}},
	}

	for name, handler := range handlers {
		for _, update := range updates {
			func() {
				defer func() {
					if r := recover(); r != nil {
						t.Errorf("/%s panicked on an update without sender: %v", name, r)
					}
				}()
				handler(context.Background(), nil, update)
			}()
		}
	}
}
