package dianabot

import (
	"github.com/dianabot/dianabot/dianabot/database"
	"github.com/dianabot/dianabot/dianabot/database/repositories"
	"github.com/dianabot/dianabot/dianabot/economy"
	"github.com/dianabot/dianabot/dianabot/narrative"
	"github.com/dianabot/dianabot/dianabot/services"
	tgbot "github.com/go-telegram/bot"
)

// Bot is the explicit service container: every collaborator is constructed
// once at startup and passed by reference. No lazy globals.
type Bot struct {
	Cfg     Config
	Version string
	Commit  string

	Client *tgbot.Bot
	DB     *database.DB

	GraphRepository    repositories.GraphRepository
	ProgressRepository repositories.ProgressRepository
	UserRepository     repositories.UserRepository

	Ledger        *economy.BesitosLedger
	Subscriptions *economy.SubscriptionManager

	Classifier *narrative.Classifier
	Evaluator  *narrative.Evaluator
	Processor  *narrative.Processor
	Validator  *narrative.Validator

	Importer       *services.StoryImporter
	FragmentSearch *services.FragmentSearchService
}

func New(cfg Config, version string, commit string) *Bot {
	return &Bot{
		Cfg:     cfg,
		Version: version,
		Commit:  commit,
	}
}

// SetupServices wires every service on top of an initialized DB, in
// dependency order.
func (b *Bot) SetupServices() {
	bunDB := b.DB.BunDB()

	b.GraphRepository = repositories.NewGraphRepository(bunDB)
	b.ProgressRepository = repositories.NewProgressRepository(bunDB)
	b.UserRepository = repositories.NewUserRepository(bunDB)

	b.Ledger = economy.NewBesitosLedger(b.UserRepository)
	b.Subscriptions = economy.NewSubscriptionManager(b.UserRepository)

	b.Classifier = narrative.NewClassifier(b.Cfg.Narrative.ClassifierConfig(), b.ProgressRepository)
	b.Evaluator = narrative.NewEvaluator(b.GraphRepository, b.ProgressRepository, b.Ledger, b.Subscriptions)
	b.Processor = narrative.NewProcessor(b.GraphRepository, b.ProgressRepository, b.Ledger, b.Evaluator, b.Classifier, b.DB)
	b.Validator = narrative.NewValidator(b.GraphRepository)

	b.Importer = services.NewStoryImporter(b.DB, b.GraphRepository)
	b.FragmentSearch = services.NewFragmentSearchService(b.GraphRepository)
}

// IsAdmin reports whether the Telegram user may run admin commands.
func (b *Bot) IsAdmin(telegramID int64) bool {
	for _, id := range b.Cfg.Bot.AdminIDs {
		if id == telegramID {
			return true
		}
	}
	return false
}
