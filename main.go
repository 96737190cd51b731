package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dianabot/dianabot/dianabot"
	"github.com/dianabot/dianabot/dianabot/commands"
	"github.com/dianabot/dianabot/dianabot/database"
	"github.com/dianabot/dianabot/dianabot/handlers"
	"github.com/dianabot/dianabot/dianabot/logger"
	"github.com/dianabot/dianabot/dianabot/services"
	tgbot "github.com/go-telegram/bot"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	cfg, err := dianabot.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}

	slog.SetDefault(slog.New(logger.NewHandler(cfg.Log.Level)))

	slog.Info("Starting DianaBot",
		slog.String("version", version),
		slog.String("commit", commit))

	slog.Info("Initializing database connection...")
	dbStartTime := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := database.New(ctx, cfg.DB)
	if err != nil {
		slog.Error("Database connection failed",
			slog.String("error", err.Error()),
			slog.Duration("attempted_for", time.Since(dbStartTime)))
		os.Exit(-1)
	}
	defer db.Close()

	if err := db.InitializeSchema(ctx); err != nil {
		slog.Error("Failed to initialize database schema",
			slog.String("error", err.Error()))
		os.Exit(-1)
	}
	slog.Info("Database ready",
		slog.String("database", cfg.DB.Database),
		slog.Duration("took", time.Since(dbStartTime)))

	b := dianabot.New(*cfg, version, commit)
	b.DB = db
	b.SetupServices()

	if cfg.Bot.SeedDemo {
		if err := services.SeedDemoStory(ctx, b.Importer); err != nil {
			slog.Error("Failed to seed demo story", slog.Any("error", err))
			os.Exit(-1)
		}
		slog.Info("Demo story seeded")
	}

	client, err := tgbot.New(cfg.Bot.Token)
	if err != nil {
		slog.Error("Failed to create Telegram client",
			slog.String("type", "sys"),
			slog.Any("error", err))
		os.Exit(-1)
	}
	b.Client = client

	// Commands
	client.RegisterHandler(tgbot.HandlerTypeMessageText, "/historia", tgbot.MatchTypePrefix,
		handlers.WrapWithLogging("historia", commands.StoryHandler(b)))
	client.RegisterHandler(tgbot.HandlerTypeMessageText, "/capitulos", tgbot.MatchTypePrefix,
		handlers.WrapWithLogging("capitulos", commands.ChaptersHandler(b)))
	client.RegisterHandler(tgbot.HandlerTypeMessageText, "/besitos", tgbot.MatchTypePrefix,
		handlers.WrapWithLogging("besitos", commands.BalanceHandler(b)))
	client.RegisterHandler(tgbot.HandlerTypeMessageText, "/version", tgbot.MatchTypePrefix,
		handlers.WrapWithLogging("version", commands.VersionHandler(b)))

	// Admin commands
	client.RegisterHandler(tgbot.HandlerTypeMessageText, "/validar", tgbot.MatchTypePrefix,
		handlers.WrapWithLogging("validar", commands.ValidateHandler(b)))
	client.RegisterHandler(tgbot.HandlerTypeMessageText, "/importar", tgbot.MatchTypePrefix,
		handlers.WrapWithLogging("importar", commands.ImportHandler(b)))
	client.RegisterHandler(tgbot.HandlerTypeMessageText, "/buscar", tgbot.MatchTypePrefix,
		handlers.WrapWithLogging("buscar", commands.SearchHandler(b)))
	client.RegisterHandler(tgbot.HandlerTypeMessageText, "/vip", tgbot.MatchTypePrefix,
		handlers.WrapWithLogging("vip", commands.GrantVIPHandler(b)))

	// Inline keyboard callbacks
	client.RegisterHandler(tgbot.HandlerTypeCallbackQueryData, commands.DecisionCallbackPrefix, tgbot.MatchTypePrefix,
		handlers.WrapWithLogging("decision", commands.DecisionCallbackHandler(b)))
	client.RegisterHandler(tgbot.HandlerTypeCallbackQueryData, commands.ChapterCallbackPrefix, tgbot.MatchTypePrefix,
		handlers.WrapWithLogging("chapter", commands.ChapterCallbackHandler(b)))

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("Bot is running. Press CTRL-C to exit.")
	client.Start(runCtx)
	slog.Info("Shutting down bot...")
}
