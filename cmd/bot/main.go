// Package main contains the entrypoint for the survey bot application.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbot "github.com/go-telegram/bot"

	"github.com/drigmma/ankety/internal/bot"
	"github.com/drigmma/ankety/internal/bot/handlers"
	"github.com/drigmma/ankety/internal/bot/tasks"
	"github.com/drigmma/ankety/internal/broadcast"
	"github.com/drigmma/ankety/internal/config"
	"github.com/drigmma/ankety/internal/database"
	"github.com/drigmma/ankety/internal/flow"
	"github.com/drigmma/ankety/internal/forms"
	"github.com/drigmma/ankety/internal/logger"
	"github.com/drigmma/ankety/internal/sheets"
	"github.com/drigmma/ankety/internal/telegram"

	_ "modernc.org/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run initializes all application components (config, logger, database,
// sheets sink, flow engine, bot, scheduler), handles graceful shutdown,
// and returns an exit code.
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	catalog := forms.DefaultCatalog()
	log.Info("Form catalog loaded", "forms", len(catalog.IDs()))

	sink, err := sheets.NewClient(ctx, cfg.Sheets, log)
	if err != nil {
		log.Error("Failed to initialize Google Sheets sink", "error", err)
		return 1
	}

	// Reconcile every worksheet before accepting updates: the process must
	// not start against a spreadsheet it cannot write to.
	for _, formID := range catalog.IDs() {
		form, _ := catalog.Get(formID)
		if err := sink.EnsureSheet(ctx, form.Title, form.Headers()); err != nil {
			log.Error("Failed to reconcile worksheet", "form_id", formID, "error", err)
			return 1
		}
	}
	log.Info("Worksheets reconciled", "count", len(catalog.IDs()))

	engine := flow.NewEngine(log, store, catalog, sink, flow.NewMemorySessions(), cfg.Messages)

	sender := telegram.NewSender()
	dispatcher := broadcast.NewDispatcher(log, store, sender, cfg.Broadcast.SendDelay)

	hDeps := handlers.HandlerDeps{
		Logger:     log,
		Config:     cfg,
		Store:      store,
		Catalog:    catalog,
		Engine:     engine,
		Dispatcher: dispatcher,
	}
	tDeps := tasks.TaskDeps{
		Logger: log,
		Store:  store,
		Config: cfg,
	}

	botOpts := []tgbot.Option{
		tgbot.WithMiddlewares(logger.Middleware(log)),
		tgbot.WithDefaultHandler(handlers.NewMessageHandler(hDeps)),
	}
	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}
	sender.Bind(tg)

	me, err := tg.GetMe(ctx)
	if err != nil {
		log.Error("Failed to get bot info", "error", err)
		return 1
	}
	log.Info("Retrieved bot info", "bot_id", me.ID, "bot_username", me.Username)

	cmdHandlers := handlers.RegisterAllCommands(hDeps)
	if err := telegram.RegisterHandlers(tg, log, cmdHandlers); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return 1
	}

	sched := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps))
	app := bot.NewBot(log, cfg, db, store, tg, sched)

	log.Info("Starting bot...")
	runErr := app.Run(ctx)
	log.Info("Bot run loop finished. Initiating shutdown...")

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	time.Sleep(time.Second)
	return 0
}
