// Package app wires the imprint bot together and owns its run loop.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/bdanilov/imprintbot/internal/imprint/commands"
	"github.com/bdanilov/imprintbot/internal/imprint/config"
	"github.com/bdanilov/imprintbot/internal/imprint/link"
	"github.com/bdanilov/imprintbot/internal/imprint/session"
	"github.com/bdanilov/imprintbot/internal/imprint/store"
	"github.com/bdanilov/imprintbot/internal/imprint/telegram"
)

// App is the assembled imprint bot.
type App struct {
	config   *config.Config
	store    *store.Store
	tracker  *session.Tracker
	telegram *telegram.Client
	router   *commands.Router
	handlers *commands.Handlers
}

// New builds the application from configuration: opens the database (which
// applies migrations), connects to Telegram, and registers the command
// handlers.
func New(cfg *config.Config) (*App, error) {
	slog.Info("opening database", "path", cfg.DBPath)
	st, err := store.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	tg, err := telegram.New(telegram.Config{Token: cfg.BotToken})
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to initialize Telegram client: %w", err)
	}
	slog.Info("connected to Telegram", "bot", tg.BotUserName())

	// Prefer the configured bot name; fall back to what the API reports.
	botName := cfg.BotName
	if botName == "" {
		botName = tg.BotUserName()
	}
	links, err := link.NewGenerator(botName)
	if err != nil {
		st.Close()
		return nil, err
	}

	tracker := session.NewTracker(cfg.CaptureTTL)
	handlers := commands.NewHandlers(st, tracker, links)

	router := commands.NewRouter()
	router.Register("start", handlers.HandleStart)
	router.Register("add_memory", handlers.HandleAddMemory)
	router.Register("view_memories", handlers.HandleViewMemories)
	router.Register("get_link", handlers.HandleGetLink)
	router.Register("done", handlers.HandleDone)
	router.Register("help", handlers.HandleHelp)

	return &App{
		config:   cfg,
		store:    st,
		tracker:  tracker,
		telegram: tg,
		router:   router,
		handlers: handlers,
	}, nil
}

// Run starts polling and blocks until SIGINT/SIGTERM.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go a.tracker.Run(ctx)

	slog.Info("starting Telegram polling")
	if err := a.telegram.Start(ctx, a.handleMessage); err != nil {
		return fmt.Errorf("failed to start Telegram client: %w", err)
	}

	slog.Info("imprint bot is running; press Ctrl+C to stop")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	slog.Info("shutting down")
	return nil
}

// Stop stops the transport and closes the database.
func (a *App) Stop() {
	slog.Info("stopping Telegram client")
	a.telegram.Stop()

	slog.Info("closing database")
	a.store.Close()
}

// handleMessage routes one incoming message. Commands go through the
// router; free text goes to the capture path. Failures are logged, never
// surfaced to the user — the only user-visible error text is the /get_link
// apology, which the handler produces as a normal reply.
func (a *App) handleMessage(ctx context.Context, msg *telegram.Message) {
	response, err := a.router.Route(ctx, msg)
	switch {
	case errors.Is(err, commands.ErrNotACommand):
		response, err = a.handlers.HandleFreeText(ctx, msg)
		if err != nil {
			slog.Error("failed to handle message", "chat", msg.ChatID, "err", err)
			return
		}
	case errors.Is(err, commands.ErrUnknownCommand):
		// Unrecognized commands are ignored, matching Telegram's own
		// behavior for unregistered commands.
		return
	case err != nil:
		slog.Error("command failed", "chat", msg.ChatID, "err", err)
		return
	}

	if response == "" {
		return
	}
	if err := a.telegram.SendMessage(msg.ChatID, response); err != nil {
		slog.Error("failed to send response", "chat", msg.ChatID, "err", err)
	}
}
