// Package commands provides command parsing and routing for the imprint bot.
package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/bdanilov/imprintbot/internal/imprint/telegram"
)

// ErrNotACommand is returned by Parse when the message is free text rather
// than a /command. Callers should use errors.Is to distinguish this
// expected case from real errors.
var ErrNotACommand = errors.New("not a command (missing prefix)")

// ErrUnknownCommand is returned by Route for a /command with no registered
// handler. The dispatcher ignores these silently.
var ErrUnknownCommand = errors.New("unknown command")

// Handler is a function that handles a command and returns the reply text.
type Handler func(ctx context.Context, msg *telegram.Message) (string, error)

// Router routes commands to handlers by exact command name.
type Router struct {
	handlers map[string]Handler
}

// NewRouter creates a command router.
func NewRouter() *Router {
	return &Router{handlers: make(map[string]Handler)}
}

// Register registers a handler for a command name (without the slash).
func (r *Router) Register(command string, handler Handler) {
	r.handlers[command] = handler
}

// Parse extracts the command name from a message. Commands are
// case-sensitive and take no arguments; a trailing @botname suffix (as
// sent in Telegram group chats) is stripped.
func (r *Router) Parse(text string) (string, error) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", ErrNotACommand
	}

	name := strings.Fields(strings.TrimPrefix(text, "/"))
	if len(name) == 0 {
		return "", ErrNotACommand
	}

	cmd, _, _ := strings.Cut(name[0], "@")
	if cmd == "" {
		return "", ErrNotACommand
	}
	return cmd, nil
}

// Route parses the message text and dispatches to the matching handler.
func (r *Router) Route(ctx context.Context, msg *telegram.Message) (string, error) {
	cmd, err := r.Parse(msg.Text)
	if err != nil {
		return "", err
	}

	handler, ok := r.handlers[cmd]
	if !ok {
		return "", ErrUnknownCommand
	}
	return handler(ctx, msg)
}
