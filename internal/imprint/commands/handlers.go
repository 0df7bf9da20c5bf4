package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bdanilov/imprintbot/internal/imprint/link"
	"github.com/bdanilov/imprintbot/internal/imprint/session"
	"github.com/bdanilov/imprintbot/internal/imprint/store"
	"github.com/bdanilov/imprintbot/internal/imprint/telegram"
)

const commandList = `/add_memory - Save a new memory or thought
/view_memories - Show your saved memories
/get_link - Get the link to your imprint
/done - Finish saving memories
/help - Show this message`

// Handlers holds all command handlers and their dependencies.
type Handlers struct {
	store   *store.Store
	tracker *session.Tracker
	links   *link.Generator
}

// NewHandlers creates a Handlers instance.
func NewHandlers(s *store.Store, t *session.Tracker, l *link.Generator) *Handlers {
	return &Handlers{store: s, tracker: t, links: l}
}

// HandleStart resolves or creates the user's imprint and replies with the
// welcome message.
func (h *Handlers) HandleStart(ctx context.Context, msg *telegram.Message) (string, error) {
	if _, _, err := h.store.ResolveOrCreate(ctx, msg.SenderID, msg.SenderName); err != nil {
		return "", fmt.Errorf("failed to resolve user: %w", err)
	}

	return "Welcome to the Imprint bot!\n\n" +
		"Here you can build a digital imprint of yourself by saving your " +
		"thoughts, interests and knowledge.\n\n" +
		"Commands:\n" + commandList, nil
}

// HandleAddMemory turns capture mode on and prompts for content. Capture
// stays on until /done, so several messages in a row are each saved.
func (h *Handlers) HandleAddMemory(ctx context.Context, msg *telegram.Message) (string, error) {
	h.tracker.Begin(msg.ChatID)
	return "Send me the text, links or anything else you want to keep in your imprint.", nil
}

// HandleViewMemories renders the five most recent memories, newest first.
func (h *Handlers) HandleViewMemories(ctx context.Context, msg *telegram.Message) (string, error) {
	memories, err := h.store.RecentMemories(ctx, msg.SenderID, store.DefaultRecentLimit)
	if err != nil {
		return "", fmt.Errorf("failed to list memories: %w", err)
	}

	if len(memories) == 0 {
		return "You don't have any saved memories yet. Use /add_memory to add your first one!", nil
	}

	var b strings.Builder
	b.WriteString("Your latest memories:\n\n")
	for _, m := range memories {
		fmt.Fprintf(&b, "📝 %s\n%s\n\n", m.CreatedAt.Format("2006-01-02 15:04"), m.Content)
	}
	return b.String(), nil
}

// HandleGetLink replies with the shareable deep link for the user's
// imprint. A missing user row should never happen (/start always creates
// one) but is handled with an apology instead of silence.
func (h *Handlers) HandleGetLink(ctx context.Context, msg *telegram.Message) (string, error) {
	token, err := h.store.GetImprintID(ctx, msg.SenderID)
	if errors.Is(err, store.ErrUserNotFound) {
		return "Something went wrong. Please start over with /start.", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get imprint id: %w", err)
	}

	return fmt.Sprintf("Here is the link to your imprint:\n%s\n\n"+
		"Anyone with this link can talk to the bot and get answers based on "+
		"what you have saved.", h.links.Make(token)), nil
}

// HandleDone turns capture mode off.
func (h *Handlers) HandleDone(ctx context.Context, msg *telegram.Message) (string, error) {
	h.tracker.End(msg.ChatID)
	return "Done saving memories. Use /view_memories to look through them, " +
		"or /add_memory to add something else.", nil
}

// HandleHelp lists the available commands.
func (h *Handlers) HandleHelp(ctx context.Context, msg *telegram.Message) (string, error) {
	return "Available commands:\n\n/start - Start working with the bot\n" + commandList, nil
}

// HandleFreeText saves a non-command message as a memory when the chat is
// in capture mode. It returns an empty reply when capture is off — such
// messages are ignored silently. The capture flag is deliberately left on
// so consecutive messages each become their own memory.
func (h *Handlers) HandleFreeText(ctx context.Context, msg *telegram.Message) (string, error) {
	if !h.tracker.Active(msg.ChatID) {
		return "", nil
	}

	// The memories table has a foreign key on users, and in a group chat the
	// sender may not be the user who started capture. Resolving here keeps
	// the insert valid for whoever is talking.
	if _, _, err := h.store.ResolveOrCreate(ctx, msg.SenderID, msg.SenderName); err != nil {
		return "", fmt.Errorf("failed to resolve user: %w", err)
	}

	if err := h.store.AddMemory(ctx, msg.SenderID, msg.Text, store.KindText, time.Now()); err != nil {
		return "", fmt.Errorf("failed to save memory: %w", err)
	}

	return "Saved! Keep sharing, or use /done when you're finished.", nil
}
