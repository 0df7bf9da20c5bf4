// Package telegram wraps the Telegram Bot API client for the imprint bot.
package telegram

import (
	"context"
	"log/slog"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/bdanilov/imprintbot/internal/imprint/imprinterr"
)

// DefaultPollTimeout is the long-poll timeout for GetUpdates.
const DefaultPollTimeout = 30 * time.Second

// Config holds Telegram client configuration.
type Config struct {
	// Token is the bot access token from @BotFather.
	Token string
	// PollTimeout overrides the long-poll timeout. Zero means
	// DefaultPollTimeout.
	PollTimeout time.Duration
}

// Message is the transport-neutral view of an incoming text message that
// the command layer consumes.
type Message struct {
	ChatID     int64
	SenderID   int64
	SenderName string
	Text       string
}

// MessageHandler processes incoming messages.
type MessageHandler func(ctx context.Context, msg *Message)

// Client wraps the Telegram bot API.
type Client struct {
	api     *tgbotapi.BotAPI
	config  Config
	stopCh  chan struct{}
	handler MessageHandler
}

// New creates a Telegram client and verifies the token against the API.
func New(config Config) (*Client, error) {
	api, err := tgbotapi.NewBotAPI(config.Token)
	if err != nil {
		return nil, imprinterr.Transport("connect to Telegram", err)
	}

	if config.PollTimeout <= 0 {
		config.PollTimeout = DefaultPollTimeout
	}

	return &Client{
		api:    api,
		config: config,
		stopCh: make(chan struct{}),
	}, nil
}

// BotUserName returns the bot's own @username as reported by the API.
func (c *Client) BotUserName() string {
	return c.api.Self.UserName
}

// Start begins long-polling for updates in the background. Poll failures
// are retried with exponential back-off; without retries a transient API
// error would silently kill the poll goroutine and leave the bot deaf.
func (c *Client) Start(ctx context.Context, handler MessageHandler) error {
	c.handler = handler

	go func() {
		const (
			backoffMin = 2 * time.Second
			backoffMax = 5 * time.Minute
		)
		backoff := backoffMin
		offset := 0
		for {
			select {
			case <-c.stopCh:
				return
			default:
			}

			u := tgbotapi.NewUpdate(offset)
			u.Timeout = int(c.config.PollTimeout.Seconds())

			updates, err := c.api.GetUpdates(u)
			if err != nil {
				slog.Error("telegram poll failed; retrying", "err", err, "backoff", backoff)
				select {
				case <-c.stopCh:
					return
				case <-time.After(backoff):
				}
				backoff *= 2
				if backoff > backoffMax {
					backoff = backoffMax
				}
				continue
			}
			backoff = backoffMin

			for _, update := range updates {
				if update.UpdateID >= offset {
					offset = update.UpdateID + 1
				}
				c.handleUpdate(ctx, update)
			}
		}
	}()

	return nil
}

// Stop stops the poll loop.
func (c *Client) Stop() {
	close(c.stopCh)
}

// SendMessage sends a plain-text message to a chat.
func (c *Client) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := c.api.Send(msg); err != nil {
		return imprinterr.Transport("send message", err)
	}
	return nil
}

// handleUpdate filters one update down to a text message and hands it to
// the registered handler.
func (c *Client) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	m := update.Message
	if m == nil || m.Chat == nil || m.From == nil || m.Text == "" {
		return
	}
	// Ignore other bots, including ourselves.
	if m.From.IsBot {
		return
	}
	if c.handler == nil {
		return
	}

	c.handler(ctx, &Message{
		ChatID:     m.Chat.ID,
		SenderID:   m.From.ID,
		SenderName: senderName(m.From),
		Text:       m.Text,
	})
}

// senderName builds a display name the way Telegram clients render it:
// first plus last name, falling back to the @username.
func senderName(u *tgbotapi.User) string {
	name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if name == "" {
		name = u.UserName
	}
	return name
}
