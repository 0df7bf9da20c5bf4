// Package link composes shareable deep links for imprint tokens.
package link

import (
	"fmt"

	"github.com/bdanilov/imprintbot/internal/imprint/imprinterr"
)

// Generator builds t.me deep links from the configured bot username.
type Generator struct {
	botName string
}

// NewGenerator creates a Generator. The bot username must be configured —
// a link without it would point nowhere.
func NewGenerator(botName string) (*Generator, error) {
	if botName == "" {
		return nil, imprinterr.Configuration("bot name is not set (IMPRINT_BOT_NAME)")
	}
	return &Generator{botName: botName}, nil
}

// Make returns the deep link for a public imprint token. Pure string
// composition: no network or storage access.
func (g *Generator) Make(token string) string {
	return fmt.Sprintf("t.me/%s?start=%s", g.botName, token)
}
