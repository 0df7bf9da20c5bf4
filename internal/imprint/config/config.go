// Package config holds the imprint bot's startup configuration.
//
// Configuration is assembled exactly once in main and passed into the
// components that need it — handlers never read the environment directly.
// Precedence is flags/environment over the optional YAML file over the
// built-in defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bdanilov/imprintbot/internal/imprint/imprinterr"
)

// DefaultCaptureTTL is how long an idle capture flag survives before the
// session tracker sweeps it. The original bot never expired flags; a bound
// keeps the session map from growing forever on abandoned conversations.
const DefaultCaptureTTL = 24 * time.Hour

// Config holds all startup configuration for the bot.
type Config struct {
	// BotToken is the Telegram bot access token. Required.
	BotToken string

	// BotName is the bot's public @username, used to compose
	// t.me/<BotName>?start=<token> deep links. Required for /get_link.
	BotName string

	// DBPath is the sqlite database file. Defaults to ./imprints.db.
	DBPath string

	// LogLevel is one of debug, info, warn, error. Defaults to info.
	LogLevel string

	// LogFormat is "text" or "json". Defaults to text.
	LogFormat string

	// CaptureTTL bounds how long an idle capture flag is kept.
	// Defaults to DefaultCaptureTTL.
	CaptureTTL time.Duration
}

// fileConfig is the YAML shape of Config. Durations are strings in the
// file ("2h", "30m") since yaml.v3 has no native time.Duration support.
type fileConfig struct {
	BotToken   string `yaml:"bot_token"`
	BotName    string `yaml:"bot_name"`
	DBPath     string `yaml:"db_path"`
	LogLevel   string `yaml:"log_level"`
	LogFormat  string `yaml:"log_format"`
	CaptureTTL string `yaml:"capture_ttl"`
}

// LoadFile reads a YAML config file. Values from the file only apply where
// the caller has not already set a value (see Merge).
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg := &Config{
		BotToken:  fc.BotToken,
		BotName:   fc.BotName,
		DBPath:    fc.DBPath,
		LogLevel:  fc.LogLevel,
		LogFormat: fc.LogFormat,
	}
	if fc.CaptureTTL != "" {
		ttl, err := time.ParseDuration(fc.CaptureTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse capture_ttl in %s: %w", path, err)
		}
		cfg.CaptureTTL = ttl
	}
	return cfg, nil
}

// Merge fills empty fields of c from file. Fields already set (from flags
// or environment) win over the file.
func (c *Config) Merge(file *Config) {
	if file == nil {
		return
	}
	if c.BotToken == "" {
		c.BotToken = file.BotToken
	}
	if c.BotName == "" {
		c.BotName = file.BotName
	}
	if c.DBPath == "" {
		c.DBPath = file.DBPath
	}
	if c.LogLevel == "" {
		c.LogLevel = file.LogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = file.LogFormat
	}
	if c.CaptureTTL == 0 {
		c.CaptureTTL = file.CaptureTTL
	}
}

// ApplyDefaults fills the remaining empty fields with built-in defaults.
func (c *Config) ApplyDefaults() {
	if c.DBPath == "" {
		c.DBPath = "./imprints.db"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
	if c.CaptureTTL == 0 {
		c.CaptureTTL = DefaultCaptureTTL
	}
}

// Validate checks that required settings are present.
func (c *Config) Validate() error {
	if c.BotToken == "" {
		return imprinterr.Configuration("bot token is not set (IMPRINT_BOT_TOKEN)")
	}
	if c.CaptureTTL < 0 {
		return imprinterr.Configuration("capture TTL must not be negative")
	}
	return nil
}
