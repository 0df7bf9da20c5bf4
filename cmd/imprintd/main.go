package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/bdanilov/imprintbot/internal/imprint/app"
	"github.com/bdanilov/imprintbot/internal/imprint/config"
	"github.com/bdanilov/imprintbot/internal/imprint/observability"
)

// Version is set via -ldflags at build time.
var Version = "dev"

func main() {
	cliApp := &cli.App{
		Name:    "imprintd",
		Usage:   "Telegram bot for building a shareable digital imprint",
		Version: Version,
		Commands: []*cli.Command{
			serveCmd(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the bot until interrupted",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "token", Usage: "Telegram bot access token", EnvVars: []string{"IMPRINT_BOT_TOKEN"}},
			&cli.StringFlag{Name: "bot-name", Usage: "Bot @username used in shareable links", EnvVars: []string{"IMPRINT_BOT_NAME"}},
			&cli.StringFlag{Name: "db", Usage: "Path to the sqlite database file", EnvVars: []string{"IMPRINT_DB_PATH"}},
			&cli.StringFlag{Name: "log-level", Usage: "Log level: debug|info|warn|error", EnvVars: []string{"IMPRINT_LOG_LEVEL"}},
			&cli.StringFlag{Name: "log-format", Usage: "Log format: text|json", EnvVars: []string{"IMPRINT_LOG_FORMAT"}},
			&cli.DurationFlag{Name: "capture-ttl", Usage: "Idle time before a capture flag is dropped", EnvVars: []string{"IMPRINT_CAPTURE_TTL"}},
			&cli.StringFlag{Name: "config", Usage: "Optional YAML config file", EnvVars: []string{"IMPRINT_CONFIG_FILE"}},
		},
		Action: func(c *cli.Context) error {
			cfg, err := buildConfig(c)
			if err != nil {
				return err
			}

			observability.Setup(cfg.LogLevel, cfg.LogFormat)

			bot, err := app.New(cfg)
			if err != nil {
				return err
			}
			defer bot.Stop()

			return bot.Run()
		},
	}
}

// buildConfig assembles configuration with flags/environment taking
// precedence over the optional YAML file, which takes precedence over the
// built-in defaults.
func buildConfig(c *cli.Context) (*config.Config, error) {
	cfg := &config.Config{
		BotToken:   c.String("token"),
		BotName:    c.String("bot-name"),
		DBPath:     c.String("db"),
		LogLevel:   c.String("log-level"),
		LogFormat:  c.String("log-format"),
		CaptureTTL: c.Duration("capture-ttl"),
	}

	if path := c.String("config"); path != "" {
		file, err := config.LoadFile(path)
		if err != nil {
			return nil, err
		}
		cfg.Merge(file)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
