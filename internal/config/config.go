package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	RawLogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// RedisURL selects the Redis session store; empty keeps sessions in memory.
	RedisURL   string        `env:"REDIS_URL"`
	StoryFile  string        `env:"STORY_FILE" envDefault:"data/story.json"`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	// ConsoleLogFile receives console logs, which cannot go to the terminal.
	ConsoleLogFile string `env:"CONSOLE_LOG_FILE"`

	// LogLevel is parsed from RawLogLevel.
	LogLevel slog.Level
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.LogLevel = parseLogLevel(cfg.RawLogLevel)

	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive, got %s", cfg.SessionTTL)
	}
	if cfg.StoryFile == "" {
		return nil, fmt.Errorf("STORY_FILE must not be empty")
	}
	return &cfg, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
