package config

import (
	"log/slog"
	"os"
)

// NewLogger builds the process logger. level overrides the env default when
// it parses; an invalid level is ignored here since Load already rejects it.
func NewLogger(env, level string) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		AddSource: env == "development",
	}

	if env == "production" {
		opts.Level = slog.LevelInfo
	} else {
		opts.Level = slog.LevelDebug
	}
	if lvl, err := ParseLevel(level); err == nil && lvl != nil {
		opts.Level = *lvl
	}

	if env == "production" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
