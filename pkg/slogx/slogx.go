package slogx

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

type Config struct {
	Service string
	Version string
	Env     string    // e.g. "dev", "prod"
	Level   string    // e.g. "debug", "info", "warn", "error"
	Format  string    // e.g. "json", "text"
	Writer  io.Writer // defaults to os.Stderr so library logs never pollute stdout
}

// New returns a configured slog.Logger instance.
func New(cfg Config) *slog.Logger {
	var handler slog.Handler

	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}

	level := parseLevel(cfg.Level)
	opts := &slog.HandlerOptions{
		AddSource: cfg.Env == "dev", // Add source info in dev mode
		Level:     level,
	}

	switch strings.ToLower(cfg.Format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler).With(
		"service", cfg.Service,
		"version", cfg.Version,
		"env", cfg.Env,
	)

	return logger
}

// parseLevel maps a string to slog.Level.
func parseLevel(lvl string) slog.Level {
	switch strings.ToLower(lvl) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
