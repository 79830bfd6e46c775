// Package logging configures the process-wide slog logger. Output always goes
// to stderr because stdout carries the MCP stdio transport.
package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/h0rv/linbridge/internal/config"
)

// New builds a logger writing to w in the given format.
func New(w io.Writer, level slog.Level, format string) *slog.Logger {
	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: level}

	if format == config.FormatJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// Configure sets up the default logger from cfg and returns it.
func Configure(cfg config.Config) *slog.Logger {
	logger := New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	slog.Debug("Logger configured",
		"level", cfg.LogLevel.String(),
		"format", cfg.LogFormat)

	return logger
}
