// ABOUTME: Structured logging configuration using log/slog.
// ABOUTME: Provides Init() to configure the default logger with level and format.

package logger

import (
	"io"
	"log/slog"
	"strings"
)

// Options select the handler. Empty values fall back to info and text.
type Options struct {
	Level  string // debug, info, warn, error
	Format string // text, json
}

// New builds a logger writing to w. Command output goes to stdout, so CLI
// runs pass stderr here.
func New(w io.Writer, opts Options) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{
		Level: ParseLevel(opts.Level),
	}

	var handler slog.Handler
	if strings.ToLower(opts.Format) == "json" {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}
	return slog.New(handler)
}

// Init configures the default slog logger
func Init(w io.Writer, opts Options) {
	slog.SetDefault(New(w, opts))
}

// ParseLevel converts a string log level to slog.Level.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
