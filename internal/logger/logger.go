// Package logger configures the process-wide slog logger: human-readable
// text on a terminal, JSON otherwise.
package logger

import (
	"log/slog"
	"os"

	"golang.org/x/term"
)

var level = new(slog.LevelVar)

// Setup installs the default handler. Call once at process start.
func Setup() {
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if term.IsTerminal(int(os.Stderr.Fd())) {
		h = slog.NewTextHandler(os.Stderr, opts)
	} else {
		h = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(h))
}

// SetVerbose toggles debug logging.
func SetVerbose(v bool) {
	if v {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}
}

// Debug logs at debug level with key-value pairs.
func Debug(msg string, args ...any) {
	slog.Debug(msg, args...)
}

// Info logs at info level with key-value pairs.
func Info(msg string, args ...any) {
	slog.Info(msg, args...)
}

// Error logs an error with key-value pairs.
func Error(msg string, err error, args ...any) {
	slog.Error(msg, append([]any{"err", err}, args...)...)
}
