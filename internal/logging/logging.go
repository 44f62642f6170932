// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Init creates and sets the package-level default slog logger. Digest output
// (HTML or ANSI) owns stdout, so logs always go to stderr; json selects the
// JSON handler for log scrapers, text is for humans.
func Init(json bool, level slog.Level) {
	slog.SetDefault(slog.New(newHandler(os.Stderr, json, level)))
}

// New returns a logger writing to w without touching the process default.
func New(w io.Writer, json bool, level slog.Level) *slog.Logger {
	return slog.New(newHandler(w, json, level))
}

func newHandler(w io.Writer, json bool, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if json {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// ParseLevel converts a string ("debug", "info", "warn", "error") to
// slog.Level. Unknown strings default to LevelInfo.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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
