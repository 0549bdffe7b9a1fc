package logging

import (
	"io"
	"os"
	"strings"

	"log/slog"
)

// New creates a JSON slog.Logger on stderr using the provided level string.
// Unknown levels fall back to info.
func New(level string) *slog.Logger {
	return NewWithWriter(os.Stderr, level)
}

// NewWithWriter is New with an explicit destination. Useful for testing.
func NewWithWriter(w io.Writer, level string) *slog.Logger {
	l := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	}

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: l})
	return slog.New(handler)
}
