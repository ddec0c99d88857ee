package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Setup builds a structured logger writing to w.
// format is "json" or "text"; level is one of debug, info, warn, error.
func Setup(w io.Writer, level, format string) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler)
}

// SetupDefault installs the logger as the process-wide default and returns it.
func SetupDefault(w io.Writer, level, format string) *slog.Logger {
	l := Setup(w, level, format)
	slog.SetDefault(l)
	return l
}

// ParseLevel falls back to info for unknown names.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
