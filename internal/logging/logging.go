package logging

import (
	"io"
	"log/slog"
	"strings"
)

// Options selects the level and encoding of the process logger.
type Options struct {
	Level  string
	Format string
}

// New builds a slog logger writing to w. Unknown levels fall back to info.
func New(w io.Writer, opt Options) *slog.Logger {
	hopts := &slog.HandlerOptions{Level: parseLogLevel(opt.Level)}
	var h slog.Handler
	if strings.EqualFold(opt.Format, "json") {
		h = slog.NewJSONHandler(w, hopts)
	} else {
		h = slog.NewTextHandler(w, hopts)
	}
	return slog.New(h)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
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
