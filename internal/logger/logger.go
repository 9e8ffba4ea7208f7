package logger

import (
	"log/slog"
	"os"
	"strings"
)

// New creates a preconfigured slog.Logger. The level defaults to info and can
// be lowered with LOG_LEVEL=debug for poll-by-poll tracing.
func New() *slog.Logger {
	level := slog.LevelInfo
	if v, ok := os.LookupEnv("LOG_LEVEL"); ok {
		switch strings.ToLower(v) {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}
