package observability

import (
	"log/slog"
	"os"
	"strings"
)

// LogConfig selects the handler level and output format.
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json or text
}

// InitLogger builds a structured logger on stdout and installs it as the
// process default. Unknown formats fall back to text.
func InitLogger(cfg LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func parseLevel(level string) slog.Level {
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
