package observability

import (
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"ERROR":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for input, want := range cases {
		if got := parseLevel(input); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestInitLogger(t *testing.T) {
	for _, format := range []string{"json", "text", ""} {
		logger := InitLogger(LogConfig{Level: "debug", Format: format})
		if logger == nil {
			t.Fatalf("InitLogger returned nil for format %q", format)
		}
		logger.Info("probe", "format", format)
	}
}

func TestInitLoggerSetsDefault(t *testing.T) {
	logger := InitLogger(LogConfig{Level: "info", Format: "json"})
	if logger.Handler() != slog.Default().Handler() {
		t.Error("InitLogger did not install the default logger")
	}
}
