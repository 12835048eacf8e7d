package app

import (
	"context"
	"log/slog"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	for name, tc := range map[string]struct {
		in   string
		want slog.Level
	}{
		"debug":          {in: "debug", want: slog.LevelDebug},
		"uppercase":      {in: "INFO", want: slog.LevelInfo},
		"warn alias":     {in: "warning", want: slog.LevelWarn},
		"padded":         {in: "  error  ", want: slog.LevelError},
		"unknown value":  {in: "loud", want: slog.LevelInfo},
		"empty defaults": {in: "", want: slog.LevelInfo},
	} {
		t.Run(name, func(t *testing.T) {
			if got := parseLogLevel(tc.in); got != tc.want {
				t.Fatalf("parseLogLevel(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestNewLoggerSelectsHandler(t *testing.T) {
	if _, ok := NewLogger("info", "pretty").Handler().(*prettyHandler); !ok {
		t.Fatalf("pretty format should select the console handler")
	}
	if _, ok := NewLogger("info", "json").Handler().(*slog.JSONHandler); !ok {
		t.Fatalf("json format should select the JSON handler")
	}
	if _, ok := NewLogger("info", "").Handler().(*slog.JSONHandler); !ok {
		t.Fatalf("unset format should fall back to JSON")
	}
}

func TestNewLoggerHonorsLevel(t *testing.T) {
	log := NewLogger("warn", "json")
	ctx := context.Background()

	if log.Enabled(ctx, slog.LevelInfo) {
		t.Fatalf("info records should be dropped at warn level")
	}
	if !log.Enabled(ctx, slog.LevelWarn) {
		t.Fatalf("warn records should pass at warn level")
	}
}
