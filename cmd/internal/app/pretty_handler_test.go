package app

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestPrettyHandlerPlainOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(newPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}, false))

	log.Info("http.request", "method", "GET", "path", "/healthz", "status", 200)

	out := buf.String()
	for _, want := range []string{"[INFO]", "http.request", "method=GET", "path=/healthz", "status=200"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output %q missing %q", out, want)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no ANSI escapes in plain output: %q", out)
	}
}

func TestPrettyHandlerColorizesStatus(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(newPrettyHandler(&buf, nil, true))

	log.Error("http.request", "status", 500)

	out := buf.String()
	if !strings.Contains(out, ansiRed+"500"+ansiReset) {
		t.Fatalf("expected red status in %q", out)
	}
}

func TestPrettyHandlerQuotesValuesWithSpaces(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(newPrettyHandler(&buf, nil, false))

	log.Info("server.start", "note", "two words")

	if !strings.Contains(buf.String(), `note="two words"`) {
		t.Fatalf("expected quoted value in %q", buf.String())
	}
}

func TestPrettyHandlerRespectsLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := newPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}, false)

	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("info should be disabled at warn level")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("error should be enabled at warn level")
	}
}

func TestPrettyHandlerFlattensGroups(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(newPrettyHandler(&buf, nil, false)).WithGroup("db")

	log.Info("db.ready", "conns", 4)

	if !strings.Contains(buf.String(), "db.conns=4") {
		t.Fatalf("expected grouped key in %q", buf.String())
	}
}
