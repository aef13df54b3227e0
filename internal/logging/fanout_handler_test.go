package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestNewFanoutHandlerCollapses(t *testing.T) {
	if _, ok := newFanoutHandler(nil, nil).(NoopHandler); !ok {
		t.Fatal("expected NoopHandler when every handler is nil")
	}
	var buf bytes.Buffer
	inner := slog.NewJSONHandler(&buf, nil)
	if h := newFanoutHandler(nil, inner, nil); h != inner {
		t.Fatalf("expected lone handler returned unwrapped, got %T", h)
	}
}

func TestFanoutHandlerRespectsEachLevel(t *testing.T) {
	var console, file bytes.Buffer
	h := newFanoutHandler(
		slog.NewTextHandler(&console, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&file, &slog.HandlerOptions{Level: slog.LevelDebug}),
	)
	if !h.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("expected debug enabled when any handler accepts it")
	}

	logger := slog.New(h).With(slog.String(FieldRunID, "run-1")).WithGroup("fetch")
	logger.Debug("cache miss", slog.String(FieldIMDbID, "tt1"))
	logger.Info("keywords added", slog.Int("count", 2))

	if strings.Contains(console.String(), "cache miss") {
		t.Fatalf("info handler received debug record: %q", console.String())
	}
	if !strings.Contains(console.String(), "fetch.count=2") || !strings.Contains(console.String(), "run_id=run-1") {
		t.Fatalf("unexpected console output: %q", console.String())
	}
	for _, want := range []string{`"msg":"cache miss"`, `"msg":"keywords added"`, `"run_id":"run-1"`, `"fetch":{"imdb_id":"tt1"}`} {
		if !strings.Contains(file.String(), want) {
			t.Fatalf("expected %s in file output, got %q", want, file.String())
		}
	}
}
