package telemetry

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func decodeLines(t *testing.T, s string) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(s), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("bad json line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestJSONLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(&buf)
	l.SetClock(func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) })
	l.SetSession("abc")

	l.Info("deck.command", map[string]any{"command": "next", "position": 2})
	l.Error("deck.command_failed", map[string]any{"error": errors.New("boom")})

	entries := decodeLines(t, buf.String())
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	first := entries[0]
	if first["ts"] != "2024-05-01T12:00:00Z" || first["level"] != "info" || first["msg"] != "deck.command" {
		t.Fatalf("unexpected entry: %v", first)
	}
	if first["session"] != "abc" || first["command"] != "next" || first["position"] != float64(2) {
		t.Fatalf("unexpected fields: %v", first)
	}
	if entries[1]["error"] != "boom" || entries[1]["level"] != "error" {
		t.Fatalf("errors should be logged as strings: %v", entries[1])
	}
}

func TestJSONLoggerDebugGate(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(&buf)
	l.Debug("hidden", nil)
	if buf.Len() != 0 {
		t.Fatalf("debug should be off by default")
	}
	l.SetDebug(true)
	l.Debug("shown", nil)
	if got := decodeLines(t, buf.String()); len(got) != 1 || got[0]["level"] != "debug" {
		t.Fatalf("unexpected debug output: %v", got)
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *JSONLogger
	l.Info("x", nil)
	l.Debug("x", nil)
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := l.Writer().Write([]byte("x")); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestFileLoggerAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	for i := 0; i < 2; i++ {
		l, err := NewJSONLogger(path)
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		l.Info("start", nil)
		if err := l.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got := decodeLines(t, string(b)); len(got) != 2 {
		t.Fatalf("expected 2 entries after reopen, got %d", len(got))
	}
}
