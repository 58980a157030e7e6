package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeDeck(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const tinyDeck = `deck_id: tiny
name: Tiny Deck
cards:
  - term: Pythagoras
    category: Geometry
    content: "$$a^2+b^2=c^2$$"
  - term: Broken
    content: "see $x^$ here"
`

func TestRenderBuiltinCard(t *testing.T) {
	out, err := run(t, "render", "--card", "0", "--plain", "--width", "60")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"[1/7] Vector Magnitude (Linear Algebra)", "magnitude", "√"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("plain output should have no escapes")
	}
}

func TestRenderDeckFile(t *testing.T) {
	path := writeDeck(t, t.TempDir(), "tiny.yaml", tinyDeck)
	out, err := run(t, "render", "--deck", path, "--plain")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"[1/2] Pythagoras", "a² + b² = c²", "[2/2] Broken", "see $x^$ here"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRenderRejectsBadIndex(t *testing.T) {
	if _, err := run(t, "render", "--card", "99"); err == nil {
		t.Fatalf("expected out of range error")
	}
}

func TestListDecks(t *testing.T) {
	dir := t.TempDir()
	writeDeck(t, dir, "tiny.yaml", tinyDeck)
	writeDeck(t, dir, "notes.txt", "ignored")
	out, err := run(t, "list", dir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "tiny") || !strings.Contains(out, "Tiny Deck") || !strings.Contains(out, "tiny.yaml") {
		t.Fatalf("unexpected list output:\n%s", out)
	}
}

func TestListEmptyDir(t *testing.T) {
	out, err := run(t, "list", t.TempDir())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "no decks") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestCheckReportsFallbacksAndFailures(t *testing.T) {
	dir := t.TempDir()
	good := writeDeck(t, dir, "tiny.yaml", tinyDeck)
	bad := writeDeck(t, dir, "bad.yaml", "deck_id: bad\nname: Bad\ncards: []\n")

	out, err := run(t, "check", good)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	if !strings.Contains(out, "WARN") || !strings.Contains(out, "card 2") || !strings.Contains(out, "ok") {
		t.Fatalf("unexpected check output:\n%s", out)
	}

	if _, err := run(t, "check", "--strict", good); err == nil {
		t.Fatalf("strict check should fail on fallbacks")
	}

	out, err = run(t, "check", good, bad)
	if err == nil {
		t.Fatalf("expected failure for invalid deck")
	}
	if !strings.Contains(out, "FAIL "+bad) {
		t.Fatalf("expected FAIL line:\n%s", out)
	}
}
