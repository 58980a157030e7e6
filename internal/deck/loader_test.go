package deck

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuiltinDeckLoadsExpectedCards(t *testing.T) {
	d := Builtin()
	if d.DeckID != "analytic-geometry" {
		t.Fatalf("unexpected deck id %q", d.DeckID)
	}
	if len(d.Cards) != 7 {
		t.Fatalf("expected 7 cards, got %d", len(d.Cards))
	}
	want := []string{"Vector Magnitude", "Unit Vector", "Distance Formula in 3D"}
	for i, term := range want {
		if d.Cards[i].Term != term {
			t.Fatalf("card %d term %q, want %q", i, d.Cards[i].Term, term)
		}
	}
	if !strings.Contains(d.Cards[0].Content, `$$||\vec{v}|| = \sqrt{x_1^2 + y_1^2 + z_1^2}$$`) {
		t.Fatalf("builtin content lost its backslashes: %q", d.Cards[0].Content)
	}
	if d.Cards[4].Category != "Quadric Surfaces" {
		t.Fatalf("unexpected category %q", d.Cards[4].Category)
	}
}

func TestParseAppliesDefaults(t *testing.T) {
	d, err := Parse([]byte(`
deck_id: tiny-deck
name: Tiny
cards:
  - term: " A "
    content: "first"
  - term: B
    content: "second"
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.Kind != DeckKind || d.SchemaVersion != SupportedSchemaVersion {
		t.Fatalf("defaults not applied: %+v", d)
	}
	if d.Cards[0].ID != 1 || d.Cards[1].ID != 2 {
		t.Fatalf("expected positional ids, got %d %d", d.Cards[0].ID, d.Cards[1].ID)
	}
	if d.Cards[0].Term != "A" {
		t.Fatalf("expected trimmed term, got %q", d.Cards[0].Term)
	}
}

func TestParseAcceptsJSON(t *testing.T) {
	d, err := Parse([]byte(`{"deck_id":"json-deck","name":"J","cards":[{"id":4,"term":"t","content":"$x$"}]}`))
	if err != nil {
		t.Fatalf("parse json: %v", err)
	}
	if d.Cards[0].ID != 4 || d.Cards[0].Content != "$x$" {
		t.Fatalf("unexpected card %+v", d.Cards[0])
	}
}

func TestParseRejectsInvalidDecks(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{name: "empty", doc: "deck_id: abc\nname: x\ncards: []\n", want: "empty deck"},
		{name: "missing name", doc: "deck_id: abc\ncards:\n  - term: t\n    content: c\n", want: "name is required"},
		{name: "missing term", doc: "deck_id: abc\nname: x\ncards:\n  - content: c\n", want: "term is required"},
		{name: "bad id", doc: "deck_id: A!\nname: x\ncards:\n  - term: t\n    content: c\n", want: "invalid deck_id"},
		{name: "wrong kind", doc: "kind: pack\ndeck_id: abc\nname: x\ncards:\n  - term: t\n    content: c\n", want: "kind must be"},
		{name: "future schema", doc: "schema_version: 9\ndeck_id: abc\nname: x\ncards:\n  - term: t\n    content: c\n", want: "unsupported deck schema_version"},
		{name: "duplicate ids", doc: "deck_id: abc\nname: x\ncards:\n  - id: 1\n    term: t\n    content: c\n  - id: 1\n    term: u\n    content: d\n", want: "duplicate card id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestEmptyDeckErrorIsSentinel(t *testing.T) {
	_, err := Parse([]byte("deck_id: abc\nname: x\ncards: []\n"))
	if !errors.Is(err, ErrEmptyDeck) {
		t.Fatalf("expected ErrEmptyDeck in chain, got %v", err)
	}
}

func TestLoadDecksScansDirectory(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("b.yaml", "deck_id: zeta-deck\nname: Z\ncards:\n  - term: t\n    content: c\n")
	write("a.yml", "deck_id: alpha-deck\nname: A\ncards:\n  - term: t\n    content: c\n")
	write("notes.txt", "ignored")
	write("other.yaml", "kind: settings\ntheme: dark\n")

	loader := NewLoader()
	decks, err := loader.LoadDecks(context.Background(), dir)
	if err != nil {
		t.Fatalf("load decks: %v", err)
	}
	if len(decks) != 2 {
		t.Fatalf("expected 2 decks, got %d", len(decks))
	}
	if decks[0].DeckID != "alpha-deck" || decks[1].DeckID != "zeta-deck" {
		t.Fatalf("decks not sorted by id: %s, %s", decks[0].DeckID, decks[1].DeckID)
	}
	if decks[0].Path != filepath.Join(dir, "a.yml") {
		t.Fatalf("unexpected path %q", decks[0].Path)
	}

	found, err := loader.FindDeck(decks, "zeta-deck")
	if err != nil || found.Name != "Z" {
		t.Fatalf("find deck: %+v %v", found, err)
	}
	if _, err := loader.FindDeck(decks, "missing"); err == nil {
		t.Fatalf("expected not found error")
	}
}

func TestLoadDecksRejectsDuplicateDeckIDs(t *testing.T) {
	dir := t.TempDir()
	body := []byte("deck_id: same-deck\nname: A\ncards:\n  - term: t\n    content: c\n")
	for _, name := range []string{"one.yaml", "two.yaml"} {
		if err := os.WriteFile(filepath.Join(dir, name), body, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := NewLoader().LoadDecks(context.Background(), dir); err == nil || !strings.Contains(err.Error(), "duplicate deck_id") {
		t.Fatalf("expected duplicate deck_id error, got %v", err)
	}
}

func TestLoadFileReportsPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("deck_id: [\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := NewLoader().LoadFile(path)
	if err == nil || !strings.Contains(err.Error(), path) {
		t.Fatalf("expected error mentioning %s, got %v", path, err)
	}
}
