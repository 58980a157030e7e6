package app

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"flashdeck/internal/deck"
	"flashdeck/internal/ui"
)

type fakeView struct {
	ctrl  ui.Controller
	cards []ui.CardState
	terms [][]string
	flash []string
}

func (f *fakeView) Run() error                    { return nil }
func (f *fakeView) Stop()                         {}
func (f *fakeView) SetController(c ui.Controller) { f.ctrl = c }
func (f *fakeView) SetCard(st ui.CardState)       { f.cards = append(f.cards, st) }
func (f *fakeView) SetTerms(terms []string)       { f.terms = append(f.terms, terms) }
func (f *fakeView) FlashStatus(msg string)        { f.flash = append(f.flash, msg) }

func newTestApp(t *testing.T, mutate func(*Config)) (*App, *fakeView) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.LogPath = filepath.Join(t.TempDir(), "events.jsonl")
	if mutate != nil {
		mutate(&cfg)
	}
	view := &fakeView{}
	a, err := newApp(cfg, view)
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	t.Cleanup(a.Close)
	return a, view
}

func TestNewWiresControllerAndBuiltinDeck(t *testing.T) {
	a, view := newTestApp(t, nil)
	if view.ctrl != a {
		t.Fatalf("expected app to register as view controller")
	}
	if a.Deck().DeckID != "analytic-geometry" || a.ctrl.Len() != 7 {
		t.Fatalf("unexpected deck %q with %d cards", a.Deck().DeckID, a.ctrl.Len())
	}
	if a.SessionID() == "" {
		t.Fatalf("expected session id")
	}
}

func TestRunPushesInitialState(t *testing.T) {
	a, view := newTestApp(t, nil)
	if err := a.Run(t.Context()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(view.cards) != 1 || len(view.terms) != 1 {
		t.Fatalf("expected one card and one term push, got %d/%d", len(view.cards), len(view.terms))
	}
	st := view.cards[0]
	if st.Position != 0 || st.Total != 7 || st.Term != "Vector Magnitude" || st.Flipped {
		t.Fatalf("unexpected initial state %+v", st)
	}
	if st.Doc == nil || len(st.Doc.Blocks) == 0 {
		t.Fatalf("expected rendered document")
	}
	if view.terms[0][1] != "Unit Vector" {
		t.Fatalf("unexpected terms %v", view.terms[0])
	}
}

func TestNavigationCommands(t *testing.T) {
	a, _ := newTestApp(t, nil)

	st := a.OnNext()
	if st.Position != 1 || st.Flipped {
		t.Fatalf("next: %+v", st)
	}
	st = a.OnFlip()
	if !st.Flipped || st.Position != 1 {
		t.Fatalf("flip: %+v", st)
	}
	st = a.OnPrevious()
	if st.Position != 0 || st.Flipped {
		t.Fatalf("previous: %+v", st)
	}
	st = a.OnPrevious()
	if st.Position != 6 {
		t.Fatalf("previous should wrap, got %d", st.Position)
	}
	st, err := a.OnJump(3)
	if err != nil || st.Position != 3 {
		t.Fatalf("jump: %+v %v", st, err)
	}
}

func TestJumpOutOfRangeKeepsState(t *testing.T) {
	a, _ := newTestApp(t, nil)
	a.OnNext()
	st, err := a.OnJump(42)
	if !errors.Is(err, deck.ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	if st.Position != 1 {
		t.Fatalf("state should be unchanged, got %d", st.Position)
	}
	a.Close()
	b, err := os.ReadFile(a.cfg.LogPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(b), "deck.command_failed") {
		t.Fatalf("expected failure in log:\n%s", b)
	}
}

func TestShuffleAndResetUpdateTermsAndFlag(t *testing.T) {
	a, view := newTestApp(t, func(c *Config) { c.Seed = 7 })
	st := a.OnShuffle()
	if !st.Shuffled || st.Position != 0 || st.Flipped {
		t.Fatalf("shuffle: %+v", st)
	}
	if len(view.terms) != 1 || len(view.terms[0]) != 7 {
		t.Fatalf("expected shuffled terms push, got %v", view.terms)
	}
	st = a.OnReset()
	if st.Shuffled || st.Term != "Vector Magnitude" {
		t.Fatalf("reset: %+v", st)
	}
	if got := view.terms[len(view.terms)-1]; got[0] != "Vector Magnitude" {
		t.Fatalf("expected original order after reset, got %v", got)
	}
}

func TestShuffleOnStartIsDeterministicWithSeed(t *testing.T) {
	first, _ := newTestApp(t, func(c *Config) { c.Shuffle = true; c.Seed = 11 })
	second, _ := newTestApp(t, func(c *Config) { c.Shuffle = true; c.Seed = 11 })
	if strings.Join(first.terms(), ",") != strings.Join(second.terms(), ",") {
		t.Fatalf("same seed should give same order")
	}
	if !first.cardState().Shuffled {
		t.Fatalf("expected shuffled flag")
	}
}

func TestPrefetchFillsCacheWithNeighbours(t *testing.T) {
	a, _ := newTestApp(t, func(c *Config) { c.UI.Prerender = 1 })
	a.OnJump(3)
	a.WaitPrefetch()
	order := a.ctrl.Order()
	for _, i := range []int{2, 4} {
		if _, ok := a.cache.Get(order[i].Content); !ok {
			t.Fatalf("expected card %d to be prerendered", i)
		}
	}
	if _, ok := a.cache.Get(order[5].Content); ok {
		t.Fatalf("card 5 is outside the prerender window")
	}
}

func TestPrefetchDisabled(t *testing.T) {
	a, _ := newTestApp(t, func(c *Config) { c.UI.Prerender = 0 })
	a.OnNext()
	a.WaitPrefetch()
	if n := a.cache.Len(); n != 1 {
		t.Fatalf("expected only the current card cached, got %d", n)
	}
}

func TestRenderCardDoesNotMoveDeck(t *testing.T) {
	a, _ := newTestApp(t, nil)
	c, doc, err := a.RenderCard(2)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if c.Term == "" || doc == nil || len(doc.Blocks) == 0 {
		t.Fatalf("unexpected render result %+v", c)
	}
	if a.ctrl.Position() != 0 {
		t.Fatalf("render should not move the deck")
	}
	if _, _, err := a.RenderCard(-1); !errors.Is(err, deck.ErrOutOfRange) {
		t.Fatalf("expected out of range, got %v", err)
	}
}

func TestBuiltinDeckTypesetsCleanly(t *testing.T) {
	a, _ := newTestApp(t, nil)
	if bad := a.Fallbacks(); len(bad) != 0 {
		t.Fatalf("builtin deck has math fallbacks: %v", bad)
	}
}

func TestLoadsDeckFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "d.yaml")
	src := "deck_id: tiny\nname: Tiny\ncards:\n  - term: A\n    content: first\n  - term: B\n    content: $x^$\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	a, _ := newTestApp(t, func(c *Config) { c.DeckPath = path })
	if a.ctrl.Len() != 2 {
		t.Fatalf("expected 2 cards, got %d", a.ctrl.Len())
	}
	bad := a.Fallbacks()
	if len(bad[2]) != 1 {
		t.Fatalf("expected one fallback on card 2, got %v", bad)
	}
}

func TestNewRejectsMissingDeck(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DeckPath = filepath.Join(t.TempDir(), "missing.yaml")
	if _, err := newApp(cfg, &fakeView{}); err == nil {
		t.Fatalf("expected error for missing deck")
	}
}
