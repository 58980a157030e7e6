package deck

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed builtin.yaml
var builtinYAML []byte

type FSLoader struct{}

func NewLoader() *FSLoader { return &FSLoader{} }

// LoadDecks reads every *.yaml, *.yml and *.json deck directly under root.
// Files whose kind is not "deck" are skipped.
func (l *FSLoader) LoadDecks(ctx context.Context, root string) ([]Deck, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	decks := make([]Deck, 0)
	seen := map[string]string{}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || !isDeckFile(entry.Name()) {
			continue
		}
		path := filepath.Join(root, entry.Name())
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if !declaresDeck(b) {
			continue
		}
		d, err := Parse(b)
		if err != nil {
			return nil, fmt.Errorf("load deck %s: %w", path, err)
		}
		if prev, ok := seen[d.DeckID]; ok {
			return nil, fmt.Errorf("duplicate deck_id %q in %s and %s", d.DeckID, prev, path)
		}
		seen[d.DeckID] = path
		d.Path = path
		decks = append(decks, d)
	}

	sort.Slice(decks, func(i, j int) bool { return decks[i].DeckID < decks[j].DeckID })
	return decks, nil
}

func (l *FSLoader) LoadFile(path string) (Deck, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Deck{}, err
	}
	d, err := Parse(b)
	if err != nil {
		return Deck{}, fmt.Errorf("load deck %s: %w", path, err)
	}
	d.Path = path
	return d, nil
}

func (l *FSLoader) FindDeck(decks []Deck, deckID string) (Deck, error) {
	for _, d := range decks {
		if d.DeckID == deckID {
			return d, nil
		}
	}
	return Deck{}, fmt.Errorf("deck %q not found", deckID)
}

// Parse decodes and validates a deck document. JSON is accepted as well,
// being a subset of YAML.
func Parse(b []byte) (Deck, error) {
	var d Deck
	if err := yaml.Unmarshal(b, &d); err != nil {
		return d, fmt.Errorf("parse: %w", err)
	}
	applyDeckDefaults(&d)
	if err := d.Validate(); err != nil {
		return d, fmt.Errorf("validate: %w", err)
	}
	return d, nil
}

// Builtin returns the sample deck compiled into the binary.
func Builtin() Deck {
	d, err := Parse(builtinYAML)
	if err != nil {
		panic(fmt.Sprintf("deck: builtin deck is invalid: %v", err))
	}
	d.Path = "builtin"
	return d
}

func applyDeckDefaults(d *Deck) {
	if d.Kind == "" {
		d.Kind = DeckKind
	}
	if d.SchemaVersion == 0 {
		d.SchemaVersion = SupportedSchemaVersion
	}
	for i := range d.Cards {
		c := &d.Cards[i]
		if c.ID == 0 {
			c.ID = i + 1
		}
		c.Term = strings.TrimSpace(c.Term)
		c.Category = strings.TrimSpace(c.Category)
		c.Content = strings.TrimRight(c.Content, "\n")
	}
}

func isDeckFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

func declaresDeck(b []byte) bool {
	var head struct {
		Kind string `yaml:"kind"`
	}
	if err := yaml.Unmarshal(b, &head); err != nil {
		// Let Parse report the syntax error.
		return true
	}
	return head.Kind == "" || head.Kind == DeckKind
}
