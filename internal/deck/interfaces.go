package deck

import "context"

type Loader interface {
	LoadDecks(ctx context.Context, root string) ([]Deck, error)
	LoadFile(path string) (Deck, error)
	FindDeck(decks []Deck, deckID string) (Deck, error)
}

var _ Loader = (*FSLoader)(nil)
