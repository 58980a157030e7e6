package ui

import "flashdeck/internal/render"

// Controller receives user commands. Each navigation call returns the card
// state after the command so the view can repaint without a round trip.
type Controller interface {
	OnNext() CardState
	OnPrevious() CardState
	OnFlip() CardState
	OnShuffle() CardState
	OnReset() CardState
	OnJump(index int) (CardState, error)
	OnQuit()
}

type View interface {
	Run() error
	Stop()
	SetController(Controller)
	SetCard(state CardState)
	SetTerms(terms []string)
	FlashStatus(msg string)
}

// CardState is everything the screen shows about the active card.
type CardState struct {
	DeckName string
	ID       int
	Term     string
	Category string
	Image    string
	Flipped  bool
	Doc      *render.Document

	Position int
	Total    int
	Shuffled bool
}

type LayoutMode int

const (
	LayoutWide LayoutMode = iota
	LayoutCompact
	LayoutTooSmall
)

func (m LayoutMode) String() string {
	switch m {
	case LayoutWide:
		return "wide"
	case LayoutCompact:
		return "compact"
	default:
		return "too-small"
	}
}
