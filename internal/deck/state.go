package deck

import "math/rand/v2"

// State is the complete deck state: which card, which side.
//
// Transitions are pure: each returns a new State and never modifies the
// receiver's Order slice, so a State captured before a command stays valid.
type State struct {
	Order    []Card
	Position int
	Flipped  bool
}

func newState(cards []Card) (State, error) {
	if len(cards) == 0 {
		return State{}, ErrEmptyDeck
	}
	if err := checkUniqueIDs(cards); err != nil {
		return State{}, err
	}
	return State{Order: append([]Card(nil), cards...)}, nil
}

func (s State) Len() int { return len(s.Order) }

func (s State) Current() (Card, error) {
	if len(s.Order) == 0 {
		return Card{}, ErrEmptyDeck
	}
	return s.Order[s.Position], nil
}

func (s State) Next() State {
	if len(s.Order) == 0 {
		return s
	}
	s.Position = (s.Position + 1) % len(s.Order)
	s.Flipped = false
	return s
}

func (s State) Previous() State {
	if len(s.Order) == 0 {
		return s
	}
	s.Position = (s.Position - 1 + len(s.Order)) % len(s.Order)
	s.Flipped = false
	return s
}

func (s State) Flip() State {
	s.Flipped = !s.Flipped
	return s
}

func (s State) JumpTo(index int) (State, error) {
	if index < 0 || index >= len(s.Order) {
		return s, &OutOfRangeError{Index: index, Len: len(s.Order)}
	}
	s.Position = index
	s.Flipped = false
	return s, nil
}

// Shuffle returns a uniformly random permutation of the current order
// (Fisher-Yates via rand.Shuffle). The identity permutation is a valid result.
func (s State) Shuffle(rng *rand.Rand) State {
	order := append([]Card(nil), s.Order...)
	swap := func(i, j int) { order[i], order[j] = order[j], order[i] }
	if rng != nil {
		rng.Shuffle(len(order), swap)
	} else {
		rand.Shuffle(len(order), swap)
	}
	return State{Order: order}
}

func (s State) Reset(cards []Card) (State, error) {
	next, err := newState(cards)
	if err != nil {
		return s, err
	}
	return next, nil
}

// Peek returns the card offset positions away from the current one,
// wrapping in both directions.
func (s State) Peek(offset int) Card {
	n := len(s.Order)
	if n == 0 {
		return Card{}
	}
	i := ((s.Position+offset)%n + n) % n
	return s.Order[i]
}

func (s State) clone() State {
	s.Order = append([]Card(nil), s.Order...)
	return s
}
