package deck

import (
	"errors"
	"fmt"
)

// Sentinel errors for the deck package.
// Use errors.Is to check: errors.Is(err, deck.ErrOutOfRange)
var (
	ErrEmptyDeck   = errors.New("deck: empty deck")
	ErrOutOfRange  = errors.New("deck: index out of range")
	ErrDuplicateID = errors.New("deck: duplicate card id")
)

// OutOfRangeError reports a jump to an index outside [0, Len).
type OutOfRangeError struct {
	Index int
	Len   int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("deck: index %d out of range [0, %d)", e.Index, e.Len)
}

func (e *OutOfRangeError) Is(target error) bool {
	return target == ErrOutOfRange
}
