package deck

import (
	"fmt"
	"math/rand/v2"
	"sync"
)

// CommandKind enumerates the complete command surface of a Controller.
type CommandKind int

const (
	CmdPrevious CommandKind = iota
	CmdNext
	CmdFlip
	CmdJump
	CmdShuffle
	CmdReset
)

func (k CommandKind) String() string {
	switch k {
	case CmdPrevious:
		return "previous"
	case CmdNext:
		return "next"
	case CmdFlip:
		return "flip"
	case CmdJump:
		return "jump"
	case CmdShuffle:
		return "shuffle"
	case CmdReset:
		return "reset"
	default:
		return fmt.Sprintf("command(%d)", int(k))
	}
}

// Command is a queued input event. Index is used by CmdJump, Cards by CmdReset.
type Command struct {
	Kind  CommandKind
	Index int
	Cards []Card
}

// Controller owns the single live State. Every command either applies fully
// or returns an error and leaves the state untouched.
type Controller struct {
	mu         sync.Mutex
	state      State
	rng        *rand.Rand
	generation uint64
}

type Option func(*Controller)

// WithRand makes shuffles deterministic.
func WithRand(rng *rand.Rand) Option {
	return func(c *Controller) { c.rng = rng }
}

// WithSeed is WithRand over a PCG source seeded with seed.
func WithSeed(seed uint64) Option {
	return WithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

func New(cards []Card, opts ...Option) (*Controller, error) {
	st, err := newState(cards)
	if err != nil {
		return nil, err
	}
	c := &Controller{state: st}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Controller) Next() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = c.state.Next()
}

func (c *Controller) Previous() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = c.state.Previous()
}

func (c *Controller) Flip() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = c.state.Flip()
}

func (c *Controller) JumpTo(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	next, err := c.state.JumpTo(index)
	if err != nil {
		return err
	}
	c.state = next
	return nil
}

func (c *Controller) Shuffle() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = c.state.Shuffle(c.rng)
	c.generation++
}

// Reset replaces the order with cards verbatim.
func (c *Controller) Reset(cards []Card) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	next, err := c.state.Reset(cards)
	if err != nil {
		return err
	}
	c.state = next
	c.generation++
	return nil
}

func (c *Controller) Dispatch(cmd Command) error {
	switch cmd.Kind {
	case CmdPrevious:
		c.Previous()
	case CmdNext:
		c.Next()
	case CmdFlip:
		c.Flip()
	case CmdJump:
		return c.JumpTo(cmd.Index)
	case CmdShuffle:
		c.Shuffle()
	case CmdReset:
		return c.Reset(cmd.Cards)
	default:
		return fmt.Errorf("deck: unknown command %v", cmd.Kind)
	}
	return nil
}

func (c *Controller) Current() (Card, error) {
	if c == nil {
		return Card{}, ErrEmptyDeck
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Current()
}

func (c *Controller) Flipped() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Flipped
}

func (c *Controller) Position() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Position
}

func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Len()
}

// Order returns a copy of the current card order.
func (c *Controller) Order() []Card {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Card(nil), c.state.Order...)
}

// State returns a copy of the live state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

func (c *Controller) Peek(offset int) Card {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Peek(offset)
}

// Generation increments every time Order is replaced (shuffle or reset).
func (c *Controller) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}
