package deck

import (
	"errors"
	"sort"
	"testing"
)

func cardsWithIDs(ids ...int) []Card {
	cards := make([]Card, 0, len(ids))
	for _, id := range ids {
		cards = append(cards, Card{ID: id, Term: "term", Content: "content"})
	}
	return cards
}

func ids(cards []Card) []int {
	out := make([]int, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.ID)
	}
	return out
}

func mustNew(t *testing.T, cards []Card, opts ...Option) *Controller {
	t.Helper()
	c, err := New(cards, opts...)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	return c
}

func TestNewRejectsEmptyDeck(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrEmptyDeck) {
		t.Fatalf("expected ErrEmptyDeck, got %v", err)
	}
	if _, err := New([]Card{}); !errors.Is(err, ErrEmptyDeck) {
		t.Fatalf("expected ErrEmptyDeck for empty slice, got %v", err)
	}
}

func TestNewRejectsDuplicateIDs(t *testing.T) {
	if _, err := New(cardsWithIDs(1, 2, 1)); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
}

func TestNewCopiesInput(t *testing.T) {
	cards := cardsWithIDs(1, 2, 3)
	c := mustNew(t, cards)
	cards[0].ID = 99
	cur, _ := c.Current()
	if cur.ID != 1 {
		t.Fatalf("controller aliased caller slice: current id %d", cur.ID)
	}
}

func TestNextIsCyclic(t *testing.T) {
	for n := 1; n <= 6; n++ {
		all := make([]int, n)
		for i := range all {
			all[i] = i + 1
		}
		for start := 0; start < n; start++ {
			c := mustNew(t, cardsWithIDs(all...))
			if err := c.JumpTo(start); err != nil {
				t.Fatalf("jump: %v", err)
			}
			for i := 0; i < n; i++ {
				c.Next()
			}
			if got := c.Position(); got != start {
				t.Fatalf("n=%d start=%d: position after n nexts = %d", n, start, got)
			}
		}
	}
}

func TestPreviousInvertsNext(t *testing.T) {
	for n := 1; n <= 5; n++ {
		all := make([]int, n)
		for i := range all {
			all[i] = i + 10
		}
		for start := 0; start < n; start++ {
			c := mustNew(t, cardsWithIDs(all...))
			_ = c.JumpTo(start)
			c.Flip()
			before := c.State()
			c.Next()
			c.Previous()
			after := c.State()
			if after.Position != before.Position {
				t.Fatalf("n=%d start=%d: position %d, want %d", n, start, after.Position, before.Position)
			}
			if got, want := ids(after.Order), ids(before.Order); !equalInts(got, want) {
				t.Fatalf("order changed: %v -> %v", want, got)
			}
			if after.Flipped {
				t.Fatalf("expected navigation to clear flip")
			}
		}
	}
}

func TestPreviousWrapsFromZero(t *testing.T) {
	c := mustNew(t, cardsWithIDs(1, 2, 3))
	c.Previous()
	if got := c.Position(); got != 2 {
		t.Fatalf("expected wrap to 2, got %d", got)
	}
}

func TestFlipIsInvolution(t *testing.T) {
	c := mustNew(t, cardsWithIDs(1, 2, 3))
	c.Next()
	before := c.State()
	c.Flip()
	if !c.Flipped() {
		t.Fatalf("expected flipped after one flip")
	}
	c.Flip()
	after := c.State()
	if after.Flipped != before.Flipped || after.Position != before.Position {
		t.Fatalf("flip twice changed state: %+v -> %+v", before, after)
	}
	if !equalInts(ids(after.Order), ids(before.Order)) {
		t.Fatalf("flip changed order")
	}
}

func TestSingleCardNextClearsFlip(t *testing.T) {
	c := mustNew(t, cardsWithIDs(7))
	c.Flip()
	c.Next()
	if c.Position() != 0 || c.Flipped() {
		t.Fatalf("expected position 0 and unflipped, got %d %v", c.Position(), c.Flipped())
	}
}

func TestJumpTo(t *testing.T) {
	c := mustNew(t, cardsWithIDs(1, 2, 3, 4))
	c.Flip()
	if err := c.JumpTo(3); err != nil {
		t.Fatalf("jump: %v", err)
	}
	if c.Position() != 3 || c.Flipped() {
		t.Fatalf("expected position 3 unflipped, got %d %v", c.Position(), c.Flipped())
	}

	c.Flip()
	before := c.State()
	for _, bad := range []int{-1, 4, 100} {
		err := c.JumpTo(bad)
		if !errors.Is(err, ErrOutOfRange) {
			t.Fatalf("jump %d: expected ErrOutOfRange, got %v", bad, err)
		}
		var oor *OutOfRangeError
		if !errors.As(err, &oor) || oor.Index != bad || oor.Len != 4 {
			t.Fatalf("jump %d: unexpected error detail %#v", bad, err)
		}
		after := c.State()
		if after.Position != before.Position || after.Flipped != before.Flipped {
			t.Fatalf("failed jump mutated state")
		}
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	for n := 1; n <= 8; n++ {
		all := make([]int, n)
		for i := range all {
			all[i] = (i + 1) * 3
		}
		c := mustNew(t, cardsWithIDs(all...), WithSeed(uint64(n)))
		_ = c.JumpTo(n - 1)
		c.Flip()
		gen := c.Generation()
		c.Shuffle()
		st := c.State()
		if st.Position != 0 || st.Flipped {
			t.Fatalf("n=%d: expected position 0 unflipped, got %d %v", n, st.Position, st.Flipped)
		}
		got := ids(st.Order)
		sort.Ints(got)
		if !equalInts(got, all) {
			t.Fatalf("n=%d: shuffle is not a permutation: %v", n, got)
		}
		if c.Generation() != gen+1 {
			t.Fatalf("expected generation bump on shuffle")
		}
	}
}

func TestShuffleDoesNotAliasPreviousState(t *testing.T) {
	c := mustNew(t, cardsWithIDs(1, 2, 3, 4, 5, 6), WithSeed(42))
	before := c.State()
	snapshot := ids(before.Order)
	for i := 0; i < 5; i++ {
		c.Shuffle()
	}
	if !equalInts(ids(before.Order), snapshot) {
		t.Fatalf("shuffle mutated a captured state")
	}
}

func TestShuffleWithSeedIsDeterministic(t *testing.T) {
	a := mustNew(t, cardsWithIDs(1, 2, 3, 4, 5, 6, 7, 8), WithSeed(9))
	b := mustNew(t, cardsWithIDs(1, 2, 3, 4, 5, 6, 7, 8), WithSeed(9))
	a.Shuffle()
	b.Shuffle()
	if !equalInts(ids(a.Order()), ids(b.Order())) {
		t.Fatalf("same seed produced different orders")
	}
}

func TestShuffleReachesEveryPermutation(t *testing.T) {
	c := mustNew(t, cardsWithIDs(1, 2, 3), WithSeed(1))
	seen := map[[3]int]int{}
	for i := 0; i < 3000; i++ {
		c.Shuffle()
		o := ids(c.Order())
		seen[[3]int{o[0], o[1], o[2]}]++
	}
	if len(seen) != 6 {
		t.Fatalf("expected all 6 permutations, saw %d", len(seen))
	}
	for perm, count := range seen {
		if count < 350 || count > 650 {
			t.Fatalf("permutation %v drawn %d/3000 times, looks biased", perm, count)
		}
	}
}

func TestResetRestoresGivenOrder(t *testing.T) {
	original := cardsWithIDs(1, 2, 3, 4)
	c := mustNew(t, original, WithSeed(3))
	c.Shuffle()
	_ = c.JumpTo(2)
	c.Flip()
	if err := c.Reset(original); err != nil {
		t.Fatalf("reset: %v", err)
	}
	st := c.State()
	if !equalInts(ids(st.Order), []int{1, 2, 3, 4}) || st.Position != 0 || st.Flipped {
		t.Fatalf("unexpected state after reset: %v pos=%d flipped=%v", ids(st.Order), st.Position, st.Flipped)
	}
}

func TestResetRejectsEmptyAndKeepsState(t *testing.T) {
	c := mustNew(t, cardsWithIDs(1, 2, 3))
	_ = c.JumpTo(1)
	c.Flip()
	gen := c.Generation()
	if err := c.Reset(nil); !errors.Is(err, ErrEmptyDeck) {
		t.Fatalf("expected ErrEmptyDeck, got %v", err)
	}
	if c.Position() != 1 || !c.Flipped() || c.Len() != 3 || c.Generation() != gen {
		t.Fatalf("failed reset mutated state")
	}
}

func TestCurrentOnZeroController(t *testing.T) {
	var c Controller
	if _, err := c.Current(); !errors.Is(err, ErrEmptyDeck) {
		t.Fatalf("expected ErrEmptyDeck, got %v", err)
	}
	var nilCtrl *Controller
	if _, err := nilCtrl.Current(); !errors.Is(err, ErrEmptyDeck) {
		t.Fatalf("expected ErrEmptyDeck on nil controller, got %v", err)
	}
}

func TestPeekWraps(t *testing.T) {
	c := mustNew(t, cardsWithIDs(1, 2, 3))
	if got := c.Peek(1).ID; got != 2 {
		t.Fatalf("peek +1 = %d", got)
	}
	if got := c.Peek(-1).ID; got != 3 {
		t.Fatalf("peek -1 = %d", got)
	}
	if got := c.Peek(7).ID; got != 2 {
		t.Fatalf("peek +7 = %d", got)
	}
}

func TestDispatch(t *testing.T) {
	c := mustNew(t, cardsWithIDs(1, 2, 3))
	steps := []struct {
		cmd     Command
		wantPos int
		wantErr error
	}{
		{cmd: Command{Kind: CmdNext}, wantPos: 1},
		{cmd: Command{Kind: CmdFlip}, wantPos: 1},
		{cmd: Command{Kind: CmdPrevious}, wantPos: 0},
		{cmd: Command{Kind: CmdJump, Index: 2}, wantPos: 2},
		{cmd: Command{Kind: CmdJump, Index: 9}, wantPos: 2, wantErr: ErrOutOfRange},
		{cmd: Command{Kind: CmdReset, Cards: nil}, wantPos: 2, wantErr: ErrEmptyDeck},
		{cmd: Command{Kind: CmdReset, Cards: cardsWithIDs(5, 6)}, wantPos: 0},
		{cmd: Command{Kind: CmdShuffle}, wantPos: 0},
	}
	for i, s := range steps {
		err := c.Dispatch(s.cmd)
		if s.wantErr != nil {
			if !errors.Is(err, s.wantErr) {
				t.Fatalf("step %d (%v): expected %v, got %v", i, s.cmd.Kind, s.wantErr, err)
			}
		} else if err != nil {
			t.Fatalf("step %d (%v): %v", i, s.cmd.Kind, err)
		}
		if c.Position() != s.wantPos {
			t.Fatalf("step %d (%v): position %d, want %d", i, s.cmd.Kind, c.Position(), s.wantPos)
		}
	}
	if c.Len() != 2 {
		t.Fatalf("expected reset deck of 2, got %d", c.Len())
	}
}

func TestEndToEndScenario(t *testing.T) {
	c := mustNew(t, cardsWithIDs(1, 2, 3))
	if c.Position() != 0 || c.Flipped() {
		t.Fatalf("unexpected initial state")
	}
	c.Flip()
	if !c.Flipped() {
		t.Fatalf("expected flipped")
	}
	c.Next()
	if c.Position() != 1 || c.Flipped() {
		t.Fatalf("after next: pos=%d flipped=%v", c.Position(), c.Flipped())
	}
	c.Previous()
	if c.Position() != 0 || c.Flipped() {
		t.Fatalf("after previous: pos=%d flipped=%v", c.Position(), c.Flipped())
	}
	if err := c.JumpTo(2); err != nil || c.Position() != 2 {
		t.Fatalf("jump 2: pos=%d err=%v", c.Position(), err)
	}
	if err := c.JumpTo(5); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("jump 5: expected ErrOutOfRange, got %v", err)
	}
	if c.Position() != 2 {
		t.Fatalf("failed jump moved position to %d", c.Position())
	}
	cur, err := c.Current()
	if err != nil || cur.ID != 3 {
		t.Fatalf("current = %v, %v", cur.ID, err)
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
