package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"flashdeck/internal/deck"
	"flashdeck/internal/render"
	"flashdeck/internal/telemetry"
	"flashdeck/internal/ui"

	clog "github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type App struct {
	cfg Config

	logger   *telemetry.JSONLogger
	deck     deck.Deck
	ctrl     *deck.Controller
	renderer *render.Renderer
	cache    *render.Cache
	view     ui.View

	sessionID string
	startTime time.Time

	mu       sync.Mutex
	shuffled bool
	commands int

	prefetchWG sync.WaitGroup
}

func New(cfg Config) (*App, error) {
	view := ui.New(ui.Options{
		ASCIIOnly:   cfg.ASCIIOnly,
		Debug:       cfg.Debug,
		Theme:       cfg.UI.Theme,
		MotionLevel: cfg.UI.MotionLevel,
		Wrap:        cfg.UI.Wrap,
	})
	return newApp(cfg, view)
}

func newApp(cfg Config, view ui.View) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger, err := telemetry.NewJSONLogger(cfg.LogPath)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	logger.SetDebug(cfg.Debug)
	sessionID := uuid.NewString()
	logger.SetSession(sessionID)

	d, err := loadDeck(cfg.DeckPath)
	if err != nil {
		_ = logger.Close()
		return nil, err
	}

	var opts []deck.Option
	if cfg.Seed != 0 {
		opts = append(opts, deck.WithSeed(cfg.Seed))
	}
	ctrl, err := deck.New(d.Cards, opts...)
	if err != nil {
		_ = logger.Close()
		return nil, fmt.Errorf("deck %s: %w", d.DeckID, err)
	}

	renderLog := clog.NewWithOptions(logger.Writer(), clog.Options{
		Prefix:    "render",
		Formatter: clog.JSONFormatter,
		Level:     clog.WarnLevel,
	})

	a := &App{
		cfg:       cfg,
		logger:    logger,
		deck:      d,
		ctrl:      ctrl,
		renderer:  render.New(render.WithLogger(renderLog)),
		cache:     render.NewCache(render.DefaultCacheSize),
		view:      view,
		sessionID: sessionID,
		startTime: time.Now(),
	}
	if cfg.Shuffle {
		ctrl.Shuffle()
		a.shuffled = true
	}
	view.SetController(a)
	return a, nil
}

func loadDeck(path string) (deck.Deck, error) {
	if path == "" {
		return deck.Builtin(), nil
	}
	return deck.NewLoader().LoadFile(path)
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Info("app.start", map[string]any{
		"deck":    a.deck.DeckID,
		"cards":   a.ctrl.Len(),
		"shuffle": a.cfg.Shuffle,
	})
	a.syncView()
	a.prefetch(ctx)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			a.view.Stop()
		case <-done:
		}
	}()
	return a.view.Run()
}

func (a *App) Close() {
	a.prefetchWG.Wait()
	hits, misses := a.cache.Stats()
	a.logger.Info("app.stop", map[string]any{
		"commands":     a.commandCount(),
		"duration_ms":  time.Since(a.startTime).Milliseconds(),
		"cache_hits":   hits,
		"cache_misses": misses,
	})
	_ = a.logger.Close()
}

// Deck returns the loaded deck as it was read from disk.
func (a *App) Deck() deck.Deck { return a.deck }

func (a *App) SessionID() string { return a.sessionID }

func (a *App) OnNext() ui.CardState {
	st, _ := a.dispatch(deck.Command{Kind: deck.CmdNext})
	return st
}

func (a *App) OnPrevious() ui.CardState {
	st, _ := a.dispatch(deck.Command{Kind: deck.CmdPrevious})
	return st
}

func (a *App) OnFlip() ui.CardState {
	st, _ := a.dispatch(deck.Command{Kind: deck.CmdFlip})
	return st
}

func (a *App) OnShuffle() ui.CardState {
	st, _ := a.dispatch(deck.Command{Kind: deck.CmdShuffle})
	return st
}

// OnReset restores the order the deck was loaded in.
func (a *App) OnReset() ui.CardState {
	st, _ := a.dispatch(deck.Command{Kind: deck.CmdReset, Cards: a.deck.Cards})
	return st
}

func (a *App) OnJump(index int) (ui.CardState, error) {
	return a.dispatch(deck.Command{Kind: deck.CmdJump, Index: index})
}

func (a *App) OnQuit() {
	a.logger.Info("app.quit", map[string]any{"position": a.ctrl.Position()})
}

func (a *App) dispatch(cmd deck.Command) (ui.CardState, error) {
	if err := a.ctrl.Dispatch(cmd); err != nil {
		a.logger.Error("deck.command_failed", map[string]any{
			"command": cmd.Kind.String(),
			"index":   cmd.Index,
			"error":   err,
		})
		return a.cardState(), err
	}

	a.mu.Lock()
	a.commands++
	switch cmd.Kind {
	case deck.CmdShuffle:
		a.shuffled = true
	case deck.CmdReset:
		a.shuffled = false
	}
	a.mu.Unlock()

	st := a.cardState()
	a.logger.Debug("deck.command", map[string]any{
		"command":  cmd.Kind.String(),
		"position": st.Position,
		"card":     st.ID,
		"flipped":  st.Flipped,
	})
	if cmd.Kind == deck.CmdShuffle || cmd.Kind == deck.CmdReset {
		a.view.SetTerms(a.terms())
	}
	if cmd.Kind != deck.CmdFlip {
		a.prefetch(context.Background())
	}
	return st, nil
}

func (a *App) cardState() ui.CardState {
	s := a.ctrl.State()
	card, err := s.Current()
	if err != nil {
		return ui.CardState{DeckName: a.deck.Name}
	}
	a.mu.Lock()
	shuffled := a.shuffled
	a.mu.Unlock()
	return ui.CardState{
		DeckName: a.deck.Name,
		ID:       card.ID,
		Term:     card.Term,
		Category: card.Category,
		Image:    card.Image,
		Flipped:  s.Flipped,
		Doc:      a.cache.Render(a.renderer, card.Content),
		Position: s.Position,
		Total:    s.Len(),
		Shuffled: shuffled,
	}
}

func (a *App) syncView() {
	a.view.SetTerms(a.terms())
	a.view.SetCard(a.cardState())
}

func (a *App) terms() []string {
	order := a.ctrl.Order()
	out := make([]string, len(order))
	for i, c := range order {
		out[i] = c.Term
	}
	return out
}

// prefetch renders the cards around the current one in the background.
// Results are kept only if the order has not been replaced meanwhile.
func (a *App) prefetch(ctx context.Context) {
	n := a.cfg.UI.Prerender
	if n <= 0 || a.ctrl.Len() < 2 {
		return
	}
	gen := a.ctrl.Generation()
	var cards []deck.Card
	seen := map[int]bool{a.ctrl.Peek(0).ID: true}
	for off := 1; off <= n; off++ {
		for _, c := range []deck.Card{a.ctrl.Peek(off), a.ctrl.Peek(-off)} {
			if seen[c.ID] {
				continue
			}
			seen[c.ID] = true
			if _, ok := a.cache.Get(c.Content); !ok {
				cards = append(cards, c)
			}
		}
	}
	if len(cards) == 0 {
		return
	}

	a.prefetchWG.Add(1)
	go func() {
		defer a.prefetchWG.Done()
		docs := make([]*render.Document, len(cards))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(4)
		for i, c := range cards {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				docs[i] = a.renderer.Render(c.Content)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			a.logger.Debug("prerender.cancelled", map[string]any{"error": err})
			return
		}
		if a.ctrl.Generation() != gen {
			a.logger.Debug("prerender.discarded", map[string]any{"cards": len(cards)})
			return
		}
		for i, c := range cards {
			a.cache.Put(c.Content, docs[i])
		}
	}()
}

// WaitPrefetch blocks until background renders finish.
func (a *App) WaitPrefetch() {
	a.prefetchWG.Wait()
}

func (a *App) commandCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.commands
}

// RenderCard renders the card at index in the current order without moving
// the deck.
func (a *App) RenderCard(index int) (deck.Card, *render.Document, error) {
	order := a.ctrl.Order()
	if index < 0 || index >= len(order) {
		return deck.Card{}, nil, &deck.OutOfRangeError{Index: index, Len: len(order)}
	}
	c := order[index]
	return c, a.cache.Render(a.renderer, c.Content), nil
}

// Fallbacks reports every math region of the deck that could not be
// typeset, keyed by card id.
func (a *App) Fallbacks() map[int][]error {
	out := map[int][]error{}
	for _, c := range a.deck.Cards {
		doc := a.cache.Render(a.renderer, c.Content)
		for _, n := range doc.MathNodes() {
			if n.Fallback {
				err := n.Err
				if err == nil {
					err = errors.New("math not typeset: " + n.Literal)
				}
				out[c.ID] = append(out[c.ID], err)
			}
		}
	}
	return out
}
