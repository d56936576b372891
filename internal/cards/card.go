// Package cards loads per-game analytics lazily. A card fetches its
// analytics on first expansion, at most once for its lifetime: success is
// cached and failure is sticky.
package cards

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/streamscoutapp/streamscout-server/internal/domain"
)

var errEmptyAnalytics = errors.New("empty analytics response")

// Fetcher retrieves analytics for a game.
type Fetcher interface {
	Analytics(ctx context.Context, gameID string) (*domain.GameAnalytics, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, gameID string) (*domain.GameAnalytics, error)

// Analytics implements Fetcher.
func (f FetcherFunc) Analytics(ctx context.Context, gameID string) (*domain.GameAnalytics, error) {
	return f(ctx, gameID)
}

// State is the load state of a card's analytics.
type State string

// Card states.
const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateLoaded  State = "loaded"
	StateFailed  State = "failed"
)

// Snapshot is a point-in-time copy of a card.
type Snapshot struct {
	GameID    string
	Expanded  bool
	State     State
	Analytics *domain.GameAnalytics
}

// Card is one game card.
type Card struct {
	gameID  string
	fetcher Fetcher
	logger  *slog.Logger
	settled func(Snapshot)

	mu        sync.Mutex
	expanded  bool
	loading   bool
	attempted bool
	failed    bool
	analytics *domain.GameAnalytics
	done      chan struct{}
}

func newCard(gameID string, fetcher Fetcher, logger *slog.Logger, settled func(Snapshot)) *Card {
	return &Card{gameID: gameID, fetcher: fetcher, logger: logger, settled: settled}
}

// GameID returns the card's game.
func (c *Card) GameID() string {
	return c.gameID
}

// Expand opens the card. The first expansion starts the analytics fetch;
// later ones never fetch again. It reports whether a fetch was started.
//
// The fetch is not tied to any request context, so unmounting the card
// does not cancel it.
func (c *Card) Expand() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.expanded = true
	if c.loading || c.attempted || c.failed {
		return false
	}

	c.loading = true
	c.attempted = true
	c.done = make(chan struct{})
	go c.fetch(c.done)
	return true
}

func (c *Card) fetch(done chan struct{}) {
	defer close(done)

	analytics, err := c.fetcher.Analytics(context.Background(), c.gameID)
	if err == nil && analytics == nil {
		err = errEmptyAnalytics
	}

	c.mu.Lock()
	c.loading = false
	if err != nil {
		c.failed = true
		c.logger.Debug("analytics unavailable", "game_id", c.gameID, "error", err)
	} else {
		c.analytics = analytics
	}
	c.mu.Unlock()

	if c.settled != nil {
		c.settled(c.Snapshot())
	}
}

// Collapse closes the card. Cached analytics are kept.
func (c *Card) Collapse() {
	c.mu.Lock()
	c.expanded = false
	c.mu.Unlock()
}

// Wait blocks until the in-flight fetch, if any, has finished.
func (c *Card) Wait(ctx context.Context) error {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()

	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot returns the card's current state.
func (c *Card) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{GameID: c.gameID, Expanded: c.expanded, Analytics: c.analytics}
	switch {
	case c.loading:
		s.State = StateLoading
	case c.failed:
		s.State = StateFailed
	case c.analytics != nil:
		s.State = StateLoaded
	default:
		s.State = StateIdle
	}
	return s
}
