package cards

import (
	"log/slog"
	"sync"
	"time"

	"github.com/streamscoutapp/streamscout-server/internal/id"
)

// Registry tracks viewer sessions and their decks.
type Registry struct {
	fetcher Fetcher
	logger  *slog.Logger
	now     func() time.Time
	settled SettledFunc

	mu       sync.RWMutex
	sessions map[string]*Deck
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithClock overrides the time source used for idle tracking.
func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) { r.now = now }
}

// SettledFunc is called once per card when its analytics fetch finishes.
type SettledFunc func(sessionID string, snap Snapshot)

// WithSettled registers fn to observe finished fetches.
func WithSettled(fn SettledFunc) RegistryOption {
	return func(r *Registry) { r.settled = fn }
}

// NewRegistry creates an empty registry whose cards fetch through fetcher.
func NewRegistry(fetcher Fetcher, logger *slog.Logger, opts ...RegistryOption) *Registry {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	r := &Registry{
		fetcher:  fetcher,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*Deck),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create starts a new session.
func (r *Registry) Create() *Deck {
	sessionID := id.NewSessionID()
	deck := newDeck(sessionID, r.fetcher, r.logger, r.now, r.settled)

	r.mu.Lock()
	r.sessions[sessionID] = deck
	r.mu.Unlock()

	r.logger.Debug("session created", "session_id", sessionID)
	return deck
}

// Get returns the deck for a session.
func (r *Registry) Get(sessionID string) (*Deck, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	deck, ok := r.sessions[sessionID]
	return deck, ok
}

// Delete ends a session and unmounts its cards. It reports whether the
// session existed.
func (r *Registry) Delete(sessionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[sessionID]; !ok {
		return false
	}
	delete(r.sessions, sessionID)
	return true
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep removes sessions unused for longer than idle and returns how many
// were removed.
func (r *Registry) Sweep(idle time.Duration) int {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for sessionID, deck := range r.sessions {
		if deck.idleSince().Before(cutoff) {
			delete(r.sessions, sessionID)
			removed++
		}
	}
	if removed > 0 {
		r.logger.Info("expired idle sessions", "count", removed, "remaining", len(r.sessions))
	}
	return removed
}
