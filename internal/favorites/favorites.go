// Package favorites holds the viewer's favorited games. Mutations apply to
// memory immediately; persistence happens in the background and failures
// never reach callers.
package favorites

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/streamscoutapp/streamscout-server/internal/domain"
)

const saveTimeout = 5 * time.Second

// Persister loads and saves the encoded favorites record.
// Load returns nil data when nothing has been stored yet.
type Persister interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// ChangeKind identifies a mutation.
type ChangeKind string

// Change kinds.
const (
	ChangeAdded   ChangeKind = "added"
	ChangeRemoved ChangeKind = "removed"
	ChangeCleared ChangeKind = "cleared"
)

// Change describes a mutation that altered the set.
type Change struct {
	Kind     ChangeKind `json:"kind"`
	GameID   string     `json:"game_id,omitempty"`
	GameName string     `json:"game_name,omitempty"`
	Count    int        `json:"count"`
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for AddedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Store is the favorites set. Safe for concurrent use.
type Store struct {
	mu    sync.Mutex
	order []string
	byID  map[string]domain.Favorite

	persister Persister
	logger    *slog.Logger
	now       func() time.Time

	listenersMu sync.RWMutex
	listeners   map[int]func(Change)
	nextID      int

	// scheduled counts mutations; persisted is the last count written.
	scheduled uint64
	persisted uint64
	written   chan struct{}

	wake       chan struct{}
	quit       chan struct{}
	writerDone chan struct{}
	closeOnce  sync.Once
	closed     bool
}

// New creates a store hydrated from persister. Missing or unreadable data
// yields an empty set. A nil persister keeps favorites in memory only.
func New(ctx context.Context, persister Persister, logger *slog.Logger, opts ...Option) *Store {
	if persister == nil {
		persister = NewMemoryPersister()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Store{
		byID:       make(map[string]domain.Favorite),
		persister:  persister,
		logger:     logger,
		now:        time.Now,
		listeners:  make(map[int]func(Change)),
		written:    make(chan struct{}),
		wake:       make(chan struct{}, 1),
		quit:       make(chan struct{}),
		writerDone: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.hydrate(ctx)
	go s.writeLoop()

	return s
}

func (s *Store) hydrate(ctx context.Context) {
	data, err := s.persister.Load(ctx)
	if err != nil {
		s.logger.Warn("favorites unavailable, starting empty", "error", err)
		return
	}
	if data == nil {
		return
	}

	favorites, err := decode(data)
	if err != nil {
		s.logger.Warn("favorites record unreadable, starting empty", "error", err)
		return
	}

	for _, fav := range favorites {
		if fav.GameID == "" {
			continue
		}
		if _, dup := s.byID[fav.GameID]; dup {
			continue
		}
		s.byID[fav.GameID] = fav
		s.order = append(s.order, fav.GameID)
	}
	s.logger.Debug("favorites loaded", "count", len(s.order))
}

// IsFavorited reports whether gameID is in the set.
func (s *Store) IsFavorited(gameID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.byID[gameID]
	return ok
}

// Get returns the favorite for gameID.
func (s *Store) Get(gameID string) (domain.Favorite, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fav, ok := s.byID[gameID]
	return fav, ok
}

// Add favorites a game. Adding an existing favorite changes nothing and
// returns false.
func (s *Store) Add(gameID, gameName string) bool {
	s.mu.Lock()
	change, ok := s.addLocked(gameID, gameName)
	s.mu.Unlock()

	if ok {
		s.notify(change)
	}
	return ok
}

// Remove unfavorites a game. Removing an absent game changes nothing and
// returns false.
func (s *Store) Remove(gameID string) bool {
	s.mu.Lock()
	change, ok := s.removeLocked(gameID)
	s.mu.Unlock()

	if ok {
		s.notify(change)
	}
	return ok
}

// Toggle adds the game if absent and removes it if present. It returns
// whether the game is favorited afterwards.
func (s *Store) Toggle(gameID, gameName string) bool {
	s.mu.Lock()
	var change Change
	if _, present := s.byID[gameID]; present {
		change, _ = s.removeLocked(gameID)
	} else {
		change, _ = s.addLocked(gameID, gameName)
	}
	s.mu.Unlock()

	s.notify(change)
	return change.Kind == ChangeAdded
}

func (s *Store) addLocked(gameID, gameName string) (Change, bool) {
	if _, ok := s.byID[gameID]; ok {
		return Change{}, false
	}
	s.byID[gameID] = domain.NewFavorite(gameID, gameName, s.now())
	s.order = append(s.order, gameID)
	s.scheduleLocked()
	return Change{Kind: ChangeAdded, GameID: gameID, GameName: gameName, Count: len(s.order)}, true
}

func (s *Store) removeLocked(gameID string) (Change, bool) {
	fav, ok := s.byID[gameID]
	if !ok {
		return Change{}, false
	}
	delete(s.byID, gameID)
	if i := slices.Index(s.order, gameID); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
	s.scheduleLocked()
	return Change{Kind: ChangeRemoved, GameID: gameID, GameName: fav.GameName, Count: len(s.order)}, true
}

// Clear removes every favorite. It returns how many were removed.
func (s *Store) Clear() int {
	s.mu.Lock()
	removed := len(s.order)
	if removed == 0 {
		s.mu.Unlock()
		return 0
	}
	s.byID = make(map[string]domain.Favorite)
	s.order = nil
	s.scheduleLocked()
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeCleared, Count: 0})
	return removed
}

// List returns favorites in the order they were added.
func (s *Store) List() []domain.Favorite {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listLocked()
}

// Count returns the number of favorites.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

func (s *Store) listLocked() []domain.Favorite {
	out := make([]domain.Favorite, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// Subscribe registers fn to be called after every change. The returned
// function unregisters it.
func (s *Store) Subscribe(fn func(Change)) func() {
	s.listenersMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.listenersMu.Unlock()

	return func() {
		s.listenersMu.Lock()
		delete(s.listeners, id)
		s.listenersMu.Unlock()
	}
}

func (s *Store) notify(change Change) {
	s.listenersMu.RLock()
	fns := make([]func(Change), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.listenersMu.RUnlock()

	for _, fn := range fns {
		fn(change)
	}
}

// scheduleLocked marks the set dirty and wakes the writer. Caller holds mu.
func (s *Store) scheduleLocked() {
	s.scheduled++
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Store) writeLoop() {
	defer close(s.writerDone)
	for {
		select {
		case <-s.wake:
			s.persistLatest()
		case <-s.quit:
			s.persistLatest()
			return
		}
	}
}

// persistLatest writes the current set if it changed since the last write.
// Intermediate states collapse into one write.
func (s *Store) persistLatest() {
	s.mu.Lock()
	target := s.scheduled
	if target == s.persisted {
		s.mu.Unlock()
		return
	}
	data, err := encode(s.listLocked())
	s.mu.Unlock()

	if err == nil {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		err = s.persister.Save(ctx, data)
		cancel()
	}
	if err != nil {
		s.logger.Warn("failed to persist favorites", "error", err)
	}

	s.mu.Lock()
	if target > s.persisted {
		s.persisted = target
	}
	close(s.written)
	s.written = make(chan struct{})
	s.mu.Unlock()
}

// Flush waits until every mutation made before the call has been written
// (or has failed to write).
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	target := s.scheduled
	s.mu.Unlock()

	for {
		s.mu.Lock()
		if s.persisted >= target || s.closed {
			s.mu.Unlock()
			return nil
		}
		written := s.written
		s.mu.Unlock()

		select {
		case <-written:
		case <-s.writerDone:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close writes any pending change and stops the writer.
func (s *Store) Close(ctx context.Context) error {
	s.closeOnce.Do(func() {
		close(s.quit)
	})

	select {
	case <-s.writerDone:
	case <-ctx.Done():
		return ctx.Err()
	}

	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}
