package cards

import (
	"log/slog"
	"sync"
	"time"
)

// Deck holds the cards mounted in one viewer session.
type Deck struct {
	id      string
	fetcher Fetcher
	logger  *slog.Logger
	now     func() time.Time
	settled SettledFunc

	mu       sync.Mutex
	cards    map[string]*Card
	lastUsed time.Time
}

// NewDeck creates an empty deck.
func NewDeck(id string, fetcher Fetcher, logger *slog.Logger) *Deck {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return newDeck(id, fetcher, logger, time.Now, nil)
}

func newDeck(id string, fetcher Fetcher, logger *slog.Logger, now func() time.Time, settled SettledFunc) *Deck {
	return &Deck{
		id:       id,
		fetcher:  fetcher,
		logger:   logger,
		now:      now,
		settled:  settled,
		cards:    make(map[string]*Card),
		lastUsed: now(),
	}
}

// ID returns the session ID the deck belongs to.
func (d *Deck) ID() string {
	return d.id
}

// Mount returns the card for gameID, creating it if needed. Mounting an
// already mounted card returns the existing one with its state intact.
func (d *Deck) Mount(gameID string) *Card {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.lastUsed = d.now()
	if c, ok := d.cards[gameID]; ok {
		return c
	}
	var onSettled func(Snapshot)
	if d.settled != nil {
		onSettled = func(s Snapshot) { d.settled(d.id, s) }
	}
	c := newCard(gameID, d.fetcher, d.logger.With("session_id", d.id), onSettled)
	d.cards[gameID] = c
	return c
}

// Card returns a mounted card.
func (d *Deck) Card(gameID string) (*Card, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.lastUsed = d.now()
	c, ok := d.cards[gameID]
	return c, ok
}

// Unmount drops a card. A later Mount starts with a fresh card that may
// fetch again. It reports whether the card was mounted.
func (d *Deck) Unmount(gameID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.lastUsed = d.now()
	if _, ok := d.cards[gameID]; !ok {
		return false
	}
	delete(d.cards, gameID)
	return true
}

// Len returns the number of mounted cards.
func (d *Deck) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.cards)
}

func (d *Deck) idleSince() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastUsed
}
