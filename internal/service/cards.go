package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/streamscoutapp/streamscout-server/internal/cards"
	domainerrors "github.com/streamscoutapp/streamscout-server/internal/errors"
	"github.com/streamscoutapp/streamscout-server/internal/id"
	"github.com/streamscoutapp/streamscout-server/internal/insights"
	"github.com/streamscoutapp/streamscout-server/internal/timeblock"
)

const defaultExpandWait = 10 * time.Second

// CardService drives the per-session game cards.
type CardService struct {
	registry   *cards.Registry
	converter  *timeblock.Converter
	logger     *slog.Logger
	expandWait time.Duration
}

// NewCardService creates a card service. expandWait bounds how long an
// expand request may wait for its fetch; zero takes the default.
func NewCardService(registry *cards.Registry, conv *timeblock.Converter, expandWait time.Duration, logger *slog.Logger) *CardService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if expandWait <= 0 {
		expandWait = defaultExpandWait
	}
	return &CardService{
		registry:   registry,
		converter:  conv,
		logger:     logger,
		expandWait: expandWait,
	}
}

// SessionInfo identifies a viewer session.
type SessionInfo struct {
	SessionID string `json:"session_id"`
	Cards     int    `json:"cards"`
}

// CardView is a card's state with its analytics rendered for the viewer.
// Analytics is omitted unless loaded; a failed card simply has none.
type CardView struct {
	GameID    string                  `json:"game_id"`
	Expanded  bool                    `json:"expanded"`
	State     cards.State             `json:"state"`
	Analytics *insights.AnalyticsView `json:"analytics,omitempty"`
}

// CreateSession starts a viewer session.
func (s *CardService) CreateSession(_ context.Context) SessionInfo {
	deck := s.registry.Create()
	return SessionInfo{SessionID: deck.ID()}
}

// DeleteSession ends a viewer session and unmounts its cards.
func (s *CardService) DeleteSession(_ context.Context, sessionID string) error {
	if !s.registry.Delete(sessionID) {
		return sessionNotFound(sessionID)
	}
	return nil
}

// Session describes a live session.
func (s *CardService) Session(_ context.Context, sessionID string) (*SessionInfo, error) {
	deck, err := s.deck(sessionID)
	if err != nil {
		return nil, err
	}
	return &SessionInfo{SessionID: deck.ID(), Cards: deck.Len()}, nil
}

// Card mounts the card if needed and returns its state.
func (s *CardService) Card(_ context.Context, sessionID, gameID, timezone string) (*CardView, error) {
	deck, err := s.deck(sessionID)
	if err != nil {
		return nil, err
	}
	gameID, err = cleanGameID(gameID)
	if err != nil {
		return nil, err
	}
	return s.render(deck.Mount(gameID).Snapshot(), timezone), nil
}

// Expand opens a card, starting its one analytics fetch on first
// expansion. With wait set it blocks until the fetch settles or the wait
// bound passes; either way the current state is returned.
func (s *CardService) Expand(ctx context.Context, sessionID, gameID, timezone string, wait bool) (*CardView, error) {
	deck, err := s.deck(sessionID)
	if err != nil {
		return nil, err
	}
	gameID, err = cleanGameID(gameID)
	if err != nil {
		return nil, err
	}

	card := deck.Mount(gameID)
	if card.Expand() {
		s.logger.Debug("analytics fetch started", "session_id", sessionID, "game_id", gameID)
	}

	if wait {
		waitCtx, cancel := context.WithTimeout(ctx, s.expandWait)
		err := card.Wait(waitCtx)
		cancel()
		if err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
	}

	return s.render(card.Snapshot(), timezone), nil
}

// Collapse closes a mounted card. Its cached analytics are kept.
func (s *CardService) Collapse(_ context.Context, sessionID, gameID, timezone string) (*CardView, error) {
	card, err := s.mounted(sessionID, gameID)
	if err != nil {
		return nil, err
	}
	card.Collapse()
	return s.render(card.Snapshot(), timezone), nil
}

// Unmount drops a card. Remounting it later starts fresh.
func (s *CardService) Unmount(_ context.Context, sessionID, gameID string) error {
	deck, err := s.deck(sessionID)
	if err != nil {
		return err
	}
	gameID, err = cleanGameID(gameID)
	if err != nil {
		return err
	}
	if !deck.Unmount(gameID) {
		return domainerrors.NotFoundf("card %q is not mounted", gameID)
	}
	return nil
}

// Sweep ends sessions idle for longer than idle.
func (s *CardService) Sweep(idle time.Duration) int {
	return s.registry.Sweep(idle)
}

func (s *CardService) deck(sessionID string) (*cards.Deck, error) {
	if !id.ValidSessionID(sessionID) {
		return nil, sessionNotFound(sessionID)
	}
	deck, ok := s.registry.Get(sessionID)
	if !ok {
		return nil, sessionNotFound(sessionID)
	}
	return deck, nil
}

func (s *CardService) mounted(sessionID, gameID string) (*cards.Card, error) {
	deck, err := s.deck(sessionID)
	if err != nil {
		return nil, err
	}
	gameID, err = cleanGameID(gameID)
	if err != nil {
		return nil, err
	}
	card, ok := deck.Card(gameID)
	if !ok {
		return nil, domainerrors.NotFoundf("card %q is not mounted", gameID)
	}
	return card, nil
}

func (s *CardService) render(snap cards.Snapshot, timezone string) *CardView {
	view := &CardView{GameID: snap.GameID, Expanded: snap.Expanded, State: snap.State}
	if snap.State == cards.StateLoaded && snap.Analytics != nil {
		viewer := timeblock.ResolveLocation(timezone, s.converter.Reference())
		rendered := insights.Build(snap.Analytics, s.converter, viewer, insights.Options{})
		view.Analytics = &rendered
	}
	return view
}

func cleanGameID(gameID string) (string, error) {
	gameID = strings.TrimSpace(gameID)
	if gameID == "" || len(gameID) > 128 {
		return "", domainerrors.Validation("game_id must be 1-128 characters")
	}
	return gameID, nil
}

func sessionNotFound(sessionID string) error {
	return domainerrors.NotFoundf("session %q not found", sessionID)
}
