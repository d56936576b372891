package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/streamscoutapp/streamscout-server/internal/domain"
	domainerrors "github.com/streamscoutapp/streamscout-server/internal/errors"
	"github.com/streamscoutapp/streamscout-server/internal/favorites"
	"github.com/streamscoutapp/streamscout-server/internal/sse"
	"github.com/streamscoutapp/streamscout-server/internal/validation"
)

// EventEmitter queues events for connected clients.
type EventEmitter interface {
	Emit(event any)
}

// nameResolver looks up a game's display name in the current list.
type nameResolver interface {
	gameName(gameID string) string
}

// FavoriteService manages the favorites set and announces changes.
type FavoriteService struct {
	store       *favorites.Store
	names       nameResolver
	emitter     EventEmitter
	validator   *validation.Validator
	logger      *slog.Logger
	unsubscribe func()
}

// NewFavoriteService creates a favorites service. Every change to store is
// forwarded to emitter as a favorites.changed event.
func NewFavoriteService(store *favorites.Store, games *GameService, emitter EventEmitter, logger *slog.Logger) *FavoriteService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &FavoriteService{
		store:     store,
		emitter:   emitter,
		validator: validation.New(),
		logger:    logger,
	}
	if games != nil {
		s.names = games
	}
	if emitter != nil {
		s.unsubscribe = store.Subscribe(s.announce)
	}
	return s
}

func (s *FavoriteService) announce(c favorites.Change) {
	s.emitter.Emit(sse.NewFavoritesChangedEvent(string(c.Kind), c.GameID, c.GameName, c.Count))
}

// Close stops forwarding changes.
func (s *FavoriteService) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

// FavoriteView is a favorite plus whether it is in the current list.
type FavoriteView struct {
	domain.Favorite
	Tracked bool `json:"tracked"`
}

// FavoriteList is the whole favorites set in insertion order.
type FavoriteList struct {
	Favorites []FavoriteView `json:"favorites"`
	Count     int            `json:"count"`
}

// List returns every favorite.
func (s *FavoriteService) List(_ context.Context) FavoriteList {
	favs := s.store.List()
	out := FavoriteList{Favorites: make([]FavoriteView, 0, len(favs)), Count: len(favs)}
	for _, f := range favs {
		out.Favorites = append(out.Favorites, s.view(f))
	}
	return out
}

// Get returns one favorite.
func (s *FavoriteService) Get(_ context.Context, gameID string) (*FavoriteView, error) {
	f, ok := s.store.Get(gameID)
	if !ok {
		return nil, domainerrors.NotFoundf("game %q is not a favorite", gameID)
	}
	v := s.view(f)
	return &v, nil
}

// FavoriteRequest names a game to favorite. GameName may be omitted for
// games in the current list.
type FavoriteRequest struct {
	GameID   string `json:"game_id" validate:"required,max=128"`
	GameName string `json:"game_name" validate:"max=256"`
}

// FavoriteResult reports the outcome of a mutation.
type FavoriteResult struct {
	GameID    string `json:"game_id"`
	Favorited bool   `json:"favorited"`
	Changed   bool   `json:"changed"`
	Count     int    `json:"count"`
}

// Add favorites a game. Adding an existing favorite is not an error.
func (s *FavoriteService) Add(_ context.Context, req FavoriteRequest) (*FavoriteResult, error) {
	req, err := s.normalize(req)
	if err != nil {
		return nil, err
	}
	changed := s.store.Add(req.GameID, s.resolveName(req))
	return &FavoriteResult{GameID: req.GameID, Favorited: true, Changed: changed, Count: s.store.Count()}, nil
}

// Remove unfavorites a game. Removing an absent game is not an error.
func (s *FavoriteService) Remove(_ context.Context, gameID string) (*FavoriteResult, error) {
	gameID = strings.TrimSpace(gameID)
	if err := s.validator.Var(gameID, "required,max=128"); err != nil {
		return nil, err
	}
	changed := s.store.Remove(gameID)
	return &FavoriteResult{GameID: gameID, Favorited: false, Changed: changed, Count: s.store.Count()}, nil
}

// Toggle flips a game's membership.
func (s *FavoriteService) Toggle(_ context.Context, req FavoriteRequest) (*FavoriteResult, error) {
	req, err := s.normalize(req)
	if err != nil {
		return nil, err
	}
	favorited := s.store.Toggle(req.GameID, s.resolveName(req))
	return &FavoriteResult{GameID: req.GameID, Favorited: favorited, Changed: true, Count: s.store.Count()}, nil
}

// Clear removes every favorite and returns how many were removed.
func (s *FavoriteService) Clear(_ context.Context) int {
	return s.store.Clear()
}

func (s *FavoriteService) normalize(req FavoriteRequest) (FavoriteRequest, error) {
	req.GameID = strings.TrimSpace(req.GameID)
	req.GameName = strings.TrimSpace(req.GameName)
	if err := s.validator.Validate(req); err != nil {
		return req, err
	}
	return req, nil
}

// resolveName prefers the request, then the current list, then an existing
// favorite, then the ID itself.
func (s *FavoriteService) resolveName(req FavoriteRequest) string {
	if req.GameName != "" {
		return req.GameName
	}
	if s.names != nil {
		if name := s.names.gameName(req.GameID); name != "" {
			return name
		}
	}
	if f, ok := s.store.Get(req.GameID); ok && f.GameName != "" {
		return f.GameName
	}
	return req.GameID
}

func (s *FavoriteService) view(f domain.Favorite) FavoriteView {
	tracked := false
	if s.names != nil {
		tracked = s.names.gameName(f.GameID) != ""
	}
	return FavoriteView{Favorite: f, Tracked: tracked}
}
