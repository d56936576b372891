package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/streamscoutapp/streamscout-server/internal/analyzer"
	"github.com/streamscoutapp/streamscout-server/internal/catalog"
	domainerrors "github.com/streamscoutapp/streamscout-server/internal/errors"
	"github.com/streamscoutapp/streamscout-server/internal/favorites"
	"github.com/streamscoutapp/streamscout-server/internal/genre"
	"github.com/streamscoutapp/streamscout-server/internal/insights"
	"github.com/streamscoutapp/streamscout-server/internal/refresher"
	"github.com/streamscoutapp/streamscout-server/internal/timeblock"
	"github.com/streamscoutapp/streamscout-server/internal/validation"
)

// MsgLoadFailed is shown when no ranked list can be served.
const MsgLoadFailed = "Failed to load data. Please try again later."

// ListRefresher is the part of the refresher the game service drives.
type ListRefresher interface {
	Status() refresher.Status
	Refresh(ctx context.Context) error
}

// GameService serves the ranked list with filtering and localization.
type GameService struct {
	catalog   *catalog.Controller
	refresher ListRefresher
	favorites *favorites.Store
	converter *timeblock.Converter
	validator *validation.Validator
	logger    *slog.Logger
}

// NewGameService creates a new game service.
func NewGameService(cat *catalog.Controller, ref ListRefresher, favs *favorites.Store, conv *timeblock.Converter, logger *slog.Logger) *GameService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &GameService{
		catalog:   cat,
		refresher: ref,
		favorites: favs,
		converter: conv,
		validator: validation.New(),
		logger:    logger,
	}
}

// ListGamesRequest selects a view of the ranked list.
type ListGamesRequest struct {
	Genres        []string `json:"genres" validate:"max=20,dive,required,max=64"`
	Mode          string   `json:"mode" validate:"max=8"`
	Query         string   `json:"q" validate:"max=200"`
	FavoritesOnly bool     `json:"favorites"`
	Timezone      string   `json:"tz" validate:"max=64"`
}

// GameCard is a ranked game as shown in the list.
type GameCard struct {
	catalog.Entry
	// BestTimeLocal is the best block in the viewer's zone, nil without history.
	BestTimeLocal *string `json:"best_time_local,omitempty"`
}

// GameList is a filtered, localized view of the ranked list.
type GameList struct {
	State              refresher.State     `json:"state"`
	Games              []GameCard          `json:"games"`
	Untracked          []catalog.Untracked `json:"untracked,omitempty"`
	Total              int                 `json:"total"`
	TotalGamesAnalyzed int                 `json:"total_games_analyzed"`
	Timestamp          *time.Time          `json:"timestamp,omitempty"`
	Timezone           string              `json:"timezone"`
	// Stale is set when the list is served after a failed refresh.
	Stale bool `json:"stale"`
}

// List applies the request's filters to the current list. While the
// analytics service is warming up, or before the first fetch finishes,
// an empty list is returned with the matching state. Once a fetch has
// failed with no list to fall back on, it returns an unavailable error.
func (s *GameService) List(ctx context.Context, req ListGamesRequest) (*GameList, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	mode, err := catalog.ParseMode(req.Mode)
	if err != nil {
		return nil, domainerrors.Validation(err.Error())
	}

	viewer := s.viewer(req.Timezone)
	status := s.refresher.Status()

	view, err := s.catalog.View(ctx, catalog.Filter{
		Genres:        req.Genres,
		Mode:          mode,
		Query:         req.Query,
		FavoritesOnly: req.FavoritesOnly,
	}, s.favorites)
	if errors.Is(err, catalog.ErrNoData) {
		return s.emptyList(status, viewer, req.FavoritesOnly)
	}
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to filter games")
	}

	ts := view.Timestamp
	out := &GameList{
		State:              refresher.StateReady,
		Games:              make([]GameCard, 0, len(view.Games)),
		Untracked:          view.Untracked,
		Total:              view.Total,
		TotalGamesAnalyzed: view.TotalGamesAnalyzed,
		Timestamp:          &ts,
		Timezone:           viewer.String(),
		Stale:              status.LastError != "",
	}
	for _, e := range view.Games {
		out.Games = append(out.Games, s.card(e, viewer))
	}
	return out, nil
}

// emptyList answers before any list is held. A favorites view still shows
// every favorite, flagged untracked.
func (s *GameService) emptyList(status refresher.Status, viewer *time.Location, favoritesOnly bool) (*GameList, error) {
	switch status.State {
	case refresher.StateWarmingUp, refresher.StateLoading:
		out := &GameList{
			State:    status.State,
			Games:    []GameCard{},
			Timezone: viewer.String(),
		}
		if favoritesOnly && s.favorites != nil {
			for _, fav := range s.favorites.List() {
				out.Untracked = append(out.Untracked, catalog.Untracked{
					GameID:    fav.GameID,
					GameName:  fav.GameName,
					AddedAt:   fav.AddedAt,
					Untracked: true,
				})
			}
		}
		return out, nil
	default:
		return nil, domainerrors.Unavailable(MsgLoadFailed)
	}
}

// Game returns one game from the current list.
func (s *GameService) Game(_ context.Context, gameID, timezone string) (*GameCard, error) {
	if !s.catalog.HasData() {
		return nil, domainerrors.Unavailable(MsgLoadFailed)
	}
	g, ok := s.catalog.Game(gameID)
	if !ok {
		return nil, domainerrors.NotFoundf("game %q is not in the current list", gameID)
	}
	card := s.card(catalog.Entry{
		GameOpportunity: g,
		Favorited:       s.favorites != nil && s.favorites.IsFavorited(gameID),
	}, s.viewer(timezone))
	return &card, nil
}

// Status returns the refresher status.
func (s *GameService) Status() refresher.Status {
	return s.refresher.Status()
}

// Refresh fetches the list now. A warming service is not an error. A
// failure is only returned when there is no list to keep serving.
func (s *GameService) Refresh(ctx context.Context) (refresher.Status, error) {
	err := s.refresher.Refresh(ctx)
	status := s.refresher.Status()
	switch {
	case err == nil, errors.Is(err, analyzer.ErrWarmingUp):
		return status, nil
	case status.HasData():
		s.logger.Warn("manual refresh failed, serving last list", "error", err)
		return status, nil
	default:
		return status, domainerrors.Unavailable(MsgLoadFailed).WithCause(err)
	}
}

// GenreOverview lists genre facets and landing pages.
type GenreOverview struct {
	Facets []catalog.GenreCount `json:"facets"`
	Pages  []genre.LandingPage  `json:"pages"`
}

// Genres returns the genre facets of the current list and all landing pages.
func (s *GameService) Genres() GenreOverview {
	facets := s.catalog.Genres()
	if facets == nil {
		facets = []catalog.GenreCount{}
	}
	return GenreOverview{Facets: facets, Pages: genre.LandingPages}
}

// LandingView is a landing page with the ranked games it lists.
type LandingView struct {
	Page  genre.LandingPage `json:"page"`
	Games []GameCard        `json:"games"`
	State refresher.State   `json:"state"`
}

// Landing returns a landing page and its games in rank order.
func (s *GameService) Landing(ctx context.Context, slug, timezone string) (*LandingView, error) {
	page, ok := genre.FindLandingPage(slug)
	if !ok {
		return nil, domainerrors.NotFoundf("no landing page %q", slug)
	}

	list, err := s.List(ctx, ListGamesRequest{Timezone: timezone})
	if err != nil {
		return nil, err
	}

	out := &LandingView{Page: page, Games: make([]GameCard, 0), State: list.State}
	for _, g := range list.Games {
		if page.Includes(g.Genres) {
			out.Games = append(out.Games, g)
		}
	}
	return out, nil
}

func (s *GameService) card(e catalog.Entry, viewer *time.Location) GameCard {
	return GameCard{
		Entry:         e,
		BestTimeLocal: insights.BestTimeLocal(&e.GameOpportunity, s.converter, viewer),
	}
}

func (s *GameService) viewer(timezone string) *time.Location {
	return timeblock.ResolveLocation(timezone, s.converter.Reference())
}

// gameName returns the display name of a listed game, or "".
func (s *GameService) gameName(gameID string) string {
	g, ok := s.catalog.Game(gameID)
	if !ok {
		return ""
	}
	return g.GameName
}

var (
	_ ListRefresher       = (*refresher.Refresher)(nil)
	_ catalog.FavoriteSet = (*favorites.Store)(nil)
)
