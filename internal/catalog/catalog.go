// Package catalog holds the current ranked game list and answers filtered
// views of it. The list is kept in the order the ranking service returned;
// nothing here re-sorts it.
package catalog

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/streamscoutapp/streamscout-server/internal/domain"
	"github.com/streamscoutapp/streamscout-server/internal/genre"
	"github.com/streamscoutapp/streamscout-server/internal/search"
)

// ErrNoData is returned when no ranked list has been loaded yet.
var ErrNoData = errors.New("no game data loaded")

// Matcher finds games whose names match a free-text query.
type Matcher interface {
	Replace(games []domain.GameOpportunity) error
	Match(ctx context.Context, query string) (map[string]float64, error)
}

// FavoriteSet is the read side of the favorites store.
type FavoriteSet interface {
	IsFavorited(gameID string) bool
	List() []domain.Favorite
}

// Entry is a game in a view.
type Entry struct {
	domain.GameOpportunity
	Favorited bool `json:"favorited"`
}

// Untracked is a favorite that is not in the current ranked list. It has
// no live stats.
type Untracked struct {
	GameID    string `json:"game_id"`
	GameName  string `json:"game_name"`
	AddedAt   int64  `json:"added_at"`
	Untracked bool   `json:"untracked"`
}

// View is the result of applying a Filter to the current list.
type View struct {
	Games     []Entry     `json:"games"`
	Untracked []Untracked `json:"untracked,omitempty"`
	// Total is the size of the unfiltered list.
	Total              int       `json:"total"`
	TotalGamesAnalyzed int       `json:"total_games_analyzed"`
	Timestamp          time.Time `json:"timestamp"`
}

// GenreCount is a genre facet over the current list.
type GenreCount struct {
	Slug  string `json:"slug"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Controller owns the current ranked list.
type Controller struct {
	mu       sync.RWMutex
	snapshot *domain.AnalyzeResult

	matcher Matcher
	logger  *slog.Logger
}

// New creates an empty controller.
func New(matcher Matcher, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Controller{matcher: matcher, logger: logger}
}

// Replace swaps in a new ranked list and re-indexes it for search.
func (c *Controller) Replace(result *domain.AnalyzeResult) error {
	if result == nil {
		return errors.New("nil result")
	}

	snapshot := *result
	snapshot.TopOpportunities = slices.Clone(result.TopOpportunities)

	if c.matcher != nil {
		if err := c.matcher.Replace(snapshot.TopOpportunities); err != nil {
			return fmt.Errorf("index games: %w", err)
		}
	}

	c.mu.Lock()
	c.snapshot = &snapshot
	c.mu.Unlock()

	c.logger.Debug("game list replaced", "games", len(snapshot.TopOpportunities))
	return nil
}

// Snapshot returns the current list, or nil before the first Replace.
func (c *Controller) Snapshot() *domain.AnalyzeResult {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}

// HasData reports whether a list has been loaded.
func (c *Controller) HasData() bool {
	return c.Snapshot() != nil
}

// Game returns a game from the current list.
func (c *Controller) Game(gameID string) (domain.GameOpportunity, bool) {
	snap := c.Snapshot()
	g, ok := snap.Find(gameID)
	if !ok {
		return domain.GameOpportunity{}, false
	}
	return *g, true
}

// View applies f to the current list. favorites may be nil when no
// favorites store is wired; FavoritesOnly then yields an empty view.
func (c *Controller) View(ctx context.Context, f Filter, favorites FavoriteSet) (*View, error) {
	snap := c.Snapshot()
	if snap == nil {
		return nil, ErrNoData
	}

	genres := compileGenres(f.Genres, f.Mode)

	var matches map[string]float64
	if !search.IsBlank(f.Query) {
		if c.matcher == nil {
			return nil, errors.New("search is not available")
		}
		var err error
		matches, err = c.matcher.Match(ctx, f.Query)
		if err != nil {
			return nil, fmt.Errorf("search games: %w", err)
		}
	}

	isFavorited := func(id string) bool {
		return favorites != nil && favorites.IsFavorited(id)
	}

	view := &View{
		Games:              make([]Entry, 0, len(snap.TopOpportunities)),
		Total:              len(snap.TopOpportunities),
		TotalGamesAnalyzed: snap.TotalGamesAnalyzed,
		Timestamp:          snap.Timestamp,
	}

	for _, g := range snap.TopOpportunities {
		fav := isFavorited(g.GameID)
		if f.FavoritesOnly && !fav {
			continue
		}
		if !genres.pass(g.Genres) {
			continue
		}
		if matches != nil {
			if _, ok := matches[g.GameID]; !ok {
				continue
			}
		}
		view.Games = append(view.Games, Entry{GameOpportunity: g, Favorited: fav})
	}

	if f.FavoritesOnly && favorites != nil {
		view.Untracked = untracked(snap, favorites.List())
	}

	return view, nil
}

// untracked returns favorites missing from snap, in favorites order.
func untracked(snap *domain.AnalyzeResult, favorites []domain.Favorite) []Untracked {
	var out []Untracked
	for _, fav := range favorites {
		if _, ok := snap.Find(fav.GameID); ok {
			continue
		}
		out = append(out, Untracked{
			GameID:    fav.GameID,
			GameName:  fav.GameName,
			AddedAt:   fav.AddedAt,
			Untracked: true,
		})
	}
	return out
}

// Genres returns a facet count per canonical genre in the current list,
// most common first.
func (c *Controller) Genres() []GenreCount {
	snap := c.Snapshot()
	if snap == nil {
		return nil
	}

	counts := make(map[string]*GenreCount)
	for _, g := range snap.TopOpportunities {
		for slug := range genre.SlugSet(g.Genres) {
			gc, ok := counts[slug]
			if !ok {
				gc = &GenreCount{Slug: slug, Label: labelFor(slug, g.Genres)}
				counts[slug] = gc
			}
			gc.Count++
		}
	}

	out := make([]GenreCount, 0, len(counts))
	for _, gc := range counts {
		out = append(out, *gc)
	}
	slices.SortFunc(out, func(a, b GenreCount) int {
		if n := cmp.Compare(b.Count, a.Count); n != 0 {
			return n
		}
		return cmp.Compare(a.Slug, b.Slug)
	})
	return out
}

// labelFor picks a display label for slug from the raw genres that
// produced it, preferring a label whose own slug is the canonical one.
func labelFor(slug string, raw []string) string {
	var fallback string
	for _, label := range raw {
		if genre.Slugify(label) == slug {
			return label
		}
		if fallback == "" && slices.Contains(genre.NormalizeToSlugs(label), slug) {
			fallback = label
		}
	}
	if fallback != "" {
		return fallback
	}
	return slug
}
