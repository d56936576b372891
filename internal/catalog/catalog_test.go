package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamscoutapp/streamscout-server/internal/domain"
	"github.com/streamscoutapp/streamscout-server/internal/favorites"
	"github.com/streamscoutapp/streamscout-server/internal/search"
)

func newController(t *testing.T, games ...domain.GameOpportunity) *Controller {
	t.Helper()

	index, err := search.NewIndex(search.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	c := New(index, nil)
	if games != nil {
		require.NoError(t, c.Replace(&domain.AnalyzeResult{
			TopOpportunities:   games,
			TotalGamesAnalyzed: 500,
			Timestamp:          time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		}))
	}
	return c
}

func newFavorites(t *testing.T) *favorites.Store {
	t.Helper()
	s := favorites.New(context.Background(), nil, nil)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func ids(v *View) []string {
	out := make([]string, 0, len(v.Games))
	for _, g := range v.Games {
		out = append(out, g.GameID)
	}
	return out
}

func game(id, name string, rank int, genres ...string) domain.GameOpportunity {
	return domain.GameOpportunity{GameID: id, GameName: name, Rank: rank, Genres: genres}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeOr, false},
		{"or", ModeOr, false},
		{"AND", ModeAnd, false},
		{"xor", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestController_ViewWithoutData(t *testing.T) {
	c := newController(t)

	_, err := c.View(context.Background(), Filter{}, nil)
	assert.ErrorIs(t, err, ErrNoData)
	assert.False(t, c.HasData())
}

func TestController_GenreAndVersusOr(t *testing.T) {
	c := newController(t,
		game("A", "Alpha", 1, "RPG", "Horror"),
		game("B", "Beta", 2, "RPG"),
		game("C", "Gamma", 3, "Shooter"),
	)
	ctx := context.Background()

	or, err := c.View(ctx, Filter{Genres: []string{"RPG", "Horror"}, Mode: ModeOr}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, ids(or))

	and, err := c.View(ctx, Filter{Genres: []string{"RPG", "Horror"}, Mode: ModeAnd}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, ids(and))
}

func TestController_EmptySelectionPassesAll(t *testing.T) {
	c := newController(t,
		game("A", "Alpha", 1, "RPG"),
		game("B", "Beta", 2),
	)

	v, err := c.View(context.Background(), Filter{Mode: ModeAnd}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, ids(v))
	assert.Equal(t, 2, v.Total)
	assert.Equal(t, 500, v.TotalGamesAnalyzed)
}

func TestController_UnmatchableGenreMatchesNothing(t *testing.T) {
	c := newController(t,
		game("A", "Alpha", 1, "RPG"),
		game("B", "Beta", 2, "Horror"),
	)
	ctx := context.Background()

	v, err := c.View(ctx, Filter{Genres: []string{"???"}, Mode: ModeOr}, nil)
	require.NoError(t, err)
	assert.Empty(t, ids(v))

	v, err = c.View(ctx, Filter{Genres: []string{"???", "RPG"}, Mode: ModeOr}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, ids(v))

	v, err = c.View(ctx, Filter{Genres: []string{"", "  "}, Mode: ModeOr}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, ids(v))
}

func TestController_GenreComparisonIgnoresCaseAndAliases(t *testing.T) {
	c := newController(t,
		game("A", "Alpha", 1, "Role-Playing"),
		game("B", "Beta", 2, "Shooter"),
	)

	v, err := c.View(context.Background(), Filter{Genres: []string{"rpg"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, ids(v))
}

func TestController_SearchKeepsRankOrder(t *testing.T) {
	c := newController(t,
		game("g1", "Dark Souls III", 1),
		game("g2", "Darkest Dungeon", 2),
		game("g3", "Dark", 3),
		game("g4", "Valorant", 4),
	)

	v, err := c.View(context.Background(), Filter{Query: "dark"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"g1", "g2", "g3"}, ids(v))
}

func TestController_FiltersCompose(t *testing.T) {
	c := newController(t,
		game("g1", "Dark Souls III", 1, "RPG"),
		game("g2", "Darkest Dungeon", 2, "Roguelike"),
		game("g3", "Elden Ring", 3, "RPG"),
	)
	favs := newFavorites(t)
	favs.Add("g1", "Dark Souls III")
	favs.Add("g2", "Darkest Dungeon")

	v, err := c.View(context.Background(), Filter{
		Genres:        []string{"RPG"},
		Query:         "dark",
		FavoritesOnly: true,
	}, favs)
	require.NoError(t, err)
	assert.Equal(t, []string{"g1"}, ids(v))
	assert.True(t, v.Games[0].Favorited)
}

func TestController_UntrackedFavorites(t *testing.T) {
	c := newController(t,
		game("g1", "Alpha", 1),
		game("g2", "Beta", 2),
	)
	favs := newFavorites(t)
	favs.Add("gone", "Fell Off The List")
	favs.Add("g2", "Beta")

	v, err := c.View(context.Background(), Filter{FavoritesOnly: true}, favs)
	require.NoError(t, err)

	assert.Equal(t, []string{"g2"}, ids(v))
	require.Len(t, v.Untracked, 1)
	assert.Equal(t, "gone", v.Untracked[0].GameID)
	assert.Equal(t, "Fell Off The List", v.Untracked[0].GameName)
	assert.True(t, v.Untracked[0].Untracked)
}

func TestController_UntrackedOnlyInFavoritesView(t *testing.T) {
	c := newController(t, game("g1", "Alpha", 1))
	favs := newFavorites(t)
	favs.Add("gone", "Gone")

	v, err := c.View(context.Background(), Filter{}, favs)
	require.NoError(t, err)
	assert.Empty(t, v.Untracked)
	assert.Equal(t, []string{"g1"}, ids(v))
	assert.False(t, v.Games[0].Favorited)
}

func TestController_ReplaceDoesNotAlias(t *testing.T) {
	games := []domain.GameOpportunity{game("g1", "Alpha", 1)}
	c := newController(t, games...)

	games[0].GameName = "Changed"

	g, ok := c.Game("g1")
	require.True(t, ok)
	assert.Equal(t, "Alpha", g.GameName)

	_, ok = c.Game("missing")
	assert.False(t, ok)
}

func TestController_Genres(t *testing.T) {
	c := newController(t,
		game("g1", "A", 1, "RPG", "Horror"),
		game("g2", "B", 2, "Role-Playing"),
		game("g3", "C", 3, "Survival Horror"),
	)

	got := c.Genres()
	require.Len(t, got, 3)

	assert.Equal(t, "horror", got[0].Slug)
	assert.Equal(t, 2, got[0].Count)
	assert.Equal(t, "role-playing", got[1].Slug)
	assert.Equal(t, 2, got[1].Count)
	assert.Equal(t, "survival", got[2].Slug)
	assert.Equal(t, 1, got[2].Count)
}
