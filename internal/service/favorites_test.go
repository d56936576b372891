package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/streamscoutapp/streamscout-server/internal/errors"
	"github.com/streamscoutapp/streamscout-server/internal/sse"
)

func TestFavoriteService_AddResolvesNameFromList(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	res, err := f.favs.Add(ctx, FavoriteRequest{GameID: "g2"})
	require.NoError(t, err)
	assert.True(t, res.Favorited)
	assert.True(t, res.Changed)
	assert.Equal(t, 1, res.Count)

	fav, err := f.favs.Get(ctx, "g2")
	require.NoError(t, err)
	assert.Equal(t, "Phasmophobia", fav.GameName)
	assert.True(t, fav.Tracked)
	assert.Equal(t, fixedNow.UnixMilli(), fav.AddedAt)
}

func TestFavoriteService_AddIsIdempotent(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	_, err := f.favs.Add(ctx, FavoriteRequest{GameID: "g1", GameName: "Elden Ring"})
	require.NoError(t, err)
	res, err := f.favs.Add(ctx, FavoriteRequest{GameID: "g1", GameName: "Elden Ring"})
	require.NoError(t, err)

	assert.False(t, res.Changed)
	assert.Equal(t, 1, res.Count)
	assert.Len(t, f.emitter.all(), 1, "only the real change is announced")
}

func TestFavoriteService_UntrackedGameKeepsGivenName(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	_, err := f.favs.Add(ctx, FavoriteRequest{GameID: "old", GameName: "Retired Game"})
	require.NoError(t, err)
	_, err = f.favs.Add(ctx, FavoriteRequest{GameID: "anon"})
	require.NoError(t, err)

	list := f.favs.List(ctx)
	require.Len(t, list.Favorites, 2)
	assert.Equal(t, "Retired Game", list.Favorites[0].GameName)
	assert.False(t, list.Favorites[0].Tracked)
	assert.Equal(t, "anon", list.Favorites[1].GameName)
}

func TestFavoriteService_Validation(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	_, err := f.favs.Add(ctx, FavoriteRequest{GameID: "   "})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrValidation))

	_, err = f.favs.Remove(ctx, "")
	assert.True(t, errors.Is(err, domainerrors.ErrValidation))
}

func TestFavoriteService_RemoveAbsentIsNoOp(t *testing.T) {
	f := newFixture(t, true)

	res, err := f.favs.Remove(context.Background(), "g1")
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, 0, res.Count)
	assert.Empty(t, f.emitter.all())
}

func TestFavoriteService_ToggleTwiceRestores(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	on, err := f.favs.Toggle(ctx, FavoriteRequest{GameID: "g3"})
	require.NoError(t, err)
	assert.True(t, on.Favorited)

	off, err := f.favs.Toggle(ctx, FavoriteRequest{GameID: "g3"})
	require.NoError(t, err)
	assert.False(t, off.Favorited)
	assert.Equal(t, 0, off.Count)

	_, err = f.favs.Get(ctx, "g3")
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))
}

func TestFavoriteService_ChangesAreAnnounced(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	_, err := f.favs.Add(ctx, FavoriteRequest{GameID: "g1"})
	require.NoError(t, err)
	_, err = f.favs.Remove(ctx, "g1")
	require.NoError(t, err)
	_, err = f.favs.Add(ctx, FavoriteRequest{GameID: "g2"})
	require.NoError(t, err)
	assert.Equal(t, 1, f.favs.Clear(ctx))

	events := f.emitter.all()
	require.Len(t, events, 4)

	kinds := make([]string, 0, len(events))
	for _, evt := range events {
		assert.Equal(t, sse.EventFavoritesChanged, evt.Type)
		data, ok := evt.Data.(sse.FavoritesChangedEventData)
		require.True(t, ok)
		kinds = append(kinds, data.Kind)
	}
	assert.Equal(t, []string{"added", "removed", "added", "cleared"}, kinds)

	first := events[0].Data.(sse.FavoritesChangedEventData)
	assert.Equal(t, "Elden Ring", first.GameName)
	assert.Equal(t, 1, first.Count)
}

func TestFavoriteService_CloseStopsAnnouncing(t *testing.T) {
	f := newFixture(t, true)
	f.favs.Close()

	_, err := f.favs.Add(context.Background(), FavoriteRequest{GameID: "g1"})
	require.NoError(t, err)
	assert.Empty(t, f.emitter.all())
}
