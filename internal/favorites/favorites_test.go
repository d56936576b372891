package favorites

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamscoutapp/streamscout-server/internal/domain"
	"github.com/streamscoutapp/streamscout-server/internal/store"
)

func newTestStore(t *testing.T, p Persister) *Store {
	t.Helper()
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := New(context.Background(), p, nil, WithClock(func() time.Time { return fixed }))
	t.Cleanup(func() {
		_ = s.Close(context.Background())
	})
	return s
}

func TestStore_AddIsIdempotent(t *testing.T) {
	s := newTestStore(t, nil)

	assert.True(t, s.Add("g1", "Game One"))
	assert.False(t, s.Add("g1", "Game One"))
	assert.Equal(t, 1, s.Count())

	fav, ok := s.Get("g1")
	require.True(t, ok)
	assert.Equal(t, "Game One", fav.GameName)
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC).UnixMilli(), fav.AddedAt)
}

func TestStore_RemoveAbsentIsNoOp(t *testing.T) {
	s := newTestStore(t, nil)

	assert.False(t, s.Remove("missing"))
	assert.Equal(t, 0, s.Count())

	s.Add("g1", "Game One")
	assert.True(t, s.Remove("g1"))
	assert.False(t, s.IsFavorited("g1"))
}

func TestStore_ToggleTwiceRestoresState(t *testing.T) {
	s := newTestStore(t, nil)

	assert.True(t, s.Toggle("g1", "Game One"))
	assert.True(t, s.IsFavorited("g1"))
	assert.False(t, s.Toggle("g1", "Game One"))
	assert.False(t, s.IsFavorited("g1"))
}

func TestStore_ListKeepsInsertionOrder(t *testing.T) {
	s := newTestStore(t, nil)

	s.Add("c", "C")
	s.Add("a", "A")
	s.Add("b", "B")
	s.Remove("a")

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, "c", list[0].GameID)
	assert.Equal(t, "b", list[1].GameID)
}

func TestStore_Clear(t *testing.T) {
	s := newTestStore(t, nil)

	assert.Equal(t, 0, s.Clear())
	s.Add("a", "A")
	s.Add("b", "B")
	assert.Equal(t, 2, s.Clear())
	assert.Empty(t, s.List())
}

func TestStore_PersistsVersionedRecord(t *testing.T) {
	p := NewMemoryPersister()
	s := newTestStore(t, p)

	s.Add("g1", "Game One")
	require.NoError(t, s.Flush(context.Background()))

	var rec struct {
		Version   int               `json:"v"`
		Favorites []domain.Favorite `json:"favorites"`
	}
	require.NoError(t, json.Unmarshal(p.Data(), &rec))
	assert.Equal(t, 1, rec.Version)
	require.Len(t, rec.Favorites, 1)
	assert.Equal(t, "g1", rec.Favorites[0].GameID)
}

func TestStore_ClearPersistsEmptyList(t *testing.T) {
	p := NewMemoryPersister()
	s := newTestStore(t, p)

	s.Add("g1", "Game One")
	s.Clear()
	require.NoError(t, s.Flush(context.Background()))

	favorites, err := decode(p.Data())
	require.NoError(t, err)
	assert.Empty(t, favorites)
}

func TestStore_HydratesFromPersister(t *testing.T) {
	data, err := encode([]domain.Favorite{
		{GameID: "g1", GameName: "One", AddedAt: 1},
		{GameID: "g2", GameName: "Two", AddedAt: 2},
		{GameID: "g1", GameName: "Dup", AddedAt: 3},
		{GameID: "", GameName: "Blank", AddedAt: 4},
	})
	require.NoError(t, err)

	s := newTestStore(t, NewMemoryPersisterWith(data))

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, "One", list[0].GameName)
	assert.Equal(t, "g2", list[1].GameID)
}

func TestStore_HydratesLegacyArray(t *testing.T) {
	legacy := []byte(`[{"game_id":"g9","game_name":"Nine","added_at":99}]`)

	s := newTestStore(t, NewMemoryPersisterWith(legacy))

	assert.True(t, s.IsFavorited("g9"))
}

func TestStore_UnreadableDataStartsEmpty(t *testing.T) {
	cases := map[string][]byte{
		"garbage":         []byte("not json"),
		"unknown version": []byte(`{"v":7,"favorites":[{"game_id":"g1"}]}`),
		"wrong type":      []byte(`"hello"`),
	}

	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			s := newTestStore(t, NewMemoryPersisterWith(data))
			assert.Equal(t, 0, s.Count())
		})
	}
}

func TestStore_LoadFailureStartsEmpty(t *testing.T) {
	p := NewMemoryPersister()
	p.FailLoads(errors.New("disk gone"))

	s := newTestStore(t, p)

	assert.Equal(t, 0, s.Count())
	assert.True(t, s.Add("g1", "One"))
}

func TestStore_SaveFailureIsSwallowed(t *testing.T) {
	p := NewMemoryPersister()
	p.FailSaves(errors.New("quota exceeded"))
	s := newTestStore(t, p)

	assert.True(t, s.Add("g1", "One"))
	require.NoError(t, s.Flush(context.Background()))

	assert.True(t, s.IsFavorited("g1"))
	assert.GreaterOrEqual(t, p.Saves(), 1)
	assert.Nil(t, p.Data())
}

func TestStore_SubscribeReceivesChanges(t *testing.T) {
	s := newTestStore(t, nil)

	var mu sync.Mutex
	var got []Change
	unsubscribe := s.Subscribe(func(c Change) {
		mu.Lock()
		got = append(got, c)
		mu.Unlock()
	})

	s.Add("g1", "One")
	s.Add("g1", "One")
	s.Remove("g1")
	unsubscribe()
	s.Add("g2", "Two")

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 2)
	assert.Equal(t, ChangeAdded, got[0].Kind)
	assert.Equal(t, 1, got[0].Count)
	assert.Equal(t, ChangeRemoved, got[1].Kind)
	assert.Equal(t, "One", got[1].GameName)
}

func TestStore_RoundTripsThroughBadger(t *testing.T) {
	db, err := store.NewInMemory(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	first := New(context.Background(), db.Favorites(), nil)
	first.Add("g1", "One")
	first.Add("g2", "Two")
	first.Remove("g1")
	require.NoError(t, first.Close(context.Background()))

	second := New(context.Background(), db.Favorites(), nil)
	t.Cleanup(func() { _ = second.Close(context.Background()) })

	list := second.List()
	require.Len(t, list, 1)
	assert.Equal(t, "g2", list[0].GameID)
}

func TestStore_ConcurrentToggles(t *testing.T) {
	s := newTestStore(t, nil)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("g%d", n%5)
			s.Toggle(id, id)
			s.Toggle(id, id)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 0, s.Count())
}

func TestStore_FlushHonoursContext(t *testing.T) {
	s := newTestStore(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// With nothing pending Flush returns immediately even if ctx is done.
	assert.NoError(t, s.Flush(ctx))
}
