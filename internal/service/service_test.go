package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/streamscoutapp/streamscout-server/internal/catalog"
	"github.com/streamscoutapp/streamscout-server/internal/domain"
	"github.com/streamscoutapp/streamscout-server/internal/favorites"
	"github.com/streamscoutapp/streamscout-server/internal/refresher"
	"github.com/streamscoutapp/streamscout-server/internal/search"
	"github.com/streamscoutapp/streamscout-server/internal/sse"
	"github.com/streamscoutapp/streamscout-server/internal/timeblock"
)

var fixedNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

type fakeRefresher struct {
	mu        sync.Mutex
	status    refresher.Status
	err       error
	refreshes int
	onRefresh func(*fakeRefresher)
}

func (f *fakeRefresher) Status() refresher.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

func (f *fakeRefresher) Refresh(_ context.Context) error {
	f.mu.Lock()
	f.refreshes++
	hook := f.onRefresh
	err := f.err
	f.mu.Unlock()
	if hook != nil {
		hook(f)
	}
	return err
}

func (f *fakeRefresher) set(status refresher.Status) {
	f.mu.Lock()
	f.status = status
	f.mu.Unlock()
}

type recordingEmitter struct {
	mu     sync.Mutex
	events []sse.Event
}

func (r *recordingEmitter) Emit(event any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if evt, ok := event.(sse.Event); ok {
		r.events = append(r.events, evt)
	}
}

func (r *recordingEmitter) all() []sse.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]sse.Event, len(r.events))
	copy(out, r.events)
	return out
}

func ptr[T any](v T) *T { return &v }

func sampleResult() *domain.AnalyzeResult {
	return &domain.AnalyzeResult{
		TotalGamesAnalyzed: 1200,
		Timestamp:          fixedNow,
		TopOpportunities: []domain.GameOpportunity{
			{GameID: "g1", GameName: "Elden Ring", Rank: 1, OverallScore: 0.9, Genres: []string{"RPG", "Action"}, BestTime: ptr(domain.Block12to16)},
			{GameID: "g2", GameName: "Phasmophobia", Rank: 2, OverallScore: 0.8, Genres: []string{"Horror"}},
			{GameID: "g3", GameName: "Baldur's Gate 3", Rank: 3, OverallScore: 0.7, Genres: []string{"RPG", "Strategy"}},
			{GameID: "g4", GameName: "Dead by Daylight", Rank: 4, OverallScore: 0.6, Genres: []string{"Horror", "Action"}},
		},
	}
}

type fixture struct {
	catalog   *catalog.Controller
	refresher *fakeRefresher
	favorites *favorites.Store
	emitter   *recordingEmitter
	converter *timeblock.Converter
	games     *GameService
	favs      *FavoriteService
}

func newFixture(t *testing.T, loaded bool) *fixture {
	t.Helper()

	index, err := search.NewIndex(search.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	cat := catalog.New(index, nil)
	ref := &fakeRefresher{status: refresher.Status{State: refresher.StateLoading}}
	if loaded {
		require.NoError(t, cat.Replace(sampleResult()))
		ref.status = refresher.Status{State: refresher.StateReady, Games: 4}
	}

	store := favorites.New(context.Background(), favorites.NewMemoryPersister(), nil,
		favorites.WithClock(func() time.Time { return fixedNow }))
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	conv := timeblock.NewConverter(time.UTC, func() time.Time { return fixedNow })
	emitter := &recordingEmitter{}
	games := NewGameService(cat, ref, store, conv, nil)
	favs := NewFavoriteService(store, games, emitter, nil)
	t.Cleanup(favs.Close)

	return &fixture{
		catalog:   cat,
		refresher: ref,
		favorites: store,
		emitter:   emitter,
		converter: conv,
		games:     games,
		favs:      favs,
	}
}

func gameIDs(cards []GameCard) []string {
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.GameID)
	}
	return out
}
