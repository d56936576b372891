package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamscoutapp/streamscout-server/internal/cards"
	"github.com/streamscoutapp/streamscout-server/internal/catalog"
	"github.com/streamscoutapp/streamscout-server/internal/domain"
	"github.com/streamscoutapp/streamscout-server/internal/favorites"
	"github.com/streamscoutapp/streamscout-server/internal/refresher"
	"github.com/streamscoutapp/streamscout-server/internal/search"
	"github.com/streamscoutapp/streamscout-server/internal/service"
	"github.com/streamscoutapp/streamscout-server/internal/sse"
	"github.com/streamscoutapp/streamscout-server/internal/store"
	"github.com/streamscoutapp/streamscout-server/internal/timeblock"
)

var fixedNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

// testEnvelope decodes the versioned response envelope.
type testEnvelope[T any] struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details any    `json:"details"`
}

func decodeEnvelope[T any](t *testing.T, body []byte) testEnvelope[T] {
	t.Helper()
	var env testEnvelope[T]
	require.NoError(t, json.Unmarshal(body, &env), string(body))
	return env
}

// stubRefresher stands in for the background list refresher.
type stubRefresher struct {
	mu        sync.Mutex
	status    refresher.Status
	err       error
	refreshes int
}

func (f *stubRefresher) Status() refresher.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

func (f *stubRefresher) Refresh(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshes++
	return f.err
}

func (f *stubRefresher) set(status refresher.Status, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
	f.err = err
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

func sampleAnalytics() *domain.GameAnalytics {
	return &domain.GameAnalytics{
		ViewerSparkline:    []float64{10, 12, 15, 14},
		ViewerTrend:        domain.TrendUp,
		ViewerTrendPercent: 12.5,
		BestTime:           domain.Block12to16,
		Status:             domain.StatusGood,
		DataDays:           14,
		TimeBlocks: map[domain.TimeBlock]domain.BlockStats{
			domain.Block12to16: {AvgRatio: 10, SampleCount: 20},
			domain.Block16to20: {AvgRatio: 5, SampleCount: 20},
		},
	}
}

type testServer struct {
	*Server
	api        humatest.TestAPI
	refresher  *stubRefresher
	catalog    *catalog.Controller
	sseManager *sse.Manager
}

type testOption func(*Options)

func withRateLimit(rps float64, burst int) testOption {
	return func(o *Options) {
		o.RateLimitRPS = rps
		o.RateLimitBurst = burst
	}
}

// setupTestServer builds the full API over an in-memory store and a
// stubbed refresher. With loaded set, the sample list is being served.
func setupTestServer(t *testing.T, loaded bool, opts ...testOption) *testServer {
	t.Helper()

	st, err := store.NewInMemory(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	index, err := search.NewIndex(search.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	cat := catalog.New(index, nil)
	ref := &stubRefresher{status: refresher.Status{State: refresher.StateLoading}}
	if loaded {
		require.NoError(t, cat.Replace(sampleResult()))
		ref.status = refresher.Status{State: refresher.StateReady, Games: 4, TotalGamesAnalyzed: 1200}
	}

	sseManager := sse.NewManager(nil)

	favs := favorites.New(context.Background(), st.Favorites(), nil,
		favorites.WithClock(func() time.Time { return fixedNow }))
	t.Cleanup(func() { _ = favs.Close(context.Background()) })

	conv := timeblock.NewConverter(time.UTC, func() time.Time { return fixedNow })
	fetcher := cards.FetcherFunc(func(_ context.Context, _ string) (*domain.GameAnalytics, error) {
		return sampleAnalytics(), nil
	})

	games := service.NewGameService(cat, ref, favs, conv, nil)
	favoriteService := service.NewFavoriteService(favs, games, sseManager, nil)
	t.Cleanup(favoriteService.Close)

	services := &Services{
		Games:     games,
		Favorites: favoriteService,
		Cards:     service.NewCardService(cards.NewRegistry(fetcher, nil), conv, time.Second, nil),
		Charts:    service.NewChartService(fetcher, games, conv, nil),
		Search:    index,
	}

	options := Options{}
	for _, opt := range opts {
		opt(&options)
	}

	s := NewServer(st, services, sse.NewHandler(sseManager, nil), sseManager, options, nil)
	t.Cleanup(s.Close)

	return &testServer{
		Server:     s,
		api:        humatest.Wrap(t, s.API()),
		refresher:  ref,
		catalog:    cat,
		sseManager: sseManager,
	}
}

func TestServer_UnknownRouteUsesEnvelope(t *testing.T) {
	ts := setupTestServer(t, true)

	resp := ts.api.Get("/api/v1/nope")

	assert.Equal(t, http.StatusNotFound, resp.Code)
	env := decodeEnvelope[any](t, resp.Body.Bytes())
	assert.Equal(t, EnvelopeVersion, env.Version)
	assert.False(t, env.Success)
	assert.Equal(t, "NOT_FOUND", env.Code)
}

func TestServer_CORSHeaders(t *testing.T) {
	ts := setupTestServer(t, true)

	resp := ts.api.Get("/api/v1/status", "Origin: http://example.com")

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "*", resp.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_RateLimitRejectsBurstOverflow(t *testing.T) {
	ts := setupTestServer(t, true, withRateLimit(0.001, 2))

	for range 2 {
		resp := ts.api.Get("/api/v1/status")
		require.Equal(t, http.StatusOK, resp.Code)
	}

	resp := ts.api.Get("/api/v1/status")
	assert.Equal(t, http.StatusTooManyRequests, resp.Code)
	env := decodeEnvelope[any](t, resp.Body.Bytes())
	assert.Equal(t, "RATE_LIMITED", env.Code)

	// The health check is never limited.
	assert.Equal(t, http.StatusOK, ts.api.Get("/health").Code)
}

func TestServer_EventsRouteRejectsBadSession(t *testing.T) {
	ts := setupTestServer(t, true)

	resp := ts.api.Get("/api/v1/events?session_id=not-a-session")

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded chain", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "10.0.0.1:5000", "203.0.113.7"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.2"}, "10.0.0.1:5000", "198.51.100.2"},
		{"remote addr", nil, "192.0.2.1:1234", "192.0.2.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := http.NewRequest(http.MethodGet, "/", nil)
			require.NoError(t, err)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, getClientIP(r))
		})
	}
}
