// Package analyzer is the client for the external streaming analytics API
// that ranks game opportunities. Responses are validated at the boundary:
// anything that does not decode or validate is reported as ErrMalformed.
package analyzer

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/streamscoutapp/streamscout-server/internal/domain"
	"github.com/streamscoutapp/streamscout-server/internal/ratelimit"
	"github.com/streamscoutapp/streamscout-server/internal/validation"
)

const (
	defaultRPS     = 5.0
	defaultBurst   = 5
	defaultTimeout = 30 * time.Second
	defaultLimit   = 50
	maxLimit       = 500

	// maxBodyBytes caps how much of a response is read.
	maxBodyBytes = 8 << 20

	limiterKey = "upstream"
	statusWarm = "warming_up"
)

// Options configures the client.
type Options struct {
	BaseURL string
	Timeout time.Duration
	RPS     float64
	Burst   int
	Logger  *slog.Logger
	// HTTPClient overrides the transport, mostly for tests.
	HTTPClient *http.Client
}

// Client is a rate-limited analytics API client.
type Client struct {
	baseURL   string
	http      *http.Client
	limiter   *ratelimit.KeyedRateLimiter
	validator *validation.Validator
	logger    *slog.Logger
}

// New creates a client for the API at opts.BaseURL.
func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.RPS <= 0 {
		opts.RPS = defaultRPS
	}
	if opts.Burst <= 0 {
		opts.Burst = defaultBurst
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	return &Client{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		http:      httpClient,
		limiter:   ratelimit.New(opts.RPS, opts.Burst),
		validator: validation.New(),
		logger:    logger,
	}
}

// Close releases resources held by the client.
func (c *Client) Close() {
	c.limiter.Stop()
}

// BaseURL returns the API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Analyze fetches the ranked opportunity list. limit <= 0 uses the default.
func (c *Client) Analyze(ctx context.Context, limit int) (*domain.AnalyzeResult, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))

	body, err := c.doRequest(ctx, "/api/v1/analyze", query)
	if err != nil {
		return nil, wrapError("analyze", "", err)
	}

	var resp rawAnalyzeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, wrapError("analyze", "", fmt.Errorf("%w: parse response: %w", ErrMalformed, err))
	}
	if resp.Status == statusWarm {
		return nil, wrapError("analyze", "", ErrWarmingUp)
	}
	if resp.TopOpportunities == nil {
		return nil, wrapError("analyze", "", fmt.Errorf("%w: missing top_opportunities", ErrMalformed))
	}
	if err := c.validator.Validate(&resp); err != nil {
		return nil, wrapError("analyze", "", fmt.Errorf("%w: %w", ErrMalformed, err))
	}

	result, err := toAnalyzeResult(&resp)
	if err != nil {
		return nil, wrapError("analyze", "", fmt.Errorf("%w: %w", ErrMalformed, err))
	}
	return result, nil
}

// Status fetches the cache and worker state.
func (c *Client) Status(ctx context.Context) (*domain.UpstreamStatus, error) {
	body, err := c.doRequest(ctx, "/api/v1/status", nil)
	if err != nil {
		return nil, wrapError("status", "", err)
	}

	var resp rawStatus
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, wrapError("status", "", fmt.Errorf("%w: parse response: %w", ErrMalformed, err))
	}
	if err := c.validator.Validate(&resp); err != nil {
		return nil, wrapError("status", "", fmt.Errorf("%w: %w", ErrMalformed, err))
	}

	return &domain.UpstreamStatus{
		Cache: domain.UpstreamCacheStatus{
			HasData:            resp.Cache.HasData,
			AgeSeconds:         resp.Cache.AgeSeconds,
			NextRefreshSeconds: resp.Cache.NextRefreshSeconds,
		},
		Worker: domain.UpstreamWorkerStatus{
			IsRefreshing: resp.Worker.IsRefreshing,
		},
	}, nil
}

// Analytics fetches the historical detail for one game.
func (c *Client) Analytics(ctx context.Context, gameID string) (*domain.GameAnalytics, error) {
	if strings.TrimSpace(gameID) == "" {
		return nil, wrapError("analytics", gameID, ErrNotFound)
	}

	body, err := c.doRequest(ctx, "/api/v1/analytics/"+url.PathEscape(gameID), nil)
	if err != nil {
		return nil, wrapError("analytics", gameID, err)
	}

	var resp rawAnalytics
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, wrapError("analytics", gameID, fmt.Errorf("%w: parse response: %w", ErrMalformed, err))
	}
	if resp.Status == statusWarm {
		return nil, wrapError("analytics", gameID, ErrWarmingUp)
	}
	if err := c.validator.Validate(&resp); err != nil {
		return nil, wrapError("analytics", gameID, fmt.Errorf("%w: %w", ErrMalformed, err))
	}

	return toAnalytics(&resp), nil
}

// doRequest executes a GET with rate limiting and maps the status code.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx, limiterKey); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "StreamScout/1.0")

	c.logger.Debug("analyzer request", "path", path)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusAccepted:
		return nil, ErrWarmingUp
	case http.StatusNotFound:
		return nil, ErrNotFound
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	default:
		if resp.StatusCode >= 500 {
			return nil, fmt.Errorf("%w: status %d", ErrServer, resp.StatusCode)
		}
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(body, 200))
	}
}

func toAnalyzeResult(resp *rawAnalyzeResponse) (*domain.AnalyzeResult, error) {
	ts, err := parseTimestamp(resp.Timestamp)
	if err != nil {
		return nil, err
	}

	result := &domain.AnalyzeResult{
		TopOpportunities:   make([]domain.GameOpportunity, 0, len(resp.TopOpportunities)),
		TotalGamesAnalyzed: resp.TotalGamesAnalyzed,
		Timestamp:          ts,
	}

	switch {
	case resp.NextRefreshIn != nil:
		d := seconds(*resp.NextRefreshIn)
		result.RefreshIn = &d
	case resp.CacheExpiresIn != nil:
		d := seconds(*resp.CacheExpiresIn)
		result.RefreshIn = &d
	}

	for i := range resp.TopOpportunities {
		result.TopOpportunities = append(result.TopOpportunities, toOpportunity(&resp.TopOpportunities[i]))
	}
	return result, nil
}

func toOpportunity(r *rawOpportunity) domain.GameOpportunity {
	g := domain.GameOpportunity{
		GameID:               r.GameID,
		GameName:             r.GameName,
		Rank:                 r.Rank,
		DiscoverabilityScore: r.DiscoverabilityScore,
		ViabilityScore:       r.ViabilityScore,
		EngagementScore:      r.EngagementScore,
		OverallScore:         r.OverallScore,
		Genres:               r.Genres,
		IsFiltered:           r.IsFiltered,
		Momentum:             r.Momentum,
		ViewerGrowth:         r.ViewerGrowth,
		ChannelGrowth:        r.ChannelGrowth,
	}
	if g.Genres == nil {
		g.Genres = []string{}
	}
	// Warning text only means something on filtered games.
	if r.IsFiltered && r.WarningText != nil {
		text := *r.WarningText
		g.WarningText = &text
	}
	if r.Trend != nil {
		t := domain.Trend(*r.Trend)
		g.Trend = &t
	}
	if r.BestTime != nil {
		b := domain.TimeBlock(*r.BestTime)
		g.BestTime = &b
	}
	return g
}

func toAnalytics(r *rawAnalytics) *domain.GameAnalytics {
	a := &domain.GameAnalytics{
		ViewerSparkline:    r.ViewerSparkline,
		ViewerTrend:        domain.Trend(r.ViewerTrend),
		ViewerTrendPercent: r.ViewerTrendPercent,
		BestTime:           domain.TimeBlock(r.BestTime),
		Status:             domain.BlockStatus(r.Status),
		DataDays:           r.DataDays,
	}
	if r.TimeBlocks != nil {
		a.TimeBlocks = make(map[domain.TimeBlock]domain.BlockStats, len(r.TimeBlocks))
		for key, stats := range r.TimeBlocks {
			a.TimeBlocks[domain.TimeBlock(key)] = domain.BlockStats{
				AvgRatio:    stats.AvgRatio,
				SampleCount: stats.SampleCount,
			}
		}
	}
	return a
}

// timestampLayouts lists accepted timestamp formats. The naive ISO form
// carries no offset and is read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("missing timestamp")
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
