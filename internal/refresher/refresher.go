// Package refresher keeps the ranked game list fresh. It fetches the list
// on start, revalidates it on an interval (or when the analytics service
// says its cache expires), polls the service while it is warming up, and
// keeps serving the last good list when a refresh fails.
package refresher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/streamscoutapp/streamscout-server/internal/analyzer"
	"github.com/streamscoutapp/streamscout-server/internal/domain"
)

const (
	defaultInterval       = 5 * time.Minute
	defaultWarmupInterval = 10 * time.Second
	defaultMaxAttempts    = 3
	defaultBackoff        = 500 * time.Millisecond
	defaultLimit          = 50

	// maxHintFactor bounds how far an upstream refresh hint may push the
	// next refresh out, as a multiple of Interval.
	maxHintFactor = 4
)

// Fetcher is the analytics API surface the refresher needs.
type Fetcher interface {
	Analyze(ctx context.Context, limit int) (*domain.AnalyzeResult, error)
	Status(ctx context.Context) (*domain.UpstreamStatus, error)
}

// Sink receives each successfully fetched list.
type Sink interface {
	Replace(result *domain.AnalyzeResult) error
}

// SnapshotStore persists the last good list across restarts.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, result *domain.AnalyzeResult) error
	LoadSnapshot(ctx context.Context) (*domain.AnalyzeResult, error)
}

// State summarizes data availability.
type State string

// Refresher states.
const (
	// StateLoading means no fetch has completed yet.
	StateLoading State = "loading"
	// StateWarmingUp means the service is up but has no data yet.
	StateWarmingUp State = "warming_up"
	// StateReady means a list is available, possibly stale.
	StateReady State = "ready"
	// StateError means no list is available and the last fetch failed.
	StateError State = "error"
)

// Status describes the refresher's recent history.
type Status struct {
	State               State     `json:"state"`
	Warming             bool      `json:"warming"`
	Restored            bool      `json:"restored"`
	LastError           string    `json:"last_error,omitempty"`
	LastAttempt         time.Time `json:"last_attempt"`
	LastSuccess         time.Time `json:"last_success"`
	ConsecutiveFailures int       `json:"consecutive_failures"`
	Games               int       `json:"games"`
	TotalGamesAnalyzed  int       `json:"total_games_analyzed"`
	Timestamp           time.Time `json:"timestamp"`
	NextRefreshAt       time.Time `json:"next_refresh_at"`
}

// HasData reports whether a list is being served.
func (s Status) HasData() bool {
	return s.State == StateReady
}

// EventKind identifies a refresher notification.
type EventKind string

// Event kinds.
const (
	EventRefreshed EventKind = "refreshed"
	EventWarming   EventKind = "warming"
	EventFailed    EventKind = "failed"
)

// Event is passed to the OnEvent callback after a cycle.
type Event struct {
	Kind   EventKind
	Status Status
}

// Options configures the refresher.
type Options struct {
	Limit          int
	Interval       time.Duration
	WarmupInterval time.Duration
	MaxAttempts    int
	Backoff        time.Duration
	Snapshots      SnapshotStore
	OnEvent        func(Event)
}

// Refresher owns the refresh loop.
type Refresher struct {
	fetcher Fetcher
	sink    Sink
	logger  *slog.Logger
	opts    Options
	now     func() time.Time

	// refreshMu serializes fetches so a manual refresh never races the loop.
	refreshMu sync.Mutex

	statusMu sync.RWMutex
	status   Status
	hint     *time.Duration

	startMu  sync.Mutex
	started  bool
	done     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
}

// New creates a refresher. Zero options take defaults.
func New(fetcher Fetcher, sink Sink, logger *slog.Logger, opts Options) *Refresher {
	if opts.Limit <= 0 {
		opts.Limit = defaultLimit
	}
	if opts.Interval <= 0 {
		opts.Interval = defaultInterval
	}
	if opts.WarmupInterval <= 0 {
		opts.WarmupInterval = defaultWarmupInterval
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	if opts.Backoff <= 0 {
		opts.Backoff = defaultBackoff
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Refresher{
		fetcher: fetcher,
		sink:    sink,
		logger:  logger,
		opts:    opts,
		now:     time.Now,
		status:  Status{State: StateLoading},
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Start restores the persisted list, if any, then runs the refresh loop
// until ctx is cancelled or Stop is called. Calling Start twice is a no-op.
func (r *Refresher) Start(ctx context.Context) {
	r.startMu.Lock()
	if r.started {
		r.startMu.Unlock()
		return
	}
	r.started = true
	r.startMu.Unlock()

	r.restore(ctx)

	go r.run(ctx)
}

// Stop halts the loop and waits for it to exit.
func (r *Refresher) Stop(ctx context.Context) error {
	r.startMu.Lock()
	started := r.started
	r.startMu.Unlock()

	r.stopOnce.Do(func() { close(r.done) })
	if !started {
		return nil
	}

	select {
	case <-r.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Refresher) run(ctx context.Context) {
	defer close(r.stopped)
	r.logger.Info("refresher started",
		"interval", r.opts.Interval,
		"warmup_interval", r.opts.WarmupInterval,
	)

	for {
		wait := r.cycle(ctx)
		r.setNextRefresh(r.now().Add(wait))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			r.logger.Info("refresher stopped")
			return
		case <-r.done:
			timer.Stop()
			r.logger.Info("refresher stopped")
			return
		case <-timer.C:
		}
	}
}

// cycle runs one iteration and returns how long to wait before the next.
func (r *Refresher) cycle(ctx context.Context) time.Duration {
	if r.Status().Warming {
		upstream, err := r.fetcher.Status(ctx)
		switch {
		case err != nil:
			r.logger.Debug("upstream status check failed", "error", err)
			return r.opts.WarmupInterval
		case !upstream.Cache.HasData:
			r.logger.Debug("upstream still warming up")
			return r.opts.WarmupInterval
		}
	}

	err := r.Refresh(ctx)
	switch {
	case err == nil:
		return r.nextWait()
	case errors.Is(err, analyzer.ErrWarmingUp):
		return r.opts.WarmupInterval
	case !r.Status().HasData():
		// Nothing to serve yet; try again sooner than a full interval.
		return r.opts.WarmupInterval
	default:
		return r.opts.Interval
	}
}

// nextWait honours the upstream refresh hint within bounds.
func (r *Refresher) nextWait() time.Duration {
	r.statusMu.RLock()
	hint := r.hint
	r.statusMu.RUnlock()

	if hint == nil {
		return r.opts.Interval
	}
	return clamp(*hint, r.opts.WarmupInterval, r.opts.Interval*maxHintFactor)
}

func clamp(d, lo, hi time.Duration) time.Duration {
	return max(lo, min(d, hi))
}

// Refresh fetches the list now. Transient failures are retried with linear
// backoff; a warming-up service is reported as analyzer.ErrWarmingUp
// without retrying. On failure the previous list stays in place.
func (r *Refresher) Refresh(ctx context.Context) error {
	r.refreshMu.Lock()
	defer r.refreshMu.Unlock()

	start := r.now()
	r.recordAttempt(start)

	result, err := r.fetchWithRetry(ctx)
	if err == nil {
		err = r.sink.Replace(result)
		if err != nil {
			err = fmt.Errorf("apply result: %w", err)
		}
	}

	if errors.Is(err, analyzer.ErrWarmingUp) {
		status := r.recordWarming()
		r.logger.Info("analytics service warming up")
		r.emit(Event{Kind: EventWarming, Status: status})
		return err
	}
	if err != nil {
		status := r.recordFailure(err)
		r.logger.Error("game list refresh failed", "error", err, "has_data", status.HasData())
		r.emit(Event{Kind: EventFailed, Status: status})
		return err
	}

	r.persist(ctx, result)
	status := r.recordSuccess(result, start)
	r.logger.Info("game list refreshed",
		"games", len(result.TopOpportunities),
		"duration_ms", r.now().Sub(start).Milliseconds(),
	)
	r.emit(Event{Kind: EventRefreshed, Status: status})
	return nil
}

func (r *Refresher) fetchWithRetry(ctx context.Context) (*domain.AnalyzeResult, error) {
	var lastErr error
	for attempt := 1; attempt <= r.opts.MaxAttempts; attempt++ {
		result, err := r.fetcher.Analyze(ctx, r.opts.Limit)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt == r.opts.MaxAttempts || !analyzer.IsTransient(err) {
			break
		}

		r.logger.Warn("game list fetch retry", "attempt", attempt, "max_attempts", r.opts.MaxAttempts, "error", err)

		// backoff with context awareness
		delay := time.Duration(attempt) * r.opts.Backoff
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return nil, lastErr
}

func (r *Refresher) restore(ctx context.Context) {
	if r.opts.Snapshots == nil {
		return
	}
	result, err := r.opts.Snapshots.LoadSnapshot(ctx)
	if err != nil {
		r.logger.Debug("no persisted game list", "error", err)
		return
	}
	if err := r.sink.Replace(result); err != nil {
		r.logger.Warn("failed to apply persisted game list", "error", err)
		return
	}

	r.statusMu.Lock()
	r.status.State = StateReady
	r.status.Restored = true
	r.status.Games = len(result.TopOpportunities)
	r.status.TotalGamesAnalyzed = result.TotalGamesAnalyzed
	r.status.Timestamp = result.Timestamp
	r.statusMu.Unlock()

	r.logger.Info("restored persisted game list",
		"games", len(result.TopOpportunities),
		"timestamp", result.Timestamp,
	)
}

func (r *Refresher) persist(ctx context.Context, result *domain.AnalyzeResult) {
	if r.opts.Snapshots == nil {
		return
	}
	if err := r.opts.Snapshots.SaveSnapshot(ctx, result); err != nil {
		r.logger.Warn("failed to persist game list", "error", err)
	}
}

func (r *Refresher) emit(e Event) {
	if r.opts.OnEvent != nil {
		r.opts.OnEvent(e)
	}
}

func (r *Refresher) recordAttempt(at time.Time) {
	r.statusMu.Lock()
	defer r.statusMu.Unlock()
	r.status.LastAttempt = at
}

func (r *Refresher) recordSuccess(result *domain.AnalyzeResult, at time.Time) Status {
	r.statusMu.Lock()
	defer r.statusMu.Unlock()
	r.status.State = StateReady
	r.status.Warming = false
	r.status.Restored = false
	r.status.ConsecutiveFailures = 0
	r.status.LastError = ""
	r.status.LastSuccess = at
	r.status.Games = len(result.TopOpportunities)
	r.status.TotalGamesAnalyzed = result.TotalGamesAnalyzed
	r.status.Timestamp = result.Timestamp
	r.hint = result.RefreshIn
	return r.status
}

func (r *Refresher) recordWarming() Status {
	r.statusMu.Lock()
	defer r.statusMu.Unlock()
	r.status.Warming = true
	r.status.LastError = ""
	if r.status.State != StateReady {
		r.status.State = StateWarmingUp
	}
	return r.status
}

func (r *Refresher) recordFailure(err error) Status {
	r.statusMu.Lock()
	defer r.statusMu.Unlock()
	r.status.ConsecutiveFailures++
	r.status.LastError = err.Error()
	r.status.Warming = false
	if r.status.State != StateReady {
		r.status.State = StateError
	}
	return r.status
}

func (r *Refresher) setNextRefresh(at time.Time) {
	r.statusMu.Lock()
	defer r.statusMu.Unlock()
	r.status.NextRefreshAt = at
}

// Status returns a snapshot of the refresher's state.
func (r *Refresher) Status() Status {
	r.statusMu.RLock()
	defer r.statusMu.RUnlock()
	return r.status
}
