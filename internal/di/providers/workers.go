package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/streamscoutapp/streamscout-server/internal/catalog"
	"github.com/streamscoutapp/streamscout-server/internal/config"
	"github.com/streamscoutapp/streamscout-server/internal/logger"
	"github.com/streamscoutapp/streamscout-server/internal/refresher"
	"github.com/streamscoutapp/streamscout-server/internal/service"
	"github.com/streamscoutapp/streamscout-server/internal/sse"
)

// RefresherHandle wraps the list refresher with its context for lifecycle management.
type RefresherHandle struct {
	*refresher.Refresher
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *RefresherHandle) Shutdown() error {
	h.cancel()
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Stop(ctx)
}

// ProvideRefresher provides the background refresher for the ranked list.
// A persisted snapshot, if any, is restored before this returns.
func ProvideRefresher(i do.Injector) (*RefresherHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	clientHandle := do.MustInvoke[*AnalyzerClientHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	cat := do.MustInvoke[*catalog.Controller](i)

	ref := refresher.New(clientHandle.Client, cat, log.Component("refresher").Logger, refresher.Options{
		Limit:          cfg.Upstream.Limit,
		Interval:       cfg.Refresh.Interval,
		WarmupInterval: cfg.Refresh.WarmupPollInterval,
		MaxAttempts:    cfg.Refresh.MaxAttempts,
		Backoff:        cfg.Refresh.Backoff,
		Snapshots:      storeHandle.Store,
		OnEvent:        refresherEvents(sseHandle.Manager),
	})

	ctx, cancel := context.WithCancel(context.Background())
	ref.Start(ctx)

	log.Info("List refresher started",
		"interval", cfg.Refresh.Interval,
		"state", ref.Status().State,
	)

	return &RefresherHandle{
		Refresher: ref,
		cancel:    cancel,
	}, nil
}

// refresherEvents forwards refresher notifications to SSE clients.
func refresherEvents(manager *sse.Manager) func(refresher.Event) {
	return func(ev refresher.Event) {
		status := ev.Status
		switch ev.Kind {
		case refresher.EventRefreshed:
			manager.Emit(sse.NewGamesRefreshedEvent(status.Games, status.TotalGamesAnalyzed, status.Timestamp))
		case refresher.EventWarming:
			manager.Emit(sse.NewUpstreamWarmingEvent(status.HasData()))
		case refresher.EventFailed:
			manager.Emit(sse.NewRefreshFailedEvent(status.LastError, status.ConsecutiveFailures, status.HasData()))
		}
	}
}

// SessionSweepJob periodically drops idle card sessions.
type SessionSweepJob struct {
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (j *SessionSweepJob) Shutdown() error {
	j.cancel()
	return nil
}

// ProvideSessionSweepJob provides the periodic session sweep job.
func ProvideSessionSweepJob(i do.Injector) (*SessionSweepJob, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	cardService := do.MustInvoke[*service.CardService](i)

	ctx, cancel := context.WithCancel(context.Background())

	go runSweep(ctx, cfg.Sessions.SweepInterval, func() {
		if count := cardService.Sweep(cfg.Sessions.IdleTTL); count > 0 {
			log.Info("Session sweep completed", "removed", count)
		}
	})

	log.Info("Session sweep job started",
		"interval", cfg.Sessions.SweepInterval,
		"idle_ttl", cfg.Sessions.IdleTTL,
	)

	return &SessionSweepJob{cancel: cancel}, nil
}

// runSweep calls sweep on every tick until ctx is cancelled.
func runSweep(ctx context.Context, interval time.Duration, sweep func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sweep()
		case <-ctx.Done():
			return
		}
	}
}
