package providers

import (
	"context"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/streamscoutapp/streamscout-server/internal/config"
	"github.com/streamscoutapp/streamscout-server/internal/favorites"
	"github.com/streamscoutapp/streamscout-server/internal/logger"
	"github.com/streamscoutapp/streamscout-server/internal/sse"
	"github.com/streamscoutapp/streamscout-server/internal/store"
)

// SSEManagerHandle wraps the SSE manager with its context for lifecycle management.
type SSEManagerHandle struct {
	*sse.Manager
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *SSEManagerHandle) Shutdown() error {
	h.cancel()
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Manager.Shutdown(ctx)
}

// ProvideSSEManager provides the server-sent events manager.
func ProvideSSEManager(i do.Injector) (*SSEManagerHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)

	manager := sse.NewManager(log.Component("sse").Logger)

	ctx, cancel := context.WithCancel(context.Background())
	go manager.Start(ctx)

	log.Info("SSE manager started")

	return &SSEManagerHandle{
		Manager: manager,
		cancel:  cancel,
	}, nil
}

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the Badger store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	dbPath := filepath.Join(cfg.Data.BasePath, "db")
	db, err := store.New(dbPath, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "path", dbPath)

	return &StoreHandle{Store: db}, nil
}

// FavoritesHandle wraps the favorites store so pending writes are flushed
// on shutdown.
type FavoritesHandle struct {
	*favorites.Store
}

// Shutdown implements do.Shutdownable.
func (h *FavoritesHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Close(ctx)
}

// ProvideFavorites provides the favorites set, hydrated from the store.
func ProvideFavorites(i do.Injector) (*FavoritesHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)

	favs := favorites.New(context.Background(), storeHandle.Favorites(), log.Component("favorites").Logger)

	log.Info("Favorites loaded", "count", favs.Count())

	return &FavoritesHandle{Store: favs}, nil
}
