// Package di provides dependency injection configuration for the StreamScout server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/streamscoutapp/streamscout-server/internal/cards"
	"github.com/streamscoutapp/streamscout-server/internal/catalog"
	"github.com/streamscoutapp/streamscout-server/internal/config"
	"github.com/streamscoutapp/streamscout-server/internal/di/providers"
	"github.com/streamscoutapp/streamscout-server/internal/logger"
	"github.com/streamscoutapp/streamscout-server/internal/service"
	"github.com/streamscoutapp/streamscout-server/internal/timeblock"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideTimeConverter)

	// Database layer
	do.Provide(injector, providers.ProvideSSEManager)
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideFavorites)

	// Search layer
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideCatalog)

	// Upstream
	do.Provide(injector, providers.ProvideAnalyzerClient)
	do.Provide(injector, providers.ProvideCardRegistry)

	// Business services
	do.Provide(injector, providers.ProvideGameService)
	do.Provide(injector, providers.ProvideFavoriteService)
	do.Provide(injector, providers.ProvideCardService)
	do.Provide(injector, providers.ProvideChartService)

	// Workers
	do.Provide(injector, providers.ProvideRefresher)
	do.Provide(injector, providers.ProvideSessionSweepJob)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}

	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*timeblock.Converter](injector)
	_ = do.MustInvoke[*providers.SSEManagerHandle](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.FavoritesHandle](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*catalog.Controller](injector)
	_ = do.MustInvoke[*providers.AnalyzerClientHandle](injector)
	_ = do.MustInvoke[*cards.Registry](injector)

	// Workers that feed the services
	_ = do.MustInvoke[*providers.RefresherHandle](injector)

	// Business services
	_ = do.MustInvoke[*service.GameService](injector)
	_ = do.MustInvoke[*providers.FavoriteServiceHandle](injector)
	_ = do.MustInvoke[*service.CardService](injector)
	_ = do.MustInvoke[*service.ChartService](injector)

	_ = do.MustInvoke[*providers.SessionSweepJob](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
