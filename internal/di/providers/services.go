package providers

import (
	"github.com/samber/do/v2"

	"github.com/streamscoutapp/streamscout-server/internal/cards"
	"github.com/streamscoutapp/streamscout-server/internal/catalog"
	"github.com/streamscoutapp/streamscout-server/internal/config"
	"github.com/streamscoutapp/streamscout-server/internal/logger"
	"github.com/streamscoutapp/streamscout-server/internal/service"
	"github.com/streamscoutapp/streamscout-server/internal/sse"
	"github.com/streamscoutapp/streamscout-server/internal/timeblock"
)

// ProvideCardRegistry provides the registry of viewer card sessions.
// Finished analytics fetches are announced on the owning session's stream.
func ProvideCardRegistry(i do.Injector) (*cards.Registry, error) {
	log := do.MustInvoke[*logger.Logger](i)
	clientHandle := do.MustInvoke[*AnalyzerClientHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)

	settled := func(sessionID string, snap cards.Snapshot) {
		sseHandle.EmitToSession(sessionID, sse.NewCardSettledEvent(sessionID, snap.GameID, string(snap.State)))
	}

	return cards.NewRegistry(clientHandle.Client, log.Component("cards").Logger, cards.WithSettled(settled)), nil
}

// ProvideGameService provides the game list service.
func ProvideGameService(i do.Injector) (*service.GameService, error) {
	log := do.MustInvoke[*logger.Logger](i)
	cat := do.MustInvoke[*catalog.Controller](i)
	refresherHandle := do.MustInvoke[*RefresherHandle](i)
	favoritesHandle := do.MustInvoke[*FavoritesHandle](i)
	conv := do.MustInvoke[*timeblock.Converter](i)

	return service.NewGameService(cat, refresherHandle.Refresher, favoritesHandle.Store, conv, log.Logger), nil
}

// FavoriteServiceHandle wraps the favorite service with shutdown capability.
type FavoriteServiceHandle struct {
	*service.FavoriteService
}

// Shutdown implements do.Shutdownable.
func (h *FavoriteServiceHandle) Shutdown() error {
	h.Close()
	return nil
}

// ProvideFavoriteService provides the favorites service.
func ProvideFavoriteService(i do.Injector) (*FavoriteServiceHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)
	favoritesHandle := do.MustInvoke[*FavoritesHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	games := do.MustInvoke[*service.GameService](i)

	svc := service.NewFavoriteService(favoritesHandle.Store, games, sseHandle.Manager, log.Logger)
	return &FavoriteServiceHandle{FavoriteService: svc}, nil
}

// ProvideCardService provides the card session service.
func ProvideCardService(i do.Injector) (*service.CardService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	registry := do.MustInvoke[*cards.Registry](i)
	conv := do.MustInvoke[*timeblock.Converter](i)

	return service.NewCardService(registry, conv, cfg.Upstream.Timeout, log.Logger), nil
}

// ProvideChartService provides the chart rendering service.
func ProvideChartService(i do.Injector) (*service.ChartService, error) {
	log := do.MustInvoke[*logger.Logger](i)
	clientHandle := do.MustInvoke[*AnalyzerClientHandle](i)
	games := do.MustInvoke[*service.GameService](i)
	conv := do.MustInvoke[*timeblock.Converter](i)

	return service.NewChartService(clientHandle.Client, games, conv, log.Logger), nil
}
