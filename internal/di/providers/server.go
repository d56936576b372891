package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/streamscoutapp/streamscout-server/internal/api"
	"github.com/streamscoutapp/streamscout-server/internal/config"
	"github.com/streamscoutapp/streamscout-server/internal/logger"
	"github.com/streamscoutapp/streamscout-server/internal/service"
	"github.com/streamscoutapp/streamscout-server/internal/sse"
)

// Version is reported in the OpenAPI document. Overridden at build time
// with -ldflags "-X .../providers.Version=...".
var Version = "dev"

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
	api *api.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := h.Server.Shutdown(ctx)
	h.api.Close()
	return err
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	searchHandle := do.MustInvoke[*SearchIndexHandle](i)

	// Get all services
	gameService := do.MustInvoke[*service.GameService](i)
	favoriteHandle := do.MustInvoke[*FavoriteServiceHandle](i)
	cardService := do.MustInvoke[*service.CardService](i)
	chartService := do.MustInvoke[*service.ChartService](i)

	services := &api.Services{
		Games:     gameService,
		Favorites: favoriteHandle.FavoriteService,
		Cards:     cardService,
		Charts:    chartService,
		Search:    searchHandle.Index,
	}

	sseHandler := sse.NewHandler(sseHandle.Manager, log.Component("sse").Logger)

	handler := api.NewServer(storeHandle.Store, services, sseHandler, sseHandle.Manager, api.Options{
		Version:        Version,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RateLimitRPS:   cfg.Server.RateLimitRPS,
		RateLimitBurst: cfg.Server.RateLimitBurst,
	}, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr)

	return &HTTPServerHandle{Server: srv, api: handler}, nil
}
