package api

import (
	"github.com/streamscoutapp/streamscout-server/internal/search"
	"github.com/streamscoutapp/streamscout-server/internal/service"
)

// Services groups the business logic used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Games     *service.GameService
	Favorites *service.FavoriteService
	Cards     *service.CardService
	Charts    *service.ChartService
	Search    *search.Index // Only read by the health check
}
