package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/streamscoutapp/streamscout-server/internal/refresher"
	"github.com/streamscoutapp/streamscout-server/internal/service"
)

func (s *Server) registerGameRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getStatus",
		Method:      http.MethodGet,
		Path:        "/api/v1/status",
		Summary:     "List status",
		Description: "Returns the state of the ranked list refresher",
		Tags:        []string{"Games"},
	}, s.handleGetStatus)

	huma.Register(s.api, huma.Operation{
		OperationID: "listGames",
		Method:      http.MethodGet,
		Path:        "/api/v1/games",
		Summary:     "List games",
		Description: "Returns the ranked list filtered by genre, search text and favorites",
		Tags:        []string{"Games"},
	}, s.handleListGames)

	huma.Register(s.api, huma.Operation{
		OperationID: "refreshGames",
		Method:      http.MethodPost,
		Path:        "/api/v1/games/refresh",
		Summary:     "Refresh games",
		Description: "Fetches the ranked list from the analytics service now",
		Tags:        []string{"Games"},
	}, s.handleRefreshGames)

	huma.Register(s.api, huma.Operation{
		OperationID: "getGame",
		Method:      http.MethodGet,
		Path:        "/api/v1/games/{id}",
		Summary:     "Get game",
		Description: "Returns one game from the current list",
		Tags:        []string{"Games"},
	}, s.handleGetGame)

	huma.Register(s.api, huma.Operation{
		OperationID: "getGameChart",
		Method:      http.MethodGet,
		Path:        "/api/v1/games/{id}/chart",
		Summary:     "Game chart",
		Description: "Renders the game's viewer trend and time blocks as an HTML page",
		Tags:        []string{"Games"},
	}, s.handleGetGameChart)
}

// === DTOs ===

// StatusOutput wraps the refresher status for Huma.
type StatusOutput struct {
	Body refresher.Status
}

// ListGamesInput contains parameters for listing games.
type ListGamesInput struct {
	Genres    []string `query:"genres" maxItems:"20" doc:"Genre filter, comma separated"`
	Mode      string   `query:"mode" maxLength:"8" doc:"Genre combination: or (any) or and (all)"`
	Query     string   `query:"q" maxLength:"200" doc:"Search text"`
	Favorites bool     `query:"favorites" doc:"Only favorited games"`
	Timezone  string   `query:"tz" maxLength:"64" doc:"Viewer IANA timezone"`
}

// ListGamesOutput wraps the game list for Huma.
type ListGamesOutput struct {
	Body service.GameList
}

// GetGameInput contains parameters for getting a game.
type GetGameInput struct {
	ID       string `path:"id" minLength:"1" maxLength:"128" doc:"Game ID"`
	Timezone string `query:"tz" maxLength:"64" doc:"Viewer IANA timezone"`
}

// GameOutput wraps a game card for Huma.
type GameOutput struct {
	Body service.GameCard
}

// ChartOutput carries a rendered HTML page.
type ChartOutput struct {
	ContentType  string `header:"Content-Type"`
	CacheControl string `header:"Cache-Control"`
	Body         []byte
}

// === Handlers ===

func (s *Server) handleGetStatus(_ context.Context, _ *struct{}) (*StatusOutput, error) {
	return &StatusOutput{Body: s.services.Games.Status()}, nil
}

func (s *Server) handleListGames(ctx context.Context, input *ListGamesInput) (*ListGamesOutput, error) {
	list, err := s.services.Games.List(ctx, service.ListGamesRequest{
		Genres:        input.Genres,
		Mode:          input.Mode,
		Query:         input.Query,
		FavoritesOnly: input.Favorites,
		Timezone:      input.Timezone,
	})
	if err != nil {
		return nil, err
	}
	return &ListGamesOutput{Body: *list}, nil
}

func (s *Server) handleRefreshGames(ctx context.Context, _ *struct{}) (*StatusOutput, error) {
	status, err := s.services.Games.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	return &StatusOutput{Body: status}, nil
}

func (s *Server) handleGetGame(ctx context.Context, input *GetGameInput) (*GameOutput, error) {
	card, err := s.services.Games.Game(ctx, input.ID, input.Timezone)
	if err != nil {
		return nil, err
	}
	return &GameOutput{Body: *card}, nil
}

func (s *Server) handleGetGameChart(ctx context.Context, input *GetGameInput) (*ChartOutput, error) {
	page, err := s.services.Charts.Render(ctx, input.ID, input.Timezone)
	if err != nil {
		return nil, err
	}
	return &ChartOutput{
		ContentType:  ContentTypeHTML,
		CacheControl: CacheFiveMinutes,
		Body:         page,
	}, nil
}
