package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/streamscoutapp/streamscout-server/internal/service"
)

func (s *Server) registerFavoriteRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listFavorites",
		Method:      http.MethodGet,
		Path:        "/api/v1/favorites",
		Summary:     "List favorites",
		Description: "Returns favorited games in the order they were added",
		Tags:        []string{"Favorites"},
	}, s.handleListFavorites)

	huma.Register(s.api, huma.Operation{
		OperationID: "addFavorite",
		Method:      http.MethodPost,
		Path:        "/api/v1/favorites",
		Summary:     "Add favorite",
		Description: "Favorites a game. Adding an existing favorite changes nothing",
		Tags:        []string{"Favorites"},
	}, s.handleAddFavorite)

	huma.Register(s.api, huma.Operation{
		OperationID: "clearFavorites",
		Method:      http.MethodDelete,
		Path:        "/api/v1/favorites",
		Summary:     "Clear favorites",
		Description: "Removes every favorite",
		Tags:        []string{"Favorites"},
	}, s.handleClearFavorites)

	huma.Register(s.api, huma.Operation{
		OperationID: "getFavorite",
		Method:      http.MethodGet,
		Path:        "/api/v1/favorites/{id}",
		Summary:     "Get favorite",
		Description: "Returns a favorite by game ID",
		Tags:        []string{"Favorites"},
	}, s.handleGetFavorite)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeFavorite",
		Method:      http.MethodDelete,
		Path:        "/api/v1/favorites/{id}",
		Summary:     "Remove favorite",
		Description: "Unfavorites a game. Removing an absent game changes nothing",
		Tags:        []string{"Favorites"},
	}, s.handleRemoveFavorite)

	huma.Register(s.api, huma.Operation{
		OperationID: "toggleFavorite",
		Method:      http.MethodPost,
		Path:        "/api/v1/favorites/{id}/toggle",
		Summary:     "Toggle favorite",
		Description: "Adds the game if absent and removes it if present",
		Tags:        []string{"Favorites"},
	}, s.handleToggleFavorite)
}

// === DTOs ===

// FavoriteListOutput wraps the favorites list for Huma.
type FavoriteListOutput struct {
	Body service.FavoriteList
}

// AddFavoriteRequest is the request body for favoriting a game.
type AddFavoriteRequest struct {
	GameID   string `json:"game_id" minLength:"1" maxLength:"128" doc:"Game ID"`
	GameName string `json:"game_name,omitempty" maxLength:"256" doc:"Display name, looked up in the list when omitted"`
}

// AddFavoriteInput wraps the add favorite request for Huma.
type AddFavoriteInput struct {
	Body AddFavoriteRequest
}

// FavoriteIDInput identifies a favorite by game ID.
type FavoriteIDInput struct {
	ID string `path:"id" minLength:"1" maxLength:"128" doc:"Game ID"`
}

// ToggleFavoriteInput contains parameters for toggling a favorite.
type ToggleFavoriteInput struct {
	ID   string `path:"id" minLength:"1" maxLength:"128" doc:"Game ID"`
	Name string `query:"name" maxLength:"256" doc:"Display name used when the game is added"`
}

// FavoriteOutput wraps a single favorite for Huma.
type FavoriteOutput struct {
	Body service.FavoriteView
}

// FavoriteResultOutput wraps a favorites mutation result for Huma.
type FavoriteResultOutput struct {
	Body service.FavoriteResult
}

// ClearFavoritesResponse reports how many favorites were removed.
type ClearFavoritesResponse struct {
	Removed int `json:"removed" doc:"Number of favorites removed"`
}

// ClearFavoritesOutput wraps the clear response for Huma.
type ClearFavoritesOutput struct {
	Body ClearFavoritesResponse
}

// === Handlers ===

func (s *Server) handleListFavorites(ctx context.Context, _ *struct{}) (*FavoriteListOutput, error) {
	return &FavoriteListOutput{Body: s.services.Favorites.List(ctx)}, nil
}

func (s *Server) handleAddFavorite(ctx context.Context, input *AddFavoriteInput) (*FavoriteResultOutput, error) {
	result, err := s.services.Favorites.Add(ctx, service.FavoriteRequest{
		GameID:   input.Body.GameID,
		GameName: input.Body.GameName,
	})
	if err != nil {
		return nil, err
	}
	return &FavoriteResultOutput{Body: *result}, nil
}

func (s *Server) handleClearFavorites(ctx context.Context, _ *struct{}) (*ClearFavoritesOutput, error) {
	removed := s.services.Favorites.Clear(ctx)
	return &ClearFavoritesOutput{Body: ClearFavoritesResponse{Removed: removed}}, nil
}

func (s *Server) handleGetFavorite(ctx context.Context, input *FavoriteIDInput) (*FavoriteOutput, error) {
	fav, err := s.services.Favorites.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &FavoriteOutput{Body: *fav}, nil
}

func (s *Server) handleRemoveFavorite(ctx context.Context, input *FavoriteIDInput) (*FavoriteResultOutput, error) {
	result, err := s.services.Favorites.Remove(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &FavoriteResultOutput{Body: *result}, nil
}

func (s *Server) handleToggleFavorite(ctx context.Context, input *ToggleFavoriteInput) (*FavoriteResultOutput, error) {
	result, err := s.services.Favorites.Toggle(ctx, service.FavoriteRequest{
		GameID:   input.ID,
		GameName: input.Name,
	})
	if err != nil {
		return nil, err
	}
	return &FavoriteResultOutput{Body: *result}, nil
}
