package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/streamscoutapp/streamscout-server/internal/service"
)

func (s *Server) registerGenreRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listGenres",
		Method:      http.MethodGet,
		Path:        "/api/v1/genres",
		Summary:     "List genres",
		Description: "Returns genre facets over the current list and the landing pages",
		Tags:        []string{"Genres"},
	}, s.handleListGenres)

	huma.Register(s.api, huma.Operation{
		OperationID: "getGenreLanding",
		Method:      http.MethodGet,
		Path:        "/api/v1/genres/{slug}",
		Summary:     "Genre landing page",
		Description: "Returns a genre landing page with the games it lists",
		Tags:        []string{"Genres"},
	}, s.handleGetGenreLanding)
}

// === DTOs ===

// GenreOverviewOutput wraps genre facets and landing pages for Huma.
type GenreOverviewOutput struct {
	Body service.GenreOverview
}

// GetGenreLandingInput contains parameters for a landing page.
type GetGenreLandingInput struct {
	Slug     string `path:"slug" minLength:"1" maxLength:"64" doc:"Landing page slug"`
	Timezone string `query:"tz" maxLength:"64" doc:"Viewer IANA timezone"`
}

// LandingOutput wraps a landing page for Huma.
type LandingOutput struct {
	Body service.LandingView
}

// === Handlers ===

func (s *Server) handleListGenres(_ context.Context, _ *struct{}) (*GenreOverviewOutput, error) {
	return &GenreOverviewOutput{Body: s.services.Games.Genres()}, nil
}

func (s *Server) handleGetGenreLanding(ctx context.Context, input *GetGenreLandingInput) (*LandingOutput, error) {
	view, err := s.services.Games.Landing(ctx, input.Slug, input.Timezone)
	if err != nil {
		return nil, err
	}
	return &LandingOutput{Body: *view}, nil
}
