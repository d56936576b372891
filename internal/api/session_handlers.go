package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/streamscoutapp/streamscout-server/internal/service"
)

func (s *Server) registerSessionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createSession",
		Method:        http.MethodPost,
		Path:          "/api/v1/sessions",
		Summary:       "Create session",
		Description:   "Starts a viewer session that owns a set of game cards",
		Tags:          []string{"Sessions"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateSession)

	huma.Register(s.api, huma.Operation{
		OperationID: "getSession",
		Method:      http.MethodGet,
		Path:        "/api/v1/sessions/{session_id}",
		Summary:     "Get session",
		Description: "Returns a live session and how many cards it has mounted",
		Tags:        []string{"Sessions"},
	}, s.handleGetSession)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteSession",
		Method:      http.MethodDelete,
		Path:        "/api/v1/sessions/{session_id}",
		Summary:     "Delete session",
		Description: "Ends a session and unmounts its cards",
		Tags:        []string{"Sessions"},
	}, s.handleDeleteSession)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCard",
		Method:      http.MethodGet,
		Path:        "/api/v1/sessions/{session_id}/cards/{game_id}",
		Summary:     "Get card",
		Description: "Mounts the card if needed and returns its state",
		Tags:        []string{"Sessions"},
	}, s.handleGetCard)

	huma.Register(s.api, huma.Operation{
		OperationID: "expandCard",
		Method:      http.MethodPost,
		Path:        "/api/v1/sessions/{session_id}/cards/{game_id}/expand",
		Summary:     "Expand card",
		Description: "Opens a card. The first expansion fetches the game's analytics once",
		Tags:        []string{"Sessions"},
	}, s.handleExpandCard)

	huma.Register(s.api, huma.Operation{
		OperationID: "collapseCard",
		Method:      http.MethodPost,
		Path:        "/api/v1/sessions/{session_id}/cards/{game_id}/collapse",
		Summary:     "Collapse card",
		Description: "Closes a card and keeps its analytics",
		Tags:        []string{"Sessions"},
	}, s.handleCollapseCard)

	huma.Register(s.api, huma.Operation{
		OperationID: "unmountCard",
		Method:      http.MethodDelete,
		Path:        "/api/v1/sessions/{session_id}/cards/{game_id}",
		Summary:     "Unmount card",
		Description: "Drops a card. Mounting it again starts fresh",
		Tags:        []string{"Sessions"},
	}, s.handleUnmountCard)
}

// === DTOs ===

// MessageResponse is a generic success message.
type MessageResponse struct {
	Message string `json:"message" doc:"Success message"`
}

// MessageOutput wraps the message response for Huma.
type MessageOutput struct {
	Body MessageResponse
}

// SessionOutput wraps session info for Huma.
type SessionOutput struct {
	Body service.SessionInfo
}

// SessionInput identifies a session.
type SessionInput struct {
	SessionID string `path:"session_id" maxLength:"64" doc:"Session ID"`
}

// CardInput identifies a card within a session.
type CardInput struct {
	SessionID string `path:"session_id" maxLength:"64" doc:"Session ID"`
	GameID    string `path:"game_id" minLength:"1" maxLength:"128" doc:"Game ID"`
	Timezone  string `query:"tz" maxLength:"64" doc:"Viewer IANA timezone"`
}

// ExpandCardInput contains parameters for expanding a card.
type ExpandCardInput struct {
	SessionID string `path:"session_id" maxLength:"64" doc:"Session ID"`
	GameID    string `path:"game_id" minLength:"1" maxLength:"128" doc:"Game ID"`
	Timezone  string `query:"tz" maxLength:"64" doc:"Viewer IANA timezone"`
	Wait      bool   `query:"wait" doc:"Block until the analytics fetch settles"`
}

// CardOutput wraps a card view for Huma.
type CardOutput struct {
	Body service.CardView
}

// === Handlers ===

func (s *Server) handleCreateSession(ctx context.Context, _ *struct{}) (*SessionOutput, error) {
	return &SessionOutput{Body: s.services.Cards.CreateSession(ctx)}, nil
}

func (s *Server) handleGetSession(ctx context.Context, input *SessionInput) (*SessionOutput, error) {
	info, err := s.services.Cards.Session(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}
	return &SessionOutput{Body: *info}, nil
}

func (s *Server) handleDeleteSession(ctx context.Context, input *SessionInput) (*MessageOutput, error) {
	if err := s.services.Cards.DeleteSession(ctx, input.SessionID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Session deleted"}}, nil
}

func (s *Server) handleGetCard(ctx context.Context, input *CardInput) (*CardOutput, error) {
	view, err := s.services.Cards.Card(ctx, input.SessionID, input.GameID, input.Timezone)
	if err != nil {
		return nil, err
	}
	return &CardOutput{Body: *view}, nil
}

func (s *Server) handleExpandCard(ctx context.Context, input *ExpandCardInput) (*CardOutput, error) {
	view, err := s.services.Cards.Expand(ctx, input.SessionID, input.GameID, input.Timezone, input.Wait)
	if err != nil {
		return nil, err
	}
	return &CardOutput{Body: *view}, nil
}

func (s *Server) handleCollapseCard(ctx context.Context, input *CardInput) (*CardOutput, error) {
	view, err := s.services.Cards.Collapse(ctx, input.SessionID, input.GameID, input.Timezone)
	if err != nil {
		return nil, err
	}
	return &CardOutput{Body: *view}, nil
}

func (s *Server) handleUnmountCard(ctx context.Context, input *CardInput) (*MessageOutput, error) {
	if err := s.services.Cards.Unmount(ctx, input.SessionID, input.GameID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Card unmounted"}}, nil
}
