package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/streamscoutapp/streamscout-server/internal/refresher"
)

// Component health states, ordered from best to worst.
const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns server health status with component checks",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status" doc:"Component status: healthy, degraded, or unhealthy"`
	Latency string `json:"latency,omitempty" doc:"Response time for this component"`
	Message string `json:"message,omitempty" doc:"Additional status information"`
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Overall status: healthy, degraded, or unhealthy"`
	Components map[string]ComponentHealth `json:"components" doc:"Individual component statuses"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

func (s *Server) handleHealthCheck(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	components := map[string]ComponentHealth{
		"database": s.checkDatabase(ctx),
		"search":   s.checkSearchIndex(),
		"sse":      s.checkSSEManager(),
		"upstream": s.checkUpstream(),
	}

	overall := statusHealthy
	for _, c := range components {
		overall = worse(overall, c.Status)
	}

	return &HealthOutput{
		Body: HealthResponse{
			Status:     overall,
			Components: components,
		},
	}, nil
}

func worse(a, b string) string {
	rank := func(s string) int {
		switch s {
		case statusUnhealthy:
			return 2
		case statusDegraded:
			return 1
		default:
			return 0
		}
	}
	if rank(b) > rank(a) {
		return b
	}
	return a
}

// checkDatabase verifies Badger can serve a read.
func (s *Server) checkDatabase(ctx context.Context) ComponentHealth {
	if s.store == nil {
		return ComponentHealth{
			Status:  statusDegraded,
			Message: "database not configured",
		}
	}

	start := time.Now()
	err := s.store.Ping(ctx)
	latency := time.Since(start)

	if err != nil {
		return ComponentHealth{
			Status:  statusUnhealthy,
			Latency: latency.String(),
			Message: "database read failed",
		}
	}

	return ComponentHealth{
		Status:  statusHealthy,
		Latency: latency.String(),
	}
}

// checkSearchIndex reports how many games the Bleve index holds.
// An empty index only degrades health: the list has not loaded yet.
func (s *Server) checkSearchIndex() ComponentHealth {
	if s.services == nil || s.services.Search == nil {
		return ComponentHealth{
			Status:  statusDegraded,
			Message: "search index not configured",
		}
	}

	start := time.Now()
	docCount := s.services.Search.DocumentCount()
	latency := time.Since(start)

	if docCount == 0 {
		return ComponentHealth{
			Status:  statusDegraded,
			Latency: latency.String(),
			Message: "search index empty",
		}
	}

	return ComponentHealth{
		Status:  statusHealthy,
		Latency: latency.String(),
		Message: strconv.Itoa(docCount) + " games indexed",
	}
}

// checkSSEManager reports connected event stream clients.
func (s *Server) checkSSEManager() ComponentHealth {
	if s.sseManager == nil {
		return ComponentHealth{
			Status:  statusDegraded,
			Message: "SSE manager not configured",
		}
	}

	return ComponentHealth{
		Status:  statusHealthy,
		Message: formatSSEStatus(s.sseManager.ClientCount()),
	}
}

// checkUpstream maps the refresher state onto component health.
func (s *Server) checkUpstream() ComponentHealth {
	if s.services == nil || s.services.Games == nil {
		return ComponentHealth{
			Status:  statusDegraded,
			Message: "list refresher not configured",
		}
	}

	status := s.services.Games.Status()
	switch {
	case status.State == refresher.StateReady && status.LastError != "":
		return ComponentHealth{Status: statusDegraded, Message: "serving stale list: " + status.LastError}
	case status.State == refresher.StateReady:
		return ComponentHealth{Status: statusHealthy, Message: strconv.Itoa(status.Games) + " games listed"}
	case status.State == refresher.StateError:
		return ComponentHealth{Status: statusUnhealthy, Message: status.LastError}
	default:
		return ComponentHealth{Status: statusDegraded, Message: string(status.State)}
	}
}

func formatSSEStatus(count int) string {
	switch count {
	case 0:
		return "no connected clients"
	case 1:
		return "1 connected client"
	default:
		return strconv.Itoa(count) + " connected clients"
	}
}
