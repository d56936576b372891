// Package api provides the HTTP API server and handlers for StreamScout.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/streamscoutapp/streamscout-server/internal/http/response"
	"github.com/streamscoutapp/streamscout-server/internal/ratelimit"
	"github.com/streamscoutapp/streamscout-server/internal/sse"
	"github.com/streamscoutapp/streamscout-server/internal/store"
)

const eventsPath = "/api/v1/events"

// Options configures the HTTP surface.
type Options struct {
	Version        string
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store      *store.Store
	services   *Services
	sseHandler *sse.Handler
	sseManager *sse.Manager
	limiter    *ratelimit.KeyedRateLimiter
	router     *chi.Mux
	api        huma.API
	logger     *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st *store.Store, services *Services, sseHandler *sse.Handler, sseManager *sse.Manager, opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.Version == "" {
		opts.Version = "1.0.0"
	}

	router := chi.NewRouter()

	s := &Server{
		store:      st,
		services:   services,
		sseHandler: sseHandler,
		sseManager: sseManager,
		router:     router,
		logger:     logger,
	}
	if opts.RateLimitRPS > 0 {
		s.limiter = ratelimit.New(opts.RateLimitRPS, max(opts.RateLimitBurst, 1))
	}

	s.setupMiddleware(opts)

	humaConfig := huma.DefaultConfig("StreamScout API", opts.Version)
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)
	s.api = humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s.registerRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the huma API, mainly for OpenAPI generation.
func (s *Server) API() huma.API {
	return s.api
}

// Close releases background resources owned by the server.
func (s *Server) Close() {
	if s.limiter != nil {
		s.limiter.Stop()
	}
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware(opts Options) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	s.router.Use(RateLimitMiddleware(s.limiter, s.logger))

	s.router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "Route not found", s.logger)
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.MethodNotAllowed(w, "Method not allowed", s.logger)
	})
}

// registerRoutes wires every operation onto the router.
func (s *Server) registerRoutes() {
	s.registerHealthRoutes()
	s.registerGameRoutes()
	s.registerGenreRoutes()
	s.registerFavoriteRoutes()
	s.registerSessionRoutes()

	if s.sseHandler != nil {
		s.router.Get(eventsPath, s.sseHandler.ServeHTTP)
	}
}
