// Package api provides the HTTP server for the night report service.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jonboulle/clockwork"

	"github.com/lsst-ts/nightreport/internal/api/middleware"
	"github.com/lsst-ts/nightreport/internal/config"
	"github.com/lsst-ts/nightreport/internal/health"
	"github.com/lsst-ts/nightreport/internal/storage"
)

// Server is the HTTP API server. All report state lives in the store;
// the server itself only holds configuration and wiring.
type Server struct {
	cfg           config.Config
	store         storage.Store
	clock         clockwork.Clock
	healthManager *health.Manager
	version       string
}

// Option allows functional configuration of the Server.
type Option func(*Server)

// WithClock overrides the wall clock (for tests).
func WithClock(clock clockwork.Clock) Option {
	return func(s *Server) {
		s.clock = clock
	}
}

// WithVersion sets the version reported by the health endpoint.
func WithVersion(version string) Option {
	return func(s *Server) {
		s.version = version
	}
}

// New creates an API server over the given store.
func New(cfg config.Config, store storage.Store, opts ...Option) *Server {
	s := &Server{
		cfg:   cfg,
		store: store,
		clock: clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.healthManager = health.NewManager(s.version)
	s.healthManager.RegisterChecker(health.NewDatabaseChecker(store.Ping))
	return s
}

// HealthManager exposes the health manager for additional checkers.
func (s *Server) HealthManager() *health.Manager {
	return s.healthManager
}

// Handler builds the chi router with the full middleware stack and all
// routes. The report API is mounted under /nightreport so the service
// can sit behind the observatory ingress without path rewriting.
func (s *Server) Handler() http.Handler {
	tracingService := ""
	if s.cfg.TracingEnabled {
		tracingService = "nightreport"
	}

	r := middleware.NewRouter(middleware.StackConfig{
		EnableCORS:            true,
		EnableSecurityHeaders: true,
		EnableMetrics:         true,
		TracingService:        tracingService,
		EnableLogging:         true,
		RateLimitEnabled:      s.cfg.RateLimitEnabled,
		RateLimitRPM:          s.cfg.RateLimitRPM,
	})

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/nightreport", func(r chi.Router) {
		r.Get("/", s.handleRoot)
		r.Get("/openapi.json", s.handleOpenAPI)
		r.Get("/configuration", s.handleGetConfiguration)

		r.Route("/reports", func(r chi.Router) {
			r.Post("/", s.handleAddReport)
			r.Get("/", s.handleFindReports)
			r.Get("/{id}", s.handleGetReport)
			r.Patch("/{id}", s.handleEditReport)
			r.Delete("/{id}", s.handleDeleteReport)
		})
	})

	return r
}
