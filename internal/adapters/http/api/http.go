// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/okian/talentportal/internal/adapters/http/site"
	"github.com/okian/talentportal/internal/adapters/http/swagger"
	"github.com/okian/talentportal/internal/adapters/repository"
	"github.com/okian/talentportal/internal/domain/activity"
	"github.com/okian/talentportal/internal/domain/career"
	"github.com/okian/talentportal/internal/domain/idempotency"
	"github.com/okian/talentportal/pkg/logger"
)

// Dependencies required by HTTP handlers.
type Dependencies interface {
	repository.Store

	// Career runs the gap analysis for the signed-in user.
	Career(ctx context.Context) (career.Analysis, error)

	// Activity returns up to limit recent events, newest first.
	Activity(ctx context.Context, limit int) []activity.Event

	// Replay and Remember back the Idempotency-Key handling of POST routes.
	Replay(ctx context.Context, key string) (idempotency.Response, bool)
	Remember(ctx context.Context, key string, resp idempotency.Response)
}

// Server wires HTTP routes for the business API.
type Server struct {
	deps Dependencies

	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	portalHandler *PortalHandler
	mutateHandler *MutationHandler
	dashboard     *dashboardHandler

	allowedOrigins []string
	staticDir      string
	logger         logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		deps:           deps,
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		portalHandler:  NewPortalHandler(deps),
		mutateHandler:  NewMutationHandler(deps),
		dashboard:      newDashboardHandler(),
		allowedOrigins: []string{"*"},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("api")
	}
	return s
}

// Handler builds the complete router: API, docs and the SPA shell.
func (s *Server) Handler(ctx context.Context) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(RequestIDMiddleware(s.logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Idempotency-Key", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Idempotent-Replayed"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	s.Register(ctx, r)
	swagger.Register(ctx, r)
	site.Register(ctx, r, site.WithDir(s.staticDir))
	return r
}

// Register attaches all API routes to r.
func (s *Server) Register(_ context.Context, r chi.Router) {
	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	r.Get("/dashboard", s.dashboard.HandleDashboard)

	r.Route("/api", func(r chi.Router) {
		r.Get("/profile", MetricsMiddleware(s.portalHandler.HandleProfile, "profile"))
		r.Get("/personas", MetricsMiddleware(s.portalHandler.HandlePersonas, "personas"))
		r.Get("/team", MetricsMiddleware(s.portalHandler.HandleTeam, "team"))
		r.Get("/career", MetricsMiddleware(s.portalHandler.HandleCareer, "career"))
		r.Get("/activity", MetricsMiddleware(s.portalHandler.HandleActivity, "activity"))

		r.Post("/feedback/{memberId}", MetricsMiddleware(
			IdempotencyMiddleware(s.deps, s.mutateHandler.HandleRegisterFeedback), "feedback"))
		r.Post("/kudos/{memberId}", MetricsMiddleware(
			IdempotencyMiddleware(s.deps, s.mutateHandler.HandleAwardKudos), "kudos"))

		r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
			writeError(w, http.StatusNotFound, nil)
		})
		r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
			writeError(w, http.StatusMethodNotAllowed, nil)
		})
	})
}
