// Package apiserver provides the JSON API HTTP server
package apiserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/mealforge/v2/internal/infrastructure/config"
	"github.com/mealforge/v2/internal/infrastructure/http/handlers"
	"github.com/mealforge/v2/internal/infrastructure/http/middleware"
	"github.com/mealforge/v2/internal/ports/inbound"
	"github.com/mealforge/v2/internal/ports/outbound"
	"go.uber.org/zap"
)

// APIServer serves the planning pipeline over JSON
type APIServer struct {
	config *config.Config
	logger *zap.Logger
	server *http.Server
	router *chi.Mux
}

// NewAPIServer creates a new API server instance
func NewAPIServer(
	cfg *config.Config,
	log *zap.Logger,
	plannerService inbound.PlannerService,
	profiles outbound.ProfileRepository,
) *APIServer {
	server := &APIServer{
		config: cfg,
		logger: log,
	}

	server.router = server.setupRoutes(plannerService, profiles)
	server.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      server.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return server
}

// setupRoutes configures the JSON API routes
func (s *APIServer) setupRoutes(plannerService inbound.PlannerService, profiles outbound.ProfileRepository) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Security())
	r.Use(middleware.CORS())
	r.Use(chimiddleware.Timeout(2 * time.Minute))
	r.Use(chimiddleware.Compress(5))
	r.Use(middleware.JSONOnly())

	h := handlers.NewPlannerHandlers(plannerService, profiles, s.logger)

	r.Get("/health", h.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.HealthCheck)

		r.Route("/meal-plans", func(r chi.Router) {
			r.Post("/", h.GenerateMealPlan)
			r.Get("/latest", h.LatestMealPlan)
		})

		r.Post("/recipes/search", h.SearchRecipes)
		r.Post("/nutrition/targets", h.ComputeTargets)

		r.Route("/users/{id}/profile", func(r chi.Router) {
			r.Put("/", h.SaveProfile)
			r.Get("/", h.GetProfile)
		})
	})

	return r
}

// Start starts the API HTTP server
func (s *APIServer) Start() error {
	s.logger.Info("Starting JSON API server",
		zap.String("address", s.server.Addr),
	)
	return s.server.ListenAndServe()
}

// Server returns the underlying HTTP server instance
func (s *APIServer) Server() *http.Server {
	return s.server
}

// Router returns the configured router, mainly for tests.
func (s *APIServer) Router() http.Handler {
	return s.router
}

// Shutdown gracefully shuts down the API server
func (s *APIServer) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server...")
	return s.server.Shutdown(ctx)
}
