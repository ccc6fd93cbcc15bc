// Package api provides the administrative HTTP surface: a health check
// and a synchronous trigger for one screening pass against the
// process-wide Orchestrator. It is a thin external trigger, not a
// reporting layer — responses are the same in-memory result shape the
// Orchestrator produces, JSON-encoded directly.
package api

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/brightloop/screener/internal/orchestrator"
)

// RouterDeps contains the dependencies needed by the router.
type RouterDeps struct {
	Orchestrator       *orchestrator.Orchestrator
	AllowedOrigins     []string
	RateLimitPerSecond int
}

// NewRouter builds the Chi router exposing GET /healthz and POST /runs.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware stack
	r.Use(chimw.RequestID)
	r.Use(realIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(corsMiddleware(deps.AllowedOrigins))
	r.Use(securityHeaders)
	r.Use(newIPRateLimiter(deps.RateLimitPerSecond).middleware)

	h := NewHandler(deps.Orchestrator)

	r.Get("/healthz", h.Healthz)
	r.Post("/runs", h.Runs)

	return r
}
