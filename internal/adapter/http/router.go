package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iho/bookkeeper/internal/adapter/http/handler"
	"github.com/iho/bookkeeper/internal/adapter/http/middleware"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	BalanceHandler *handler.BalanceHandler
	LedgerHandler  *handler.LedgerHandler
	RecalcHandler  *handler.RecalcHandler
	HealthHandler  *handler.HealthHandler
	Logging        *middleware.LoggingMiddleware
	Metrics        *middleware.MetricsMiddleware
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	if cfg.Logging != nil {
		r.Use(cfg.Logging.Wrap)
	}
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Wrap)
	}
	r.Use(middleware.Recovery)

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1/tenants/{tenantID}/accounts/{accountType}/{accountID}", func(r chi.Router) {
		r.Get("/balance", cfg.BalanceHandler.Get)
		r.Get("/ledger", cfg.LedgerHandler.List)
		r.Post("/recalculate", cfg.RecalcHandler.Trigger)
	})

	return r
}
