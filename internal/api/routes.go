package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/feastday-api/internal/config"
)

// SetupRoutes configures all HTTP routes and returns the router.
//
// Route structure:
//
//	GET  /health
//	GET  /metrics
//	GET  /api/v1/easter/{year}
//	GET  /api/v1/hebrew/{year}
//	GET  /api/v1/hebrew/{year}/{month}/{day}
//	GET  /api/v1/coptic/{year}
//	GET  /api/v1/coptic/{year}/{month}/{day}
//	GET  /api/v1/holydays/{system}/{year}   ?format=json|csv|ics&lang=
//	GET  /api/v1/holyweek/{system}/{year}
//	GET  /api/v1/feasts/date/{date}
//	GET  /api/v1/feasts/range               ?from=&to=&system=
//	GET  /api/v1/feasts/coverage
//	POST /api/v1/admin/materialize          ?from=&to=  (API key)
//	GET  /api/v1/admin/materialize/latest   (API key)
func SetupRoutes(handlers *Handlers, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(
		RequestIDMiddleware(),
		RecoveryMiddleware(logger),
		LoggingMiddleware(logger),
		MetricsMiddleware(handlers.metrics),
		CORSMiddleware(),
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteNotFound(w, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", "METHOD_NOT_ALLOWED")
	})

	// ==========================================================================
	// Operational routes
	// ==========================================================================
	r.Get("/health", handlers.HealthCheck)
	r.Method(http.MethodGet, "/metrics", handlers.metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// ======================================================================
		// Computed calendars
		// ======================================================================
		r.Get("/easter/{year}", handlers.GetEaster)
		r.Get("/hebrew/{year}", handlers.GetHebrewYear)
		r.Get("/hebrew/{year}/{month}/{day}", handlers.ConvertHebrewDate)
		r.Get("/coptic/{year}", handlers.GetCopticYear)
		r.Get("/coptic/{year}/{month}/{day}", handlers.ConvertCopticDate)
		r.Get("/holydays/{system}/{year}", handlers.GetHolyDays)
		r.Get("/holyweek/{system}/{year}", handlers.GetHolyWeek)

		// ======================================================================
		// Materialized feasts
		// ======================================================================
		r.Get("/feasts/date/{date}", handlers.GetFeastsByDate)
		r.Get("/feasts/range", handlers.GetFeastsInRange)
		r.Get("/feasts/coverage", handlers.GetCoverage)

		// ======================================================================
		// Admin routes (API key)
		// ======================================================================
		r.Route("/admin", func(r chi.Router) {
			r.Use(AuthMiddleware(cfg, logger))
			r.Post("/materialize", handlers.Materialize)
			r.Get("/materialize/latest", handlers.GetLatestRun)
		})
	})

	return r
}
