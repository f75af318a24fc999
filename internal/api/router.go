package api

import (
	"net/http"

	"github.com/factchecker/truthlens/internal/analysis"
	"github.com/factchecker/truthlens/internal/config"
	"github.com/factchecker/truthlens/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new HTTP router with all routes configured.
func NewRouter(cfg *config.Config, svc *analysis.Service) http.Handler {
	r := chi.NewRouter()

	handler := NewHandler(svc, cfg.Server.MaxUploadBytes)

	// Global middleware
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handler.HealthCheck)
		r.Get("/learn", handler.Learn)

		r.Group(func(r chi.Router) {
			if cfg.RateLimits.RequestsPerMinute > 0 {
				r.Use(RateLimitMiddleware(cfg.RateLimits.RequestsPerMinute))
			}

			r.Get("/scans", handler.ListScans)
			r.Get("/scans/{id}", handler.GetScan)

			r.Post("/analyze/text", handler.AnalyzeText)
			r.Post("/analyze/image", handler.AnalyzeImage)
			r.Post("/analyze/video", handler.AnalyzeVideo)
			r.Post("/deepfake/detect", handler.DetectDeepfake)

			r.Post("/reports", handler.SubmitReport)
			r.Get("/reports", handler.ListReports)
		})
	})

	return r
}
