package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/itchan-dev/anonboard/backend/internal/setup"
	mw "github.com/itchan-dev/anonboard/shared/middleware"
	"github.com/itchan-dev/anonboard/shared/middleware/metrics"
)

// New creates the chi router with all routes and the middleware stack.
func New(deps *setup.Dependencies) *chi.Mux {
	cfg := deps.Config.Public
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(mw.RequestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CorsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))
	r.Use(mw.SecurityHeadersWithCSP(cfg.Https, mw.DefaultCSP))

	h := deps.Handler

	// probes and metrics are not subject to the request timeout
	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if cfg.RequestTimeout > 0 {
			r.Use(chimw.Timeout(cfg.RequestTimeout))
		}

		r.Get("/api/threads/{board}", h.ListThreads)
		r.Post("/api/threads/{board}", h.CreateThread)
		r.Put("/api/threads/{board}", h.ReportThread)
		r.Delete("/api/threads/{board}", h.DeleteThread)

		r.Get("/api/replies/{board}", h.GetThread)
		r.Post("/api/replies/{board}", h.CreateReply)
		r.Put("/api/replies/{board}", h.ReportReply)
		r.Delete("/api/replies/{board}", h.DeleteReply)
	})

	return r
}
