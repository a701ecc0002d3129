package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/luminapress/sales-ingest/internal/domain/ingest/handler"
)

// NewRouter wires the HTTP surface: upload, alias management, reports,
// health and metrics.
func NewRouter(deps *Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type"},
	})
	r.Use(c.Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	rateLimit := handler.RateLimit(
		float64(deps.Config.Server.RateLimitPerSecond),
		deps.Config.Server.RateLimitBurst,
	)

	r.Route("/v1", func(v1 chi.Router) {
		v1.With(rateLimit).Post("/uploads", deps.UploadHandler.HandleUpload)

		v1.Route("/aliases", func(a chi.Router) {
			a.Get("/", deps.AliasHandler.HandleList)
			a.Post("/", deps.AliasHandler.HandleSave)
			a.Delete("/{id}", deps.AliasHandler.HandleDelete)
		})

		v1.Route("/reports", func(rep chi.Router) {
			rep.Get("/sales/by-customer", deps.ReportHandler.HandleSalesByCustomer)
			rep.Get("/sales/by-title", deps.ReportHandler.HandleSalesByTitle)
			rep.Get("/exclusions", deps.ReportHandler.HandleListExclusions)
			rep.Post("/exclusions", deps.ReportHandler.HandleExcludeCustomer)
			rep.Delete("/exclusions", deps.ReportHandler.HandleIncludeCustomer)
		})
	})

	return r
}
