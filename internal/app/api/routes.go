package api

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	"subtrack/internal/http/handlers/health"
	"subtrack/internal/http/handlers/reports"
	"subtrack/internal/http/handlers/subscription/create"
	"subtrack/internal/http/handlers/subscription/hints"
	"subtrack/internal/http/handlers/subscription/list"
	"subtrack/internal/http/handlers/subscription/read"
	"subtrack/internal/http/handlers/subscription/remove"
	"subtrack/internal/http/handlers/subscription/search"
	"subtrack/internal/http/handlers/subscription/summary"
	"subtrack/internal/http/handlers/subscription/upcoming"
	"subtrack/internal/http/handlers/subscription/update"
	"subtrack/internal/http/mware"
	reportservice "subtrack/internal/services/report"
	subservice "subtrack/internal/services/subscription"
)

// RegisterRoutes registers every route of the API server.
func RegisterRoutes(r chi.Router, logger *slog.Logger,
	subscriptionService *subservice.SubscriptionService,
	reportGenerator *reportservice.ReportGenerator) {
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(mware.RateLimitMiddleware(logger, rate.Limit(10), 20))

		r.Post("/subscriptions", create.New(logger, subscriptionService).ServeHTTP)
		r.Get("/subscriptions/hints", hints.New(logger).ServeHTTP)
		r.Get("/subscriptions/list", list.New(logger, subscriptionService).ServeHTTP)
		r.Get("/subscriptions/search", search.New(logger, subscriptionService).ServeHTTP)
		r.Get("/subscriptions/summary", summary.New(logger, subscriptionService).ServeHTTP)
		r.Get("/subscriptions/upcoming", upcoming.New(logger, subscriptionService).ServeHTTP)
		r.Get("/subscriptions/{id}", read.New(logger, subscriptionService).ServeHTTP)
		r.Put("/subscriptions/{id}", update.New(logger, subscriptionService).ServeHTTP)
		r.Delete("/subscriptions/{id}", remove.New(logger, subscriptionService).ServeHTTP)

		r.Post("/reports/{kind}", reports.New(logger, reportGenerator).ServeHTTP)
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
