// Package tracker предоставляет маршруты для сервиса учёта подписок.
package tracker

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/magabrotheeeer/subloop-tracker/internal/http/handlers/analytics/summary"
	"github.com/magabrotheeeer/subloop-tracker/internal/http/handlers/settings/currencyget"
	"github.com/magabrotheeeer/subloop-tracker/internal/http/handlers/settings/currencyset"
	"github.com/magabrotheeeer/subloop-tracker/internal/http/handlers/subscription/create"
	"github.com/magabrotheeeer/subloop-tracker/internal/http/handlers/subscription/list"
	"github.com/magabrotheeeer/subloop-tracker/internal/http/handlers/subscription/remove"
	"github.com/magabrotheeeer/subloop-tracker/internal/http/handlers/subscription/update"
	"github.com/magabrotheeeer/subloop-tracker/internal/http/middlewarectx"
	analyticsservice "github.com/magabrotheeeer/subloop-tracker/internal/services/analytics"
	subservice "github.com/magabrotheeeer/subloop-tracker/internal/services/subscription"
	"github.com/magabrotheeeer/subloop-tracker/internal/storage/repository"
)

// Cache сбрасывает кешированную сводку при смене валюты отображения.
type Cache interface {
	Invalidate(key string) error
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, subscriptionService *subservice.Service, analyticsService *analyticsservice.Service, settings *repository.Settings, cache Cache) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middlewarectx.RateLimitMiddleware(logger))

		r.Post("/subscriptions", create.New(logger, subscriptionService).ServeHTTP)
		r.Get("/subscriptions", list.New(logger, subscriptionService).ServeHTTP)
		r.Put("/subscriptions/{id}", update.New(logger, subscriptionService).ServeHTTP)
		r.Delete("/subscriptions/{id}", remove.New(logger, subscriptionService).ServeHTTP)

		r.Get("/analytics/summary", summary.New(logger, analyticsService).ServeHTTP)

		r.Get("/settings/currency", currencyget.New(logger, settings).ServeHTTP)
		r.Put("/settings/currency", currencyset.New(logger, settings, cache).ServeHTTP)
	})

	r.Handle("/metrics", promhttp.Handler())
}
