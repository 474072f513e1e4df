// Package orangesub собирает HTTP-сервер сервиса подписок: маршруты, middleware и зависимости.
package orangesub

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	// регистрирует swagger-описание для /docs
	_ "github.com/magabrotheeeer/orange-subscription/docs"

	"github.com/magabrotheeeer/orange-subscription/internal/config"
	"github.com/magabrotheeeer/orange-subscription/internal/http/handlers/admin/stats"
	"github.com/magabrotheeeer/orange-subscription/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/orange-subscription/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/orange-subscription/internal/http/handlers/home"
	"github.com/magabrotheeeer/orange-subscription/internal/http/handlers/payment/notification"
	"github.com/magabrotheeeer/orange-subscription/internal/http/handlers/subscription/checkstatus"
	"github.com/magabrotheeeer/orange-subscription/internal/http/middlewarectx"
	authservice "github.com/magabrotheeeer/orange-subscription/internal/services/auth"
	subservice "github.com/magabrotheeeer/orange-subscription/internal/services/subscription"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, cfg *config.Config, logger *slog.Logger, db home.Pinger, authService *authservice.AuthService, subscriptionService *subservice.SubscriptionService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", middlewarectx.APIKeyHeader},
		}),
	)

	r.Get("/", home.New(logger, db).ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.With(middlewarectx.RateLimitMiddleware(cfg.RPS, cfg.Burst, logger)).
			Post("/login", login.New(logger, authService, subscriptionService).ServeHTTP)
		r.Get("/check-status/{username}", checkstatus.New(logger, subscriptionService).ServeHTTP)

		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.APIKeyMiddleware(cfg.AdminAPIKey, logger))
			r.Get("/admin/stats", stats.New(logger, subscriptionService).ServeHTTP)
		})
	})

	// Webhook Orange Money (без аутентификации)
	r.With(middlewarectx.RateLimitMiddleware(cfg.PaymentRPS, cfg.PaymentBurst, logger)).
		Post("/payment", notification.New(logger, subscriptionService).ServeHTTP)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
