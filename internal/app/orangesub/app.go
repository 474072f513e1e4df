package orangesub

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/orange-subscription/internal/config"
	"github.com/magabrotheeeer/orange-subscription/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/orange-subscription/internal/lib/sl"
	"github.com/magabrotheeeer/orange-subscription/internal/metrics"
	"github.com/magabrotheeeer/orange-subscription/internal/migrations"
	"github.com/magabrotheeeer/orange-subscription/internal/notifier"
	authservice "github.com/magabrotheeeer/orange-subscription/internal/services/auth"
	subservice "github.com/magabrotheeeer/orange-subscription/internal/services/subscription"
	"github.com/magabrotheeeer/orange-subscription/internal/storage"
)

const shutdownTimeout = 15 * time.Second

// App HTTP-сервер вместе с ресурсами, которые закрываются при остановке.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
	amqp   *amqp.Connection
}

// New подключается к базе, применяет миграции и собирает маршруты.
// RabbitMQ подключается, только если в конфиге задан URL.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.orangesub.New"

	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	logger.Info("database ready")

	var (
		events subservice.Notifier
		conn   *amqp.Connection
	)
	if cfg.RabbitMQ.URL != "" {
		conn, err = rabbitmq.Connect(cfg.RabbitMQ.URL, cfg.Retries, cfg.RetryDelay)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		ch, err := rabbitmq.SetupExchange(conn, cfg.Exchange)
		if err != nil {
			_ = conn.Close()
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		events = notifier.NewRabbit(ch, cfg.Exchange, cfg.RoutingKey)
		logger.Info("activation events enabled", slog.String("exchange", cfg.Exchange))
	}

	metrics.MustRegister()

	authService := authservice.NewAuthService(db, cfg.USSDCode(), logger)
	subscriptionService := subservice.NewSubscriptionService(db, events, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, cfg, logger, db, authService, subscriptionService)

	srv := &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		amqp:   conn,
	}, nil
}

// Run запускает сервер и блокируется до ошибки или отмены ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if a.amqp != nil {
		if err := a.amqp.Close(); err != nil {
			a.logger.Warn("failed to close rabbitmq connection", sl.Err(err))
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn("failed to close database", sl.Err(err))
	}
}
