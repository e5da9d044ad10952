// Package tracker собирает HTTP-сервис учёта подписок: хранилище,
// кеш, планировщик напоминаний и маршруты.
package tracker

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/subloop-tracker/internal/cache"
	"github.com/magabrotheeeer/subloop-tracker/internal/config"
	"github.com/magabrotheeeer/subloop-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/subloop-tracker/internal/migrations"
	"github.com/magabrotheeeer/subloop-tracker/internal/rabbitmq"
	analyticsservice "github.com/magabrotheeeer/subloop-tracker/internal/services/analytics"
	"github.com/magabrotheeeer/subloop-tracker/internal/services/reminder"
	subservice "github.com/magabrotheeeer/subloop-tracker/internal/services/subscription"
	"github.com/magabrotheeeer/subloop-tracker/internal/storage"
	"github.com/magabrotheeeer/subloop-tracker/internal/storage/repository"
)

const (
	brokerMaxRetries = 10
	brokerRetryDelay = 3 * time.Second
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage

	brokerMu   sync.Mutex
	brokerConn *amqp.Connection
	brokerCh   *amqp.Channel
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}
	if err = storage.CheckDatabaseReady(db); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	subscriptions := repository.NewSubscriptions(db)
	settings := repository.NewSettings(db)

	scheduler := reminder.NewScheduler(logger, time.Local)
	subscriptionService := subservice.NewService(subscriptions, cacheRedis, scheduler, logger)
	analyticsService := analyticsservice.NewService(subscriptions, settings, cacheRedis, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, subscriptionService, analyticsService, settings, cacheRedis)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	app := &App{
		server: srv,
		logger: logger,
		db:     db,
	}

	// Подключение к брокеру не должно задерживать старт HTTP-сервера:
	// до установления соединения планировщик работает как no-op.
	go app.connectBroker(cfg.RabbitConnectionString, scheduler)

	return app, nil
}

func (a *App) connectBroker(connString string, scheduler *reminder.Scheduler) {
	conn, err := rabbitmq.Connect(connString, brokerMaxRetries, brokerRetryDelay)
	if err != nil {
		a.logger.Warn("reminder broker unavailable, reminders disabled", sl.Err(err))
		return
	}
	ch, err := rabbitmq.SetupChannel(conn)
	if err != nil {
		a.logger.Warn("failed to set up reminder channel, reminders disabled", sl.Err(err))
		conn.Close()
		return
	}

	a.brokerMu.Lock()
	a.brokerConn = conn
	a.brokerCh = ch
	a.brokerMu.Unlock()

	scheduler.SetPublisher(&reminder.AMQPPublisher{Ch: ch})
	a.logger.Info("reminder broker connected")
}

func (a *App) closeBroker() {
	a.brokerMu.Lock()
	defer a.brokerMu.Unlock()
	if a.brokerCh != nil {
		_ = a.brokerCh.Close()
	}
	if a.brokerConn != nil {
		_ = a.brokerConn.Close()
	}
}

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
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.closeBroker()
		a.db.DB.Close()
		return err
	}
}
