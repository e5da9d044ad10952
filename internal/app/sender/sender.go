// Package sender собирает сервис доставки напоминаний:
// потребители очередей RabbitMQ и почтовый транспорт.
package sender

import (
	"context"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/subloop-tracker/internal/config"
	"github.com/magabrotheeeer/subloop-tracker/internal/rabbitmq"
	senderservice "github.com/magabrotheeeer/subloop-tracker/internal/services/sender"
)

const (
	brokerMaxRetries = 10
	brokerRetryDelay = 3 * time.Second
)

type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.SenderService
	logger        *slog.Logger
}

func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitConnectionString, brokerMaxRetries, brokerRetryDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}

	mailer := senderservice.NewSMTPMailer(cfg, logger)
	senderService := senderservice.NewSenderService(mailer, cfg.ReminderRecipient, logger)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, rabbitmq.CommandQueue, a.senderService.HandleCommand)
	if err != nil {
		a.logger.Error("failed to start command queue consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("reminder sender shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}

	return nil
}
