// Package sender assembles and runs the reminder email sender.
package sender

import (
	"context"
	"errors"
	"log/slog"

	"github.com/streadway/amqp"

	"subtrack/internal/config"
	libsmtp "subtrack/internal/lib/smtp"
	"subtrack/internal/rabbitmq"
	reminderservice "subtrack/internal/services/reminder"
)

type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *reminderservice.SenderService
	logger        *slog.Logger
}

// New connects the broker and wires the sender service.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.Rabbit, logger)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn)
	if err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			logger.Error("failed to close connection", slog.Any("err", closeErr))
		}
		return nil, err
	}

	transport := libsmtp.NewTransport(cfg.SMTP)
	senderService := reminderservice.NewSenderService(transport, cfg.SMTPUser, cfg.To, logger)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

// Run consumes reminder messages until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumeMessages(ctx, a.ch, a.senderService.SendRenewalReminder, a.logger)

	a.logger.Info("sender service shutting down gracefully")

	if closeErr := a.ch.Close(); closeErr != nil {
		a.logger.Error("failed to close channel", slog.Any("err", closeErr))
	}
	if closeErr := a.conn.Close(); closeErr != nil {
		a.logger.Error("failed to close connection", slog.Any("err", closeErr))
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
