// Package scheduler assembles and runs the reminder scheduler.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"subtrack/internal/cache"
	"subtrack/internal/config"
	"subtrack/internal/rabbitmq"
	reminderservice "subtrack/internal/services/reminder"
	subservice "subtrack/internal/services/subscription"
	"subtrack/internal/storage"
)

type App struct {
	schedulerService *reminderservice.SchedulerService
	conn             *amqp.Connection
	ch               *amqp.Channel
	interval         time.Duration
	logger           *slog.Logger
}

func waitForDB(db *storage.Storage) error {
	for range 10 {
		if err := storage.CheckDatabaseReady(db); err == nil {
			return nil
		}
		time.Sleep(3 * time.Second)
	}
	return fmt.Errorf("database not ready after retries")
}

// New connects the broker and the storage and wires the scheduler service.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.Rabbit, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}

	ch, err := rabbitmq.SetupChannel(conn)
	if err != nil {
		closeResources(nil, conn, logger)
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		closeResources(ch, conn, logger)
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}

	if err := waitForDB(db); err != nil {
		closeResources(ch, conn, logger)
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		closeResources(ch, conn, logger)
		return nil, fmt.Errorf("cache not initialized: %w", err)
	}

	subscriptionService := subservice.NewSubscriptionService(db, cacheRedis, logger)
	schedulerService := reminderservice.NewSchedulerService(
		subscriptionService,
		rabbitmq.NewChannelPublisher(ch),
		cfg.Reminder.LookaheadDays,
		logger,
	)

	return &App{
		schedulerService: schedulerService,
		conn:             conn,
		ch:               ch,
		interval:         cfg.Reminder.Interval,
		logger:           logger,
	}, nil
}

func closeResources(ch *amqp.Channel, conn *amqp.Connection, logger *slog.Logger) {
	if ch != nil {
		if err := ch.Close(); err != nil {
			logger.Error("failed to close channel", slog.Any("err", err))
		}
	}
	if conn != nil {
		if err := conn.Close(); err != nil {
			logger.Error("failed to close connection", slog.Any("err", err))
		}
	}
}

// Run drives the scheduler loop until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	err := a.schedulerService.Run(ctx, a.interval)

	a.logger.Info("shutting down scheduler service")
	closeResources(a.ch, a.conn, a.logger)

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
