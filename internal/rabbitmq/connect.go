package rabbitmq

import (
	"fmt"
	"log/slog"
	"time"

	"subtrack/internal/config"
	"subtrack/internal/lib/sl"

	"github.com/streadway/amqp"
)

// Connect dials the broker, retrying per the configured policy so the
// service can start before RabbitMQ finishes booting.
func Connect(cfg config.Rabbit, log *slog.Logger) (*amqp.Connection, error) {
	const op = "rabbitmq.Connect"

	var conn *amqp.Connection
	var err error

	for i := 0; i <= cfg.Retries; i++ {
		conn, err = amqp.Dial(cfg.Connection)
		if err == nil {
			return conn, nil
		}
		log.Warn("failed to connect to rabbitmq, retrying",
			slog.Int("attempt", i+1),
			sl.Err(err))
		time.Sleep(cfg.RetryDelay)
	}
	return nil, fmt.Errorf("%s: %w", op, err)
}
