package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"

	"subtrack/internal/lib/sl"

	"github.com/streadway/amqp"
)

// Handler processes one message body. A non-nil error causes a requeue.
type Handler func(body []byte) error

// ConsumeMessages reads messages from the reminder queue and hands each
// one to the handler on its own goroutine. A semaphore caps the number
// of in-flight handlers. Blocks until ctx is cancelled or the channel
// closes.
func ConsumeMessages(ctx context.Context, ch *amqp.Channel, handler Handler, log *slog.Logger) error {
	const op = "rabbitmq.ConsumeMessages"

	msgs, err := ch.Consume(
		QueueName,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	sem := make(chan struct{}, 10)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("%s: delivery channel closed", op)
			}
			sem <- struct{}{}
			go func(msg amqp.Delivery) {
				defer func() { <-sem }()
				if err := handler(msg.Body); err != nil {
					log.Error("failed to handle message", sl.Err(err))
					if nackErr := msg.Nack(false, true); nackErr != nil {
						log.Error("failed to nack message", sl.Err(nackErr))
					}
					return
				}
				if ackErr := msg.Ack(false); ackErr != nil {
					log.Error("failed to ack message", sl.Err(ackErr))
				}
			}(msg)
		}
	}
}
