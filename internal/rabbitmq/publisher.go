package rabbitmq

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
)

// Publisher is what the scheduler needs from the broker.
type Publisher interface {
	Publish(exchange, routingKey string, message any) error
}

// ChannelPublisher publishes JSON messages over an AMQP channel.
type ChannelPublisher struct {
	Ch *amqp.Channel
}

func NewChannelPublisher(ch *amqp.Channel) *ChannelPublisher {
	return &ChannelPublisher{Ch: ch}
}

func (p *ChannelPublisher) Publish(exchange, routingKey string, message any) error {
	const op = "rabbitmq.Publish"

	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = p.Ch.Publish(
		exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
