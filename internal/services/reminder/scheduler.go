// Package services implements the renewal reminder pipeline: a
// scheduler that publishes upcoming renewals to the broker, and a
// sender that turns consumed messages into emails.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"subtrack/internal/lib/sl"
	"subtrack/internal/models"
	"subtrack/internal/rabbitmq"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var remindersPublished = promauto.NewCounter(prometheus.CounterOpts{
	Name: "subtrack_reminders_published_total",
	Help: "Number of renewal reminder messages published to the broker.",
})

// UpcomingProvider yields subscriptions renewing within the window.
type UpcomingProvider interface {
	UpcomingWithin(ctx context.Context, days int, today time.Time) ([]models.Upcoming, error)
}

// SchedulerService periodically publishes a reminder message for every
// subscription whose renewal falls within the configured lookahead.
type SchedulerService struct {
	subs          UpcomingProvider
	publisher     rabbitmq.Publisher
	lookaheadDays int
	log           *slog.Logger
}

func NewSchedulerService(subs UpcomingProvider, publisher rabbitmq.Publisher,
	lookaheadDays int, log *slog.Logger) *SchedulerService {
	return &SchedulerService{
		subs:          subs,
		publisher:     publisher,
		lookaheadDays: lookaheadDays,
		log:           log,
	}
}

// Run fires PublishDueReminders once immediately and then on every
// tick until ctx is cancelled.
func (s *SchedulerService) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		n, err := s.PublishDueReminders(ctx, time.Now())
		if err != nil {
			s.log.Error("failed to publish reminders", sl.Err(err))
		} else {
			s.log.Info("published reminders", slog.Int("count", n))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// PublishDueReminders publishes one message per subscription renewing
// within the lookahead window, counted from today. Returns the number
// of messages published.
func (s *SchedulerService) PublishDueReminders(ctx context.Context, today time.Time) (int, error) {
	const op = "services.PublishDueReminders"

	upcoming, err := s.subs.UpcomingWithin(ctx, s.lookaheadDays, today)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	published := 0
	for _, u := range upcoming {
		msg := models.ReminderMessage{
			MessageID:   uuid.NewString(),
			Name:        u.Subscription.Name,
			Category:    u.Subscription.Category,
			Cost:        u.Subscription.Cost,
			RenewalDate: u.Subscription.RenewalDate,
			DaysUntil:   u.DaysUntil,
		}
		if err := s.publisher.Publish(rabbitmq.ExchangeName, rabbitmq.RoutingKey, msg); err != nil {
			return published, fmt.Errorf("%s: %w", op, err)
		}
		remindersPublished.Inc()
		published++
	}
	return published, nil
}
