package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"subtrack/internal/lib/smtp"
	"subtrack/internal/renewal"
)

// timeNow is swapped out in tests for deterministic email bodies.
var timeNow = time.Now

// SenderService turns consumed reminder messages into emails.
type SenderService struct {
	transport smtp.TransportInterface
	from      string
	to        string
	log       *slog.Logger
}

func NewSenderService(transport smtp.TransportInterface, from, to string,
	log *slog.Logger) *SenderService {
	return &SenderService{
		transport: transport,
		from:      from,
		to:        to,
		log:       log,
	}
}

// SendRenewalReminder unmarshals one reminder message body and emails
// it to the configured recipient. Satisfies rabbitmq.Handler.
func (s *SenderService) SendRenewalReminder(body []byte) error {
	const op = "services.SendRenewalReminder"

	var msg reminderPayload
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	email := s.composeEmail(msg)

	client, err := s.transport.Connect()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer client.Close()

	if err := client.Mail(s.from); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := client.Rcpt(s.to); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err := w.Write([]byte(email)); err != nil {
		w.Close()
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := client.Quit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("sent renewal reminder",
		slog.String("message_id", msg.MessageID),
		slog.String("name", msg.Name))
	return nil
}

// reminderPayload mirrors models.ReminderMessage; a local copy keeps
// the sender decoupled from producers that may run a different build.
type reminderPayload struct {
	MessageID   string  `json:"message_id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Cost        float64 `json:"cost"`
	RenewalDate string  `json:"renewal_date"`
	DaysUntil   int     `json:"days_until"`
}

func (s *SenderService) composeEmail(msg reminderPayload) string {
	due := "today"
	if msg.DaysUntil == 1 {
		due = "tomorrow"
	} else if msg.DaysUntil > 1 {
		due = fmt.Sprintf("in %d days", msg.DaysUntil)
	}

	date := msg.RenewalDate
	if next, err := renewal.NextOccurrence(msg.RenewalDate, timeNow()); err == nil {
		date = next.Format("January 2, 2006")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.from)
	fmt.Fprintf(&b, "To: %s\r\n", s.to)
	fmt.Fprintf(&b, "Subject: %s renews %s\r\n", msg.Name, due)
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "Your %s subscription %q ($%.2f) renews %s, on %s.\r\n",
		strings.ToLower(msg.Category), msg.Name, msg.Cost, due, date)
	return b.String()
}
