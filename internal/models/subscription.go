// Package models contains the domain structures describing a tracked
// subscription, plus helper types for data arriving from external sources
// (JSON requests).
package models

// Subscription is the main subscription model used by the business logic
// and the storage layer. RenewalDate is kept as a YYYY-MM-DD string; only
// its month and day are meaningful, the renewal recurs annually.
type Subscription struct {
	ID            int     `json:"id"`             // Assigned by the store, immutable
	Name          string  `json:"name"`           // Service name, e.g. "Netflix"
	Category      string  `json:"category"`       // Free-text category
	Cost          float64 `json:"cost"`           // Monthly cost, never negative
	RenewalDate   string  `json:"renewal_date"`   // Anniversary date, YYYY-MM-DD
	PaymentMethod string  `json:"payment_method"` // Free-text payment method
}

// DummySubscription receives subscription data from a JSON request before
// it is validated and converted into a Subscription. The renewal date
// arrives as a string so it can be checked manually.
type DummySubscription struct {
	Name          string  `json:"name" validate:"required,min=2,max=100"`
	Category      string  `json:"category" validate:"required,min=2,max=50"`
	Cost          float64 `json:"cost" validate:"gte=0"`
	RenewalDate   string  `json:"renewal_date" validate:"required"`
	PaymentMethod string  `json:"payment_method" validate:"required,min=2,max=50"`
}

// Upcoming pairs a subscription with the number of days until its next
// renewal. It is derived per query and never stored.
type Upcoming struct {
	Subscription *Subscription `json:"subscription"`
	DaysUntil    int           `json:"days_until"`
}

// CostSummary aggregates spending across the whole collection.
type CostSummary struct {
	Count        int                `json:"count"`
	TotalMonthly float64            `json:"total_monthly"`
	TotalAnnual  float64            `json:"total_annual"`
	ByCategory   map[string]float64 `json:"by_category"`
}

// ReminderMessage is the payload published to the reminder queue for a
// subscription whose renewal is coming up.
type ReminderMessage struct {
	MessageID   string  `json:"message_id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Cost        float64 `json:"cost"`
	RenewalDate string  `json:"renewal_date"`
	DaysUntil   int     `json:"days_until"`
}
