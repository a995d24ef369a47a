package storage

import (
	"context"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"subtrack/internal/migrations"
	"subtrack/internal/models"
)

// TestDataFactory holds helpers for seeding test data.
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory creates a new test data factory.
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateSubscription inserts a test subscription directly and returns its ID.
func (f *TestDataFactory) CreateSubscription(t *testing.T, name, category string,
	cost float64, renewalDate, paymentMethod string) int {
	t.Helper()
	var id int
	err := f.storage.DB.QueryRow(`INSERT INTO subscriptions
		(name, category, cost, renewal_date, payment_method)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		name, category, cost, renewalDate, paymentMethod).Scan(&id)
	require.NoError(t, err)
	return id
}

// GetTestSubscription returns default test subscription data.
func GetTestSubscription() models.Subscription {
	return models.Subscription{
		Name:          "Netflix",
		Category:      "Streaming",
		Cost:          15.99,
		RenewalDate:   "2024-01-10",
		PaymentMethod: "Credit Card",
	}
}

// setupTestDatabase starts a disposable PostgreSQL container, applies the
// migrations and returns a ready Storage with its cleanup function.
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForAll(
				wait.ForListeningPort(nat.Port("5432/tcp")),
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2),
			).WithDeadline(3*time.Minute),
		),
	)
	require.NoError(t, err, "failed to start container")

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(connStr)
	require.NoError(t, err)

	require.NoError(t, migrations.Run(storage.DB, "../../migrations"))

	cleanup := func() {
		_ = storage.DB.Close()
		_ = pgContainer.Terminate(ctx)
	}
	return storage, cleanup
}
