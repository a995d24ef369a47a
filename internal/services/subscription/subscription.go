// Package services contains the business logic for managing tracked
// subscriptions and their derived renewal and cost queries.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/go-playground/validator"

	"subtrack/internal/models"
	"subtrack/internal/renewal"
)

// SubscriptionRepository defines the persistence methods the service needs.
type SubscriptionRepository interface {
	// CreateEntry inserts a new subscription and returns its ID.
	CreateEntry(ctx context.Context, sub models.Subscription) (int, error)
	// ReadEntry returns a subscription by ID, storage.ErrNotFound if absent.
	ReadEntry(ctx context.Context, id int) (*models.Subscription, error)
	// UpdateEntry replaces a stored subscription wholesale by its ID.
	UpdateEntry(ctx context.Context, sub models.Subscription) error
	// RemoveEntry deletes by ID and reports whether a record was removed.
	RemoveEntry(ctx context.Context, id int) (bool, error)
	// ListEntries returns all subscriptions ordered by name ascending.
	ListEntries(ctx context.Context) ([]*models.Subscription, error)
	// SearchEntries matches name or category by case-insensitive substring.
	SearchEntries(ctx context.Context, query string) ([]*models.Subscription, error)
	// TotalMonthlyCost sums cost over all subscriptions.
	TotalMonthlyCost(ctx context.Context) (float64, error)
	// CostByCategory sums cost per distinct category.
	CostByCategory(ctx context.Context) (map[string]float64, error)
}

// Cache describes the best-effort read cache for point lookups.
type Cache interface {
	// Get tries to read a cached value by key.
	Get(key string, result any) (bool, error)
	// Set stores a value with a time to live.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate drops a cached value by key.
	Invalidate(key string) error
}

// SubscriptionService implements the subscription business logic,
// including validation, caching and the renewal-window queries.
type SubscriptionService struct {
	repo     SubscriptionRepository
	cache    Cache
	log      *slog.Logger
	validate *validator.Validate
}

// NewSubscriptionService creates a new SubscriptionService.
func NewSubscriptionService(repo SubscriptionRepository, cache Cache, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo:     repo,
		cache:    cache,
		log:      log,
		validate: validator.New(),
	}
}

// checkRequest validates a create/update request and collects every field
// violation into a single *ValidationError.
func (s *SubscriptionService) checkRequest(req models.DummySubscription) error {
	var fields []FieldError
	if err := s.validate.Struct(req); err != nil {
		fields = fieldErrors(err.(validator.ValidationErrors))
	}
	if req.RenewalDate != "" && !renewal.Validate(req.RenewalDate) {
		fields = append(fields, renewalDateError())
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Create validates the request, stores a new subscription and returns the
// assigned ID.
func (s *SubscriptionService) Create(ctx context.Context, req models.DummySubscription) (int, error) {
	if err := s.checkRequest(req); err != nil {
		return 0, err
	}

	entry := models.Subscription{
		Name:          req.Name,
		Category:      req.Category,
		Cost:          req.Cost,
		RenewalDate:   req.RenewalDate,
		PaymentMethod: req.PaymentMethod,
	}
	id, err := s.repo.CreateEntry(ctx, entry)
	if err != nil {
		return 0, err
	}
	s.log.Info("created new subscription", slog.Int("id", id))

	entry.ID = id
	cacheKey := fmt.Sprintf("subscription:%d", id)
	if err := s.cache.Set(cacheKey, entry, time.Hour); err != nil {
		s.log.Warn("failed to cache subscription", slog.String("key", cacheKey), slog.Any("err", err))
	}

	return id, nil
}

// Read returns a subscription by ID, using the cache when possible.
func (s *SubscriptionService) Read(ctx context.Context, id int) (*models.Subscription, error) {
	var result *models.Subscription
	cacheKey := fmt.Sprintf("subscription:%d", id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	if found {
		return result, nil
	}

	result, err = s.repo.ReadEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to add to cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return result, nil
}

// Update validates the request and replaces the subscription with the
// given ID wholesale. Returns storage.ErrNotFound for an unknown ID.
func (s *SubscriptionService) Update(ctx context.Context, id int, req models.DummySubscription) error {
	if err := s.checkRequest(req); err != nil {
		return err
	}

	entry := models.Subscription{
		ID:            id,
		Name:          req.Name,
		Category:      req.Category,
		Cost:          req.Cost,
		RenewalDate:   req.RenewalDate,
		PaymentMethod: req.PaymentMethod,
	}
	if err := s.repo.UpdateEntry(ctx, entry); err != nil {
		return err
	}
	s.log.Info("updated subscription", slog.Int("id", id))

	cacheKey := fmt.Sprintf("subscription:%d", id)
	if err := s.cache.Set(cacheKey, entry, time.Hour); err != nil {
		s.log.Warn("failed to cache subscription", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return nil
}

// Remove deletes a subscription by ID and invalidates its cache entry.
// It reports whether a record was actually removed.
func (s *SubscriptionService) Remove(ctx context.Context, id int) (bool, error) {
	cacheKey := fmt.Sprintf("subscription:%d", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}

	return s.repo.RemoveEntry(ctx, id)
}

// ListAll returns a snapshot of every subscription ordered by name.
func (s *SubscriptionService) ListAll(ctx context.Context) ([]*models.Subscription, error) {
	return s.repo.ListEntries(ctx)
}

// Search returns subscriptions whose name or category contains query as a
// case-insensitive substring. An empty query returns an empty result, not
// the full collection.
func (s *SubscriptionService) Search(ctx context.Context, query string) ([]*models.Subscription, error) {
	if query == "" {
		return nil, nil
	}
	return s.repo.SearchEntries(ctx, query)
}

// TotalMonthlyCost returns the summed monthly cost of all subscriptions.
func (s *SubscriptionService) TotalMonthlyCost(ctx context.Context) (float64, error) {
	return s.repo.TotalMonthlyCost(ctx)
}

// TotalAnnualCost returns the monthly total projected over twelve months.
func (s *SubscriptionService) TotalAnnualCost(ctx context.Context) (float64, error) {
	monthly, err := s.repo.TotalMonthlyCost(ctx)
	if err != nil {
		return 0, err
	}
	return monthly * 12, nil
}

// CostByCategory returns the summed monthly cost per distinct category.
func (s *SubscriptionService) CostByCategory(ctx context.Context) (map[string]float64, error) {
	return s.repo.CostByCategory(ctx)
}

// Summary gathers the collection-wide cost aggregates in one call.
func (s *SubscriptionService) Summary(ctx context.Context) (*models.CostSummary, error) {
	entries, err := s.repo.ListEntries(ctx)
	if err != nil {
		return nil, err
	}
	byCategory, err := s.repo.CostByCategory(ctx)
	if err != nil {
		return nil, err
	}

	var totalMonthly float64
	for _, entry := range entries {
		totalMonthly += entry.Cost
	}
	return &models.CostSummary{
		Count:        len(entries),
		TotalMonthly: totalMonthly,
		TotalAnnual:  totalMonthly * 12,
		ByCategory:   byCategory,
	}, nil
}

// UpcomingWithin returns every subscription whose next renewal falls
// within days of today, sorted by days until renewal ascending with ties
// broken by name. today is supplied by the caller, the service never reads
// the system clock.
func (s *SubscriptionService) UpcomingWithin(ctx context.Context, days int, today time.Time) ([]models.Upcoming, error) {
	entries, err := s.repo.ListEntries(ctx)
	if err != nil {
		return nil, err
	}

	var result []models.Upcoming
	for _, entry := range entries {
		daysUntil, err := renewal.DaysUntilNext(entry.RenewalDate, today)
		if err != nil {
			return nil, fmt.Errorf("subscription %d: %w", entry.ID, err)
		}
		if daysUntil >= 0 && daysUntil <= days {
			result = append(result, models.Upcoming{Subscription: entry, DaysUntil: daysUntil})
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].DaysUntil != result[j].DaysUntil {
			return result[i].DaysUntil < result[j].DaysUntil
		}
		return result[i].Subscription.Name < result[j].Subscription.Name
	})
	return result, nil
}
