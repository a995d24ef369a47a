package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"subtrack/internal/models"
)

// CreateEntry inserts a new subscription and returns its assigned ID.
// IDs come from a sequence, so they are unique, monotonically increasing
// and never reused after deletion.
func (s *Storage) CreateEntry(ctx context.Context, sub models.Subscription) (int, error) {
	const op = "storage.CreateEntry"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (name, category, cost, renewal_date, payment_method)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		sub.Name, sub.Category, sub.Cost, sub.RenewalDate, sub.PaymentMethod).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadEntry returns the subscription with the given ID, or ErrNotFound.
func (s *Storage) ReadEntry(ctx context.Context, id int) (*models.Subscription, error) {
	const op = "storage.ReadEntry"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, category, cost, renewal_date, payment_method
			  FROM subscriptions WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var result models.Subscription
	if err := row.Scan(&result.ID, &result.Name, &result.Category, &result.Cost,
		&result.RenewalDate, &result.PaymentMethod); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// UpdateEntry replaces the stored record with the given ID wholesale.
// Returns ErrNotFound when no such record exists.
func (s *Storage) UpdateEntry(ctx context.Context, sub models.Subscription) error {
	const op = "storage.UpdateEntry"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET name = $1, category = $2, cost = $3, renewal_date = $4, payment_method = $5
			  WHERE id = $6`
	result, err := s.DB.ExecContext(ctx, query,
		sub.Name, sub.Category, sub.Cost, sub.RenewalDate, sub.PaymentMethod, sub.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// RemoveEntry deletes the subscription with the given ID. It reports
// whether a record was actually removed.
func (s *Storage) RemoveEntry(ctx context.Context, id int) (bool, error) {
	const op = "storage.RemoveEntry"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM subscriptions WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected > 0, nil
}

// ListEntries returns every subscription ordered by name, case-sensitive
// ascending. The "C" collation keeps the order byte-wise regardless of the
// database locale.
func (s *Storage) ListEntries(ctx context.Context) ([]*models.Subscription, error) {
	const op = "storage.ListEntries"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, category, cost, renewal_date, payment_method
			  FROM subscriptions
			  ORDER BY name COLLATE "C"`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []*models.Subscription
	for rows.Next() {
		var item models.Subscription
		if err := rows.Scan(&item.ID, &item.Name, &item.Category, &item.Cost,
			&item.RenewalDate, &item.PaymentMethod); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// likeEscaper neutralizes LIKE pattern metacharacters so a query
// matches them literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchEntries returns subscriptions whose name or category contains the
// query as a case-insensitive substring, ordered like ListEntries.
func (s *Storage) SearchEntries(ctx context.Context, query string) ([]*models.Subscription, error) {
	const op = "storage.SearchEntries"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	stmt := `SELECT id, name, category, cost, renewal_date, payment_method
			 FROM subscriptions
			 WHERE name ILIKE '%' || $1 || '%' ESCAPE '\'
			    OR category ILIKE '%' || $1 || '%' ESCAPE '\'
			 ORDER BY name COLLATE "C"`
	rows, err := s.DB.QueryContext(ctx, stmt, likeEscaper.Replace(query))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []*models.Subscription
	for rows.Next() {
		var item models.Subscription
		if err := rows.Scan(&item.ID, &item.Name, &item.Category, &item.Cost,
			&item.RenewalDate, &item.PaymentMethod); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// TotalMonthlyCost sums the monthly cost over all subscriptions, 0 when
// the table is empty.
func (s *Storage) TotalMonthlyCost(ctx context.Context) (float64, error) {
	const op = "storage.TotalMonthlyCost"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var total float64
	err := s.DB.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(cost), 0) FROM subscriptions`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return total, nil
}

// CostByCategory sums the monthly cost per distinct category.
func (s *Storage) CostByCategory(ctx context.Context) (map[string]float64, error) {
	const op = "storage.CostByCategory"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT category, SUM(cost) FROM subscriptions GROUP BY category`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	result := make(map[string]float64)
	for rows.Next() {
		var category string
		var cost float64
		if err := rows.Scan(&category, &cost); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result[category] = cost
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
