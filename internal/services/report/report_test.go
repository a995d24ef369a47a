package services

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"subtrack/internal/models"
)

type providerMock struct {
	ListAllFunc        func(ctx context.Context) ([]*models.Subscription, error)
	SummaryFunc        func(ctx context.Context) (*models.CostSummary, error)
	UpcomingWithinFunc func(ctx context.Context, days int, today time.Time) ([]models.Upcoming, error)
}

func (m *providerMock) ListAll(ctx context.Context) ([]*models.Subscription, error) {
	return m.ListAllFunc(ctx)
}
func (m *providerMock) Summary(ctx context.Context) (*models.CostSummary, error) {
	return m.SummaryFunc(ctx)
}
func (m *providerMock) UpcomingWithin(ctx context.Context, days int, today time.Time) ([]models.Upcoming, error) {
	return m.UpcomingWithinFunc(ctx, days, today)
}

func makeLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func testProvider() *providerMock {
	netflix := &models.Subscription{ID: 1, Name: "Netflix", Category: "Streaming",
		Cost: 15.99, RenewalDate: "2024-01-10", PaymentMethod: "Credit Card"}
	spotify := &models.Subscription{ID: 2, Name: "Spotify", Category: "Music",
		Cost: 9.99, RenewalDate: "2024-01-10", PaymentMethod: "Debit Card"}

	return &providerMock{
		ListAllFunc: func(context.Context) ([]*models.Subscription, error) {
			return []*models.Subscription{netflix, spotify}, nil
		},
		SummaryFunc: func(context.Context) (*models.CostSummary, error) {
			return &models.CostSummary{
				Count:        2,
				TotalMonthly: 25.98,
				TotalAnnual:  311.76,
				ByCategory:   map[string]float64{"Streaming": 15.99, "Music": 9.99},
			}, nil
		},
		UpcomingWithinFunc: func(_ context.Context, _ int, _ time.Time) ([]models.Upcoming, error) {
			return []models.Upcoming{
				{Subscription: netflix, DaysUntil: 5},
				{Subscription: spotify, DaysUntil: 5},
			}, nil
		},
	}
}

func TestReportGenerator_Summary(t *testing.T) {
	g := NewReportGenerator(testProvider(), t.TempDir(), makeLogger())
	today := time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)

	content, err := g.Summary(context.Background(), today)
	require.NoError(t, err)

	assert.Contains(t, content, "SUMMARY REPORT")
	assert.Contains(t, content, "Generated on: January 5, 2024")
	assert.Contains(t, content, "Total Subscriptions: 2")
	assert.Contains(t, content, "Total Monthly Cost: $25.98")
	assert.Contains(t, content, "Total Annual Cost: $311.76")
	assert.Contains(t, content, "Streaming")
	assert.Contains(t, content, "Music")
	assert.Contains(t, content, "UPCOMING RENEWALS")
	assert.Contains(t, content, "Netflix")
	// Next renewal computed from the anniversary, not the stored year.
	assert.Contains(t, content, "January 10, 2024")
}

func TestReportGenerator_SaveSummary(t *testing.T) {
	dir := t.TempDir()
	g := NewReportGenerator(testProvider(), dir, makeLogger())
	today := time.Date(2024, time.January, 5, 10, 30, 0, 0, time.UTC)

	path, err := g.SaveSummary(context.Background(), today)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "summary_report_20240105_103000.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Total Monthly Cost: $25.98")
}

func TestReportGenerator_Renewals(t *testing.T) {
	g := NewReportGenerator(testProvider(), t.TempDir(), makeLogger())
	today := time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)

	content, err := g.Renewals(context.Background(), 30, today)
	require.NoError(t, err)

	assert.Contains(t, content, "RENEWAL REPORT - NEXT 30 DAYS")
	assert.Contains(t, content, "DUE IN 5 DAYS")
	assert.Contains(t, content, "* Netflix (Streaming) - $15.99")
	assert.Contains(t, content, "* Spotify (Music) - $9.99")
	assert.Contains(t, content, "Total: $25.98")
	assert.Contains(t, content, "Total subscriptions due: 2")
	assert.Contains(t, content, "Total cost due: $25.98")
}

func TestReportGenerator_Renewals_Empty(t *testing.T) {
	p := testProvider()
	p.UpcomingWithinFunc = func(context.Context, int, time.Time) ([]models.Upcoming, error) {
		return nil, nil
	}
	g := NewReportGenerator(p, t.TempDir(), makeLogger())

	content, err := g.Renewals(context.Background(), 7,
		time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Contains(t, content, "No renewals scheduled in the next 7 days.")
	assert.Contains(t, content, "Total subscriptions due: 0")
}

func TestReportGenerator_ExportXLSX(t *testing.T) {
	dir := t.TempDir()
	g := NewReportGenerator(testProvider(), dir, makeLogger())
	today := time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)

	path, err := g.ExportXLSX(context.Background(), today)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheet := f.GetSheetName(0)
	name, err := f.GetCellValue(sheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Netflix", name)

	days, err := f.GetCellValue(sheet, "G2")
	require.NoError(t, err)
	assert.Equal(t, "5", days)

	label, err := f.GetCellValue(sheet, "A5")
	require.NoError(t, err)
	assert.Equal(t, "Total Monthly", label)
}
