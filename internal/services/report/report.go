// Package services implements report generation: textual summary and
// renewal reports saved to the reports directory, plus an XLSX export of
// the whole collection.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/xuri/excelize/v2"

	"subtrack/internal/models"
	"subtrack/internal/renewal"
)

// SubscriptionProvider defines the queries the report generator needs.
type SubscriptionProvider interface {
	// ListAll returns every subscription ordered by name.
	ListAll(ctx context.Context) ([]*models.Subscription, error)
	// Summary returns the collection-wide cost aggregates.
	Summary(ctx context.Context) (*models.CostSummary, error)
	// UpcomingWithin returns renewals due within days of today.
	UpcomingWithin(ctx context.Context, days int, today time.Time) ([]models.Upcoming, error)
}

// ReportGenerator renders reports over the subscription collection.
// today is always an explicit parameter so report content is reproducible.
type ReportGenerator struct {
	subs SubscriptionProvider
	dir  string
	log  *slog.Logger
}

// NewReportGenerator creates a new ReportGenerator writing files to dir.
func NewReportGenerator(subs SubscriptionProvider, dir string, log *slog.Logger) *ReportGenerator {
	return &ReportGenerator{
		subs: subs,
		dir:  dir,
		log:  log,
	}
}

func formatCurrency(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}

// Summary renders the full summary report: overview, cost by category,
// upcoming renewals within 30 days and the complete subscription list.
func (g *ReportGenerator) Summary(ctx context.Context, today time.Time) (string, error) {
	const op = "report.Summary"

	summary, err := g.subs.Summary(ctx)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	entries, err := g.subs.ListAll(ctx)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	upcoming, err := g.subs.UpcomingWithin(ctx, 30, today)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	var b strings.Builder
	b.WriteString(strings.Repeat("=", 60) + "\n")
	b.WriteString("SUBTRACK - SUMMARY REPORT\n")
	b.WriteString(strings.Repeat("=", 60) + "\n")
	b.WriteString("Generated on: " + today.Format("January 2, 2006") + "\n\n")

	b.WriteString("OVERVIEW\n")
	b.WriteString(strings.Repeat("-", 20) + "\n")
	b.WriteString(fmt.Sprintf("Total Subscriptions: %d\n", summary.Count))
	b.WriteString(fmt.Sprintf("Total Monthly Cost: %s\n", formatCurrency(summary.TotalMonthly)))
	b.WriteString(fmt.Sprintf("Total Annual Cost: %s\n\n", formatCurrency(summary.TotalAnnual)))

	if len(summary.ByCategory) > 0 {
		b.WriteString("COST BY CATEGORY\n")
		b.WriteString(renderCategoryTable(summary.ByCategory, summary.TotalMonthly))
		b.WriteString("\n")
	}

	if len(upcoming) > 0 {
		b.WriteString("UPCOMING RENEWALS (Next 30 Days)\n")
		b.WriteString(renderUpcomingTable(upcoming))
		b.WriteString("\n")
	}

	if len(entries) > 0 {
		b.WriteString("ALL SUBSCRIPTIONS\n")
		rendered, err := renderSubscriptionsTable(entries, today)
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		b.WriteString(rendered)
	}

	return b.String(), nil
}

// SaveSummary renders the summary report and writes it to the reports
// directory. Returns the path of the written file.
func (g *ReportGenerator) SaveSummary(ctx context.Context, today time.Time) (string, error) {
	const op = "report.SaveSummary"

	content, err := g.Summary(ctx, today)
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("summary_report_%s.txt", today.Format("20060102_150405"))
	path, err := g.write(name, content)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	g.log.Info("summary report saved", slog.String("path", path))
	return path, nil
}

// Renewals renders the renewal report: subscriptions due within daysAhead
// days, grouped by days until renewal.
func (g *ReportGenerator) Renewals(ctx context.Context, daysAhead int, today time.Time) (string, error) {
	const op = "report.Renewals"

	upcoming, err := g.subs.UpcomingWithin(ctx, daysAhead, today)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	var b strings.Builder
	b.WriteString(strings.Repeat("=", 60) + "\n")
	b.WriteString(fmt.Sprintf("RENEWAL REPORT - NEXT %d DAYS\n", daysAhead))
	b.WriteString(strings.Repeat("=", 60) + "\n")
	b.WriteString("Generated on: " + today.Format("January 2, 2006") + "\n\n")

	if len(upcoming) == 0 {
		b.WriteString(fmt.Sprintf("No renewals scheduled in the next %d days.\n\n", daysAhead))
	} else {
		// UpcomingWithin is already sorted by days ascending, so equal
		// day-counts form contiguous groups.
		var groupCost float64
		for i, u := range upcoming {
			if i == 0 || u.DaysUntil != upcoming[i-1].DaysUntil {
				if i > 0 {
					b.WriteString(fmt.Sprintf("  Total: %s\n\n", formatCurrency(groupCost)))
					groupCost = 0
				}
				switch u.DaysUntil {
				case 0:
					b.WriteString("DUE TODAY\n")
				case 1:
					b.WriteString("DUE IN 1 DAY\n")
				default:
					b.WriteString(fmt.Sprintf("DUE IN %d DAYS\n", u.DaysUntil))
				}
				b.WriteString(strings.Repeat("-", 20) + "\n")
			}
			b.WriteString(fmt.Sprintf("  * %s (%s) - %s\n",
				u.Subscription.Name, u.Subscription.Category, formatCurrency(u.Subscription.Cost)))
			groupCost += u.Subscription.Cost
		}
		b.WriteString(fmt.Sprintf("  Total: %s\n\n", formatCurrency(groupCost)))
	}

	var totalDue float64
	for _, u := range upcoming {
		totalDue += u.Subscription.Cost
	}
	b.WriteString("SUMMARY\n")
	b.WriteString(strings.Repeat("-", 10) + "\n")
	b.WriteString(fmt.Sprintf("Total subscriptions due: %d\n", len(upcoming)))
	b.WriteString(fmt.Sprintf("Total cost due: %s\n", formatCurrency(totalDue)))

	return b.String(), nil
}

// SaveRenewals renders the renewal report and writes it to the reports
// directory. Returns the path of the written file.
func (g *ReportGenerator) SaveRenewals(ctx context.Context, daysAhead int, today time.Time) (string, error) {
	const op = "report.SaveRenewals"

	content, err := g.Renewals(ctx, daysAhead, today)
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("renewal_report_%s.txt", today.Format("20060102_150405"))
	path, err := g.write(name, content)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	g.log.Info("renewal report saved", slog.String("path", path))
	return path, nil
}

// ExportXLSX writes the whole collection to an XLSX workbook in the
// reports directory and returns the file path.
func (g *ReportGenerator) ExportXLSX(ctx context.Context, today time.Time) (string, error) {
	const op = "report.ExportXLSX"

	entries, err := g.subs.ListAll(ctx)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	summary, err := g.subs.Summary(ctx)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{"ID", "Name", "Category", "Monthly Cost", "Renewal Date", "Payment Method", "Days Until Renewal"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
	}

	for i, sub := range entries {
		daysUntil, err := renewal.DaysUntilNext(sub.RenewalDate, today)
		if err != nil {
			return "", fmt.Errorf("%s: subscription %d: %w", op, sub.ID, err)
		}
		row := i + 2
		values := []any{sub.ID, sub.Name, sub.Category, sub.Cost, sub.RenewalDate, sub.PaymentMethod, daysUntil}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return "", fmt.Errorf("%s: %w", op, err)
			}
		}
	}

	summaryRow := len(entries) + 3
	f.SetCellValue(sheet, fmt.Sprintf("A%d", summaryRow), "Total Monthly")
	f.SetCellValue(sheet, fmt.Sprintf("D%d", summaryRow), summary.TotalMonthly)
	f.SetCellValue(sheet, fmt.Sprintf("A%d", summaryRow+1), "Total Annual")
	f.SetCellValue(sheet, fmt.Sprintf("D%d", summaryRow+1), summary.TotalAnnual)

	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	path := filepath.Join(g.dir, fmt.Sprintf("subscriptions_%s.xlsx", today.Format("20060102_150405")))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	g.log.Info("xlsx export saved", slog.String("path", path))
	return path, nil
}

func (g *ReportGenerator) write(name, content string) (string, error) {
	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(g.dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func renderCategoryTable(byCategory map[string]float64, totalMonthly float64) string {
	type categoryCost struct {
		name string
		cost float64
	}
	sorted := make([]categoryCost, 0, len(byCategory))
	for name, cost := range byCategory {
		sorted = append(sorted, categoryCost{name, cost})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].cost != sorted[j].cost {
			return sorted[i].cost > sorted[j].cost
		}
		return sorted[i].name < sorted[j].name
	})

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Category", "Monthly", "Share"})
	for _, c := range sorted {
		percentage := 0.0
		if totalMonthly > 0 {
			percentage = c.cost / totalMonthly * 100
		}
		t.AppendRow(table.Row{c.name, formatCurrency(c.cost), fmt.Sprintf("%.1f%%", percentage)})
	}
	t.SetStyle(table.StyleRounded)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})
	return t.Render() + "\n"
}

func renderUpcomingTable(upcoming []models.Upcoming) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Name", "Due", "Monthly"})
	for _, u := range upcoming {
		due := "today"
		if u.DaysUntil == 1 {
			due = "in 1 day"
		} else if u.DaysUntil > 1 {
			due = fmt.Sprintf("in %d days", u.DaysUntil)
		}
		t.AppendRow(table.Row{u.Subscription.Name, due, formatCurrency(u.Subscription.Cost)})
	}
	t.SetStyle(table.StyleRounded)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
	})
	return t.Render() + "\n"
}

func renderSubscriptionsTable(entries []*models.Subscription, today time.Time) (string, error) {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Name", "Category", "Monthly", "Next Renewal", "Payment Method"})
	for _, sub := range entries {
		next, err := renewal.NextOccurrence(sub.RenewalDate, today)
		if err != nil {
			return "", fmt.Errorf("subscription %d: %w", sub.ID, err)
		}
		t.AppendRow(table.Row{
			sub.Name,
			sub.Category,
			formatCurrency(sub.Cost),
			next.Format("January 2, 2006"),
			sub.PaymentMethod,
		})
	}
	t.SetStyle(table.StyleRounded)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
	})
	return t.Render() + "\n", nil
}
