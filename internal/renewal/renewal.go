// Package renewal implements the date arithmetic behind renewal tracking.
// A subscription's renewal date is an annually recurring anniversary: only
// the month and day of the stored date matter, the year is ignored. All
// functions are pure, "today" is always passed in by the caller.
package renewal

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// Layout is the wire format for renewal dates.
const Layout = "2006-01-02"

// ErrInvalidDate is returned when a date string is not a real calendar
// date in YYYY-MM-DD form.
var ErrInvalidDate = errors.New("invalid renewal date")

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Validate reports whether s is a real calendar date in YYYY-MM-DD form.
// Empty and malformed strings return false, Validate never panics.
func Validate(s string) bool {
	if !datePattern.MatchString(s) {
		return false
	}
	_, err := time.Parse(Layout, s)
	return err == nil
}

// NextOccurrence returns the next occurrence of the renewal anniversary on
// or after today. If the anniversary in today's year has already passed,
// the occurrence rolls over to the next year. A Feb 29 anniversary is
// clamped to Feb 28 in non-leap years.
func NextOccurrence(renewalDate string, today time.Time) (time.Time, error) {
	if !Validate(renewalDate) {
		return time.Time{}, fmt.Errorf("parse renewal date %q: %w", renewalDate, ErrInvalidDate)
	}
	parsed, _ := time.Parse(Layout, renewalDate)
	day := truncateToDay(today)

	candidate := anniversaryIn(day.Year(), parsed.Month(), parsed.Day())
	if candidate.Before(day) {
		candidate = anniversaryIn(day.Year()+1, parsed.Month(), parsed.Day())
	}
	return candidate, nil
}

// DaysUntilNext returns the number of whole days from today until the next
// occurrence of the renewal anniversary. The result is zero when the
// anniversary falls on today and is never negative for a valid input.
func DaysUntilNext(renewalDate string, today time.Time) (int, error) {
	next, err := NextOccurrence(renewalDate, today)
	if err != nil {
		return 0, err
	}
	return int(next.Sub(truncateToDay(today)).Hours() / 24), nil
}

// FormatLong renders a YYYY-MM-DD date string in a long human-readable
// form, e.g. "January 10, 2026".
func FormatLong(dateString string) (string, error) {
	if !Validate(dateString) {
		return "", fmt.Errorf("parse date %q: %w", dateString, ErrInvalidDate)
	}
	parsed, _ := time.Parse(Layout, dateString)
	return parsed.Format("January 2, 2006"), nil
}

func anniversaryIn(year int, month time.Month, day int) time.Time {
	if month == time.February && day == 29 && !isLeap(year) {
		day = 28
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
