package renewal

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"2024-01-10", true},
		{"2024-02-29", true},
		{"2023-02-29", false},
		{"2024-02-30", false},
		{"2024-13-01", false},
		{"not-a-date", false},
		{"", false},
		{"2024-1-10", false},
		{"10-01-2024", false},
		{"2024-01-10T00:00:00Z", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Validate(tt.input); got != tt.want {
				t.Errorf("Validate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDaysUntilNext_TableTests(t *testing.T) {
	tests := []struct {
		name        string
		renewalDate string
		today       time.Time
		want        int
	}{
		{
			name:        "a few days ahead in same year",
			renewalDate: "2024-01-10",
			today:       date(2024, time.January, 5),
			want:        5,
		},
		{
			name:        "stored year is ignored",
			renewalDate: "1999-01-10",
			today:       date(2024, time.January, 5),
			want:        5,
		},
		{
			name:        "anniversary today",
			renewalDate: "2020-06-15",
			today:       date(2024, time.June, 15),
			want:        0,
		},
		{
			name:        "already passed this year rolls over",
			renewalDate: "2024-01-10",
			today:       date(2024, time.January, 11),
			want:        365, // 2025-01-10, spanning Feb 29 2024
		},
		{
			name:        "rollover across leap day",
			renewalDate: "2023-03-01",
			today:       date(2024, time.March, 2),
			want:        364, // 2025-03-01
		},
		{
			name:        "december to january rollover",
			renewalDate: "2023-01-02",
			today:       date(2023, time.December, 31),
			want:        2,
		},
		{
			name:        "feb 29 clamps to feb 28 in non-leap year",
			renewalDate: "2024-02-29",
			today:       date(2025, time.February, 20),
			want:        8, // clamped occurrence is 2025-02-28
		},
		{
			name:        "feb 29 anniversary on clamped day is due today",
			renewalDate: "2024-02-29",
			today:       date(2025, time.February, 28),
			want:        0,
		},
		{
			name:        "feb 29 kept in leap year",
			renewalDate: "2020-02-29",
			today:       date(2024, time.February, 1),
			want:        28,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DaysUntilNext(tt.renewalDate, tt.today)
			if err != nil {
				t.Fatalf("DaysUntilNext() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("DaysUntilNext(%q, %s) = %d, want %d",
					tt.renewalDate, tt.today.Format(Layout), got, tt.want)
			}
		})
	}
}

func TestDaysUntilNext_InvalidDate(t *testing.T) {
	for _, input := range []string{"", "2024-02-30", "tomorrow"} {
		_, err := DaysUntilNext(input, date(2024, time.January, 1))
		if !errors.Is(err, ErrInvalidDate) {
			t.Errorf("DaysUntilNext(%q) error = %v, want ErrInvalidDate", input, err)
		}
	}
}

func TestDaysUntilNext_RangeAndIdempotence(t *testing.T) {
	today := date(2024, time.July, 1)
	for month := time.January; month <= time.December; month++ {
		for day := 1; day <= 28; day++ {
			renewalDate := date(2000, month, day).Format(Layout)
			first, err := DaysUntilNext(renewalDate, today)
			if err != nil {
				t.Fatalf("DaysUntilNext(%q) error = %v", renewalDate, err)
			}
			if first < 0 || first > 366 {
				t.Errorf("DaysUntilNext(%q) = %d, out of [0, 366]", renewalDate, first)
			}
			second, _ := DaysUntilNext(renewalDate, today)
			if first != second {
				t.Errorf("DaysUntilNext(%q) not deterministic: %d then %d", renewalDate, first, second)
			}
		}
	}
}

func TestNextOccurrence_IgnoresTimeOfDay(t *testing.T) {
	today := time.Date(2024, time.January, 5, 23, 59, 0, 0, time.UTC)
	next, err := NextOccurrence("2024-01-10", today)
	if err != nil {
		t.Fatalf("NextOccurrence() error = %v", err)
	}
	if want := date(2024, time.January, 10); !next.Equal(want) {
		t.Errorf("NextOccurrence() = %s, want %s", next, want)
	}
}

func TestFormatLong(t *testing.T) {
	got, err := FormatLong("2026-01-10")
	if err != nil {
		t.Fatalf("FormatLong() error = %v", err)
	}
	if want := "January 10, 2026"; got != want {
		t.Errorf("FormatLong() = %q, want %q", got, want)
	}

	if _, err := FormatLong("2026-13-01"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("FormatLong() error = %v, want ErrInvalidDate", err)
	}
}
