package timeutil

import (
	"testing"
	"time"
)

func TestStartOfDay(t *testing.T) {
	t.Parallel()

	input := time.Date(2026, 3, 1, 14, 37, 9, 123, time.Local)
	got := StartOfDay(input)

	if got.Year() != 2026 || got.Month() != time.March || got.Day() != 1 {
		t.Fatalf("unexpected date: %v", got)
	}
	if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 || got.Nanosecond() != 0 {
		t.Fatalf("expected midnight, got %v", got)
	}
	if got.Location() != time.UTC {
		t.Fatalf("expected UTC civil date, got %v", got.Location())
	}
}

func TestSameDay(t *testing.T) {
	t.Parallel()

	a := time.Date(2026, 3, 1, 9, 0, 0, 0, time.Local)
	b := time.Date(2026, 3, 1, 18, 30, 0, 0, time.Local)
	c := time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)

	if !SameDay(a, b) {
		t.Fatalf("expected same day for %v and %v", a, b)
	}
	if SameDay(a, c) {
		t.Fatalf("expected different days for %v and %v", a, c)
	}
}

func TestMinutesFromMidnight(t *testing.T) {
	t.Parallel()

	input := time.Date(2026, 3, 1, 13, 25, 0, 0, time.Local)
	if got := MinutesFromMidnight(input); got != 805 {
		t.Fatalf("expected 805, got %d", got)
	}
}

func TestWeekStart(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input time.Time
		want  string
	}{
		{name: "monday stays", input: Date(2025, time.October, 27), want: "2025-10-27"},
		{name: "wednesday", input: Date(2025, time.October, 29), want: "2025-10-27"},
		{name: "sunday belongs to previous monday", input: Date(2025, time.November, 2), want: "2025-10-27"},
		{name: "crosses year", input: Date(2026, time.January, 1), want: "2025-12-29"},
		{name: "clock part ignored", input: time.Date(2025, 10, 28, 23, 59, 0, 0, time.UTC), want: "2025-10-27"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := FormatISODate(WeekStart(tc.input)); got != tc.want {
				t.Fatalf("unexpected week start: want %s, got %s", tc.want, got)
			}
		})
	}
}

func TestDaysBetween(t *testing.T) {
	t.Parallel()

	from := Date(2025, time.October, 27)
	if got := DaysBetween(from, Date(2025, time.November, 2)); got != 6 {
		t.Fatalf("expected 6 days, got %d", got)
	}
	if got := DaysBetween(from, Date(2025, time.October, 26)); got != -1 {
		t.Fatalf("expected -1 days, got %d", got)
	}
	// 2025-03-30 is a DST change in Europe; civil dates must not notice.
	if got := DaysBetween(Date(2025, time.March, 29), Date(2025, time.March, 31)); got != 2 {
		t.Fatalf("expected 2 days across DST, got %d", got)
	}
}

func TestParseISODate(t *testing.T) {
	t.Parallel()

	got, err := ParseISODate(" 2025-10-27 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(Date(2025, time.October, 27)) {
		t.Fatalf("unexpected date: %v", got)
	}
	if _, err := ParseISODate("27.10.2025"); err == nil {
		t.Fatalf("expected error for non-ISO input")
	}
}
