package transform

import (
	"strings"
	"testing"
	"time"

	"ttconvert/importer"
	"ttconvert/internal/timeutil"
)

func TestCheckCurrentWeekInFile(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 10, 29, 14, 0, 0, 0, time.Local)

	t.Run("no dates", func(t *testing.T) {
		t.Parallel()
		advisory := CheckCurrentWeekInFile([]importer.ParsedRow{{StartMinutes: intPtr(540)}}, now)
		if advisory.HasCurrentWeek || advisory.WarningMessage != "" {
			t.Fatalf("expected silent advisory without dates, got %+v", advisory)
		}
	})

	t.Run("current week present", func(t *testing.T) {
		t.Parallel()
		rows := []importer.ParsedRow{entry(timeutil.Date(2025, time.November, 2), 540, 1020)}
		advisory := CheckCurrentWeekInFile(rows, now)
		if !advisory.HasCurrentWeek || advisory.WarningMessage != "" {
			t.Fatalf("expected current week without warning, got %+v", advisory)
		}
	})

	t.Run("current week missing", func(t *testing.T) {
		t.Parallel()
		rows := []importer.ParsedRow{
			entry(timeutil.Date(2025, time.October, 20), 540, 1020),
			entry(timeutil.Date(2025, time.November, 3), 540, 1020),
		}
		advisory := CheckCurrentWeekInFile(rows, now)
		if advisory.HasCurrentWeek {
			t.Fatalf("expected current week to be missing")
		}
		if !strings.Contains(advisory.WarningMessage, "week 44, 2025") {
			t.Fatalf("unexpected warning: %q", advisory.WarningMessage)
		}
	})
}

func TestCheckCurrentWeekInFile_UsesISOWeekYear(t *testing.T) {
	t.Parallel()

	// 2024-12-30 is the Monday of ISO week 1 of 2025.
	now := time.Date(2024, 12, 31, 9, 0, 0, 0, time.Local)
	rows := []importer.ParsedRow{entry(timeutil.Date(2024, time.December, 2), 540, 1020)}

	advisory := CheckCurrentWeekInFile(rows, now)
	if !strings.Contains(advisory.WarningMessage, "week 1, 2025") {
		t.Fatalf("unexpected warning: %q", advisory.WarningMessage)
	}
}

func TestDefaultWeekStart(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 10, 29, 14, 0, 0, 0, time.Local)

	tests := []struct {
		name string
		rows []importer.ParsedRow
		want string
	}{
		{
			name: "current week present",
			rows: []importer.ParsedRow{
				entry(timeutil.Date(2025, time.October, 13), 540, 1020),
				entry(timeutil.Date(2025, time.October, 28), 540, 1020),
			},
			want: "2025-10-27",
		},
		{
			name: "earliest older week",
			rows: []importer.ParsedRow{
				entry(timeutil.Date(2025, time.October, 15), 540, 1020),
				entry(timeutil.Date(2025, time.October, 9), 540, 1020),
			},
			want: "2025-10-06",
		},
		{name: "no rows", want: "2025-10-27"},
	}

	for _, tc := range tests {
		if got := DefaultWeekStart(tc.rows, now).String(); got != tc.want {
			t.Fatalf("%s: want %s, got %s", tc.name, tc.want, got)
		}
	}
}

func TestWeeksInFile(t *testing.T) {
	t.Parallel()

	rows := []importer.ParsedRow{
		entry(timeutil.Date(2025, time.October, 29), 540, 1020),
		entry(timeutil.Date(2025, time.October, 21), 540, 1020),
		entry(timeutil.Date(2025, time.October, 27), 540, 1020),
		{},
	}

	weeks := WeeksInFile(rows)
	if len(weeks) != 2 {
		t.Fatalf("expected 2 weeks, got %d", len(weeks))
	}
	if weeks[0].String() != "2025-10-20" || weeks[1].String() != "2025-10-27" {
		t.Fatalf("unexpected weeks: %s, %s", weeks[0], weeks[1])
	}
}

func TestSelectWeek(t *testing.T) {
	t.Parallel()

	rows := []importer.ParsedRow{entry(timeutil.Date(2025, time.October, 29), 480, 960)}

	tests := []struct {
		name        string
		week        string
		now         time.Time
		wantWindow  string
		wantWarning string
	}{
		{
			name:       "explicit week snaps to monday without warning",
			week:       " 2025-10-30 ",
			now:        time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC),
			wantWindow: "2025-10-27",
		},
		{
			name:        "earliest week with warning",
			now:         time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC),
			wantWindow:  "2025-10-27",
			wantWarning: "week 2, 2026",
		},
		{
			name:       "current week present",
			now:        time.Date(2025, 11, 1, 9, 0, 0, 0, time.UTC),
			wantWindow: "2025-10-27",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			window, warning, err := SelectWeek(rows, tc.week, tc.now)
			if err != nil {
				t.Fatalf("select week: %v", err)
			}
			if got := window.String(); got != tc.wantWindow {
				t.Fatalf("unexpected window: want %s, got %s", tc.wantWindow, got)
			}
			if tc.wantWarning == "" && warning != "" {
				t.Fatalf("expected no warning, got %q", warning)
			}
			if !strings.Contains(warning, tc.wantWarning) {
				t.Fatalf("unexpected warning: %q", warning)
			}
		})
	}

	t.Run("invalid week", func(t *testing.T) {
		t.Parallel()
		if _, _, err := SelectWeek(rows, "27.10.2025", time.Now()); err == nil {
			t.Fatalf("expected error for dotted week")
		}
	})
}
