package transform

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"ttconvert/importer"
	"ttconvert/internal/timeutil"
)

// Advisory reports whether the file covers the current ISO week. An empty
// WarningMessage means there is nothing to warn about.
type Advisory struct {
	HasCurrentWeek bool
	WarningMessage string
}

// CheckCurrentWeekInFile looks for any row dated inside the week containing
// now. Files without any dates produce no warning.
func CheckCurrentWeekInFile(rows []importer.ParsedRow, now time.Time) Advisory {
	dates := rowDates(rows)
	if len(dates) == 0 {
		return Advisory{}
	}

	current := NewWeekWindow(now)
	for _, date := range dates {
		if current.Contains(date) {
			return Advisory{HasCurrentWeek: true}
		}
	}

	year, week := current.ISOWeek()
	return Advisory{
		WarningMessage: fmt.Sprintf(
			"The file has no entries for the current week (week %d, %d). The earliest week in the file is selected instead.",
			week,
			year,
		),
	}
}

// DefaultWeekStart picks the week a user most likely wants to convert: the
// current week when present, otherwise the week of the earliest date.
func DefaultWeekStart(rows []importer.ParsedRow, now time.Time) WeekWindow {
	if CheckCurrentWeekInFile(rows, now).HasCurrentWeek {
		return NewWeekWindow(now)
	}
	dates := rowDates(rows)
	if len(dates) == 0 {
		return NewWeekWindow(now)
	}
	return NewWeekWindow(dates[0])
}

// SelectWeek resolves the week to convert. An explicit week (any date within
// it) wins and never carries a warning; otherwise DefaultWeekStart decides and
// the advisory warning is returned alongside.
func SelectWeek(rows []importer.ParsedRow, week string, now time.Time) (WeekWindow, string, error) {
	if strings.TrimSpace(week) != "" {
		window, err := ParseWeekStart(week)
		if err != nil {
			return WeekWindow{}, "", fmt.Errorf("invalid week %q: %w", week, err)
		}
		return window, "", nil
	}
	return DefaultWeekStart(rows, now), CheckCurrentWeekInFile(rows, now).WarningMessage, nil
}

// WeeksInFile lists the distinct weeks present, oldest first.
func WeeksInFile(rows []importer.ParsedRow) []WeekWindow {
	seen := make(map[string]struct{})
	weeks := make([]WeekWindow, 0, 4)
	for _, date := range rowDates(rows) {
		window := NewWeekWindow(date)
		if _, ok := seen[window.String()]; ok {
			continue
		}
		seen[window.String()] = struct{}{}
		weeks = append(weeks, window)
	}
	return weeks
}

// rowDates returns the non-nil row dates sorted ascending.
func rowDates(rows []importer.ParsedRow) []time.Time {
	dates := make([]time.Time, 0, len(rows))
	for _, row := range rows {
		if row.Date == nil || row.Date.IsZero() {
			continue
		}
		dates = append(dates, timeutil.StartOfDay(*row.Date))
	}
	sort.Slice(dates, func(i, j int) bool {
		return dates[i].Before(dates[j])
	})
	return dates
}
