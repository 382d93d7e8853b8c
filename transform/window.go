package transform

import (
	"strings"
	"time"

	"ttconvert/importer"
	"ttconvert/internal/timeutil"
)

const DaysPerWeek = 7

// WeekWindow is the half-open span [Start, Start+7d). Start is always a Monday.
type WeekWindow struct {
	Start time.Time
}

// FilteredRow is a parsed row whose date falls inside the selected week.
type FilteredRow struct {
	Row  importer.ParsedRow
	Date time.Time
}

// NewWeekWindow snaps day back to its Monday.
func NewWeekWindow(day time.Time) WeekWindow {
	return WeekWindow{Start: timeutil.WeekStart(day)}
}

// ParseWeekStart parses a YYYY-MM-DD week start and snaps it to Monday.
func ParseWeekStart(value string) (WeekWindow, error) {
	day, err := timeutil.ParseISODate(value)
	if err != nil {
		return WeekWindow{}, err
	}
	return NewWeekWindow(day), nil
}

func (w WeekWindow) End() time.Time {
	return w.Start.AddDate(0, 0, DaysPerWeek)
}

func (w WeekWindow) Contains(day time.Time) bool {
	date := timeutil.StartOfDay(day)
	return date.Equal(w.Start) || (date.After(w.Start) && date.Before(w.End()))
}

// DayIndex returns 0 for Monday through 6 for Sunday, clamped to the week.
func (w WeekWindow) DayIndex(day time.Time) int {
	return min(max(timeutil.DaysBetween(w.Start, day), 0), DaysPerWeek-1)
}

func (w WeekWindow) Day(index int) time.Time {
	return w.Start.AddDate(0, 0, index)
}

func (w WeekWindow) ISOWeek() (year, week int) {
	return w.Start.ISOWeek()
}

func (w WeekWindow) String() string {
	return timeutil.FormatISODate(w.Start)
}

func (w WeekWindow) Filter(rows []importer.ParsedRow) []FilteredRow {
	filtered := make([]FilteredRow, 0, len(rows))
	for _, row := range rows {
		if row.Date == nil || row.Date.IsZero() {
			continue
		}
		if !w.Contains(*row.Date) {
			continue
		}
		filtered = append(filtered, FilteredRow{Row: row, Date: timeutil.StartOfDay(*row.Date)})
	}
	return filtered
}

// FilterRowsToWeek keeps rows dated inside the week starting at weekStartISO.
// An empty or unparsable week start selects nothing.
func FilterRowsToWeek(rows []importer.ParsedRow, weekStartISO string) []FilteredRow {
	if strings.TrimSpace(weekStartISO) == "" {
		return []FilteredRow{}
	}
	window, err := ParseWeekStart(weekStartISO)
	if err != nil {
		return []FilteredRow{}
	}
	return window.Filter(rows)
}
