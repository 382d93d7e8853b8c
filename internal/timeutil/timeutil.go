package timeutil

import (
	"fmt"
	"strings"
	"time"
)

const ISODate = "2006-01-02"

// Date returns the civil date y-m-d as midnight UTC. Dates in this module
// carry no zone; UTC keeps day arithmetic free of DST shifts.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// StartOfDay drops the clock part of value and re-anchors it as a civil date.
func StartOfDay(value time.Time) time.Time {
	return Date(value.Year(), value.Month(), value.Day())
}

func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func MinutesFromMidnight(value time.Time) int {
	return value.Hour()*60 + value.Minute()
}

// WeekStart returns the Monday of the ISO week containing value.
func WeekStart(value time.Time) time.Time {
	day := StartOfDay(value)
	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return day.AddDate(0, 0, -(weekday - 1))
}

// DaysBetween counts calendar days from a to b, ignoring clock parts.
func DaysBetween(a, b time.Time) int {
	return int(StartOfDay(b).Sub(StartOfDay(a)).Hours() / 24)
}

func ParseISODate(value string) (time.Time, error) {
	parsed, err := time.Parse(ISODate, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", value, err)
	}
	return StartOfDay(parsed), nil
}

func FormatISODate(value time.Time) string {
	return value.Format(ISODate)
}
