package importer

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"ttconvert/internal/timeutil"
)

var (
	dottedDatePattern = regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})\.(\d{4}|\d{2})$`)
	clockPattern      = regexp.MustCompile(`^(\d{1,2})[:.](\d{2})$`)
	hourOnlyPattern   = regexp.MustCompile(`^(\d{1,2})$`)
)

var genericDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseDate normalizes a raw cell into a civil date. It reports false for
// empty cells and for anything it cannot read as a real calendar day.
func ParseDate(raw Cell) (time.Time, bool) {
	switch raw.Kind {
	case CellEmpty:
		return time.Time{}, false
	case CellNumber:
		return serialToDate(raw.Number, raw.Date1904)
	case CellTime:
		return timeutil.StartOfDay(raw.Time), true
	}

	text := strings.TrimSpace(raw.Text)
	if text == "" {
		return time.Time{}, false
	}
	if match := dottedDatePattern.FindStringSubmatch(text); match != nil {
		return parseDottedDate(match[1], match[2], match[3])
	}
	for _, layout := range genericDateLayouts {
		if parsed, err := time.Parse(layout, text); err == nil {
			return timeutil.StartOfDay(parsed), true
		}
	}
	return time.Time{}, false
}

// ParseTime normalizes a raw cell into minutes since midnight (0-1439).
func ParseTime(raw Cell) (int, bool) {
	switch raw.Kind {
	case CellEmpty:
		return 0, false
	case CellNumber:
		return serialToMinutes(raw.Number)
	case CellTime:
		return clockMinutes(raw.Time.Hour(), raw.Time.Minute())
	}

	text := strings.ReplaceAll(strings.TrimSpace(raw.Text), ",", ".")
	if match := clockPattern.FindStringSubmatch(text); match != nil {
		hour, _ := strconv.Atoi(match[1])
		minute, _ := strconv.Atoi(match[2])
		return clockMinutes(hour, minute)
	}
	if match := hourOnlyPattern.FindStringSubmatch(text); match != nil {
		hour, _ := strconv.Atoi(match[1])
		return clockMinutes(hour, 0)
	}
	return 0, false
}

// parseDottedDate rejects day/month overflow instead of rolling it into the
// next month: 32.01.25 is not 01.02.25.
func parseDottedDate(dayText, monthText, yearText string) (time.Time, bool) {
	day, _ := strconv.Atoi(dayText)
	month, _ := strconv.Atoi(monthText)
	year, _ := strconv.Atoi(yearText)
	if len(yearText) == 2 {
		year += 2000
	}

	if month < 1 || month > 12 {
		return time.Time{}, false
	}
	if day < 1 || day > daysInMonth(year, time.Month(month)) {
		return time.Time{}, false
	}
	return timeutil.Date(year, time.Month(month), day), true
}

func daysInMonth(year int, month time.Month) int {
	switch month {
	case time.February:
		if isLeapYear(year) {
			return 29
		}
		return 28
	case time.April, time.June, time.September, time.November:
		return 30
	default:
		return 31
	}
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// excelLeapDay is serial 60 of the 1900 date system: 29 February 1900, a day
// the workbook format counts but the calendar never had.
const excelLeapDay = 60

// serialToDate maps a day count to a civil date. Serials after the fictitious
// leap day go through excelize; the ones before it are shifted by a day
// relative to that conversion, so they are counted from 31 December 1899.
func serialToDate(serial float64, date1904 bool) (time.Time, bool) {
	if math.IsNaN(serial) || math.IsInf(serial, 0) {
		return time.Time{}, false
	}
	if !date1904 && serial < excelLeapDay+1 {
		day := int(math.Floor(serial))
		if day < 1 || day == excelLeapDay {
			return time.Time{}, false
		}
		return timeutil.Date(1899, time.December, 31).AddDate(0, 0, day), true
	}
	converted, err := excelize.ExcelDateToTime(serial, date1904)
	if err != nil || converted.IsZero() {
		return time.Time{}, false
	}
	return timeutil.StartOfDay(converted.Round(time.Second)), true
}

// serialToMinutes decodes the day-fraction part of a serial value. Both
// workbook epochs start at midnight, so the 1904 flag does not matter here.
func serialToMinutes(serial float64) (int, bool) {
	if math.IsNaN(serial) || math.IsInf(serial, 0) {
		return 0, false
	}
	converted, err := excelize.ExcelDateToTime(serial, false)
	if err == nil {
		converted = converted.Round(time.Second)
		return clockMinutes(converted.Hour(), converted.Minute())
	}
	if serial >= 0 && serial <= 1 {
		minutes := int(math.Round(serial * 1440))
		return clockMinutes(minutes/60, minutes%60)
	}
	return 0, false
}

func clockMinutes(hour, minute int) (int, bool) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, false
	}
	return hour*60 + minute, true
}
