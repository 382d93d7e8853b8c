package importer

import (
	"math"
	"testing"
	"time"

	"ttconvert/internal/timeutil"
)

func TestParseDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  Cell
		want   time.Time
		wantOK bool
	}{
		{name: "empty", input: EmptyCell()},
		{name: "blank text", input: TextCell("   ")},
		{name: "dotted four digit year", input: TextCell("27.10.2025"), want: timeutil.Date(2025, time.October, 27), wantOK: true},
		{name: "dotted two digit year", input: TextCell("27.10.25"), want: timeutil.Date(2025, time.October, 27), wantOK: true},
		{name: "dotted single digits", input: TextCell("3.1.2026"), want: timeutil.Date(2026, time.January, 3), wantOK: true},
		{name: "dotted surrounding space", input: TextCell(" 01.11.2025 "), want: timeutil.Date(2025, time.November, 1), wantOK: true},
		{name: "day overflow rejected", input: TextCell("32.01.25")},
		{name: "april has 30 days", input: TextCell("31.04.2025")},
		{name: "month 13 rejected", input: TextCell("01.13.2025")},
		{name: "month zero rejected", input: TextCell("01.00.2025")},
		{name: "day zero rejected", input: TextCell("00.01.2025")},
		{name: "leap year february 29", input: TextCell("29.02.2024"), want: timeutil.Date(2024, time.February, 29), wantOK: true},
		{name: "non leap year february 29", input: TextCell("29.02.2025")},
		{name: "century non leap", input: TextCell("29.02.2100")},
		{name: "four hundred leap", input: TextCell("29.02.2000"), want: timeutil.Date(2000, time.February, 29), wantOK: true},
		{name: "three digit year", input: TextCell("27.10.202")},
		{name: "iso date", input: TextCell("2025-10-28"), want: timeutil.Date(2025, time.October, 28), wantOK: true},
		{name: "rfc3339 keeps local calendar day", input: TextCell("2025-10-28T23:30:00+02:00"), want: timeutil.Date(2025, time.October, 28), wantOK: true},
		{name: "iso datetime", input: TextCell("2025-10-28 09:15"), want: timeutil.Date(2025, time.October, 28), wantOK: true},
		{name: "garbage", input: TextCell("Mandag")},
		{name: "serial 1900", input: NumberCell(45957, false), want: timeutil.Date(2025, time.October, 27), wantOK: true},
		{name: "serial with time fraction", input: NumberCell(45957.75, false), want: timeutil.Date(2025, time.October, 27), wantOK: true},
		{name: "serial 1904", input: NumberCell(44495, true), want: timeutil.Date(2025, time.October, 27), wantOK: true},
		{name: "serial first day of 1900 system", input: NumberCell(1, false), want: timeutil.Date(1900, time.January, 1), wantOK: true},
		{name: "serial last day before leap bug", input: NumberCell(59, false), want: timeutil.Date(1900, time.February, 28), wantOK: true},
		{name: "serial fictitious 29 february 1900", input: NumberCell(60, false)},
		{name: "serial fictitious leap day with time", input: NumberCell(60.5, false)},
		{name: "serial day after leap bug", input: NumberCell(61, false), want: timeutil.Date(1900, time.March, 1), wantOK: true},
		{name: "serial time only has no day", input: NumberCell(0.5, false)},
		{name: "serial 1904 small day count", input: NumberCell(1, true), want: timeutil.Date(1904, time.January, 2), wantOK: true},
		{name: "negative serial", input: NumberCell(-1, false)},
		{name: "nan serial", input: NumberCell(math.NaN(), false)},
		{name: "native time", input: TimeCell(time.Date(2025, 10, 29, 17, 45, 0, 0, time.UTC)), want: timeutil.Date(2025, time.October, 29), wantOK: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseDate(tc.input)
			if ok != tc.wantOK {
				t.Fatalf("unexpected ok for %+v: want %t, got %t (%s)", tc.input, tc.wantOK, ok, got)
			}
			if tc.wantOK && !tc.want.Equal(got) {
				t.Fatalf("unexpected date for %+v: want %s, got %s", tc.input, tc.want, got)
			}
		})
	}
}

func TestParseTime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  Cell
		want   int
		wantOK bool
	}{
		{name: "empty", input: EmptyCell()},
		{name: "colon", input: TextCell("09:00"), want: 540, wantOK: true},
		{name: "single digit hour", input: TextCell("7:30"), want: 450, wantOK: true},
		{name: "dot separator", input: TextCell("17.45"), want: 1065, wantOK: true},
		{name: "comma separator", input: TextCell("8,15"), want: 495, wantOK: true},
		{name: "bare hour", input: TextCell("8"), want: 480, wantOK: true},
		{name: "bare two digit hour", input: TextCell(" 23 "), want: 1380, wantOK: true},
		{name: "midnight", input: TextCell("00:00"), want: 0, wantOK: true},
		{name: "last minute", input: TextCell("23:59"), want: 1439, wantOK: true},
		{name: "hour out of range", input: TextCell("24:00")},
		{name: "minute out of range", input: TextCell("12:60")},
		{name: "single digit minute rejected", input: TextCell("9:5")},
		{name: "seconds rejected", input: TextCell("09:00:00")},
		{name: "three digit hour rejected", input: TextCell("100")},
		{name: "text rejected", input: TextCell("ni")},
		{name: "serial fraction", input: NumberCell(0.375, false), want: 540, wantOK: true},
		{name: "serial half day", input: NumberCell(0.5, false), want: 720, wantOK: true},
		{name: "serial 17:45", input: NumberCell(1065.0/1440.0, false), want: 1065, wantOK: true},
		{name: "serial with date part", input: NumberCell(45957+0.75, false), want: 1080, wantOK: true},
		{name: "serial zero", input: NumberCell(0, false), want: 0, wantOK: true},
		{name: "negative serial", input: NumberCell(-0.25, false)},
		{name: "native time", input: TimeCell(time.Date(2025, 10, 27, 22, 5, 0, 0, time.UTC)), want: 1325, wantOK: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseTime(tc.input)
			if ok != tc.wantOK {
				t.Fatalf("unexpected ok for %+v: want %t, got %t", tc.input, tc.wantOK, ok)
			}
			if got != tc.want {
				t.Fatalf("unexpected minutes for %+v: want %d, got %d", tc.input, tc.want, got)
			}
		})
	}
}

func TestParseDate_IsIdempotent(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"27.10.25", "27.10.2025", "2025-10-27"} {
		first, ok := ParseDate(TextCell(input))
		if !ok {
			t.Fatalf("parse %q failed", input)
		}
		second, ok := ParseDate(TextCell(input))
		if !ok || !first.Equal(second) {
			t.Fatalf("second parse of %q: want %s, got %s (ok=%t)", input, first, second, ok)
		}

		again, ok := ParseDate(TimeCell(first))
		if !ok || !first.Equal(again) {
			t.Fatalf("reparse of %q as date: want %s, got %s (ok=%t)", input, first, again, ok)
		}
	}
}

func TestParseTime_IsIdempotent(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"9", "09:30", "9.30", "9,30"} {
		first, ok := ParseTime(TextCell(input))
		if !ok {
			t.Fatalf("parse %q failed", input)
		}
		second, ok := ParseTime(TextCell(input))
		if !ok || first != second {
			t.Fatalf("second parse of %q: want %d, got %d (ok=%t)", input, first, second, ok)
		}
	}
}
