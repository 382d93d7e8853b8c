package transform

import (
	"strconv"

	"github.com/shopspring/decimal"

	"ttconvert/importer"
)

const (
	WorkComment  = "Development"
	LunchComment = "Lunsj"

	WorkLineNum  = 1
	LunchLineNum = 2

	minutesPerDay = 24 * 60
)

var lunchHours = decimal.RequireFromString("0.5")

// Headers is the column order of the Dynamics import file.
var Headers = []string{
	"LineNum", "ProjectDataAreaId", "ProjId", "ACTIVITYNUMBER",
	"HOURS", "Hours2_", "Hours3_", "Hours4_", "Hours5_", "Hours6_", "Hours7_",
	"EXTERNALCOMMENTS", "ExternalComments2_", "ExternalComments3_", "ExternalComments4_",
	"ExternalComments5_", "ExternalComments6_", "ExternalComments7_",
}

// Metadata holds the identifiers stamped on both output rows.
type Metadata struct {
	ProjectDataAreaID string
	ProjectID         string
	WorkActivity      string
	LunchActivity     string
}

// DynamicsRow is one line of the import file. A zero Hours slot renders as an
// empty cell.
type DynamicsRow struct {
	LineNum           int
	ProjectDataAreaID string
	ProjectID         string
	ActivityNumber    string
	Hours             [DaysPerWeek]decimal.Decimal
	Comments          [DaysPerWeek]string
}

func (r DynamicsRow) HoursCell(day int) string {
	if r.Hours[day].IsZero() {
		return ""
	}
	return r.Hours[day].String()
}

func (r DynamicsRow) TotalHours() decimal.Decimal {
	total := decimal.Zero
	for _, hours := range r.Hours {
		total = total.Add(hours)
	}
	return total
}

// Record renders the row in Headers order.
func (r DynamicsRow) Record() []string {
	record := make([]string, 0, len(Headers))
	record = append(record, strconv.Itoa(r.LineNum), r.ProjectDataAreaID, r.ProjectID, r.ActivityNumber)
	for day := range r.Hours {
		record = append(record, r.HoursCell(day))
	}
	record = append(record, r.Comments[:]...)
	return record
}

// DurationMinutes returns the worked minutes between two clock values. An end
// before start crosses midnight; equal values are zero, not a full day.
func DurationMinutes(start, end *int) int {
	if start == nil || end == nil {
		return 0
	}
	return ((*end-*start)%minutesPerDay + minutesPerDay) % minutesPerDay
}

func CalculateHours(startMinutes, endMinutes int) float64 {
	return float64(DurationMinutes(&startMinutes, &endMinutes)) / 60
}

// TransformToDynamics sums worked time per weekday and returns the work row
// followed by the derived lunch row. Bad input only ever contributes zero.
func TransformToDynamics(rows []FilteredRow, weekStartISO string, meta Metadata) []DynamicsRow {
	work := DynamicsRow{
		LineNum:           WorkLineNum,
		ProjectDataAreaID: meta.ProjectDataAreaID,
		ProjectID:         meta.ProjectID,
		ActivityNumber:    meta.WorkActivity,
	}
	lunch := DynamicsRow{
		LineNum:           LunchLineNum,
		ProjectDataAreaID: meta.ProjectDataAreaID,
		ProjectID:         meta.ProjectID,
		ActivityNumber:    meta.LunchActivity,
	}

	window, err := ParseWeekStart(weekStartISO)
	if err != nil {
		return []DynamicsRow{work, lunch}
	}

	var minutes [DaysPerWeek]int
	for _, row := range rows {
		worked := DurationMinutes(row.Row.StartMinutes, row.Row.EndMinutes)
		if worked <= 0 {
			continue
		}
		minutes[window.DayIndex(row.Date)] += worked
	}

	for day, total := range minutes {
		hours := roundHours(total)
		if hours.IsZero() {
			continue
		}
		work.Hours[day] = hours
		work.Comments[day] = WorkComment
		lunch.Hours[day] = lunchHours
		lunch.Comments[day] = LunchComment
	}

	return []DynamicsRow{work, lunch}
}

// roundHours converts minutes to hours rounded half-up to 2 decimals.
func roundHours(minutes int) decimal.Decimal {
	if minutes <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(minutes)).Div(decimal.NewFromInt(60)).Round(2)
}

// Conversion is the result of filtering and aggregating one week.
type Conversion struct {
	Window     WeekWindow
	RowsInWeek []FilteredRow
	Rows       []DynamicsRow
}

func Convert(rows []importer.ParsedRow, window WeekWindow, meta Metadata) Conversion {
	weekStart := window.String()
	filtered := FilterRowsToWeek(rows, weekStart)
	return Conversion{
		Window:     window,
		RowsInWeek: filtered,
		Rows:       TransformToDynamics(filtered, weekStart, meta),
	}
}

func (c Conversion) WorkHours() decimal.Decimal {
	if len(c.Rows) == 0 {
		return decimal.Zero
	}
	return c.Rows[0].TotalHours()
}
