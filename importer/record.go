package importer

import "time"

// Fixed Workforce export layout, 0-based. This is the wire contract with the
// exporting tool and must not drift.
const (
	FirstDataRow = 12
	DateColumn   = 8
	StartColumn  = 13
	EndColumn    = 19
)

// ParsedRow is one extracted time entry. Nil fields mean the source cell was
// empty or unreadable, which is distinct from a zero value.
type ParsedRow struct {
	RowNumber    int
	Date         *time.Time
	StartMinutes *int
	EndMinutes   *int
}

// ExtractRows walks every row from FirstDataRow to the last occupied row.
// Blank rows are skipped individually and never end the scan.
func ExtractRows(sheet Sheet) []ParsedRow {
	if sheet == nil {
		return []ParsedRow{}
	}

	rows := make([]ParsedRow, 0, max(sheet.RowCount()-FirstDataRow, 0))
	for row := FirstDataRow; row < sheet.RowCount(); row++ {
		dateCell := sheet.Cell(row, DateColumn)
		startCell := sheet.Cell(row, StartColumn)
		endCell := sheet.Cell(row, EndColumn)
		if dateCell.IsEmpty() && startCell.IsEmpty() && endCell.IsEmpty() {
			continue
		}

		parsed := ParsedRow{RowNumber: row + 1}
		if date, ok := ParseDate(dateCell); ok {
			parsed.Date = &date
		}
		if start, ok := ParseTime(startCell); ok {
			parsed.StartMinutes = &start
		}
		if end, ok := ParseTime(endCell); ok {
			parsed.EndMinutes = &end
		}
		rows = append(rows, parsed)
	}

	return rows
}
