package importer

import (
	"strings"
	"time"
)

type CellKind int

const (
	CellEmpty CellKind = iota
	CellNumber
	CellText
	CellTime
)

// Cell is a raw worksheet value before normalization. Numeric cells keep the
// workbook epoch so serial dates can be decoded without access to the file.
type Cell struct {
	Kind     CellKind
	Number   float64
	Text     string
	Time     time.Time
	Date1904 bool
}

func EmptyCell() Cell {
	return Cell{Kind: CellEmpty}
}

func NumberCell(value float64, date1904 bool) Cell {
	return Cell{Kind: CellNumber, Number: value, Date1904: date1904}
}

// TextCell returns an empty cell for blank or whitespace-only input.
func TextCell(value string) Cell {
	if strings.TrimSpace(value) == "" {
		return EmptyCell()
	}
	return Cell{Kind: CellText, Text: value}
}

func TimeCell(value time.Time) Cell {
	if value.IsZero() {
		return EmptyCell()
	}
	return Cell{Kind: CellTime, Time: value}
}

func (c Cell) IsEmpty() bool {
	return c.Kind == CellEmpty
}
