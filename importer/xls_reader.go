package importer

import (
	"bytes"
	"fmt"
	"io"

	"github.com/shakinm/xlsReader/xls"
	"github.com/shakinm/xlsReader/xls/record"
	"github.com/shakinm/xlsReader/xls/structure"
)

// XLSReader loads the first worksheet of a legacy BIFF8 (.xls) workbook.
// Numeric records keep their raw serial value. Formula cells have no cached
// result in this codec and read as empty. The codec ignores the workbook
// epoch flag, so serials are always decoded in the 1900 date system.
type XLSReader struct{}

func (r *XLSReader) Read(src io.Reader) (sheet Sheet, err error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("%w: read xls input: %w", ErrUnreadableFile, err)
	}

	// The BIFF decoder slices record offsets without bounds checks and
	// panics on truncated streams.
	defer func() {
		if recovered := recover(); recovered != nil {
			sheet = nil
			err = fmt.Errorf("%w: decode xls workbook: %v", ErrUnreadableFile, recovered)
		}
	}()

	workbook, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: open xls workbook: %w", ErrUnreadableFile, err)
	}
	if workbook.GetNumberSheets() == 0 {
		return nil, fmt.Errorf("%w: xls workbook has no sheets", ErrUnreadableFile)
	}
	first, err := workbook.GetSheet(0)
	if err != nil {
		return nil, fmt.Errorf("%w: read first xls sheet: %w", ErrUnreadableFile, err)
	}

	grid := make([][]Cell, first.GetNumberRows())
	for i := range grid {
		row, err := first.GetRow(i)
		if err != nil {
			return nil, fmt.Errorf("%w: read xls row %d: %w", ErrUnreadableFile, i+1, err)
		}
		cols := row.GetCols()
		cells := make([]Cell, len(cols))
		for col, cell := range cols {
			cells[col] = classifyXLSCell(cell)
		}
		grid[i] = cells
	}

	return newGridSheet(grid), nil
}

func classifyXLSCell(cell structure.CellData) Cell {
	switch cell.(type) {
	case *record.Number, *record.Rk:
		return NumberCell(cell.GetFloat64(), false)
	default:
		return TextCell(cell.GetString())
	}
}
