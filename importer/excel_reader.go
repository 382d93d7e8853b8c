package importer

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

var isoCellLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ExcelReader loads the first worksheet of an .xlsx/.xlsm workbook with raw
// (unformatted) cell values.
type ExcelReader struct{}

func (r *ExcelReader) Read(src io.Reader) (Sheet, error) {
	file, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("%w: open excel workbook: %w", ErrUnreadableFile, err)
	}
	defer file.Close()

	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("%w: excel workbook has no sheets", ErrUnreadableFile)
	}

	date1904 := false
	if props, err := file.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	rows, err := file.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: read rows from sheet %s: %w", ErrUnreadableFile, sheetName, err)
	}

	grid := make([][]Cell, len(rows))
	for i, row := range rows {
		cells := make([]Cell, len(row))
		for col, value := range row {
			if strings.TrimSpace(value) == "" {
				cells[col] = EmptyCell()
				continue
			}
			cellName, err := excelize.CoordinatesToCellName(col+1, i+1)
			if err != nil {
				return nil, fmt.Errorf("%w: resolve cell name: %w", ErrUnreadableFile, err)
			}
			cellType, err := file.GetCellType(sheetName, cellName)
			if err != nil {
				return nil, fmt.Errorf("%w: read cell type %s: %w", ErrUnreadableFile, cellName, err)
			}
			cells[col] = classifyExcelCell(cellType, value, date1904)
		}
		grid[i] = cells
	}

	return newGridSheet(grid), nil
}

func classifyExcelCell(cellType excelize.CellType, raw string, date1904 bool) Cell {
	switch cellType {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeBool, excelize.CellTypeError:
		return TextCell(raw)
	case excelize.CellTypeDate:
		for _, layout := range isoCellLayouts {
			if parsed, err := time.Parse(layout, strings.TrimSpace(raw)); err == nil {
				return TimeCell(parsed)
			}
		}
	}

	if value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
		return NumberCell(value, date1904)
	}
	return TextCell(raw)
}
