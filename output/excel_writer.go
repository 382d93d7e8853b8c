package output

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"ttconvert/transform"
)

const ExcelSheetName = "Import"

// ExcelWriter writes a single "Import" worksheet. Line numbers and hours are
// numeric cells; empty hours and comments are left unset.
type ExcelWriter struct{}

func (w *ExcelWriter) Write(dst io.Writer, rows []transform.DynamicsRow) error {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName(file.GetSheetName(0), ExcelSheetName); err != nil {
		return fmt.Errorf("rename excel sheet: %w", err)
	}

	for col, header := range transform.Headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := file.SetCellValue(ExcelSheetName, cell, header); err != nil {
			return fmt.Errorf("set excel header %s: %w", cell, err)
		}
	}

	for i, row := range rows {
		if err := writeExcelRow(file, i+2, row); err != nil {
			return err
		}
	}

	if _, err := file.WriteTo(dst); err != nil {
		return fmt.Errorf("write excel output: %w", err)
	}
	return nil
}

func (w *ExcelWriter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (w *ExcelWriter) Extension() string {
	return ".xlsx"
}

func writeExcelRow(file *excelize.File, rowNumber int, row transform.DynamicsRow) error {
	values := make([]any, 0, len(transform.Headers))
	values = append(values, row.LineNum, row.ProjectDataAreaID, row.ProjectID, row.ActivityNumber)
	for _, hours := range row.Hours {
		if hours.IsZero() {
			values = append(values, nil)
			continue
		}
		values = append(values, hours.InexactFloat64())
	}
	for _, comment := range row.Comments {
		if comment == "" {
			values = append(values, nil)
			continue
		}
		values = append(values, comment)
	}

	for col, value := range values {
		if value == nil {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(col+1, rowNumber)
		if err := file.SetCellValue(ExcelSheetName, cell, value); err != nil {
			return fmt.Errorf("set excel value %s: %w", cell, err)
		}
	}
	return nil
}
