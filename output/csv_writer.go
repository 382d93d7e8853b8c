package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"ttconvert/transform"
)

// CSVWriter quotes every field, doubling embedded quotes, as the Dynamics
// import expects. encoding/csv only quotes when needed, so fields are
// written by hand.
type CSVWriter struct{}

func (w *CSVWriter) Write(dst io.Writer, rows []transform.DynamicsRow) error {
	buffered := bufio.NewWriter(dst)

	if err := writeCSVRecord(buffered, transform.Headers); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}
	for _, row := range rows {
		if err := writeCSVRecord(buffered, row.Record()); err != nil {
			return fmt.Errorf("write csv row %d: %w", row.LineNum, err)
		}
	}

	if err := buffered.Flush(); err != nil {
		return fmt.Errorf("flush csv output: %w", err)
	}
	return nil
}

func (w *CSVWriter) ContentType() string {
	return "text/csv; charset=utf-8"
}

func (w *CSVWriter) Extension() string {
	return ".csv"
}

func writeCSVRecord(dst *bufio.Writer, fields []string) error {
	quoted := make([]string, len(fields))
	for i, field := range fields {
		quoted[i] = `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
	}
	_, err := dst.WriteString(strings.Join(quoted, ",") + "\n")
	return err
}
