package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"ttconvert/transform"
)

type Writer interface {
	Write(w io.Writer, rows []transform.DynamicsRow) error
	ContentType() string
	Extension() string
}

func WriterForFormat(format string) (Writer, error) {
	switch normalizeFormat(format) {
	case "", "csv":
		return &CSVWriter{}, nil
	case "excel", "xlsx":
		return &ExcelWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s (supported: csv, excel)", format)
	}
}

// WriteFile materializes rows to path in the given format.
func WriteFile(path, format string, rows []transform.DynamicsRow) error {
	writer, err := WriterForFormat(format)
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output %s: %w", path, err)
	}
	if err := writer.Write(file, rows); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close output %s: %w", path, err)
	}
	return nil
}

// FileName returns the download name for a converted week.
func FileName(weekStart string, writer Writer) string {
	return "dynamics-import-" + weekStart + writer.Extension()
}

func normalizeFormat(value string) string {
	return strings.TrimSpace(strings.ToLower(value))
}
