package importer

import (
	"fmt"
	"io"
	"os"
)

type Result struct {
	Format      string
	RowsScanned int
	RowsSkipped int
	Rows        []ParsedRow
}

// Load reads a Workforce export from disk and extracts its rows.
func Load(path, format string) (*Result, error) {
	sourceFormat, err := FormatForPath(path, format)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrUnreadableFile, path, err)
	}
	defer file.Close()

	return LoadReader(file, sourceFormat)
}

// LoadReader extracts rows from an already opened source, e.g. an upload.
func LoadReader(src io.Reader, format string) (*Result, error) {
	reader, err := ReaderForFormat(format)
	if err != nil {
		return nil, err
	}

	sheet, err := reader.Read(src)
	if err != nil {
		return nil, err
	}

	rows := ExtractRows(sheet)
	scanned := max(sheet.RowCount()-FirstDataRow, 0)
	return &Result{
		Format:      normalizeFormat(format),
		RowsScanned: scanned,
		RowsSkipped: scanned - len(rows),
		Rows:        rows,
	}, nil
}
