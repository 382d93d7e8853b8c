package importer

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// ErrUnreadableFile marks container-level failures: the upload could not be
// decoded into a worksheet at all.
var ErrUnreadableFile = errors.New("could not read this file")

// Sheet is the worksheet capability the row extractor needs. Row and column
// indices are 0-based; out-of-range lookups return an empty cell.
type Sheet interface {
	RowCount() int
	Cell(row, col int) Cell
}

type Reader interface {
	Read(src io.Reader) (Sheet, error)
}

func ReaderForFormat(format string) (Reader, error) {
	switch normalizeFormat(format) {
	case "csv":
		return &CSVReader{}, nil
	case "excel", "xlsx", "xlsm":
		return &ExcelReader{}, nil
	case "xls":
		return &XLSReader{}, nil
	default:
		return nil, fmt.Errorf("unsupported input format: %s", format)
	}
}

// FormatForPath resolves the input format, preferring an explicit value over
// the file extension.
func FormatForPath(path, explicit string) (string, error) {
	if strings.TrimSpace(explicit) != "" {
		return normalizeFormat(explicit), nil
	}

	extension := normalizeFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	switch extension {
	case "csv":
		return "csv", nil
	case "xlsx", "xlsm":
		return "excel", nil
	case "xls":
		return "xls", nil
	default:
		return "", fmt.Errorf("%w: unsupported file extension for %s (supported: .xlsx, .xlsm, .xls, .csv)", ErrUnreadableFile, path)
	}
}

func normalizeFormat(value string) string {
	return strings.TrimSpace(strings.ToLower(value))
}

type gridSheet struct {
	rows [][]Cell
}

func newGridSheet(rows [][]Cell) *gridSheet {
	return &gridSheet{rows: rows}
}

func (g *gridSheet) RowCount() int {
	return len(g.rows)
}

func (g *gridSheet) Cell(row, col int) Cell {
	if row < 0 || row >= len(g.rows) {
		return EmptyCell()
	}
	cells := g.rows[row]
	if col < 0 || col >= len(cells) {
		return EmptyCell()
	}
	return cells[col]
}
