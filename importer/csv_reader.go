package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const sniffLines = 20

var delimiterCandidates = []rune{',', ';', '\t'}

// CSVReader reads delimited text exports. UTF-8 and UTF-16 input is accepted
// when it carries a BOM; the delimiter is sniffed from the leading lines.
// Every value is kept as a text cell.
type CSVReader struct{}

func (r *CSVReader) Read(src io.Reader) (Sheet, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	data, err := io.ReadAll(transform.NewReader(src, decoder))
	if err != nil {
		return nil, fmt.Errorf("%w: decode csv input: %w", ErrUnreadableFile, err)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	// encoding/csv drops blank lines; records are placed by source line so the
	// fixed row offsets still hold. Quoted multi-line fields count as one row.
	grid := make([][]Cell, 0, 64)
	extraLines := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read csv row %d: %w", ErrUnreadableFile, len(grid)+1, err)
		}

		line, _ := reader.FieldPos(0)
		index := line - 1 - extraLines
		for len(grid) < index {
			grid = append(grid, nil)
		}

		cells := make([]Cell, len(row))
		for i, value := range row {
			cells[i] = TextCell(value)
		}
		grid = append(grid, cells)

		// Quoted line breaks reach us as "\n" regardless of the file's line
		// endings, one per extra source line the record spans.
		for _, value := range row {
			extraLines += strings.Count(value, "\n")
		}
	}

	return newGridSheet(grid), nil
}

// sniffDelimiter picks the most frequent of ',', ';' and tab over the first
// sniffLines non-empty lines. Ties and input without any candidate fall back
// to ','.
func sniffDelimiter(data []byte) rune {
	counts := map[rune]int{}
	seen := 0
	for _, line := range bytes.Split(data, []byte("\n")) {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		for _, delimiter := range delimiterCandidates {
			counts[delimiter] += bytes.Count(line, []byte(string(delimiter)))
		}
		seen++
		if seen == sniffLines {
			break
		}
	}

	best := delimiterCandidates[0]
	for _, delimiter := range delimiterCandidates[1:] {
		if counts[delimiter] > counts[best] {
			best = delimiter
		}
	}
	return best
}
