package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadReader_CountsScannedAndSkippedRows(t *testing.T) {
	t.Parallel()

	lines := []string{"Timeliste", "Ansatt,Test Person"}
	for len(lines) < FirstDataRow {
		lines = append(lines, "")
	}
	lines = append(lines,
		csvLine(',', "27.10.2025", "08:00", "16:00"),
		"",
		csvLine(',', "", "", ""),
		csvLine(',', "28.10.2025", "", ""),
	)

	result, err := LoadReader(strings.NewReader(strings.Join(lines, "\n")+"\n"), " CSV ")
	if err != nil {
		t.Fatalf("load csv: %v", err)
	}
	if result.Format != "csv" {
		t.Fatalf("expected normalized format csv, got %q", result.Format)
	}
	if result.RowsScanned != 4 || result.RowsSkipped != 2 || len(result.Rows) != 2 {
		t.Fatalf("unexpected counts: scanned=%d skipped=%d rows=%d", result.RowsScanned, result.RowsSkipped, len(result.Rows))
	}
	if result.Rows[0].RowNumber != FirstDataRow+1 || result.Rows[1].RowNumber != FirstDataRow+4 {
		t.Fatalf("expected 1-based sheet row numbers, got %d and %d", result.Rows[0].RowNumber, result.Rows[1].RowNumber)
	}
	if result.Rows[1].StartMinutes != nil {
		t.Fatalf("expected missing start time to stay nil")
	}
}

func TestLoadReader_ShortFileHasNoRows(t *testing.T) {
	t.Parallel()

	result, err := LoadReader(strings.NewReader("Timeliste\nAnsatt,Test Person\n"), "csv")
	if err != nil {
		t.Fatalf("load csv: %v", err)
	}
	if result.RowsScanned != 0 || result.RowsSkipped != 0 || len(result.Rows) != 0 {
		t.Fatalf("expected empty result, got %+v", result)
	}
}

func TestLoadReader_UnsupportedFormat(t *testing.T) {
	t.Parallel()

	if _, err := LoadReader(strings.NewReader(""), "pdf"); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestLoad_DetectsFormatFromExtension(t *testing.T) {
	t.Parallel()

	lines := make([]string, FirstDataRow, FirstDataRow+1)
	lines = append(lines, csvLine('\t', "27.10.2025", "08:00", "16:00"))
	path := filepath.Join(t.TempDir(), "Timeliste.CSV")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		t.Fatalf("write export: %v", err)
	}

	result, err := Load(path, "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if result.Format != "csv" || len(result.Rows) != 1 {
		t.Fatalf("unexpected result: format=%q rows=%d", result.Format, len(result.Rows))
	}
}
