package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"ttconvert/config"
	"ttconvert/importer"
	"ttconvert/internal/timeutil"
	"ttconvert/transform"
)

var (
	previewInput       string
	previewInputFormat string
	previewWeek        string
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show extracted rows and the resulting Dynamics rows for one week.",
	Long: `Read a Workforce export and print, for the selected week:
- the weeks present in the file
- the rows that fall into the week with their durations
- the two Dynamics rows that "convert" would write

Nothing is written to disk.`,
	Example: `
  # Preview the default week
  ttconvert preview -i Timeliste.xlsx

  # Preview a specific week
  ttconvert preview -i Timeliste.xlsx -w 2025-10-29
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		result, err := importer.Load(previewInput, previewInputFormat)
		if err != nil {
			return fmt.Errorf("%s: %w", previewInput, err)
		}

		window, warning, err := transform.SelectWeek(result.Rows, previewWeek, time.Now())
		if err != nil {
			return err
		}
		conversion := transform.Convert(result.Rows, window, cfg.Dynamics.Metadata())
		writePreview(cmd.OutOrStdout(), result, conversion, warning, isTerminal(os.Stdout))
		return nil
	},
}

func writePreview(w io.Writer, result *importer.Result, conversion transform.Conversion, warning string, styled bool) {
	year, week := conversion.Window.ISOWeek()
	fmt.Fprintf(w, "Week %d/%d: %s to %s\n", week, year,
		conversion.Window.String(),
		timeutil.FormatISODate(conversion.Window.Day(transform.DaysPerWeek-1)))
	if warning != "" {
		line := "Warning: " + warning
		if styled {
			line = styleWarning.Render(line)
		}
		fmt.Fprintln(w, line)
	}

	weeks := transform.WeeksInFile(result.Rows)
	fmt.Fprintf(w, "Rows read: %d, skipped: %d, weeks in file: %d\n", len(result.Rows), result.RowsSkipped, len(weeks))
	for _, candidate := range weeks {
		y, wk := candidate.ISOWeek()
		fmt.Fprintf(w, "  %s (week %d/%d)\n", candidate.String(), wk, y)
	}
	fmt.Fprintln(w)

	rows := make([][]string, 0, len(conversion.RowsInWeek))
	for _, filtered := range conversion.RowsInWeek {
		minutes := transform.DurationMinutes(filtered.Row.StartMinutes, filtered.Row.EndMinutes)
		rows = append(rows, []string{
			strconv.Itoa(filtered.Row.RowNumber),
			timeutil.FormatISODate(filtered.Date),
			formatClock(filtered.Row.StartMinutes),
			formatClock(filtered.Row.EndMinutes),
			strconv.Itoa(minutes),
		})
	}
	fmt.Fprint(w, renderTable([]string{"Row", "Date", "Start", "End", "Minutes"}, rows, styled))
	fmt.Fprintln(w)

	outputRows := make([][]string, 0, len(conversion.Rows))
	for _, row := range conversion.Rows {
		cells := []string{strconv.Itoa(row.LineNum), row.ActivityNumber}
		for day := range transform.DaysPerWeek {
			cells = append(cells, row.HoursCell(day))
		}
		cells = append(cells, row.TotalHours().String())
		outputRows = append(outputRows, cells)
	}
	fmt.Fprint(w, renderTable(
		[]string{"Line", "Activity", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun", "Total"},
		outputRows,
		styled,
	))
}

func formatClock(minutes *int) string {
	if minutes == nil {
		return "-"
	}
	return fmt.Sprintf("%02d:%02d", *minutes/60, *minutes%60)
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().StringVarP(&previewInput, "input", "i", "", "Workforce export to read (.xlsx, .xlsm, .csv)")
	previewCmd.Flags().StringVar(&previewInputFormat, "input-format", "", "Override input format detection: csv, excel or xls")
	previewCmd.Flags().StringVarP(&previewWeek, "week", "w", "", "Any date of the target week, format YYYY-MM-DD")
	_ = previewCmd.MarkFlagRequired("input")
}
