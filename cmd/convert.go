package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"ttconvert/config"
	"ttconvert/importer"
	"ttconvert/output"
	"ttconvert/transform"
)

var (
	convertInput       string
	convertInputFormat string
	convertWeek        string
	convertOutput      string
	convertFormat      string
	convertWatch       bool
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a Workforce export into a Dynamics import file.",
	Long: `Read a Workforce timesheet export, select one ISO week and write the two-row
Dynamics import file (work + lunch).

Week selection:
- --week picks the week containing that date (snapped to Monday)
- without --week the current week is used when the file contains it,
  otherwise the earliest week in the file (a warning is printed to stderr)

Output format is taken from --format, otherwise from the output extension
(.xlsx => excel, anything else => csv). Without --output (or with "-") the
result is written to stdout.`,
	Example: `
  # Convert to CSV on stdout
  ttconvert convert -i Timeliste.xlsx

  # Convert a specific week to Excel
  ttconvert convert -i Timeliste.xlsx -w 2025-10-27 -o import.xlsx

  # Re-run the conversion whenever the export is saved
  ttconvert convert -i Timeliste.csv -o import.csv --watch
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}
		logger := newLogger(cmd.ErrOrStderr(), cfg.Log.Level, verbose)

		job := conversionJob{
			Input:       convertInput,
			InputFormat: convertInputFormat,
			Week:        convertWeek,
			Output:      convertOutput,
			Format:      convertFormat,
			Meta:        cfg.Dynamics.Metadata(),
			Stdout:      cmd.OutOrStdout(),
			Stderr:      cmd.ErrOrStderr(),
			Terminal:    isTerminal(os.Stdout),
			Logger:      logger,
		}

		if err := job.Run(time.Now()); err != nil {
			return err
		}
		if !convertWatch {
			return nil
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s for changes (Ctrl+C to stop)\n", job.Input)
		return watchFile(ctx, job.Input, logger, func() error {
			return job.Run(time.Now())
		})
	},
}

type conversionJob struct {
	Input       string
	InputFormat string
	Week        string
	Output      string
	Format      string
	Meta        transform.Metadata
	Stdout      io.Writer
	Stderr      io.Writer
	Terminal    bool
	Logger      *slog.Logger
}

func (j conversionJob) Run(now time.Time) error {
	if strings.TrimSpace(j.Input) == "" {
		return fmt.Errorf("--input is required")
	}

	format, err := resolveOutputFormat(j.Output, j.Format)
	if err != nil {
		return err
	}
	writer, err := output.WriterForFormat(format)
	if err != nil {
		return err
	}
	toStdout := isStdoutTarget(j.Output)
	if toStdout && j.Terminal && format == "excel" {
		return fmt.Errorf("refusing to write an Excel workbook to a terminal, use --output")
	}

	result, err := importer.Load(j.Input, j.InputFormat)
	if err != nil {
		if errors.Is(err, importer.ErrUnreadableFile) {
			j.logger().Debug("read failed", "file", j.Input, "error", err)
			return fmt.Errorf("%s: %w", j.Input, err)
		}
		return err
	}

	window, warning, err := transform.SelectWeek(result.Rows, j.Week, now)
	if err != nil {
		return err
	}
	if warning != "" {
		fmt.Fprintln(j.Stderr, "Warning:", warning)
	}

	conversion := transform.Convert(result.Rows, window, j.Meta)
	j.logger().Info("converted week",
		"file", j.Input,
		"week", window.String(),
		"rows_scanned", result.RowsScanned,
		"rows_skipped", result.RowsSkipped,
		"rows_in_week", len(conversion.RowsInWeek),
		"work_hours", conversion.WorkHours().String(),
	)

	if toStdout {
		return writer.Write(j.Stdout, conversion.Rows)
	}
	if err := output.WriteFile(j.Output, format, conversion.Rows); err != nil {
		return err
	}
	fmt.Fprintf(j.Stderr, "Wrote %s (week %s, %s hours)\n", j.Output, window.String(), conversion.WorkHours().StringFixed(2))
	return nil
}

func (j conversionJob) logger() *slog.Logger {
	if j.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return j.Logger
}

func resolveOutputFormat(outputPath, explicit string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(explicit)) {
	case "csv":
		return "csv", nil
	case "excel", "xlsx":
		return "excel", nil
	case "":
	default:
		return "", fmt.Errorf("unsupported output format: %s (supported: csv, excel)", explicit)
	}

	if isStdoutTarget(outputPath) {
		return "csv", nil
	}
	switch strings.ToLower(filepath.Ext(outputPath)) {
	case ".xlsx", ".xlsm":
		return "excel", nil
	default:
		return "csv", nil
	}
}

func isStdoutTarget(outputPath string) bool {
	trimmed := strings.TrimSpace(outputPath)
	return trimmed == "" || trimmed == "-"
}

func isTerminal(file *os.File) bool {
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVarP(&convertInput, "input", "i", "", "Workforce export to convert (.xlsx, .xlsm, .xls, .csv)")
	convertCmd.Flags().StringVar(&convertInputFormat, "input-format", "", "Override input format detection: csv, excel or xls")
	convertCmd.Flags().StringVarP(&convertWeek, "week", "w", "", "Any date of the target week, format YYYY-MM-DD")
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "Output file; empty or - writes to stdout")
	convertCmd.Flags().StringVarP(&convertFormat, "format", "f", "", "Output format: csv or excel (default: from output extension)")
	convertCmd.Flags().BoolVar(&convertWatch, "watch", false, "Re-run the conversion whenever the input file changes")
	_ = convertCmd.MarkFlagRequired("input")
}
