// Package batch handles batch processing of files
package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"fjacquet/tbs-price-summary/cmd/common"
	"fjacquet/tbs-price-summary/cmd/root"
	"fjacquet/tbs-price-summary/internal/container"
	"fjacquet/tbs-price-summary/internal/dateutils"
	"fjacquet/tbs-price-summary/internal/fileutils"
	"fjacquet/tbs-price-summary/internal/logging"
	"fjacquet/tbs-price-summary/internal/parser"
	"fjacquet/tbs-price-summary/internal/validation"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	workers       int
	writeCSV      bool
	updateHistory bool
	fallbackDate  string
)

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Batch process reports from a directory",
	Long: `Batch process reports from an input directory and write their summaries to another directory.

Every XLSX, XLSM and CSV report in the input directory is summarised independently.
A report that fails is logged and skipped; the others are still written.
Price history updates are applied in effective date order once all reports are summarised.

Example:
  tbs-price-summary batch -i reports/ -o summaries/ --workers 8`,
	RunE: batchFunc,
}

func init() {
	Cmd.Flags().IntVar(&workers, "workers", 0, "Number of reports processed concurrently (default batch.workers)")
	Cmd.Flags().BoolVar(&writeCSV, "csv", false, "Also write the classified records as CSV")
	Cmd.Flags().BoolVar(&updateHistory, "update-history", false, "Record Begin/End LTO price levels in the price history")
	Cmd.Flags().StringVar(&fallbackDate, "date", "", "Effective date for reports whose file name holds none")

	// Override the usage text for the input/output flags in batch context
	Cmd.SetUsageTemplate(`Usage:{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}{{if gt (len .Aliases) 0}}

Aliases:
  {{.NameAndAliases}}{{end}}{{if .HasExample}}

Examples:
{{.Example}}{{end}}{{if .HasAvailableLocalFlags}}

Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

Global Flags (for batch, -i/-o refer to directories):
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}
`)
}

// Options configure a batch run.
type Options struct {
	InputDir     string
	OutputDir    string
	Workers      int
	WriteCSV     bool
	FallbackDate time.Time
}

// Report is the result of a batch run.
type Report struct {
	Outcomes []*common.Outcome
	Failed   map[string]error
}

func batchFunc(cmd *cobra.Command, args []string) error {
	appContainer := root.GetContainer()
	if appContainer == nil {
		return fmt.Errorf("container not initialized")
	}
	cfg := appContainer.GetConfig()
	logger := appContainer.GetLogger()

	opts := Options{
		InputDir:  root.SharedFlags.Input,
		OutputDir: root.OutputDir(),
		Workers:   cfg.Batch.Workers,
		WriteCSV:  writeCSV || cfg.Output.WriteCSV,
	}
	if workers > 0 {
		opts.Workers = workers
	}
	if fallbackDate != "" {
		parsed, _, err := dateutils.ParseDate(fallbackDate)
		if err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
		opts.FallbackDate = parsed
	}

	if err := validation.ValidateInputDirectory(opts.InputDir); err != nil {
		return err
	}
	if err := validation.ValidateOutputDirectory(opts.OutputDir); err != nil {
		return err
	}

	result, err := Run(cmd.Context(), appContainer, opts)
	if err != nil {
		return err
	}

	if updateHistory || cfg.History.Update {
		if err := common.UpdateHistory(appContainer, result.Outcomes); err != nil {
			return err
		}
	}

	logger.Info(fmt.Sprintf("Batch processing completed. %d summaries written.", len(result.Outcomes)))
	if len(result.Failed) > 0 {
		return fmt.Errorf("%d of %d reports failed", len(result.Failed), len(result.Failed)+len(result.Outcomes))
	}
	return nil
}

// Run summarises every report in opts.InputDir with up to opts.Workers reports
// in flight, then writes the summaries one by one in file name order. Two
// reports with the same effective date would overwrite each other, so the later
// one fails instead.
func Run(ctx context.Context, c *container.Container, opts Options) (*Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := c.GetLogger()

	files, err := fileutils.ListFilesWithExtensions(opts.InputDir, parser.SupportedExtensions...)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}
	report := &Report{Failed: make(map[string]error)}
	if len(files) == 0 {
		logger.Warn("No supported files found in input directory",
			logging.Field{Key: logging.FieldFile, Value: opts.InputDir})
		return report, nil
	}

	logger.Info("Found files for processing", logging.Field{Key: logging.FieldCount, Value: len(files)})

	outcomes := make([]*common.Outcome, len(files))
	failures := make([]error, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.Workers, 1))
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcome, err := common.SummarizeReport(c, file, opts.FallbackDate)
			if err != nil {
				failures[i] = err
				return nil
			}
			outcomes[i] = outcome
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch processing interrupted: %w", err)
	}

	written := make(map[string]string)
	for i, file := range files {
		if failures[i] == nil {
			date := outcomes[i].Result.EffectiveDate.ISO()
			if first, dup := written[date]; dup {
				failures[i] = fmt.Errorf("effective date %s already written from %s", date, filepath.Base(first))
			} else if err := common.WriteOutcome(c, outcomes[i], opts.OutputDir, opts.WriteCSV); err != nil {
				failures[i] = err
			} else {
				written[date] = file
				report.Outcomes = append(report.Outcomes, outcomes[i])
				continue
			}
		}
		report.Failed[file] = failures[i]
		logger.WithError(failures[i]).Error("Failed to process report",
			logging.Field{Key: logging.FieldInputFile, Value: filepath.Base(file)})
	}
	return report, nil
}
