// Package summarize handles the summarize command
package summarize

import (
	"fmt"
	"io"
	"time"

	"fjacquet/tbs-price-summary/cmd/common"
	"fjacquet/tbs-price-summary/cmd/root"
	"fjacquet/tbs-price-summary/internal/dateutils"
	"fjacquet/tbs-price-summary/internal/logging"
	"fjacquet/tbs-price-summary/internal/parser"
	"fjacquet/tbs-price-summary/internal/validation"

	"github.com/spf13/cobra"
)

var (
	fallbackDate  string
	writeCSV      bool
	updateHistory bool
	printText     bool
)

// Cmd represents the summarize command
var Cmd = &cobra.Command{
	Use:     "summarize [report]",
	Aliases: []string{"sum"},
	Short:   "Summarize a weekly TBS price change report",
	Long: `Summarize a weekly TBS price change report into an email-ready text block.

The effective date is read from the file name (for example "October 13th'25").
When the file name holds no date, --date is used, or today's date.
Without an output directory the summary is printed to standard output.

Example:
  tbs-price-summary summarize -i "TBS Price Changes - October 13th'25.xlsx" -o out/`,
	Args: cobra.MaximumNArgs(1),
	RunE: summarizeFunc,
}

func init() {
	Cmd.Flags().StringVar(&fallbackDate, "date", "", "Effective date to use when the file name holds none (e.g. 2025-10-13)")
	Cmd.Flags().BoolVar(&writeCSV, "csv", false, "Also write the classified records as CSV")
	Cmd.Flags().BoolVar(&updateHistory, "update-history", false, "Record Begin/End LTO price levels in the price history")
	Cmd.Flags().BoolVar(&printText, "print", false, "Print the summary even when an output directory is set")
}

func summarizeFunc(cmd *cobra.Command, args []string) error {
	appContainer := root.GetContainer()
	if appContainer == nil {
		return fmt.Errorf("container not initialized")
	}
	cfg := appContainer.GetConfig()
	logger := appContainer.GetLogger()

	inputFile := root.SharedFlags.Input
	if len(args) > 0 {
		inputFile = args[0]
	}
	if err := validation.ValidateInputFile(inputFile, parser.SupportedExtensions...); err != nil {
		return err
	}

	var fallback time.Time
	if fallbackDate != "" {
		parsed, _, err := dateutils.ParseDate(fallbackDate)
		if err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
		fallback = parsed
	}

	outputDir := root.OutputDir()
	if outputDir != "" {
		if err := validation.ValidateOutputDirectory(outputDir); err != nil {
			return err
		}
	}

	outcome, err := common.ProcessReport(appContainer, inputFile, common.ProcessOptions{
		OutputDir:    outputDir,
		FallbackDate: fallback,
		WriteCSV:     writeCSV || cfg.Output.WriteCSV,
	})
	if err != nil {
		return err
	}

	if outcome.Paths == nil || printText {
		if _, err := io.WriteString(cmd.OutOrStdout(), outcome.Result.Document.BodyText); err != nil {
			return fmt.Errorf("failed to print summary: %w", err)
		}
	}
	if outcome.Paths != nil {
		logger.Info("Summary written",
			logging.Field{Key: logging.FieldOutputFile, Value: outcome.Paths.Text},
			logging.Field{Key: "metadata", Value: outcome.Paths.Metadata})
	}

	if updateHistory || cfg.History.Update {
		if appContainer.GetHistory() == nil {
			logger.Warn("Price history is not configured; set history.file to track LTO levels")
			return nil
		}
		return common.UpdateHistory(appContainer, []*common.Outcome{outcome})
	}
	return nil
}
