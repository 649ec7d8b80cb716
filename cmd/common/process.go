// Package common contains shared functionality for command handlers
package common

import (
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"fjacquet/tbs-price-summary/internal/container"
	"fjacquet/tbs-price-summary/internal/logging"
	"fjacquet/tbs-price-summary/internal/report"
	"fjacquet/tbs-price-summary/internal/summarizer"
)

// ProcessOptions control what is written for a report.
type ProcessOptions struct {
	// OutputDir receives the summary files. Empty means nothing is written.
	OutputDir string
	// FallbackDate is used when the file name holds no effective date.
	FallbackDate time.Time
	// WriteCSV also writes the classified records as CSV.
	WriteCSV bool
}

// Outcome is one processed report.
type Outcome struct {
	InputFile string
	Result    *summarizer.Result
	// Paths is nil when no output directory was given.
	Paths *report.OutputPaths
}

// ProcessReport parses, summarises and writes a single report. The price history
// is not updated; see UpdateHistory.
func ProcessReport(c *container.Container, inputFile string, opts ProcessOptions) (*Outcome, error) {
	outcome, err := SummarizeReport(c, inputFile, opts.FallbackDate)
	if err != nil {
		return nil, err
	}
	if opts.OutputDir != "" {
		if err := WriteOutcome(c, outcome, opts.OutputDir, opts.WriteCSV); err != nil {
			return nil, err
		}
	}
	return outcome, nil
}

// SummarizeReport parses and summarises a single report without writing anything.
func SummarizeReport(c *container.Container, inputFile string, fallback time.Time) (*Outcome, error) {
	logger := c.GetLogger().WithField(logging.FieldInputFile, filepath.Base(inputFile))
	start := time.Now()

	parsed, err := c.ParseReport(inputFile)
	if err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", inputFile, err)
	}

	result, err := c.GetSummarizer().Summarize(summarizer.Input{
		SourceFile:   inputFile,
		Records:      parsed.Records,
		Warnings:     parsed.Warnings,
		FallbackDate: fallback,
	})
	if err != nil {
		return nil, fmt.Errorf("error summarizing %s: %w", inputFile, err)
	}

	logger.Info("Processed price change report",
		logging.Field{Key: logging.FieldEffectiveDate, Value: result.EffectiveDate.ISO()},
		logging.Field{Key: logging.FieldCount, Value: len(result.Records)},
		logging.Field{Key: "warnings", Value: len(result.Document.Metadata.Warnings)},
		logging.Field{Key: logging.FieldDuration, Value: time.Since(start).Milliseconds()})
	return &Outcome{InputFile: inputFile, Result: result}, nil
}

// WriteOutcome writes the summary text, its metadata and optionally the
// classified CSV to dir, and records the paths on the outcome.
func WriteOutcome(c *container.Container, outcome *Outcome, dir string, writeCSV bool) error {
	logger := c.GetLogger().WithField(logging.FieldInputFile, filepath.Base(outcome.InputFile))

	paths, err := report.WriteDocument(dir, outcome.Result.Document, logger)
	if err != nil {
		return err
	}
	if writeCSV {
		if err := report.WriteClassifiedCSV(paths.CSV, outcome.Result.Records); err != nil {
			return err
		}
		logger.Debug("Wrote classified records", logging.Field{Key: logging.FieldOutputFile, Value: paths.CSV})
	} else {
		paths.CSV = ""
	}
	outcome.Paths = &paths
	return nil
}

// UpdateHistory records the LTO price levels of the outcomes in effective date
// order and saves the history file. It does nothing when history is disabled.
func UpdateHistory(c *container.Container, outcomes []*Outcome) error {
	history := c.GetHistory()
	if history == nil {
		return nil
	}

	ordered := slices.Clone(outcomes)
	slices.SortStableFunc(ordered, func(a, b *Outcome) int {
		return a.Result.EffectiveDate.Date.Compare(b.Result.EffectiveDate.Date)
	})

	for _, o := range ordered {
		stored, cleared := history.Apply(o.Result.Records, o.Result.EffectiveDate)
		c.GetLogger().Debug("Updated price history",
			logging.Field{Key: logging.FieldInputFile, Value: filepath.Base(o.InputFile)},
			logging.Field{Key: "stored", Value: stored},
			logging.Field{Key: "cleared", Value: cleared})
	}

	if err := history.Save(); err != nil {
		return fmt.Errorf("failed to save price history: %w", err)
	}
	return nil
}
