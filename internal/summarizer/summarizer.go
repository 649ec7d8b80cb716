// Package summarizer runs the categorisation pipeline: classify, aggregate, render.
// It performs no I/O.
package summarizer

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"fjacquet/tbs-price-summary/internal/aggregator"
	"fjacquet/tbs-price-summary/internal/classifier"
	"fjacquet/tbs-price-summary/internal/dateutils"
	"fjacquet/tbs-price-summary/internal/logging"
	"fjacquet/tbs-price-summary/internal/models"
	"fjacquet/tbs-price-summary/internal/report"

	"github.com/google/uuid"
)

// ErrEmptyInput is returned when there is no record to summarise.
var ErrEmptyInput = errors.New("no price change records to summarize")

// Input is one report to summarise.
type Input struct {
	// SourceFile is the report file name; the effective date is read from it.
	SourceFile string
	Records    []models.PriceChangeRecord
	// Warnings raised before classification, such as malformed rows.
	Warnings []models.Warning
	// FallbackDate is used when SourceFile holds no date. Zero means today.
	FallbackDate time.Time
}

// Result is a summarised report.
type Result struct {
	Document      models.RenderedDocument
	Summary       models.Summary
	EffectiveDate models.EffectiveDate
	// Records are the classified records in rendered order.
	Records []models.ClassifiedRecord
}

// Summarizer wires the classifier, aggregator and renderer.
type Summarizer struct {
	classifier *classifier.Classifier
	aggregator *aggregator.Aggregator
	renderer   *report.Renderer
	logger     logging.Logger

	now   func() time.Time
	newID func() string
}

// New creates a Summarizer.
func New(c *classifier.Classifier, a *aggregator.Aggregator, r *report.Renderer, logger logging.Logger) *Summarizer {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Summarizer{
		classifier: c,
		aggregator: a,
		renderer:   r,
		logger:     logger,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// Summarize classifies, groups and renders the records of one report. Every
// record ends up in exactly one rendered line; problems with individual records
// or the file name are reported in the metadata warnings. Only an input with no
// records fails, with ErrEmptyInput.
func (s *Summarizer) Summarize(in Input) (*Result, error) {
	if len(in.Records) == 0 {
		return nil, fmt.Errorf("%s: %w", in.SourceFile, ErrEmptyInput)
	}

	start := s.now()
	runID := s.newID()
	logger := s.logger.WithFields(
		logging.Field{Key: logging.FieldRunID, Value: runID},
		logging.Field{Key: logging.FieldInputFile, Value: in.SourceFile})

	warnings := append([]models.Warning(nil), in.Warnings...)

	fallback := in.FallbackDate
	if fallback.IsZero() {
		fallback = start
	}
	date, err := dateutils.ResolveEffectiveDate(in.SourceFile, fallback)
	if err != nil {
		logger.WithError(err).Warn("Using fallback effective date",
			logging.Field{Key: logging.FieldEffectiveDate, Value: date.ISO()})
		warnings = append(warnings, models.Warning{
			Kind:    models.WarningExtractionFailed,
			Message: fmt.Sprintf("%v; using %s", err, date.ISO()),
		})
	}

	classified, classifyWarnings := s.classifier.ClassifyAll(in.Records)
	warnings = append(warnings, classifyWarnings...)

	summary := s.aggregator.Aggregate(classified)

	doc, err := s.renderer.Render(summary, date)
	if err != nil {
		return nil, err
	}

	doc.Metadata.RunID = runID
	doc.Metadata.GeneratedAt = start.UTC()
	doc.Metadata.SourceFile = filepath.Base(in.SourceFile)
	doc.Metadata.Warnings = warnings
	if doc.Metadata.Warnings == nil {
		doc.Metadata.Warnings = []models.Warning{}
	}

	logger.Info("Summarized price changes",
		logging.Field{Key: logging.FieldEffectiveDate, Value: date.ISO()},
		logging.Field{Key: logging.FieldCount, Value: doc.Metadata.RecordCount},
		logging.Field{Key: "warnings", Value: len(warnings)},
		logging.Field{Key: logging.FieldDuration, Value: s.now().Sub(start).Milliseconds()})

	return &Result{
		Document:      doc,
		Summary:       summary,
		EffectiveDate: date,
		Records:       report.SummaryRecords(summary),
	}, nil
}
