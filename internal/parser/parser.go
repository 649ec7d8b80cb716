// Package parser reads weekly TBS price change reports (xlsx or csv) into
// price change records.
package parser

import (
	"io"

	"fjacquet/tbs-price-summary/internal/models"
)

// DefaultSkipRows is the number of title rows above the data in a TBS report.
const DefaultSkipRows = 6

// Parser reads a price change report.
type Parser interface {
	// Parse reads the report from r. Rows that cannot become records are left out
	// of Result.Records and reported in Result.Warnings; only a report that cannot
	// be read at all returns an error (InvalidFormatError, DataExtractionError).
	Parse(r io.Reader) (*Result, error)
}

// Result is the outcome of parsing one report.
type Result struct {
	Records  []models.PriceChangeRecord
	Warnings []models.Warning
}

// Options configure the report parsers.
type Options struct {
	// SkipRows is the number of leading rows to ignore. Negative means DefaultSkipRows.
	SkipRows int
	// Sheet selects the worksheet of an xlsx report. Empty means the first sheet.
	Sheet string
}

// DefaultOptions returns the layout of a standard TBS report.
func DefaultOptions() Options {
	return Options{SkipRows: DefaultSkipRows}
}

func (o Options) skipRows() int {
	if o.SkipRows < 0 {
		return DefaultSkipRows
	}
	return o.SkipRows
}
