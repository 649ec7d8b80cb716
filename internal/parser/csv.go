package parser

import (
	"encoding/csv"
	"io"
	"strings"

	"fjacquet/tbs-price-summary/internal/logging"
)

// CSVParser reads a report exported as CSV, with the same layout as the workbook.
type CSVParser struct {
	BaseParser
	source string
}

// NewCSVParser creates a CSVParser. source names the input in logs and errors.
func NewCSVParser(source string, options Options, logger logging.Logger) *CSVParser {
	return &CSVParser{BaseParser: NewBaseParser(logger, options), source: source}
}

// Parse implements Parser.
func (p *CSVParser) Parse(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	return p.decode(p.source, physicalRows(reader))
}

// physicalRows returns a row source that yields one row per physical line, as a
// workbook would. encoding/csv silently drops empty lines; they come back here
// as empty rows so that row numbers and skip_rows count the same in both formats.
func physicalRows(reader *csv.Reader) func() ([]string, error) {
	nextLine := 1
	var held []string

	return func() ([]string, error) {
		if held == nil {
			rec, err := reader.Read()
			if err != nil {
				return nil, err
			}
			held = rec
		}

		line, _ := reader.FieldPos(0)
		if line > nextLine {
			nextLine++
			return []string{}, nil
		}

		rec := held
		held = nil
		// A quoted field may span lines; the next record starts after its last line.
		last := len(rec) - 1
		lastLine, _ := reader.FieldPos(last)
		nextLine = lastLine + strings.Count(rec[last], "\n") + 1
		return rec, nil
	}
}
