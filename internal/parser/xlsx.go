package parser

import (
	"fmt"
	"io"

	"fjacquet/tbs-price-summary/internal/logging"
	"fjacquet/tbs-price-summary/internal/parsererror"

	"github.com/xuri/excelize/v2"
)

// XLSXParser reads the workbook form of the report.
type XLSXParser struct {
	BaseParser
	source string
}

// NewXLSXParser creates an XLSXParser. source names the input in logs and errors.
func NewXLSXParser(source string, options Options, logger logging.Logger) *XLSXParser {
	return &XLSXParser{BaseParser: NewBaseParser(logger, options), source: source}
}

// Parse implements Parser.
func (p *XLSXParser) Parse(r io.Reader) (*Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &parsererror.InvalidFormatError{
			FilePath:       p.source,
			ExpectedFormat: "xlsx workbook",
			Msg:            err.Error(),
		}
	}
	defer func() {
		if err := f.Close(); err != nil {
			p.logger.WithError(err).Warn("Failed to close workbook")
		}
	}()

	sheet := p.options.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if sheet == "" {
		return nil, &parsererror.InvalidFormatError{FilePath: p.source, ExpectedFormat: "xlsx workbook", Msg: "workbook has no sheets"}
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, &parsererror.DataExtractionError{
			FilePath:  p.source,
			FieldName: "sheet",
			Reason:    fmt.Sprintf("sheet %q not found", sheet),
			Err:       err,
		}
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows of sheet %q: %w", sheet, err)
	}

	p.logger.Debug("Read workbook sheet",
		logging.Field{Key: logging.FieldFile, Value: p.source},
		logging.Field{Key: "sheet", Value: sheet},
		logging.Field{Key: "rows", Value: len(rows)})

	return p.decode(p.source, sliceSource(rows))
}
