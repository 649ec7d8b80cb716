package parser

import (
	"fjacquet/tbs-price-summary/internal/logging"
	"fjacquet/tbs-price-summary/internal/models"
	"fjacquet/tbs-price-summary/internal/parsererror"
)

// BaseParser holds what the report parsers share: a logger and the layout options.
//
//	type MyParser struct {
//		BaseParser
//	}
type BaseParser struct {
	logger  logging.Logger
	options Options
}

// NewBaseParser creates a BaseParser. If logger is nil the default logger is used.
func NewBaseParser(logger logging.Logger, options Options) BaseParser {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return BaseParser{logger: logger, options: options}
}

// SetLogger replaces the logger. Nil is ignored.
func (b *BaseParser) SetLogger(logger logging.Logger) {
	if logger != nil {
		b.logger = logger
	}
}

// GetLogger returns the current logger instance.
func (b *BaseParser) GetLogger() logging.Logger {
	return b.logger
}

// Options returns the layout options.
func (b *BaseParser) Options() Options {
	return b.options
}

// decode turns raw report rows into records, collecting malformed rows as warnings.
func (b *BaseParser) decode(source string, next func() ([]string, error)) (*Result, error) {
	rows, err := readReportRows(next, b.options.skipRows())
	if err != nil {
		return nil, &parsererror.InvalidFormatError{
			FilePath:       source,
			ExpectedFormat: "price change report with columns A-M",
			Msg:            err.Error(),
		}
	}

	result := &Result{Records: make([]models.PriceChangeRecord, 0, len(rows))}
	for _, row := range rows {
		rec, warnings, err := row.toRecord()
		if err != nil {
			b.logger.Warn("Skipping malformed row",
				logging.Field{Key: logging.FieldFile, Value: source},
				logging.Field{Key: logging.FieldRow, Value: row.Row},
				logging.Field{Key: logging.FieldError, Value: err.Error()})
			result.Warnings = append(result.Warnings, models.Warning{
				Kind:          models.WarningMalformedRecord,
				Row:           row.Row,
				ArticleNumber: row.ArticleNumber,
				Message:       err.Error(),
			})
			continue
		}
		for _, w := range warnings {
			b.logger.Warn("Ignoring invalid optional value",
				logging.Field{Key: logging.FieldFile, Value: source},
				logging.Field{Key: logging.FieldRow, Value: row.Row},
				logging.Field{Key: logging.FieldReason, Value: w.Message})
		}
		result.Warnings = append(result.Warnings, warnings...)
		result.Records = append(result.Records, rec)
	}

	b.logger.Info("Parsed price change report",
		logging.Field{Key: logging.FieldFile, Value: source},
		logging.Field{Key: logging.FieldCount, Value: len(result.Records)},
		logging.Field{Key: "malformed", Value: len(result.Warnings)})

	return result, nil
}
