package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/tbs-price-summary/internal/logging"
	"fjacquet/tbs-price-summary/internal/parsererror"
)

// ParserType defines the report formats available.
type ParserType string

const (
	XLSX ParserType = "xlsx"
	CSV  ParserType = "csv"
)

// SupportedExtensions are the file extensions a report may have.
var SupportedExtensions = []string{".xlsx", ".xlsm", ".csv"}

// TypeForPath picks the parser type from a file extension.
func TypeForPath(path string) (ParserType, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return XLSX, nil
	case ".csv":
		return CSV, nil
	default:
		return "", &parsererror.InvalidFormatError{
			FilePath:       path,
			ExpectedFormat: strings.Join(SupportedExtensions, ", "),
			Msg:            "unsupported file extension",
		}
	}
}

// GetParser returns a new instance of the parser for the given type.
func GetParser(parserType ParserType, source string, options Options, logger logging.Logger) (Parser, error) {
	switch parserType {
	case XLSX:
		return NewXLSXParser(source, options, logger), nil
	case CSV:
		return NewCSVParser(source, options, logger), nil
	default:
		return nil, fmt.Errorf("unknown parser type: %s", parserType)
	}
}

// ParseFile opens path and parses it with the parser matching its extension.
func ParseFile(path string, options Options, logger logging.Logger) (*Result, error) {
	parserType, err := TypeForPath(path)
	if err != nil {
		return nil, err
	}
	p, err := GetParser(parserType, filepath.Base(path), options, logger)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening report: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	return p.Parse(file)
}
