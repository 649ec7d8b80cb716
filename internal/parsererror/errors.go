// Package parsererror defines the typed errors raised while reading price change reports.
package parsererror

import "fmt"

// ParseError represents an error during parsing of a single cell value.
type ParseError struct {
	Parser string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Parser, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// InvalidFormatError represents an error where the input file does not conform
// to the expected report layout.
type InvalidFormatError struct {
	FilePath       string
	ExpectedFormat string
	Msg            string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s",
		e.FilePath, e.Msg, e.ExpectedFormat)
}

// DataExtractionError represents an error where specific required data could not be extracted
// from an input, even if the input itself is well formed.
type DataExtractionError struct {
	FilePath  string
	FieldName string
	Reason    string
	Err       error
}

func (e *DataExtractionError) Error() string {
	return fmt.Sprintf("data extraction failed in '%s' for field '%s': %s",
		e.FilePath, e.FieldName, e.Reason)
}

func (e *DataExtractionError) Unwrap() error {
	return e.Err
}

// MalformedRecordError describes a report row that cannot become a price change record:
// a required field is missing or a price is not numeric.
type MalformedRecordError struct {
	Row    int
	Field  string
	Reason string
	Err    error
}

func (e *MalformedRecordError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed record at row %d: %s %s: %v", e.Row, e.Field, e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed record at row %d: %s %s", e.Row, e.Field, e.Reason)
}

func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}
