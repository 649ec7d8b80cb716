package parsererror

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseError(t *testing.T) {
	inner := errors.New("can't convert")
	err := &ParseError{Parser: "xlsx", Field: "Old Price", Value: "n/a", Err: inner}

	assert.Equal(t, "xlsx: failed to parse Old Price='n/a': can't convert", err.Error())
	assert.ErrorIs(t, err, inner)
}

func TestInvalidFormatError(t *testing.T) {
	err := &InvalidFormatError{FilePath: "report.pdf", ExpectedFormat: ".xlsx or .csv", Msg: "unsupported extension"}
	assert.Equal(t, "invalid format in file 'report.pdf': unsupported extension. Expected: .xlsx or .csv", err.Error())
}

func TestDataExtractionError(t *testing.T) {
	inner := errors.New("no date token")
	err := &DataExtractionError{FilePath: "report.xlsx", FieldName: "effective_date", Reason: "no date token", Err: inner}

	assert.Contains(t, err.Error(), "field 'effective_date'")
	assert.ErrorIs(t, err, inner)
}

func TestMalformedRecordError(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := &MalformedRecordError{Row: 9, Field: "Manufacturer", Reason: "is empty"}
		assert.Equal(t, "malformed record at row 9: Manufacturer is empty", err.Error())
		assert.Nil(t, errors.Unwrap(err))
	})

	t.Run("with cause", func(t *testing.T) {
		inner := &ParseError{Parser: "csv", Field: "New Price", Value: "abc", Err: errors.New("bad")}
		err := &MalformedRecordError{Row: 10, Field: "New Price", Reason: "is not numeric", Err: inner}

		var pe *ParseError
		assert.ErrorAs(t, err, &pe)
		assert.Equal(t, "abc", pe.Value)
	})
}
