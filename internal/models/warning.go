package models

import "fmt"

// WarningKind identifies a non-fatal data quality problem.
type WarningKind string

const (
	WarningMalformedRecord   WarningKind = "malformed_record"
	WarningZeroOldPrice      WarningKind = "zero_old_price"
	WarningNegativePrice     WarningKind = "negative_price"
	WarningUnknownSaleType   WarningKind = "unknown_sale_type"
	WarningChangeAmountDrift WarningKind = "change_amount_drift"
	WarningExtractionFailed  WarningKind = "extraction_failed"
)

// Warning is a data quality issue surfaced in the summary metadata.
type Warning struct {
	Kind          WarningKind `json:"kind"`
	Row           int         `json:"row,omitempty"`
	ArticleNumber string      `json:"article_number,omitempty"`
	Message       string      `json:"message"`
}

func (w Warning) String() string {
	if w.Row > 0 {
		return fmt.Sprintf("%s (row %d): %s", w.Kind, w.Row, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Kind, w.Message)
}
