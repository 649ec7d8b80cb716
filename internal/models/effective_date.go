package models

import "time"

// Date layouts for the two renderings of an effective date.
const (
	DateLayoutISO     = "2006-01-02"
	DateLayoutDisplay = "January 2, 2006"
)

// EffectiveDate is the date the report's price changes take effect.
type EffectiveDate struct {
	Date time.Time
	// Extracted is false when the date came from a caller-supplied fallback.
	Extracted bool
}

// NewEffectiveDate normalises t to a UTC calendar date.
func NewEffectiveDate(t time.Time, extracted bool) EffectiveDate {
	return EffectiveDate{
		Date:      time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC),
		Extracted: extracted,
	}
}

// ISO renders the date as YYYY-MM-DD.
func (d EffectiveDate) ISO() string {
	return d.Date.Format(DateLayoutISO)
}

// Display renders the date as "Month D, YYYY".
func (d EffectiveDate) Display() string {
	return d.Date.Format(DateLayoutDisplay)
}
