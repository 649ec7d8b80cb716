package models

import "github.com/shopspring/decimal"

// ClassifiedRecord is a PriceChangeRecord with its computed category.
type ClassifiedRecord struct {
	PriceChangeRecord
	Category Category
	// PercentageOfOldPrice is NewPrice / OldPrice * 100. Only meaningful when
	// HasPercentage is true (OldPrice is non-zero).
	PercentageOfOldPrice decimal.Decimal
	HasPercentage        bool
	// PriorPrice is the pre-LTO level consulted for End LTO escalation, if any.
	PriorPrice *decimal.Decimal
}
