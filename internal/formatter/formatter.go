// Package formatter renders a classified record as its single summary line.
package formatter

import (
	"strings"

	"fjacquet/tbs-price-summary/internal/currencyutils"
	"fjacquet/tbs-price-summary/internal/models"
	"fjacquet/tbs-price-summary/internal/textutils"
)

// FormatLine renders rec as one line of the summary:
//
//	Budweiser 30C -$5.50 to $45.99
//	New Product Launch 24C $49.99
//
// New SKUs carry only their price; every other category shows the signed change.
func FormatLine(rec models.ClassifiedRecord) string {
	label := PackLabel(rec.PackSizeLabel, rec.BCTCIndicator)

	parts := make([]string, 0, 5)
	if name := textutils.ProperCase(textutils.CollapseWhitespace(rec.ProductName)); name != "" {
		parts = append(parts, name)
	}
	if label != "" {
		parts = append(parts, label)
	}

	if rec.Category == models.CategoryNewSku {
		parts = append(parts, currencyutils.FormatPrice(rec.NewPrice))
	} else {
		parts = append(parts,
			currencyutils.FormatChangeAmount(rec.ChangeAmount()),
			"to",
			currencyutils.FormatPrice(rec.NewPrice))
	}
	return strings.Join(parts, " ")
}

// PackLabel appends the B/C/TC indicator to the pack size label unless the label
// already ends with it.
func PackLabel(packSize, bctc string) string {
	packSize = strings.TrimSpace(packSize)
	bctc = strings.ToUpper(strings.TrimSpace(bctc))
	if bctc == "" || textutils.HasSuffixFold(packSize, bctc) {
		return packSize
	}
	return packSize + bctc
}

// FormatLines renders records in order.
func FormatLines(records []models.ClassifiedRecord) []string {
	lines := make([]string, 0, len(records))
	for _, rec := range records {
		lines = append(lines, FormatLine(rec))
	}
	return lines
}
