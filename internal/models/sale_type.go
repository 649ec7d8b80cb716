package models

import "strings"

// SaleType is the "Type of Sale" column of a price change report.
type SaleType int

const (
	// SaleTypeRetailPrice is a TBS retail price change. It is also the default
	// when the column is empty.
	SaleTypeRetailPrice SaleType = iota
	SaleTypeNewSku
	SaleTypeLicensee
	SaleTypeOther
)

// String returns the canonical report spelling of the sale type.
func (s SaleType) String() string {
	switch s {
	case SaleTypeRetailPrice:
		return "TBS - Retail Price"
	case SaleTypeNewSku:
		return "New SKU"
	case SaleTypeLicensee:
		return "TBS - Licensee"
	default:
		return "Other"
	}
}

var dashReplacer = strings.NewReplacer("–", "-", "—", "-", "−", "-")

// ParseSaleType maps the raw report text to a SaleType. Dash variants, spacing
// and case are ignored, and the "TBS" prefix is optional. Unrecognised text maps
// to SaleTypeOther; callers keep the raw text for reporting.
func ParseSaleType(raw string) SaleType {
	s := strings.ToLower(dashReplacer.Replace(raw))
	s = strings.Join(strings.Fields(s), " ")
	s = strings.TrimPrefix(s, "tbs - ")
	s = strings.TrimPrefix(s, "tbs ")

	switch s {
	case "", "tbs", "retail price", "retail":
		return SaleTypeRetailPrice
	case "new sku", "new skus", "newsku":
		return SaleTypeNewSku
	case "licensee":
		return SaleTypeLicensee
	default:
		return SaleTypeOther
	}
}
