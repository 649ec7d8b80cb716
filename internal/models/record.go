package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// PriceChangeRecord is one row of a weekly price change report.
// Values are never modified after construction.
type PriceChangeRecord struct {
	ArticleNumber   string
	SaleType        SaleType
	RawSaleType     string
	Manufacturer    string
	ProductName     string
	PackType        string
	PackVolumeMl    *decimal.Decimal
	PackageFullName string
	PackSizeLabel   string
	OldPrice        decimal.Decimal
	NewPrice        decimal.Decimal
	// SuppliedChange is the report's own increase/decrease column. It is only
	// used to detect drift; the change is always recomputed from the prices.
	SuppliedChange *decimal.Decimal
	BCTCIndicator  string
	// Row is the 1-based source row number, or 0 for records built in code.
	Row int
}

// ChangeAmount returns NewPrice - OldPrice.
func (r PriceChangeRecord) ChangeAmount() decimal.Decimal {
	return r.NewPrice.Sub(r.OldPrice)
}

// HasChangeDrift reports whether the supplied change amount differs from the
// recomputed one by more than tolerance.
func (r PriceChangeRecord) HasChangeDrift(tolerance decimal.Decimal) bool {
	if r.SuppliedChange == nil {
		return false
	}
	return r.SuppliedChange.Sub(r.ChangeAmount()).Abs().GreaterThan(tolerance)
}

// HistoryKey identifies the product across weekly reports. The SAP article number
// is used when present, otherwise manufacturer, product and pack are combined.
func (r PriceChangeRecord) HistoryKey() string {
	if key := strings.TrimSpace(r.ArticleNumber); key != "" {
		return key
	}
	parts := []string{r.Manufacturer, r.ProductName, r.PackSizeLabel + r.BCTCIndicator}
	for i, p := range parts {
		parts[i] = strings.ToLower(strings.Join(strings.Fields(p), " "))
	}
	return strings.Join(parts, "|")
}
