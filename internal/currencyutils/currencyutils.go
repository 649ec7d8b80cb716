// Package currencyutils provides the money parsing and rendering used for TBS prices (CAD).
package currencyutils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	currencyNoise = regexp.MustCompile(`(?i)(CAD|C\$|\$|\s)`)
	hundred       = decimal.NewFromInt(100)
)

// ParseAmount parses a price cell such as "$45.99", "1,049.00" or "(5.50)".
// An empty cell is an error: callers decide whether the value was optional.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	standardized := StandardizeAmount(amountStr)
	if standardized == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}

	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}

	return amount, nil
}

// ParseOptionalAmount parses a cell that may legitimately be blank.
// A blank cell returns (nil, nil).
func ParseOptionalAmount(amountStr string) (*decimal.Decimal, error) {
	if strings.TrimSpace(amountStr) == "" {
		return nil, nil
	}
	amount, err := ParseAmount(amountStr)
	if err != nil {
		return nil, err
	}
	return &amount, nil
}

// StandardizeAmount strips currency markers and thousands separators, and turns an
// accounting style "(5.50)" into "-5.50".
func StandardizeAmount(amountStr string) string {
	amountStr = currencyNoise.ReplaceAllString(amountStr, "")
	amountStr = strings.ReplaceAll(amountStr, ",", "")

	if strings.HasPrefix(amountStr, "(") && strings.HasSuffix(amountStr, ")") {
		amountStr = "-" + strings.TrimSuffix(strings.TrimPrefix(amountStr, "("), ")")
	}
	return strings.TrimPrefix(amountStr, "+")
}

// RoundCents rounds to two decimal places, half away from zero.
func RoundCents(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}

// FormatPrice renders a price with two decimals: "$45.99".
func FormatPrice(amount decimal.Decimal) string {
	return "$" + RoundCents(amount).StringFixed(2)
}

// FormatChangeAmount renders a signed change: "+$2", "-$5.50", "+$0".
// Whole dollar amounts drop their decimals, anything else keeps two.
func FormatChangeAmount(change decimal.Decimal) string {
	rounded := RoundCents(change)

	sign := "+"
	if rounded.IsNegative() {
		sign = "-"
	}

	abs := rounded.Abs()
	if abs.Equal(abs.Truncate(0)) {
		return sign + "$" + abs.StringFixed(0)
	}
	return sign + "$" + abs.StringFixed(2)
}

// PercentageOf returns part/whole*100 without rounding. whole must not be zero.
func PercentageOf(part, whole decimal.Decimal) decimal.Decimal {
	return part.Div(whole).Mul(hundred)
}

// WithinTolerance reports whether |a-b| <= tolerance.
func WithinTolerance(a, b, tolerance decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tolerance)
}
