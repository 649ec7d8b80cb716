// Package textutils provides the text normalisation shared by the report parsers and the formatter.
package textutils

import (
	"strings"
	"unicode"
)

// ProperCase capitalises the first letter of every word and lower-cases the rest,
// where a word starts at any letter that follows a non-letter. This is the same rule
// a spreadsheet PROPER() applies: "BUD LIGHT" -> "Bud Light", "o'doul's" -> "O'Doul'S".
func ProperCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}

// CollapseWhitespace trims s and replaces every run of whitespace with one space.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeDashes replaces en and em dashes with a plain hyphen.
func NormalizeDashes(s string) string {
	return strings.NewReplacer("–", "-", "—", "-", "‒", "-", "−", "-").Replace(s)
}

// NormalizeHeader lower-cases a column header and collapses its whitespace so
// "Pack  Size\n" and "pack size" compare equal.
func NormalizeHeader(s string) string {
	return strings.ToLower(CollapseWhitespace(s))
}

// EqualFoldTrimmed compares two names ignoring case and surrounding whitespace.
func EqualFoldTrimmed(a, b string) bool {
	return strings.EqualFold(CollapseWhitespace(a), CollapseWhitespace(b))
}

// HasSuffixFold reports whether s ends with suffix, ignoring case.
func HasSuffixFold(s, suffix string) bool {
	if len(suffix) > len(s) {
		return false
	}
	return strings.EqualFold(s[len(s)-len(suffix):], suffix)
}

// IsBlank reports whether every value is empty or whitespace.
func IsBlank(values []string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
