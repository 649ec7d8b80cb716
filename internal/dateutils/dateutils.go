// Package dateutils provides the date handling used by the summary: extracting the
// effective date from a report filename and parsing user-supplied dates.
package dateutils

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"fjacquet/tbs-price-summary/internal/models"
	"fjacquet/tbs-price-summary/internal/parsererror"
)

// ErrExtractionFailed is returned when a filename holds no recognisable date token.
var ErrExtractionFailed = errors.New("effective date extraction failed")

// CommonFormats is the list of layouts accepted for user-supplied dates.
var CommonFormats = []string{
	models.DateLayoutISO,
	models.DateLayoutDisplay,
	"Jan 2, 2006",
	"02.01.2006",
	"2006/01/02",
}

// effectiveDatePattern matches "<Month> <Day>[ordinal]'<YY>" such as "October 13th'25".
// A four digit year after a comma ("October 13th, 2025") is accepted as well.
// Underscores count as separators so "October_13th'25" matches; the month must not
// follow a letter and the year must not be followed by another digit.
var effectiveDatePattern = regexp.MustCompile(
	`(?i)(?:^|[^a-zA-Z])(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?[\s_]+(\d{1,2})(?:st|nd|rd|th)?(?:[\s_]*['’‘](\d{2})(?:\D|$)|,?[\s_]+(\d{4})(?:\D|$))`)

var monthsByPrefix = map[string]time.Month{
	"jan": time.January,
	"feb": time.February,
	"mar": time.March,
	"apr": time.April,
	"may": time.May,
	"jun": time.June,
	"jul": time.July,
	"aug": time.August,
	"sep": time.September,
	"oct": time.October,
	"nov": time.November,
	"dec": time.December,
}

// ExtractEffectiveDate locates the effective date token in a report filename.
// Two-digit years are read as 2000+YY. It never guesses: when no valid token is
// present the returned error wraps ErrExtractionFailed.
func ExtractEffectiveDate(filename string) (models.EffectiveDate, error) {
	base := filepath.Base(filename)

	for _, m := range effectiveDatePattern.FindAllStringSubmatch(base, -1) {
		month := monthsByPrefix[strings.ToLower(m[1][:3])]

		day, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}

		var year int
		if m[3] != "" {
			yy, _ := strconv.Atoi(m[3])
			year = 2000 + yy
		} else {
			year, _ = strconv.Atoi(m[4])
		}

		t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		// time.Date normalises overflow, so February 30th comes back as March.
		if t.Day() != day || t.Month() != month {
			continue
		}
		return models.NewEffectiveDate(t, true), nil
	}

	return models.EffectiveDate{}, &parsererror.DataExtractionError{
		FilePath:  base,
		FieldName: "effective_date",
		Reason:    "no '<Month> <Day>'<YY>' token found",
		Err:       ErrExtractionFailed,
	}
}

// ResolveEffectiveDate extracts the effective date from filename, falling back to
// fallback when extraction fails. The returned date's Extracted flag tells the two
// apart, and the extraction error is returned alongside the fallback so the caller
// can report it.
func ResolveEffectiveDate(filename string, fallback time.Time) (models.EffectiveDate, error) {
	date, err := ExtractEffectiveDate(filename)
	if err != nil {
		return models.NewEffectiveDate(fallback, false), err
	}
	return date, nil
}

// ParseDate attempts to parse a date string using the common formats.
// Returns the parsed time and the detected format.
func ParseDate(dateStr string) (time.Time, string, error) {
	dateStr = strings.Join(strings.Fields(dateStr), " ")

	for _, format := range CommonFormats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, format, nil
		}
	}

	return time.Time{}, "", fmt.Errorf("unable to parse date: %s", dateStr)
}
