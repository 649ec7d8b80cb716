package parser

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"fjacquet/tbs-price-summary/internal/currencyutils"
	"fjacquet/tbs-price-summary/internal/models"
	"fjacquet/tbs-price-summary/internal/parsererror"
	"fjacquet/tbs-price-summary/internal/textutils"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

// columnCount is the number of report columns, A to M.
const columnCount = 13

// reportRow is one data row of a report. Fields follow the column order A-M,
// preceded by the source row number.
type reportRow struct {
	Row             int    `csv:"row"`
	ArticleNumber   string `csv:"sap_article_number"`
	SaleType        string `csv:"type_of_sale"`
	Manufacturer    string `csv:"manufacturer"`
	ProductName     string `csv:"product_name"`
	PackType        string `csv:"pack_type"`
	PackVolumeMl    string `csv:"pack_volume_ml"`
	PackageFullName string `csv:"package_full_name"`
	PackSize        string `csv:"pack_size"`
	OldPrice        string `csv:"old_price"`
	NewPrice        string `csv:"new_price"`
	ChangeAmount    string `csv:"increase_decrease"`
	BCTC            string `csv:"bctc"`
	Formula         string `csv:"formula"`
}

// headerWords are the normalised column titles that identify a header row.
var headerWords = map[string]bool{
	"sap article number": true,
	"sap article #":      true,
	"article number":     true,
	"type of sale":       true,
	"manufacturer":       true,
	"product name":       true,
	"pack type":          true,
	"pack size":          true,
	"old price":          true,
	"new price":          true,
	"increase/decrease":  true,
	"b/c/tc":             true,
}

// isHeaderRow reports whether at least two cells are known column titles.
func isHeaderRow(cells []string) bool {
	hits := 0
	for _, c := range cells {
		if headerWords[textutils.NormalizeHeader(c)] {
			hits++
		}
	}
	return hits >= 2
}

// rowReader adapts a raw row source to gocsv. It skips the title rows, blank
// rows and the column header row, and emits each data row as its source row
// number followed by exactly columnCount cells.
//
// A header row found within the first skipRows+1 rows anchors the data start:
// everything up to it is preamble, everything after it is data, even when the
// preamble is shorter than skipRows.
type rowReader struct {
	next          func() ([]string, error)
	skipRows      int
	line          int
	started       bool
	pending       []numberedRow
	headerChecked bool
}

type numberedRow struct {
	line  int
	cells []string
}

// start reads the preamble window and decides where the data begins.
func (r *rowReader) start() error {
	r.started = true

	var window []numberedRow
	for len(window) <= r.skipRows {
		cells, err := r.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		r.line++
		window = append(window, numberedRow{line: r.line, cells: cells})
	}

	for i, row := range window {
		if isHeaderRow(row.cells) {
			r.pending = window[i+1:]
			r.headerChecked = true
			return nil
		}
	}
	if len(window) > r.skipRows {
		r.pending = window[r.skipRows:]
	}
	return nil
}

func (r *rowReader) Read() ([]string, error) {
	if !r.started {
		if err := r.start(); err != nil {
			return nil, err
		}
	}

	for {
		var row numberedRow
		if len(r.pending) > 0 {
			row, r.pending = r.pending[0], r.pending[1:]
		} else {
			cells, err := r.next()
			if err != nil {
				return nil, err
			}
			r.line++
			row = numberedRow{line: r.line, cells: cells}
		}

		if textutils.IsBlank(row.cells) {
			continue
		}
		if !r.headerChecked {
			r.headerChecked = true
			if isHeaderRow(row.cells) {
				continue
			}
		}

		out := make([]string, columnCount+1)
		out[0] = strconv.Itoa(row.line)
		copy(out[1:], row.cells)
		return out, nil
	}
}

func (r *rowReader) ReadAll() ([][]string, error) {
	var all [][]string
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			return all, nil
		}
		if err != nil {
			return nil, err
		}
		all = append(all, row)
	}
}

// readReportRows decodes every data row produced by next, which must return
// io.EOF after the last row.
func readReportRows(next func() ([]string, error), skipRows int) ([]reportRow, error) {
	reader := &rowReader{next: next, skipRows: skipRows}

	var rows []reportRow
	err := gocsv.UnmarshalCSVWithoutHeaders(reader, &rows)
	if errors.Is(err, gocsv.ErrEmptyCSVFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode report rows: %w", err)
	}
	return rows, nil
}

// sliceSource returns a row source over rows already in memory.
func sliceSource(rows [][]string) func() ([]string, error) {
	i := 0
	return func() ([]string, error) {
		if i >= len(rows) {
			return nil, io.EOF
		}
		i++
		return rows[i-1], nil
	}
}

func (r reportRow) malformed(field, reason string, err error) error {
	return &parsererror.MalformedRecordError{Row: r.Row, Field: field, Reason: reason, Err: err}
}

// toRecord validates the row and converts it. The formula column is ignored and
// the supplied change amount is kept only for drift detection. Problems with
// optional columns come back as warnings on a record that is still kept.
func (r reportRow) toRecord() (models.PriceChangeRecord, []models.Warning, error) {
	clean := textutils.CollapseWhitespace
	rawSaleType := clean(r.SaleType)
	saleType := models.ParseSaleType(rawSaleType)

	rec := models.PriceChangeRecord{
		ArticleNumber:   clean(r.ArticleNumber),
		SaleType:        saleType,
		RawSaleType:     rawSaleType,
		Manufacturer:    clean(r.Manufacturer),
		ProductName:     clean(r.ProductName),
		PackType:        clean(r.PackType),
		PackageFullName: clean(r.PackageFullName),
		PackSizeLabel:   clean(r.PackSize),
		BCTCIndicator:   strings.ToUpper(clean(r.BCTC)),
		Row:             r.Row,
	}

	if rec.Manufacturer == "" {
		return rec, nil, r.malformed("manufacturer", "is missing", nil)
	}
	if rec.ProductName == "" {
		return rec, nil, r.malformed("product name", "is missing", nil)
	}

	if strings.TrimSpace(r.NewPrice) == "" {
		return rec, nil, r.malformed("new price", "is missing", nil)
	}
	newPrice, err := currencyutils.ParseAmount(r.NewPrice)
	if err != nil {
		return rec, nil, r.malformed("new price", "is not numeric", err)
	}
	rec.NewPrice = newPrice

	switch {
	case strings.TrimSpace(r.OldPrice) != "":
		oldPrice, err := currencyutils.ParseAmount(r.OldPrice)
		if err != nil {
			return rec, nil, r.malformed("old price", "is not numeric", err)
		}
		rec.OldPrice = oldPrice
	case saleType != models.SaleTypeNewSku:
		return rec, nil, r.malformed("old price", "is missing", nil)
	default:
		rec.OldPrice = decimal.Zero
	}

	// Optional numeric columns: a value that does not parse is ignored, with a warning.
	var warnings []models.Warning
	if v, err := currencyutils.ParseOptionalAmount(r.PackVolumeMl); err == nil {
		rec.PackVolumeMl = v
	} else {
		warnings = append(warnings, r.warning(models.WarningMalformedRecord,
			fmt.Sprintf("pack volume ml %q is not numeric; value ignored", strings.TrimSpace(r.PackVolumeMl))))
	}
	if v, err := currencyutils.ParseOptionalAmount(r.ChangeAmount); err == nil {
		rec.SuppliedChange = v
	} else {
		warnings = append(warnings, r.warning(models.WarningChangeAmountDrift,
			fmt.Sprintf("supplied change %q is not numeric; change recomputed from prices", strings.TrimSpace(r.ChangeAmount))))
	}

	return rec, warnings, nil
}

func (r reportRow) warning(kind models.WarningKind, msg string) models.Warning {
	return models.Warning{
		Kind:          kind,
		Row:           r.Row,
		ArticleNumber: textutils.CollapseWhitespace(r.ArticleNumber),
		Message:       msg,
	}
}
