package report

import (
	"fmt"
	"os"

	"fjacquet/tbs-price-summary/internal/fileutils"
	"fjacquet/tbs-price-summary/internal/formatter"
	"fjacquet/tbs-price-summary/internal/models"

	"github.com/gocarina/gocsv"
)

// ClassifiedRow is one line of the classified records export.
type ClassifiedRow struct {
	Row           int    `csv:"Row"`
	ArticleNumber string `csv:"Article Number"`
	SaleType      string `csv:"Type of Sale"`
	Manufacturer  string `csv:"Manufacturer"`
	ProductName   string `csv:"Product Name"`
	PackSize      string `csv:"Pack Size"`
	OldPrice      string `csv:"Old Price"`
	NewPrice      string `csv:"New Price"`
	ChangeAmount  string `csv:"Change Amount"`
	Percentage    string `csv:"Pct of Old Price"`
	Category      string `csv:"Category"`
	PriorPrice    string `csv:"Pre-LTO Price"`
	Line          string `csv:"Summary Line"`
}

// ToClassifiedRows converts records for export. Percentage and prior price are
// blank when unknown.
func ToClassifiedRows(records []models.ClassifiedRecord) []ClassifiedRow {
	rows := make([]ClassifiedRow, 0, len(records))
	for _, rec := range records {
		row := ClassifiedRow{
			Row:           rec.Row,
			ArticleNumber: rec.ArticleNumber,
			SaleType:      rec.SaleType.String(),
			Manufacturer:  rec.Manufacturer,
			ProductName:   rec.ProductName,
			PackSize:      formatter.PackLabel(rec.PackSizeLabel, rec.BCTCIndicator),
			OldPrice:      rec.OldPrice.StringFixed(2),
			NewPrice:      rec.NewPrice.StringFixed(2),
			ChangeAmount:  rec.ChangeAmount().StringFixed(2),
			Category:      rec.Category.String(),
			Line:          formatter.FormatLine(rec),
		}
		if rec.SaleType == models.SaleTypeOther && rec.RawSaleType != "" {
			row.SaleType = rec.RawSaleType
		}
		if rec.HasPercentage {
			row.Percentage = rec.PercentageOfOldPrice.StringFixed(2)
		}
		if rec.PriorPrice != nil {
			row.PriorPrice = rec.PriorPrice.StringFixed(2)
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteClassifiedCSV writes the classified records, in summary order, to path.
func WriteClassifiedCSV(path string, records []models.ClassifiedRecord) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, fileutils.FilePermission)
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	rows := ToClassifiedRows(records)
	if err := gocsv.MarshalFile(&rows, file); err != nil {
		return fmt.Errorf("error writing classified records: %w", err)
	}
	return nil
}

// SummaryRecords flattens a summary back into records in rendered order.
func SummaryRecords(summary models.Summary) []models.ClassifiedRecord {
	out := make([]models.ClassifiedRecord, 0, summary.RecordCount())
	for _, g := range summary.Groups {
		for _, b := range g.Buckets {
			out = append(out, b.Records...)
		}
	}
	out = append(out, summary.Licensee...)
	out = append(out, summary.NewSkus...)
	return append(out, summary.Unclassified...)
}
