package integration

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fjacquet/tbs-price-summary/cmd/common"
	"fjacquet/tbs-price-summary/internal/config"
	"fjacquet/tbs-price-summary/internal/container"
	"fjacquet/tbs-price-summary/internal/logging"
	"fjacquet/tbs-price-summary/internal/models"

	"github.com/gocarina/gocsv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var reportRows = [][]interface{}{
	{"TBS Price Change Summary Report"},
	{"Effective October 13th'25"},
	{"Prepared by pricing"},
	{"Internal"},
	{"Prices before tax and deposit"},
	{"Subject to change"},
	{"SAP Article Number", "Type of Sale", "Manufacturer", "Product Name", "Pack Type", "Pack Volume ML", "Package Full Name", "Pack Size", "Old Price", "New Price", "Increase/Decrease", "B/C/TC", "Formula"},
	{"10023", "TBS - Retail Price", "LABATT", "BUDWEISER", "Can", 355, "BUDWEISER 30x355 CAN", "30", 51.49, 45.99, -5.5, "C", ""},
	{"10024", "TBS - Retail Price", "LABATT", "BUD LIGHT LEMON LIME", "Can", 355, "", "12", 27.99, 29.99, 2, "C", ""},
	{"11001", "TBS - Retail Price", "MOLSON", "COORS LIGHT", "Can", 355, "", "24", 48.99, 49.49, 0.5, "C", ""},
	{"12001", "TBS - Retail Price", "SLEEMAN", "SLEEMAN CLEAR 2.0", "Bottle", 341, "", "6", 12.49, 13.49, 1, "B", ""},
	{"13001", "TBS - Retail Price", "GREAT WESTERN", "ORIGINAL 16", "Can", 355, "", "24", 44.99, 39.99, -5, "C", ""},
	{"30001", "TBS - Licensee", "MOLSON", "COORS LIGHT", "Keg", "", "", "50L", 330.00, 335.00, 5, "", ""},
	{"20001", "New SKU", "SLEEMAN", "NEW PRODUCT LAUNCH", "Can", 355, "", "24", "", 49.99, "", "C", ""},
	{"40001", "TBS - Retail Price", "MOLSON", "ZERO START", "Can", 355, "", "6", 0, 11, 11, "C", ""},
	{"40003", "TBS - Retail Price", "MOLSON", "BAD PRICE", "Can", 355, "", "6", "n/a", 11, "", "", ""},
}

func writeXLSX(t *testing.T, path string) {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	for i, row := range reportRows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}
	require.NoError(t, f.SaveAs(path))
}

func writeCSV(t *testing.T, path string) {
	t.Helper()
	var b strings.Builder
	for _, row := range reportRows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = fmt.Sprint(c)
		}
		b.WriteString(strings.Join(cells, ",") + "\n")
	}
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0600))
}

func newContainer(t *testing.T) *container.Container {
	t.Helper()
	c, err := container.NewContainerWithLogger(config.Default(), logging.NewMockLogger())
	require.NoError(t, err)
	return c
}

// TestCrossParserConsistency checks that the same report exported as XLSX and
// as CSV produces the same summary.
func TestCrossParserConsistency(t *testing.T) {
	dir := t.TempDir()
	xlsxPath := filepath.Join(dir, "TBS Price Changes - October 13th'25.xlsx")
	csvPath := filepath.Join(dir, "TBS Price Changes - October 13th'25.csv")
	writeXLSX(t, xlsxPath)
	writeCSV(t, csvPath)

	c := newContainer(t)
	fromXLSX, err := common.ProcessReport(c, xlsxPath, common.ProcessOptions{})
	require.NoError(t, err)
	fromCSV, err := common.ProcessReport(c, csvPath, common.ProcessOptions{})
	require.NoError(t, err)

	assert.Equal(t, fromXLSX.Result.Document.BodyText, fromCSV.Result.Document.BodyText)
	assert.Equal(t, fromXLSX.Result.Document.Metadata.CategoryCounts, fromCSV.Result.Document.Metadata.CategoryCounts)
	assert.Equal(t, fromXLSX.Result.Document.Metadata.Warnings, fromCSV.Result.Document.Metadata.Warnings)
}

// TestEndToEnd_OutputFiles runs a full report through to the written files.
func TestEndToEnd_OutputFiles(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "TBS Price Changes - October 13th'25.xlsx")
	writeXLSX(t, input)
	outDir := filepath.Join(dir, "out")

	outcome, err := common.ProcessReport(newContainer(t), input, common.ProcessOptions{OutputDir: outDir, WriteCSV: true})
	require.NoError(t, err)

	text, err := os.ReadFile(outcome.Paths.Text)
	require.NoError(t, err)
	body := string(text)

	opening := strings.Join([]string{
		"Subject: TBS Price Change Summary – Effective October 13, 2025",
		"",
		"Dear Team,",
		"",
		"Please find below the TBS price changes effective October 13, 2025.",
		"",
		"Highlights (Price Before Tax and Deposit)",
		"Note: C = 355mL can, TC = 473mL tall can, B = bottle",
		"",
		"LABATT",
		"Begin LTO",
		"Budweiser 30C -$5.50 to $45.99",
		"End LTO",
		"Bud Light Lemon Lime 12C +$2 to $29.99",
		"",
		"MOLSON",
	}, "\n")
	assert.True(t, strings.HasPrefix(body, opening), body)

	for _, line := range []string{
		"LABATT",
		"Begin LTO",
		"Budweiser 30C -$5.50 to $45.99",
		"End LTO",
		"MOLSON",
		"Permanent Changes",
		"SLEEMAN",
		"GREAT WESTERN",
		"LICENSEE CHANGES",
		"NEW SKUs",
		"UNCLASSIFIED",
	} {
		assert.Contains(t, body, line)
	}
	assert.True(t, strings.HasSuffix(body, "\n"))
	assert.False(t, strings.HasSuffix(body, "\n\n"))

	var meta models.Metadata
	raw, err := os.ReadFile(outcome.Paths.Metadata)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &meta))
	assert.Equal(t, "2025-10-13", meta.EffectiveDate)
	assert.True(t, meta.DateExtracted)
	assert.Equal(t, 8, meta.RecordCount)
	assert.Equal(t, meta.RecordCount, meta.RenderedLineCount)
	assert.Equal(t, 2, meta.CategoryCounts["begin_lto"])
	assert.Equal(t, 1, meta.CategoryCounts["unclassified"])
	require.Len(t, meta.Warnings, 2)
	kinds := []models.WarningKind{meta.Warnings[0].Kind, meta.Warnings[1].Kind}
	assert.ElementsMatch(t, []models.WarningKind{models.WarningMalformedRecord, models.WarningZeroOldPrice}, kinds)

	type csvRow struct {
		Row      int    `csv:"Row"`
		Article  string `csv:"Article Number"`
		Category string `csv:"Category"`
	}
	var rows []csvRow
	require.NoError(t, gocsv.UnmarshalFile(mustOpen(t, outcome.Paths.CSV), &rows))
	assert.Len(t, rows, 8)
	assert.Equal(t, "10023", rows[0].Article)
}

func mustOpen(t *testing.T, path string) *os.File {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}
