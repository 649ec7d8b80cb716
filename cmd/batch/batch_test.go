package batch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fjacquet/tbs-price-summary/internal/config"
	"fjacquet/tbs-price-summary/internal/container"
	"fjacquet/tbs-price-summary/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const preamble = `TBS Price Change Summary Report
Weekly
Prepared by pricing
Internal
Prices before tax
Deposit excluded
SAP Article Number,Type of Sale,Manufacturer,Product Name,Pack Type,Pack Volume ML,Package Full Name,Pack Size,Old Price,New Price,Increase/Decrease,B/C/TC,Formula
`

func writeReport(t *testing.T, dir, name string, rows ...string) {
	t.Helper()
	content := preamble + strings.Join(rows, "\n") + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0600))
}

func newContainer(t *testing.T) (*container.Container, *logging.MockLogger) {
	t.Helper()
	logger := logging.NewMockLogger()
	c, err := container.NewContainerWithLogger(config.Default(), logger)
	require.NoError(t, err)
	return c, logger
}

func TestBatchCommand_CommandMetadata(t *testing.T) {
	assert.Equal(t, "batch", Cmd.Use)
	assert.Contains(t, Cmd.Short, "Batch process")
	assert.NotNil(t, Cmd.RunE)
	assert.NotNil(t, Cmd.Flags().Lookup("workers"))
}

func TestBatchCommand_LongDescription(t *testing.T) {
	assert.Contains(t, Cmd.Long, "input directory")
	assert.Contains(t, Cmd.Long, "another directory")
	assert.Contains(t, Cmd.Long, "Example")
}

func TestRun_WritesEveryReport(t *testing.T) {
	inDir, outDir := t.TempDir(), t.TempDir()
	row := "10023,TBS - Retail Price,LABATT,BUDWEISER,Can,355,,30C,51.49,45.99,,C,"
	writeReport(t, inDir, "Report Oct 6, 2025.csv", row)
	writeReport(t, inDir, "Report Oct 13, 2025.csv", row)
	writeReport(t, inDir, "Report Oct 20, 2025.csv", row)
	require.NoError(t, os.WriteFile(filepath.Join(inDir, "notes.txt"), []byte("ignored"), 0600))

	c, _ := newContainer(t)
	report, err := Run(context.Background(), c, Options{InputDir: inDir, OutputDir: outDir, Workers: 2, WriteCSV: true})
	require.NoError(t, err)

	assert.Len(t, report.Outcomes, 3)
	assert.Empty(t, report.Failed)
	for _, date := range []string{"2025-10-06", "2025-10-13", "2025-10-20"} {
		assert.FileExists(t, filepath.Join(outDir, "price_change_email_"+date+".txt"))
		assert.FileExists(t, filepath.Join(outDir, "price_change_email_"+date+"_records.csv"))
	}
}

func TestRun_ContinuesPastFailures(t *testing.T) {
	inDir, outDir := t.TempDir(), t.TempDir()
	row := "10023,TBS - Retail Price,LABATT,BUDWEISER,Can,355,,30C,51.49,45.99,,C,"
	writeReport(t, inDir, "a Oct 6, 2025.csv", row)
	writeReport(t, inDir, "b empty.csv")
	writeReport(t, inDir, "c Oct 6, 2025.csv", row)

	c, logger := newContainer(t)
	report, err := Run(context.Background(), c, Options{InputDir: inDir, OutputDir: outDir, Workers: 3})
	require.NoError(t, err)

	require.Len(t, report.Outcomes, 1)
	assert.Equal(t, "a Oct 6, 2025.csv", filepath.Base(report.Outcomes[0].InputFile))

	require.Len(t, report.Failed, 2)
	assert.Contains(t, report.Failed[filepath.Join(inDir, "c Oct 6, 2025.csv")].Error(), "already written")
	assert.Len(t, logger.GetEntriesByLevel("ERROR"), 2)
}

func TestRun_EmptyDirectory(t *testing.T) {
	c, logger := newContainer(t)
	report, err := Run(context.Background(), c, Options{InputDir: t.TempDir(), OutputDir: t.TempDir(), Workers: 1})
	require.NoError(t, err)
	assert.Empty(t, report.Outcomes)
	assert.True(t, logger.HasEntry("WARN", "No supported files found in input directory"))
}

func TestRun_Cancelled(t *testing.T) {
	inDir := t.TempDir()
	writeReport(t, inDir, "Report Oct 6, 2025.csv", "10023,TBS - Retail Price,LABATT,BUDWEISER,Can,355,,30C,51.49,45.99,,C,")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c, _ := newContainer(t)
	_, err := Run(ctx, c, Options{InputDir: inDir, OutputDir: t.TempDir(), Workers: 1})
	assert.ErrorIs(t, err, context.Canceled)
}
