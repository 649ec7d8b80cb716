package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"fjacquet/tbs-price-summary/internal/models"
	"fjacquet/tbs-price-summary/internal/report"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeConfig_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := InitializeConfig("")
	require.NoError(t, err)

	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, 6, cfg.Input.SkipRows)
	assert.Equal(t, []string{"LABATT", "MOLSON", "SLEEMAN"}, cfg.Manufacturers.Priority)
	assert.Equal(t, UnlistedAlphabetical, cfg.Manufacturers.UnlistedOrder)
	assert.Equal(t, report.DefaultOpeningTemplate, cfg.Document.OpeningTemplate)
	assert.Equal(t, 4, cfg.Batch.Workers)

	lower, upper := cfg.PermanentBand()
	assert.True(t, lower.Equal(decimal.NewFromInt(96)))
	assert.True(t, upper.Equal(decimal.NewFromInt(104)))
	assert.True(t, cfg.ToleranceDecimal().Equal(decimal.RequireFromString("0.01")))
}

func TestInitializeConfig_DefaultOpeningTemplateRenders(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := InitializeConfig("")
	require.NoError(t, err)

	r, err := report.NewRenderer(report.RendererOptions{OpeningTemplate: cfg.Document.OpeningTemplate})
	require.NoError(t, err)

	date := models.NewEffectiveDate(time.Date(2025, time.October, 13, 0, 0, 0, 0, time.UTC), true)
	doc, err := r.Render(models.Summary{}, date)
	require.NoError(t, err)
	assert.Contains(t, doc.BodyText, "Please find below the TBS price changes effective October 13, 2025.")
}

func TestInitializeConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
log:
  level: debug
manufacturers:
  priority: [LABATT, MOLSON]
  unlisted_order: first_seen
history:
  file: history.yaml
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	t.Setenv("TBS_OUTPUT_DIRECTORY", "/tmp/out")

	cfg, err := InitializeConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, []string{"LABATT", "MOLSON"}, cfg.Manufacturers.Priority)
	assert.Equal(t, UnlistedFirstSeen, cfg.Manufacturers.UnlistedOrder)
	assert.Equal(t, "history.yaml", cfg.History.File)
	assert.Equal(t, "/tmp/out", cfg.Output.Directory)
}

func TestInitializeConfig_MissingExplicitFile(t *testing.T) {
	_, err := InitializeConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults are valid", func(*Config) {}, ""},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "invalid log level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "invalid log format"},
		{"negative skip", func(c *Config) { c.Input.SkipRows = -1 }, "skip_rows"},
		{"unknown unlisted order", func(c *Config) { c.Manufacturers.UnlistedOrder = "random" }, "unlisted_order"},
		{"other without label", func(c *Config) {
			c.Manufacturers.UnlistedOrder = UnlistedOther
			c.Manufacturers.OtherLabel = " "
		}, "other_label"},
		{"inverted band", func(c *Config) { c.Classification.PermanentLower = 105 }, "classification band"},
		{"empty template", func(c *Config) { c.Document.OpeningTemplate = "" }, "opening_template"},
		{"too many workers", func(c *Config) { c.Batch.Workers = 100 }, "batch.workers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := validateConfig(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfigureLoggingFromConfig(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "debug"
	cfg.Log.Format = "json"

	logger := ConfigureLoggingFromConfig(cfg)
	assert.Equal(t, logrus.DebugLevel, logger.Level)
	_, ok := logger.Formatter.(*logrus.JSONFormatter)
	assert.True(t, ok)
}

func TestGetEnv(t *testing.T) {
	t.Setenv("TBS_TEST_VALUE", "set")
	assert.Equal(t, "set", GetEnv("TBS_TEST_VALUE", "fallback"))
	assert.Equal(t, "fallback", GetEnv("TBS_TEST_UNSET_VALUE", "fallback"))
}

// chdir changes the working directory for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
