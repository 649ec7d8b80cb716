package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"fjacquet/tbs-price-summary/internal/fileutils"
	"fjacquet/tbs-price-summary/internal/logging"
	"fjacquet/tbs-price-summary/internal/models"
)

// File name prefix of every output written for a run.
const OutputPrefix = "price_change_email_"

// OutputPaths are the files written for one summary.
type OutputPaths struct {
	Text     string
	Metadata string
	CSV      string
}

// PathsFor returns the output file names for an effective date under dir.
func PathsFor(dir string, date string) OutputPaths {
	base := filepath.Join(dir, OutputPrefix+date)
	return OutputPaths{
		Text:     base + ".txt",
		Metadata: base + "_metadata.json",
		CSV:      base + "_records.csv",
	}
}

// MarshalMetadata renders metadata as indented JSON.
func MarshalMetadata(meta models.Metadata) ([]byte, error) {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteDocument writes the summary text and its metadata to dir, creating it if
// needed. The classified CSV is written separately by WriteClassifiedCSV.
func WriteDocument(dir string, doc models.RenderedDocument, logger logging.Logger) (OutputPaths, error) {
	if logger == nil {
		logger = logging.GetLogger()
	}
	paths := PathsFor(dir, doc.Metadata.EffectiveDate)

	if err := fileutils.EnsureDirectoryExists(dir); err != nil {
		return paths, err
	}

	if err := os.WriteFile(paths.Text, []byte(doc.BodyText), fileutils.FilePermission); err != nil {
		return paths, fmt.Errorf("failed to write summary text: %w", err)
	}

	meta, err := MarshalMetadata(doc.Metadata)
	if err != nil {
		return paths, err
	}
	if err := os.WriteFile(paths.Metadata, meta, fileutils.FilePermission); err != nil {
		return paths, fmt.Errorf("failed to write metadata: %w", err)
	}

	logger.Info("Wrote price change summary",
		logging.Field{Key: logging.FieldOutputFile, Value: paths.Text},
		logging.Field{Key: "metadata_file", Value: paths.Metadata},
		logging.Field{Key: logging.FieldRunID, Value: doc.Metadata.RunID})

	return paths, nil
}
