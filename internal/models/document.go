package models

import "time"

// Metadata accompanies a rendered summary and is consumed by whatever persists it.
type Metadata struct {
	RunID             string         `json:"run_id"`
	Subject           string         `json:"subject"`
	GeneratedAt       time.Time      `json:"generated_at"`
	SourceFile        string         `json:"source_file"`
	EffectiveDate     string         `json:"effective_date"`
	DateExtracted     bool           `json:"date_extracted"`
	CategoryCounts    map[string]int `json:"category_counts"`
	ManufacturerCount int            `json:"manufacturer_count"`
	RecordCount       int            `json:"record_count"`
	RenderedLineCount int            `json:"rendered_line_count"`
	Warnings          []Warning      `json:"warnings"`
}

// RenderedDocument is the final plain-text summary.
type RenderedDocument struct {
	SubjectLine string
	// BodyText is the complete text block, starting with the "Subject:" line.
	BodyText string
	Metadata Metadata
}
