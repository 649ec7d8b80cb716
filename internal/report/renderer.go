// Package report renders the price change summary text and writes its companion
// files (metadata JSON and the classified records CSV).
package report

import (
	"fmt"
	"strings"

	"fjacquet/tbs-price-summary/internal/formatter"
	"fjacquet/tbs-price-summary/internal/logging"
	"fjacquet/tbs-price-summary/internal/models"
	"fjacquet/tbs-price-summary/internal/textutils"

	"github.com/osteele/liquid"
)

// Fixed text of the summary.
const (
	SubjectPrefix  = "TBS Price Change Summary – Effective "
	Greeting       = "Dear Team,"
	HighlightsLine = "Highlights (Price Before Tax and Deposit)"
	NoteLine       = "Note: C = 355mL can, TC = 473mL tall can, B = bottle"

	// DefaultOpeningTemplate is the Liquid template of the opening sentence.
	DefaultOpeningTemplate = "Please find below the TBS price changes effective {{ effective_date }}."
)

// RendererOptions configures a Renderer.
type RendererOptions struct {
	// OpeningTemplate is a Liquid template. Bindings: effective_date,
	// effective_date_iso, record_count and manufacturer_count. The "proper"
	// filter applies PROPER() casing.
	OpeningTemplate string
	Logger          logging.Logger
}

// Renderer turns a Summary into the plain text summary. It is safe for concurrent use.
type Renderer struct {
	opening *liquid.Template
	logger  logging.Logger
}

// NewRenderer parses the opening template once.
func NewRenderer(opts RendererOptions) (*Renderer, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.GetLogger()
	}

	src := opts.OpeningTemplate
	if strings.TrimSpace(src) == "" {
		src = DefaultOpeningTemplate
	}

	engine := liquid.NewEngine()
	engine.RegisterFilter("proper", textutils.ProperCase)

	tpl, err := engine.ParseString(src)
	if err != nil {
		return nil, fmt.Errorf("invalid opening template: %w", err)
	}

	return &Renderer{opening: tpl, logger: logger}, nil
}

// Subject returns the subject line for an effective date.
func Subject(date models.EffectiveDate) string {
	return SubjectPrefix + date.Display()
}

// Render produces the document. Blocks are separated by one blank line and the
// text ends with a single newline. Sections without records are omitted. The
// returned metadata carries the counts; run identity and warnings are left to
// the caller.
func (r *Renderer) Render(summary models.Summary, date models.EffectiveDate) (models.RenderedDocument, error) {
	subject := Subject(date)

	opening, err := r.opening.RenderString(map[string]interface{}{
		"effective_date":     date.Display(),
		"effective_date_iso": date.ISO(),
		"record_count":       summary.RecordCount(),
		"manufacturer_count": len(summary.Groups),
	})
	if err != nil {
		return models.RenderedDocument{}, fmt.Errorf("failed to render opening line: %w", err)
	}

	blocks := []string{
		"Subject: " + subject,
		Greeting,
		strings.TrimSpace(opening),
		HighlightsLine + "\n" + NoteLine,
	}

	lineCount := 0
	for _, g := range summary.Groups {
		lines := []string{g.Name}
		for _, b := range g.Buckets {
			lines = append(lines, b.Category.Header())
			lines = append(lines, formatter.FormatLines(b.Records)...)
			lineCount += len(b.Records)
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}

	for _, section := range []struct {
		category models.Category
		records  []models.ClassifiedRecord
	}{
		{models.CategoryLicenseeChange, summary.Licensee},
		{models.CategoryNewSku, summary.NewSkus},
		{models.CategoryUnclassified, summary.Unclassified},
	} {
		if len(section.records) == 0 {
			continue
		}
		lines := append([]string{section.category.Header()}, formatter.FormatLines(section.records)...)
		blocks = append(blocks, strings.Join(lines, "\n"))
		lineCount += len(section.records)
	}

	body := strings.Join(blocks, "\n\n") + "\n"

	r.logger.Debug("Rendered summary",
		logging.Field{Key: logging.FieldEffectiveDate, Value: date.ISO()},
		logging.Field{Key: "lines", Value: lineCount})

	return models.RenderedDocument{
		SubjectLine: subject,
		BodyText:    body,
		Metadata: models.Metadata{
			Subject:           subject,
			EffectiveDate:     date.ISO(),
			DateExtracted:     date.Extracted,
			CategoryCounts:    summary.CategoryCounts(),
			ManufacturerCount: len(summary.Groups),
			RecordCount:       summary.RecordCount(),
			RenderedLineCount: lineCount,
		},
	}, nil
}
