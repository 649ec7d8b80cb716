// Package classifier assigns each price change record exactly one category from its
// sale type and the ratio of new to old price.
package classifier

import (
	"errors"
	"fmt"

	"fjacquet/tbs-price-summary/internal/currencyutils"
	"fjacquet/tbs-price-summary/internal/logging"
	"fjacquet/tbs-price-summary/internal/models"

	"github.com/shopspring/decimal"
)

var (
	// ErrZeroOldPrice is reported for retail rows whose old price is zero.
	ErrZeroOldPrice = errors.New("old price is zero, percentage undefined")
	// ErrUnknownSaleType is reported for rows whose sale type is not recognised.
	ErrUnknownSaleType = errors.New("unknown sale type")
	// ErrNegativePrice is reported for rows with a negative old or new price.
	ErrNegativePrice = errors.New("negative price")
)

// Default thresholds. A new price between 96% and 104% of the old price,
// both ends inclusive, is a permanent change.
var (
	DefaultPermanentLower = decimal.NewFromInt(96)
	DefaultPermanentUpper = decimal.NewFromInt(104)
	DefaultTolerance      = decimal.RequireFromString("0.01")
)

// PriorPriceLookup returns the price a product carried before its current LTO,
// if one is known.
type PriorPriceLookup interface {
	PriorPrice(key string) (decimal.Decimal, bool)
}

// PriorPriceFunc adapts a function to PriorPriceLookup.
type PriorPriceFunc func(key string) (decimal.Decimal, bool)

// PriorPrice implements PriorPriceLookup.
func (f PriorPriceFunc) PriorPrice(key string) (decimal.Decimal, bool) {
	return f(key)
}

// Classifier holds the thresholds used to categorise records. It has no mutable
// state and is safe for concurrent use as long as its PriorPriceLookup is.
type Classifier struct {
	lower     decimal.Decimal
	upper     decimal.Decimal
	tolerance decimal.Decimal
	prior     PriorPriceLookup
	logger    logging.Logger
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithPermanentBand overrides the inclusive percentage band of permanent changes.
func WithPermanentBand(lower, upper decimal.Decimal) Option {
	return func(c *Classifier) {
		c.lower = lower
		c.upper = upper
	}
}

// WithTolerance sets the money tolerance used for drift and escalation checks.
func WithTolerance(tolerance decimal.Decimal) Option {
	return func(c *Classifier) {
		c.tolerance = tolerance
	}
}

// WithPriorPriceLookup enables End LTO escalation.
func WithPriorPriceLookup(lookup PriorPriceLookup) Option {
	return func(c *Classifier) {
		c.prior = lookup
	}
}

// WithLogger sets the logger.
func WithLogger(logger logging.Logger) Option {
	return func(c *Classifier) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Classifier with the default 96/104 band and a one cent tolerance.
func New(opts ...Option) *Classifier {
	c := &Classifier{
		lower:     DefaultPermanentLower,
		upper:     DefaultPermanentUpper,
		tolerance: DefaultTolerance,
		logger:    logging.GetLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Decide is the category decision table for retail rows. pct is new/old*100.
func Decide(pct, lower, upper decimal.Decimal) models.Category {
	switch {
	case pct.LessThan(lower):
		return models.CategoryBeginLTO
	case pct.GreaterThan(upper):
		return models.CategoryEndLTO
	default:
		return models.CategoryPermanentChange
	}
}

// Classify categorises one record. Problems that leave the record Unclassified,
// and change amount drift, are returned as warnings.
func (c *Classifier) Classify(rec models.PriceChangeRecord) (models.ClassifiedRecord, []models.Warning) {
	out := models.ClassifiedRecord{PriceChangeRecord: rec}
	var warnings []models.Warning

	if rec.OldPrice.IsNegative() || rec.NewPrice.IsNegative() {
		out.Category = models.CategoryUnclassified
		return out, []models.Warning{c.warn(rec, models.WarningNegativePrice,
			fmt.Sprintf("%s: old %s, new %s", ErrNegativePrice,
				rec.OldPrice.StringFixed(2), rec.NewPrice.StringFixed(2)))}
	}

	if !rec.OldPrice.IsZero() {
		out.PercentageOfOldPrice = currencyutils.PercentageOf(rec.NewPrice, rec.OldPrice)
		out.HasPercentage = true
	}

	switch rec.SaleType {
	case models.SaleTypeNewSku:
		out.Category = models.CategoryNewSku
		// New SKUs have no meaningful old price, so drift is not checked.
		return out, nil

	case models.SaleTypeLicensee:
		out.Category = models.CategoryLicenseeChange

	case models.SaleTypeRetailPrice:
		if !out.HasPercentage {
			out.Category = models.CategoryUnclassified
			warnings = append(warnings, c.warn(rec, models.WarningZeroOldPrice, ErrZeroOldPrice.Error()))
			break
		}
		out.Category = Decide(out.PercentageOfOldPrice, c.lower, c.upper)
		if out.Category == models.CategoryEndLTO {
			c.escalate(&out)
		}

	default:
		out.Category = models.CategoryUnclassified
		warnings = append(warnings, c.warn(rec, models.WarningUnknownSaleType,
			fmt.Sprintf("%s: %q", ErrUnknownSaleType, rec.RawSaleType)))
	}

	if rec.HasChangeDrift(c.tolerance) {
		warnings = append(warnings, c.warn(rec, models.WarningChangeAmountDrift,
			fmt.Sprintf("supplied change %s differs from recomputed %s",
				rec.SuppliedChange.StringFixed(2), rec.ChangeAmount().StringFixed(2))))
	}

	c.logger.Debug("Classified record",
		logging.Field{Key: logging.FieldRow, Value: rec.Row},
		logging.Field{Key: logging.FieldProduct, Value: rec.ProductName},
		logging.Field{Key: logging.FieldCategory, Value: out.Category.String()},
		logging.Field{Key: logging.FieldPercentage, Value: out.PercentageOfOldPrice.StringFixed(2)})

	return out, warnings
}

// ClassifyAll classifies records in order and concatenates their warnings.
func (c *Classifier) ClassifyAll(records []models.PriceChangeRecord) ([]models.ClassifiedRecord, []models.Warning) {
	classified := make([]models.ClassifiedRecord, 0, len(records))
	var warnings []models.Warning
	for _, rec := range records {
		cr, w := c.Classify(rec)
		classified = append(classified, cr)
		warnings = append(warnings, w...)
	}
	return classified, warnings
}

// escalate turns an End LTO into End LTO & Permanent Change when the price does not
// return to its pre-LTO level.
func (c *Classifier) escalate(out *models.ClassifiedRecord) {
	if c.prior == nil {
		return
	}
	prior, ok := c.prior.PriorPrice(out.HistoryKey())
	if !ok {
		return
	}
	out.PriorPrice = &prior
	if !currencyutils.WithinTolerance(out.NewPrice, prior, c.tolerance) {
		out.Category = models.CategoryEndLTOAndPermanentChange
	}
}

func (c *Classifier) warn(rec models.PriceChangeRecord, kind models.WarningKind, msg string) models.Warning {
	w := models.Warning{
		Kind:          kind,
		Row:           rec.Row,
		ArticleNumber: rec.ArticleNumber,
		Message:       msg,
	}
	c.logger.Warn("Data quality issue",
		logging.Field{Key: logging.FieldReason, Value: string(kind)},
		logging.Field{Key: logging.FieldRow, Value: rec.Row},
		logging.Field{Key: logging.FieldArticle, Value: rec.ArticleNumber},
		logging.Field{Key: logging.FieldProduct, Value: rec.ProductName})
	return w
}
