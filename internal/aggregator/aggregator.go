// Package aggregator groups classified records by manufacturer and category in a
// stable, configurable order.
package aggregator

import (
	"fmt"
	"sort"
	"strings"

	"fjacquet/tbs-price-summary/internal/logging"
	"fjacquet/tbs-price-summary/internal/models"
	"fjacquet/tbs-price-summary/internal/textutils"
)

// UnlistedOrder decides where manufacturers missing from the priority list go.
type UnlistedOrder string

const (
	// UnlistedAlphabetical sorts unlisted manufacturers by name after the priority list.
	UnlistedAlphabetical UnlistedOrder = "alphabetical"
	// UnlistedFirstSeen keeps unlisted manufacturers in the order they first appear.
	UnlistedFirstSeen UnlistedOrder = "first_seen"
	// UnlistedOther merges all unlisted manufacturers into a single group.
	UnlistedOther UnlistedOrder = "other"
)

// DefaultOtherLabel names the merged group for UnlistedOther, and the group of
// records without a manufacturer.
const DefaultOtherLabel = "OTHER"

// DefaultPriority is the fixed manufacturer order of the summary.
var DefaultPriority = []string{"LABATT", "MOLSON", "SLEEMAN"}

// ManufacturerOrder configures the manufacturer ordering.
type ManufacturerOrder struct {
	Priority   []string
	Unlisted   UnlistedOrder
	OtherLabel string
}

// DefaultManufacturerOrder returns LABATT, MOLSON, SLEEMAN followed by the other
// manufacturers alphabetically.
func DefaultManufacturerOrder() ManufacturerOrder {
	return ManufacturerOrder{
		Priority:   append([]string(nil), DefaultPriority...),
		Unlisted:   UnlistedAlphabetical,
		OtherLabel: DefaultOtherLabel,
	}
}

// Validate checks the unlisted policy.
func (o ManufacturerOrder) Validate() error {
	switch o.Unlisted {
	case UnlistedAlphabetical, UnlistedFirstSeen, UnlistedOther:
		return nil
	default:
		return fmt.Errorf("unknown unlisted manufacturer order %q", o.Unlisted)
	}
}

// Aggregator builds a models.Summary from classified records.
type Aggregator struct {
	order  ManufacturerOrder
	rank   map[string]int
	logger logging.Logger
}

// New creates an Aggregator. An invalid unlisted policy falls back to alphabetical.
func New(order ManufacturerOrder, logger logging.Logger) *Aggregator {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if err := order.Validate(); err != nil {
		logger.WithError(err).Warn("Falling back to alphabetical manufacturer order")
		order.Unlisted = UnlistedAlphabetical
	}
	if strings.TrimSpace(order.OtherLabel) == "" {
		order.OtherLabel = DefaultOtherLabel
	}

	rank := make(map[string]int, len(order.Priority))
	for i, name := range order.Priority {
		key := manufacturerKey(name)
		if _, dup := rank[key]; !dup {
			rank[key] = i
		}
	}

	return &Aggregator{order: order, rank: rank, logger: logger}
}

// group accumulates one manufacturer's records while scanning the input.
type group struct {
	key       string
	name      string
	firstSeen int
	buckets   map[models.Category][]models.ClassifiedRecord
}

// Aggregate partitions records by manufacturer, then by category. Within a bucket
// records keep their input order. Licensee, New SKU and Unclassified records are
// listed separately and are not grouped by manufacturer.
func (a *Aggregator) Aggregate(records []models.ClassifiedRecord) models.Summary {
	var summary models.Summary
	groups := make(map[string]*group)
	var seen []*group

	for _, rec := range records {
		switch {
		case rec.Category == models.CategoryLicenseeChange:
			summary.Licensee = append(summary.Licensee, rec)
			continue
		case rec.Category == models.CategoryNewSku:
			summary.NewSkus = append(summary.NewSkus, rec)
			continue
		case !rec.Category.IsRetail():
			summary.Unclassified = append(summary.Unclassified, rec)
			continue
		}

		key, name := a.groupFor(rec.Manufacturer)
		g, ok := groups[key]
		if !ok {
			g = &group{
				key:       key,
				name:      name,
				firstSeen: len(seen),
				buckets:   make(map[models.Category][]models.ClassifiedRecord),
			}
			groups[key] = g
			seen = append(seen, g)
		}
		g.buckets[rec.Category] = append(g.buckets[rec.Category], rec)
	}

	sort.SliceStable(seen, func(i, j int) bool { return a.less(seen[i], seen[j]) })

	for _, g := range seen {
		mg := models.ManufacturerGroup{Name: g.name}
		for _, c := range models.RetailCategoryOrder {
			if recs := g.buckets[c]; len(recs) > 0 {
				mg.Buckets = append(mg.Buckets, models.CategoryBucket{Category: c, Records: recs})
			}
		}
		summary.Groups = append(summary.Groups, mg)
	}

	a.logger.Info("Aggregated price changes",
		logging.Field{Key: "manufacturers", Value: len(summary.Groups)},
		logging.Field{Key: "licensee", Value: len(summary.Licensee)},
		logging.Field{Key: "new_skus", Value: len(summary.NewSkus)},
		logging.Field{Key: "unclassified", Value: len(summary.Unclassified)},
		logging.Field{Key: logging.FieldCount, Value: summary.RecordCount()})

	return summary
}

// groupFor returns the grouping key and display name of a manufacturer.
func (a *Aggregator) groupFor(manufacturer string) (string, string) {
	name := textutils.CollapseWhitespace(manufacturer)
	key := manufacturerKey(name)
	if key == "" {
		return manufacturerKey(a.order.OtherLabel), a.order.OtherLabel
	}
	if _, listed := a.rank[key]; !listed && a.order.Unlisted == UnlistedOther {
		return manufacturerKey(a.order.OtherLabel), a.order.OtherLabel
	}
	return key, name
}

// less orders priority manufacturers first, then unlisted ones per policy. The
// merged OTHER group always comes last.
func (a *Aggregator) less(x, y *group) bool {
	rx, xListed := a.rank[x.key]
	ry, yListed := a.rank[y.key]

	switch {
	case xListed && yListed:
		return rx < ry
	case xListed != yListed:
		return xListed
	}

	otherKey := manufacturerKey(a.order.OtherLabel)
	if (x.key == otherKey) != (y.key == otherKey) {
		return y.key == otherKey
	}

	if a.order.Unlisted == UnlistedAlphabetical && x.key != y.key {
		return x.key < y.key
	}
	return x.firstSeen < y.firstSeen
}

func manufacturerKey(name string) string {
	return strings.ToUpper(textutils.CollapseWhitespace(name))
}
