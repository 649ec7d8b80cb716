package models

// CategoryBucket holds the records of one category, in input order.
type CategoryBucket struct {
	Category Category
	Records  []ClassifiedRecord
}

// ManufacturerGroup holds one manufacturer's non-empty category buckets, in
// RetailCategoryOrder.
type ManufacturerGroup struct {
	Name    string
	Buckets []CategoryBucket
}

// RecordCount returns the number of records across all buckets.
func (g ManufacturerGroup) RecordCount() int {
	n := 0
	for _, b := range g.Buckets {
		n += len(b.Records)
	}
	return n
}

// Summary is the grouped form of a classified report.
type Summary struct {
	Groups       []ManufacturerGroup
	Licensee     []ClassifiedRecord
	NewSkus      []ClassifiedRecord
	Unclassified []ClassifiedRecord
}

// RecordCount returns the number of records in the summary.
func (s Summary) RecordCount() int {
	n := len(s.Licensee) + len(s.NewSkus) + len(s.Unclassified)
	for _, g := range s.Groups {
		n += g.RecordCount()
	}
	return n
}

// CategoryCounts returns the number of records per category identifier. Every
// category is present, with zero when empty.
func (s Summary) CategoryCounts() map[string]int {
	counts := make(map[string]int, len(AllCategories))
	for _, c := range AllCategories {
		counts[c.String()] = 0
	}
	for _, g := range s.Groups {
		for _, b := range g.Buckets {
			counts[b.Category.String()] += len(b.Records)
		}
	}
	counts[CategoryLicenseeChange.String()] += len(s.Licensee)
	counts[CategoryNewSku.String()] += len(s.NewSkus)
	counts[CategoryUnclassified.String()] += len(s.Unclassified)
	return counts
}

// IsEmpty reports whether the summary holds no records.
func (s Summary) IsEmpty() bool {
	return s.RecordCount() == 0
}
