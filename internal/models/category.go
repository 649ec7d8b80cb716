package models

// Category is the classification assigned to a price change record.
type Category int

const (
	CategoryUnclassified Category = iota
	CategoryBeginLTO
	CategoryEndLTO
	CategoryEndLTOAndPermanentChange
	CategoryPermanentChange
	CategoryNewSku
	CategoryLicenseeChange
)

// RetailCategoryOrder is the order categories appear in within a manufacturer block.
var RetailCategoryOrder = []Category{
	CategoryBeginLTO,
	CategoryEndLTO,
	CategoryEndLTOAndPermanentChange,
	CategoryPermanentChange,
}

// AllCategories lists every category, in reporting order.
var AllCategories = []Category{
	CategoryBeginLTO,
	CategoryEndLTO,
	CategoryEndLTOAndPermanentChange,
	CategoryPermanentChange,
	CategoryLicenseeChange,
	CategoryNewSku,
	CategoryUnclassified,
}

// String returns the identifier used in metadata and logs.
func (c Category) String() string {
	switch c {
	case CategoryBeginLTO:
		return "begin_lto"
	case CategoryEndLTO:
		return "end_lto"
	case CategoryEndLTOAndPermanentChange:
		return "end_lto_and_permanent_change"
	case CategoryPermanentChange:
		return "permanent_change"
	case CategoryNewSku:
		return "new_sku"
	case CategoryLicenseeChange:
		return "licensee_change"
	default:
		return "unclassified"
	}
}

// Header returns the section header rendered for the category.
func (c Category) Header() string {
	switch c {
	case CategoryBeginLTO:
		return "Begin LTO"
	case CategoryEndLTO:
		return "End LTO"
	case CategoryEndLTOAndPermanentChange:
		return "End LTO & Permanent Change"
	case CategoryPermanentChange:
		return "Permanent Changes"
	case CategoryNewSku:
		return "NEW SKUs"
	case CategoryLicenseeChange:
		return "LICENSEE CHANGES"
	default:
		return "UNCLASSIFIED"
	}
}

// IsRetail reports whether the category is grouped under a manufacturer.
func (c Category) IsRetail() bool {
	switch c {
	case CategoryBeginLTO, CategoryEndLTO, CategoryEndLTOAndPermanentChange, CategoryPermanentChange:
		return true
	default:
		return false
	}
}
