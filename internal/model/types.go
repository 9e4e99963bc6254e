package model

import "time"

// Category is the brew-type classification of a bean, used for
// per-type breakdowns in statistics.
type Category string

const (
	CategoryEspresso Category = "espresso"
	CategoryFilter   Category = "filter"
	CategoryOmni     Category = "omni"
	CategoryOther    Category = "other"
)

// Categories lists every known category in display order.
var Categories = []Category{CategoryEspresso, CategoryFilter, CategoryOmni, CategoryOther}

// BeanState tells whether a bean is green (to be roasted) or roasted.
type BeanState string

const (
	BeanStateGreen   BeanState = "green"
	BeanStateRoasted BeanState = "roasted"
)

// RecordSource identifies what kind of journal event a record is.
type RecordSource string

const (
	// SourceBrew is a regular brew with a free-form dose field.
	SourceBrew RecordSource = "brew"
	// SourceQuickDecrement is a one-tap stock decrement with an
	// explicit gram amount.
	SourceQuickDecrement RecordSource = "quick_decrement"
	// SourceCapacityAdjustment is a stock correction. It never counts
	// as consumption.
	SourceCapacityAdjustment RecordSource = "capacity_adjustment"
	// SourceRoasting records green beans roasted into a new bag.
	SourceRoasting RecordSource = "roasting"
)

type Bean struct {
	ID         string
	Name       string
	Category   Category
	State      BeanState
	CapacityG  float64
	RemainingG float64
	// Price is the price paid for the whole bag; per-gram cost is
	// Price / CapacityG.
	Price     float64
	RoastDate string
	StartDay  int
	EndDay    int
	IsFrozen  bool
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Record struct {
	ID     string
	Source RecordSource
	BeanID string
	// Dose is the free-form dose field of a brew ("15g", "18±0.2g",
	// "two scoops"); AmountG carries the explicit gram amount of
	// quick-decrement, roasting, and capacity-adjustment records.
	Dose    string
	AmountG float64
	Method  string
	Rating  int
	Notes   string
	// BeanName is joined in from the linked bean for display; empty
	// when the record is unlinked or the bean was deleted.
	BeanName  string
	BrewedAt  time.Time
	CreatedAt time.Time
}

// ParseCategory maps a user-supplied string onto a Category.
func ParseCategory(s string) (Category, bool) {
	switch Category(s) {
	case CategoryEspresso, CategoryFilter, CategoryOmni, CategoryOther:
		return Category(s), true
	}
	return "", false
}

// ParseBeanState maps a user-supplied string onto a BeanState.
func ParseBeanState(s string) (BeanState, bool) {
	switch BeanState(s) {
	case BeanStateGreen, BeanStateRoasted:
		return BeanState(s), true
	}
	return "", false
}
