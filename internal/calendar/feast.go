package calendar

import (
	"sort"

	"cloud.google.com/go/civil"
)

// Kind tells whether a feast sits on a fixed native date or moves with an anchor.
type Kind string

const (
	KindFixed   Kind = "fixed"
	KindMovable Kind = "movable"
)

// Category ranks a feast for display.
type Category string

const (
	CategoryMajor Category = "major"
	CategoryMinor Category = "minor"
	CategoryFast  Category = "fast"
)

// YearContext describes the shape of one year in a calendar system.
type YearContext struct {
	System       CalendarSystem `json:"system"`
	Year         int            `json:"year"`
	Leap         bool           `json:"leap"`
	MonthCount   int            `json:"month_count"`
	MonthLengths []int          `json:"month_lengths"`
}

// DaysInYear sums the month lengths.
func (yc YearContext) DaysInYear() int {
	total := 0
	for _, n := range yc.MonthLengths {
		total += n
	}
	return total
}

// FeastDefinition is a movable feast: a label key and a day offset from the
// tradition's anchor (Easter Sunday for the Christian traditions).
type FeastDefinition struct {
	NameKey  string
	Offset   int
	Category Category
}

// FixedFeast is a feast kept on the same native calendar date every year.
//
// Month is the civil month number for Gregorian and Coptic feasts. For Hebrew
// feasts it holds a HebrewMonth so the table does not depend on the year type.
type FixedFeast struct {
	NameKey  string
	Calendar CalendarSystem
	Month    int
	Day      int
	Category Category

	// Julian marks a Western or Eastern feast whose Month and Day are in the
	// Julian calendar. It is moved onto the Gregorian grid with the
	// registry's Julian offset, falling in the requested Gregorian year.
	Julian bool
}

// FeastInstance is a feast resolved to a Gregorian date for one year.
type FeastInstance struct {
	NameKey  string         `json:"name_key"`
	Date     civil.Date     `json:"date"`
	Calendar CalendarSystem `json:"calendar"`
	Kind     Kind           `json:"kind"`
	Category Category       `json:"category"`

	// Offset is the distance from the anchor; nil for fixed feasts.
	Offset *int `json:"offset,omitempty"`

	// NativeMonth and NativeDay are the date in the source calendar for fixed
	// feasts (civil month order for Hebrew).
	NativeMonth int `json:"native_month,omitempty"`
	NativeDay   int `json:"native_day,omitempty"`
}

// DeriveMovableFeasts resolves each definition against the anchor. The result
// is ordered by ascending offset; definitions with equal offsets keep their
// table order. An offset of 0 yields the anchor itself.
func DeriveMovableFeasts(anchor civil.Date, table []FeastDefinition) []FeastInstance {
	defs := make([]FeastDefinition, len(table))
	copy(defs, table)
	sort.SliceStable(defs, func(i, j int) bool {
		return defs[i].Offset < defs[j].Offset
	})

	instances := make([]FeastInstance, 0, len(defs))
	for _, def := range defs {
		offset := def.Offset
		instances = append(instances, FeastInstance{
			NameKey:  def.NameKey,
			Date:     AddDays(anchor, offset),
			Kind:     KindMovable,
			Category: def.Category,
			Offset:   &offset,
		})
	}
	return instances
}

// SortByDate orders instances chronologically, keeping the existing order
// for feasts that share a date.
func SortByDate(instances []FeastInstance) {
	sort.SliceStable(instances, func(i, j int) bool {
		return instances[i].Date.Before(instances[j].Date)
	})
}
