// Package category defines the closed set of attendance categories and the
// single source of truth for their display titles, calendar glyphs and the
// precedence used when several categories cover the same user-day.
package category

import "strings"

type Category string

const (
	WFH           Category = "WFH"
	FullDayLeave  Category = "FULL_DAY_LEAVE"
	HalfDayLeave  Category = "HALF_DAY_LEAVE"
	LateToOffice  Category = "LATE_TO_OFFICE"
	LeavingEarly  Category = "LEAVING_EARLY"
	OOO           Category = "OOO"
	MultiDayLeave Category = "MULTI_DAY_LEAVE"
	Other         Category = "OTHER"

	// InOffice is the implicit default for a day with no covering record.
	// It is never stored.
	InOffice Category = "IN_OFFICE"
)

// All lists every storable category.
var All = []Category{
	WFH, FullDayLeave, HalfDayLeave, LateToOffice, LeavingEarly, OOO, MultiDayLeave, Other,
}

// ReportOrder is the section order of the list report: leave categories
// first, then WFH and OOO, multi-day leave last.
var ReportOrder = []Category{
	FullDayLeave, HalfDayLeave, WFH, OOO, MultiDayLeave,
}

// Parse maps a raw label (e.g. a classifier reply) to a Category.
// Unknown labels report ok=false; callers degrade to Other.
func Parse(raw string) (Category, bool) {
	c := Category(strings.ToUpper(strings.TrimSpace(raw)))
	for _, known := range All {
		if c == known {
			return c, true
		}
	}
	return Other, false
}

func (c Category) Valid() bool {
	for _, known := range All {
		if c == known {
			return true
		}
	}
	return false
}

// priority is a total order over categories covering the same day.
// Higher wins. Leave categories beat WFH/OOO, which beat late/early,
// which beat the implicit in-office default. The exact order within a
// tier is fixed here so that calendar rendering stays deterministic.
var priority = map[Category]int{
	MultiDayLeave: 80,
	FullDayLeave:  70,
	HalfDayLeave:  60,
	WFH:           50,
	OOO:           40,
	LateToOffice:  30,
	LeavingEarly:  20,
	Other:         10,
	InOffice:      0,
}

// Priority returns the category's rank in the day-conflict order.
func (c Category) Priority() int {
	return priority[c]
}

// Supersedes reports whether c wins over o for a contested day.
func (c Category) Supersedes(o Category) bool {
	return priority[c] > priority[o]
}

var titles = map[Category]string{
	WFH:           "Working From Home",
	FullDayLeave:  "Full Day Leaves",
	HalfDayLeave:  "Half Day Leaves",
	LateToOffice:  "Late Arrivals",
	LeavingEarly:  "Early Departures",
	OOO:           "Out of Office",
	MultiDayLeave: "Multi-Day Leaves",
	Other:         "Other",
	InOffice:      "In Office",
}

// Title returns the human-readable section title for reports.
func (c Category) Title() string {
	if t, ok := titles[c]; ok {
		return t
	}
	return string(c)
}

var glyphs = map[Category]string{
	WFH:           "🏠",
	FullDayLeave:  "❌",
	HalfDayLeave:  "🕒",
	LateToOffice:  "🕘",
	LeavingEarly:  "🏃",
	OOO:           "🌐",
	MultiDayLeave: "❌",
	Other:         "✅",
	InOffice:      "✅",
}

// Glyph returns the calendar cell marker for the category.
func (c Category) Glyph() string {
	if g, ok := glyphs[c]; ok {
		return g
	}
	return "✅"
}
