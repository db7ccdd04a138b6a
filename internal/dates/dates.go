// Package dates provides civil-day arithmetic for attendance windows:
// midnight-normalized days, inclusive day intervals, and the resolver for
// relative phrases like "today" or "from 4th March to 10th March".
package dates

import (
	"fmt"
	"strings"
	"time"
)

// DayStart truncates t to midnight in its own location.
func DayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DayEnd returns the last representable instant of t's day.
func DayEnd(t time.Time) time.Time {
	return DayStart(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Interval is an inclusive range of calendar days. Start and End are
// midnight-normalized; End never precedes Start.
type Interval struct {
	Start time.Time
	End   time.Time
}

// NewInterval normalizes start/end to midnight and orders them.
func NewInterval(start, end time.Time) Interval {
	s, e := DayStart(start), DayStart(end)
	if e.Before(s) {
		s, e = e, s
	}
	return Interval{Start: s, End: e}
}

// SingleDay is the one-day interval containing t.
func SingleDay(t time.Time) Interval {
	d := DayStart(t)
	return Interval{Start: d, End: d}
}

// Overlaps implements the closed-interval test:
// i.Start <= o.End AND i.End >= o.Start.
func (i Interval) Overlaps(o Interval) bool {
	return !i.Start.After(o.End) && !i.End.Before(o.Start)
}

// Intersect clamps i to o. ok is false when they do not overlap.
func (i Interval) Intersect(o Interval) (Interval, bool) {
	if !i.Overlaps(o) {
		return Interval{}, false
	}
	out := i
	if o.Start.After(out.Start) {
		out.Start = o.Start
	}
	if o.End.Before(out.End) {
		out.End = o.End
	}
	return out, true
}

// Days returns the number of calendar days covered, at least 1.
func (i Interval) Days() int {
	return int((i.End.Sub(i.Start)+12*time.Hour)/(24*time.Hour)) + 1
}

// DayIndex returns the zero-based offset of day t from i.Start. Index 0 is
// always the interval's own start day, not a fixed calendar anchor.
// Rounding absorbs the 23/25-hour days around DST transitions.
func (i Interval) DayIndex(t time.Time) int {
	return int((DayStart(t).Sub(i.Start) + 12*time.Hour) / (24 * time.Hour))
}

// Contains reports whether day t falls inside the interval.
func (i Interval) Contains(t time.Time) bool {
	d := DayStart(t)
	return !d.Before(i.Start) && !d.After(i.End)
}

// FormatDay renders a day as "Mar 4".
func FormatDay(t time.Time) string {
	return t.Format("Jan 2")
}

// Format renders the interval as "Mar 4 to Mar 6", collapsing single days.
func (i Interval) Format() string {
	if SameDay(i.Start, i.End) {
		return FormatDay(i.Start)
	}
	return fmt.Sprintf("%s to %s", FormatDay(i.Start), FormatDay(i.End))
}

// WorkWeek returns Monday through Friday of the week containing now.
func WorkWeek(now time.Time) Interval {
	day := DayStart(now)
	offset := int(day.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7 // Sunday belongs to the week that just ended
	}
	monday := day.AddDate(0, 0, -offset)
	return Interval{Start: monday, End: monday.AddDate(0, 0, 4)}
}

// MonthOf returns the full calendar month containing now.
func MonthOf(now time.Time) Interval {
	y, m, _ := now.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, now.Location())
	return Interval{Start: first, End: first.AddDate(0, 1, -1)}
}

var ordinalReplacer = strings.NewReplacer("st", "", "nd", "", "rd", "", "th", "")

// ParseDayMonth parses strings like "4 March", "4th Mar" or "21st March"
// into a day of the given year.
func ParseDayMonth(s string, year int) (time.Time, error) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) != 2 {
		return time.Time{}, fmt.Errorf("invalid day-month %q", s)
	}
	day := ordinalReplacer.Replace(strings.ToLower(fields[0]))
	month := strings.ToLower(fields[1])
	month = strings.ToUpper(month[:1]) + month[1:]

	for _, layout := range []string{"2 January 2006", "2 Jan 2006"} {
		if t, err := time.Parse(layout, fmt.Sprintf("%s %s %d", day, month, year)); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid day-month %q", s)
}
