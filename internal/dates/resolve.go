package dates

import (
	"regexp"
	"strings"
	"time"
)

// ResolvedRange is a relative phrase resolved against a reference time.
type ResolvedRange struct {
	Interval Interval
	Label    string
}

var explicitRangeRe = regexp.MustCompile(`from\s+(\d{1,2}(?:st|nd|rd|th)?\s+[a-z]+)\s+to\s+(\d{1,2}(?:st|nd|rd|th)?\s+[a-z]+)`)

// ResolveRelativePhrase maps free text to a day range relative to now.
// Supported: "today", "tomorrow", "yesterday", "this week", and the explicit
// pattern "from <day> <month> to <day> <month>" (current year assumed,
// ordinal suffixes stripped). ok is false when nothing matches.
func ResolveRelativePhrase(text string, now time.Time) (ResolvedRange, bool) {
	lower := strings.ToLower(text)

	switch {
	case strings.Contains(lower, "today"):
		return ResolvedRange{Interval: SingleDay(now), Label: "for Today"}, true
	case strings.Contains(lower, "tomorrow"):
		return ResolvedRange{Interval: SingleDay(now.AddDate(0, 0, 1)), Label: "for Tomorrow"}, true
	case strings.Contains(lower, "yesterday"):
		return ResolvedRange{Interval: SingleDay(now.AddDate(0, 0, -1)), Label: "for Yesterday"}, true
	case strings.Contains(lower, "this week"):
		return ResolvedRange{Interval: WorkWeek(now), Label: "for this week"}, true
	}

	m := explicitRangeRe.FindStringSubmatch(lower)
	if m == nil {
		return ResolvedRange{}, false
	}

	year := now.Year()
	start, err := ParseDayMonth(m[1], year)
	if err != nil {
		return ResolvedRange{}, false
	}
	end, err := ParseDayMonth(m[2], year)
	if err != nil {
		return ResolvedRange{}, false
	}

	// Rebuild the parsed days in the caller's location so day boundaries
	// line up with the rest of the window arithmetic.
	loc := now.Location()
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
	end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, loc)

	return ResolvedRange{
		Interval: NewInterval(start, end),
		Label:    "from " + m[1] + " to " + m[2],
	}, true
}
