package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Akshit-Devx/attendance-bot/internal/attendance"
	"github.com/Akshit-Devx/attendance-bot/internal/category"
	"github.com/Akshit-Devx/attendance-bot/internal/dates"
)

// Grid renders the weekly calendar: one row per user, one column per day of
// the window, each cell a status glyph. Users with no records in the window
// never appear, since aggregation only yields users with covering records.
func Grid(merged map[string]*attendance.MergedStatus, window dates.Interval) string {
	if len(merged) == 0 {
		return fmt.Sprintf("No attendance records found for %s to %s.",
			window.Start.Format("2006-01-02"), window.End.Format("2006-01-02"))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*Weekly Attendance Calendar (%s to %s)*\n\n",
		window.Start.Format("2006-01-02"), window.End.Format("2006-01-02"))

	header := append([]string{"User"}, dayLabels(window)...)
	headerRow := strings.Join(header, " | ")
	b.WriteString(headerRow + "\n")
	b.WriteString(strings.Repeat("-", len(headerRow)) + "\n")

	for _, ms := range sortedStatuses(merged) {
		cells := make([]string, len(ms.Days))
		for i, d := range ms.Days {
			cells[i] = d.Glyph()
		}
		fmt.Fprintf(&b, "%s | %s\n", ms.UserName, strings.Join(cells, " | "))
	}

	b.WriteString("\n*Legend:*\n")
	for _, l := range legend {
		fmt.Fprintf(&b, "• %s - %s\n", l.Glyph(), legendTitle(l))
	}
	return b.String()
}

// legend lists the glyphs a grid cell can show. MULTI_DAY_LEAVE shares the
// full-day glyph, so one line covers both.
var legend = []category.Category{
	category.WFH,
	category.FullDayLeave,
	category.HalfDayLeave,
	category.LateToOffice,
	category.LeavingEarly,
	category.OOO,
	category.InOffice,
}

func legendTitle(c category.Category) string {
	if c == category.FullDayLeave {
		return "On Leave (Full or Multi-Day)"
	}
	return c.Title()
}

func dayLabels(window dates.Interval) []string {
	labels := make([]string, 0, window.Days())
	for d := window.Start; !d.After(window.End); d = d.AddDate(0, 0, 1) {
		labels = append(labels, d.Format("Mon 2"))
	}
	return labels
}

func sortedStatuses(merged map[string]*attendance.MergedStatus) []*attendance.MergedStatus {
	out := make([]*attendance.MergedStatus, 0, len(merged))
	for _, ms := range merged {
		out = append(out, ms)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UserName != out[j].UserName {
			return out[i].UserName < out[j].UserName
		}
		return out[i].UserID < out[j].UserID
	})
	return out
}
