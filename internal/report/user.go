package report

import (
	"fmt"
	"strings"

	"github.com/Akshit-Devx/attendance-bot/internal/attendance"
	"github.com/Akshit-Devx/attendance-bot/internal/category"
	"github.com/Akshit-Devx/attendance-bot/internal/store"
)

// maxRecentLeaves caps the leave periods shown in the stats report.
const maxRecentLeaves = 5

// UserStats renders per-category occurrence counts over a user's recent
// records, plus their most recent multi-day leave periods.
func UserStats(userName string, recs []*store.EventRecord) string {
	counts := map[category.Category]int{}
	var leaves []*store.EventRecord
	for _, rec := range recs {
		counts[rec.Category]++
		if rec.Category == category.MultiDayLeave && rec.HasLeaveInterval() {
			leaves = append(leaves, rec)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*Attendance Stats for %s*\n\n", userName)
	fmt.Fprintf(&b, "• *WFH:* %d days\n", counts[category.WFH])
	fmt.Fprintf(&b, "• *Full Day Leaves:* %d days\n", counts[category.FullDayLeave])
	fmt.Fprintf(&b, "• *Half Day Leaves:* %d days\n", counts[category.HalfDayLeave])
	fmt.Fprintf(&b, "• *Late Arrivals:* %d times\n", counts[category.LateToOffice])
	fmt.Fprintf(&b, "• *Early Departures:* %d times\n", counts[category.LeavingEarly])
	fmt.Fprintf(&b, "• *Out of Office:* %d days\n", counts[category.OOO])
	fmt.Fprintf(&b, "• *Multi-Day Leaves:* %d instances\n", counts[category.MultiDayLeave])

	if len(leaves) > 0 {
		b.WriteString("\n*Recent Multi-Day Leave Periods:*\n")
		if len(leaves) > maxRecentLeaves {
			leaves = leaves[:maxRecentLeaves]
		}
		for _, rec := range leaves {
			fmt.Fprintf(&b, "• %s\n", rec.EffectiveInterval().Format())
		}
	}
	return b.String()
}

// UserRange renders one user's reconciled records for a window. ms may be
// nil when the aggregation found nothing for the user.
func UserRange(ms *attendance.MergedStatus, userName, rangeLabel string) string {
	header := fmt.Sprintf("*Attendance Report for %s - %s*\n\n", userName, rangeLabel)
	if ms == nil || len(ms.Winners) == 0 {
		return header + "No attendance records found for this date range."
	}

	var b strings.Builder
	b.WriteString(header)
	for _, cat := range category.All {
		rec, ok := ms.Winners[cat]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "*%s:*\n", cat.Title())
		if cat == category.MultiDayLeave && rec.HasLeaveInterval() {
			fmt.Fprintf(&b, "• Leave %s: %q\n", rec.EffectiveInterval().Format(), rec.Text)
		} else {
			fmt.Fprintf(&b, "• %s at %s: %q\n",
				rec.PostedAt.Format("Jan 2"), rec.PostedAt.Format("15:04"), rec.Text)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
