// Package report renders aggregated attendance state as chat-ready text.
// Renderers are pure functions of already-aggregated data and perform no I/O.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Akshit-Devx/attendance-bot/internal/attendance"
	"github.com/Akshit-Devx/attendance-bot/internal/category"
	"github.com/Akshit-Devx/attendance-bot/internal/store"
)

// maxReasonLen caps the raw message text shown per entry.
const maxReasonLen = 50

// List renders the per-category breakdown: one section per category in the
// fixed display order, each listing affected users, with a trailing count of
// distinct users holding any non-default status.
func List(merged map[string]*attendance.MergedStatus) string {
	var b strings.Builder

	affected := map[string]struct{}{}

	for _, cat := range category.ReportOrder {
		entries := winnersFor(merged, cat)
		fmt.Fprintf(&b, "*%s (%d):*\n", cat.Title(), len(entries))

		if len(entries) == 0 {
			b.WriteString("• None\n")
		}
		for _, rec := range entries {
			affected[rec.UserID] = struct{}{}
			b.WriteString(formatEntry(rec, cat))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "*Total employees with leave/WFH:* %d", len(affected))
	return b.String()
}

// winnersFor collects each user's surviving record for cat, ordered by
// display name (then user id) so output is stable.
func winnersFor(merged map[string]*attendance.MergedStatus, cat category.Category) []*store.EventRecord {
	var out []*store.EventRecord
	for _, ms := range merged {
		if rec, ok := ms.Winners[cat]; ok {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UserName != out[j].UserName {
			return out[i].UserName < out[j].UserName
		}
		return out[i].UserID < out[j].UserID
	})
	return out
}

func formatEntry(rec *store.EventRecord, cat category.Category) string {
	reason := truncateReason(rec.Text)
	if cat == category.MultiDayLeave && rec.HasLeaveInterval() {
		return fmt.Sprintf("• *%s*: %s - %s\n", rec.UserName, rec.EffectiveInterval().Format(), reason)
	}
	return fmt.Sprintf("• *%s*: %s\n", rec.UserName, reason)
}

func truncateReason(s string) string {
	r := []rune(s)
	if len(r) <= maxReasonLen {
		return s
	}
	return string(r[:maxReasonLen-3]) + "..."
}
