package attendance

import (
	"context"
	"fmt"

	"github.com/Akshit-Devx/attendance-bot/internal/category"
	"github.com/Akshit-Devx/attendance-bot/internal/dates"
	"github.com/Akshit-Devx/attendance-bot/internal/store"
)

// MergedStatus is one user's reconciled state for a query window.
type MergedStatus struct {
	UserID   string
	UserName string

	// Winners holds the surviving record per category after the
	// most-recent-wins rule.
	Winners map[category.Category]*store.EventRecord

	// Days is the per-day status across the window; index 0 is the
	// window's start day. Days without a covering record stay IN_OFFICE.
	Days []category.Category
}

// AnyAway reports whether the user has any non-default day in the window.
func (m *MergedStatus) AnyAway() bool {
	for _, d := range m.Days {
		if d != category.InOffice {
			return true
		}
	}
	return false
}

// Aggregator answers temporal queries over the event store.
type Aggregator struct {
	store store.Store
}

func NewAggregator(s store.Store) *Aggregator {
	return &Aggregator{store: s}
}

// Aggregate merges every record whose effective interval overlaps the window
// into per-user status. userID narrows the query to one user; empty means
// all users. For a fixed store state the result is deterministic: ties in
// the most-recent-wins rule break by lastUpdated, then by id.
func (a *Aggregator) Aggregate(ctx context.Context, window dates.Interval, userID string) (map[string]*MergedStatus, error) {
	records, err := a.store.FindOverlapping(ctx, window, userID)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", window.Format(), err)
	}

	out := make(map[string]*MergedStatus)
	for _, rec := range records {
		ms := out[rec.UserID]
		if ms == nil {
			ms = &MergedStatus{
				UserID:   rec.UserID,
				UserName: rec.UserName,
				Winners:  map[category.Category]*store.EventRecord{},
				Days:     defaultDays(window.Days()),
			}
			out[rec.UserID] = ms
		}

		// Most-recent-wins per (user, category): a later message about
		// the same category supersedes an earlier one for reporting.
		cur := ms.Winners[rec.Category]
		if cur == nil || moreRecent(rec, cur) {
			ms.Winners[rec.Category] = rec
		}
	}

	for _, ms := range out {
		for _, rec := range sortedWinners(ms) {
			paintDays(ms.Days, rec, window)
		}
	}
	return out, nil
}

func defaultDays(n int) []category.Category {
	days := make([]category.Category, n)
	for i := range days {
		days[i] = category.InOffice
	}
	return days
}

// moreRecent implements the most-recent-wins ordering: postedAt, then
// lastUpdated, then id for determinism.
func moreRecent(a, b *store.EventRecord) bool {
	if !a.PostedAt.Equal(b.PostedAt) {
		return a.PostedAt.After(b.PostedAt)
	}
	if !a.LastUpdated.Equal(b.LastUpdated) {
		return a.LastUpdated.After(b.LastUpdated)
	}
	return a.ID > b.ID
}

// paintDays expands a record across every day of its effective interval
// intersected with the window. A day already claimed by a higher-precedence
// category is left alone.
func paintDays(days []category.Category, rec *store.EventRecord, window dates.Interval) {
	covered, ok := rec.EffectiveInterval().Intersect(window)
	if !ok {
		return
	}
	start := window.DayIndex(covered.Start)
	end := window.DayIndex(covered.End)
	for i := start; i <= end && i < len(days); i++ {
		if i < 0 {
			continue
		}
		if rec.Category.Supersedes(days[i]) {
			days[i] = rec.Category
		}
	}
}

// sortedWinners returns the winning records in a fixed order so that day
// painting is deterministic regardless of map iteration.
func sortedWinners(ms *MergedStatus) []*store.EventRecord {
	out := make([]*store.EventRecord, 0, len(ms.Winners))
	for _, c := range category.All {
		if rec, ok := ms.Winners[c]; ok {
			out = append(out, rec)
		}
	}
	return out
}
