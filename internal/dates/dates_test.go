package dates

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	leave := Interval{Start: day(2026, 3, 2), End: day(2026, 3, 6)}

	if !leave.Overlaps(Interval{Start: day(2026, 3, 5), End: day(2026, 3, 10)}) {
		t.Fatal("Mar 2-6 should overlap Mar 5-10")
	}
	if leave.Overlaps(Interval{Start: day(2026, 3, 10), End: day(2026, 3, 15)}) {
		t.Fatal("Mar 2-6 should not overlap Mar 10-15")
	}
	// Closed intervals: touching endpoints overlap.
	if !leave.Overlaps(Interval{Start: day(2026, 3, 6), End: day(2026, 3, 6)}) {
		t.Fatal("closed-interval endpoint should overlap")
	}
}

func TestIntersect(t *testing.T) {
	leave := Interval{Start: day(2026, 3, 2), End: day(2026, 3, 6)}
	window := Interval{Start: day(2026, 3, 5), End: day(2026, 3, 10)}

	got, ok := leave.Intersect(window)
	if !ok {
		t.Fatal("expected overlap")
	}
	if !got.Start.Equal(day(2026, 3, 5)) || !got.End.Equal(day(2026, 3, 6)) {
		t.Fatalf("intersection = %v..%v", got.Start, got.End)
	}

	if _, ok := leave.Intersect(Interval{Start: day(2026, 4, 1), End: day(2026, 4, 2)}); ok {
		t.Fatal("disjoint intervals must not intersect")
	}
}

func TestDaysAndIndex(t *testing.T) {
	w := Interval{Start: day(2026, 3, 2), End: day(2026, 3, 8)}
	if w.Days() != 7 {
		t.Fatalf("Days() = %d, want 7", w.Days())
	}
	if idx := w.DayIndex(day(2026, 3, 2)); idx != 0 {
		t.Fatalf("window start should index 0, got %d", idx)
	}
	if idx := w.DayIndex(time.Date(2026, 3, 5, 14, 30, 0, 0, time.UTC)); idx != 3 {
		t.Fatalf("Mar 5 should index 3, got %d", idx)
	}
	if SingleDay(day(2026, 3, 2)).Days() != 1 {
		t.Fatal("single day interval should span one day")
	}
}

func TestWorkWeek(t *testing.T) {
	// Wednesday.
	w := WorkWeek(time.Date(2026, 3, 4, 11, 0, 0, 0, time.UTC))
	if !w.Start.Equal(day(2026, 3, 2)) || !w.End.Equal(day(2026, 3, 6)) {
		t.Fatalf("work week = %v..%v", w.Start, w.End)
	}
	// Sunday rolls back to the Monday of the finished week.
	w = WorkWeek(day(2026, 3, 8))
	if !w.Start.Equal(day(2026, 3, 2)) {
		t.Fatalf("sunday work week starts %v", w.Start)
	}
}

func TestParseDayMonth(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"4 March", day(2026, 3, 4)},
		{"4th march", day(2026, 3, 4)},
		{"21st March", day(2026, 3, 21)},
		{"2nd Mar", day(2026, 3, 2)},
	}
	for _, tc := range cases {
		got, err := ParseDayMonth(tc.in, 2026)
		if err != nil {
			t.Fatalf("ParseDayMonth(%q): %v", tc.in, err)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("ParseDayMonth(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}

	if _, err := ParseDayMonth("sometime soon", 2026); err == nil {
		t.Fatal("expected error for unparseable input")
	}
}

func TestResolveRelativePhrase(t *testing.T) {
	now := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC) // Wednesday

	r, ok := ResolveRelativePhrase("report today please", now)
	if !ok || !r.Interval.Start.Equal(day(2026, 3, 4)) || !r.Interval.End.Equal(day(2026, 3, 4)) {
		t.Fatalf("today = %+v ok=%v", r, ok)
	}

	r, ok = ResolveRelativePhrase("calendar for tomorrow", now)
	if !ok || !r.Interval.Start.Equal(day(2026, 3, 5)) {
		t.Fatalf("tomorrow = %+v ok=%v", r, ok)
	}

	r, ok = ResolveRelativePhrase("what about yesterday", now)
	if !ok || !r.Interval.Start.Equal(day(2026, 3, 3)) {
		t.Fatalf("yesterday = %+v ok=%v", r, ok)
	}

	r, ok = ResolveRelativePhrase("report from 4th March to 10th March", now)
	if !ok {
		t.Fatal("explicit range should resolve")
	}
	if !r.Interval.Start.Equal(day(2026, 3, 4)) || !r.Interval.End.Equal(day(2026, 3, 10)) {
		t.Fatalf("explicit range = %v..%v", r.Interval.Start, r.Interval.End)
	}
	if r.Label != "from 4th march to 10th march" {
		t.Fatalf("label = %q", r.Label)
	}

	if _, ok := ResolveRelativePhrase("no dates here", now); ok {
		t.Fatal("unresolvable text should report ok=false")
	}
}

func TestFormat(t *testing.T) {
	i := Interval{Start: day(2026, 3, 4), End: day(2026, 3, 6)}
	if got := i.Format(); got != "Mar 4 to Mar 6" {
		t.Fatalf("Format() = %q", got)
	}
	if got := SingleDay(day(2026, 3, 4)).Format(); got != "Mar 4" {
		t.Fatalf("single day Format() = %q", got)
	}
}
