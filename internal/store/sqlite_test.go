package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Akshit-Devx/attendance-bot/internal/category"
	"github.com/Akshit-Devx/attendance-bot/internal/dates"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "events.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func day(d int) time.Time {
	return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)
}

func at(d, hour int) time.Time {
	return time.Date(2026, 3, d, hour, 0, 0, 0, time.UTC)
}

func newRecord(id, userID string, cat category.Category, postedAt time.Time) *EventRecord {
	return &EventRecord{
		ID:        id,
		UserID:    userID,
		UserName:  "User " + userID,
		ChannelID: "C01",
		Text:      "status message " + id,
		Category:  cat,
		PostedAt:  postedAt,
	}
}

func TestInsertAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := newRecord("m1", "U1", category.WFH, at(3, 9))
	require.NoError(t, s.Insert(ctx, rec))
	assert.NotEmpty(t, rec.UID)

	got, err := s.GetByID(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "U1", got.UserID)
	assert.Equal(t, category.WFH, got.Category)
	assert.True(t, got.PostedAt.Equal(at(3, 9)))
	assert.True(t, got.LastUpdated.Equal(at(3, 9)), "lastUpdated defaults to postedAt")
	assert.Empty(t, got.Revisions)

	_, err = s.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInsertDuplicate(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, newRecord("m1", "U1", category.WFH, at(3, 9))))

	err := s.Insert(ctx, newRecord("m1", "U1", category.WFH, at(3, 9)))
	assert.ErrorIs(t, err, ErrDuplicateEvent)

	// Exactly one row survives.
	recs, err := s.FindByUser(ctx, "U1", 10)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestUpdate(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := newRecord("m1", "U1", category.WFH, at(3, 9))
	require.NoError(t, s.Insert(ctx, rec))

	rec.Text = "actually on leave today"
	rec.Category = category.FullDayLeave
	rec.Revisions = append(rec.Revisions, Revision{PriorText: "status message m1", RevisedAt: at(3, 10)})
	rec.LastUpdated = at(3, 10)
	require.NoError(t, s.Update(ctx, rec))

	got, err := s.GetByID(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, category.FullDayLeave, got.Category)
	require.Len(t, got.Revisions, 1)
	assert.Equal(t, "status message m1", got.Revisions[0].PriorText)
	assert.True(t, got.LastUpdated.Equal(at(3, 10)))

	assert.ErrorIs(t, s.Update(ctx, newRecord("ghost", "U1", category.WFH, at(3, 9))), ErrNotFound)
}

func TestFindOverlappingLeaveInterval(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	leave := newRecord("m1", "U1", category.MultiDayLeave, at(1, 9))
	start, end := day(2), day(6)
	leave.LeaveStart, leave.LeaveEnd = &start, &end
	require.NoError(t, s.Insert(ctx, leave))

	recs, err := s.FindOverlapping(ctx, dates.Interval{Start: day(5), End: day(10)}, "")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "m1", recs[0].ID)
	assert.True(t, recs[0].HasLeaveInterval())

	recs, err = s.FindOverlapping(ctx, dates.Interval{Start: day(10), End: day(15)}, "")
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestFindOverlappingDatelessLeave(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// Multi-day leave whose dates could not be extracted: effective
	// interval degrades to the posting day.
	require.NoError(t, s.Insert(ctx, newRecord("m1", "U1", category.MultiDayLeave, at(3, 9))))

	recs, err := s.FindOverlapping(ctx, dates.Interval{Start: day(1), End: day(7)}, "")
	require.NoError(t, err)
	assert.Len(t, recs, 1)

	recs, err = s.FindOverlapping(ctx, dates.Interval{Start: day(7), End: day(14)}, "")
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestFindOverlappingUserFilter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, newRecord("m1", "U1", category.WFH, at(3, 9))))
	require.NoError(t, s.Insert(ctx, newRecord("m2", "U2", category.OOO, at(3, 10))))

	window := dates.Interval{Start: day(1), End: day(7)}

	recs, err := s.FindOverlapping(ctx, window, "")
	require.NoError(t, err)
	assert.Len(t, recs, 2)

	recs, err = s.FindOverlapping(ctx, window, "U2")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "U2", recs[0].UserID)
}

func TestFindByUserNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, newRecord("m1", "U1", category.WFH, at(2, 9))))
	require.NoError(t, s.Insert(ctx, newRecord("m2", "U1", category.OOO, at(4, 9))))
	require.NoError(t, s.Insert(ctx, newRecord("m3", "U2", category.WFH, at(3, 9))))

	recs, err := s.FindByUser(ctx, "U1", 10)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "m2", recs[0].ID)
	assert.Equal(t, "m1", recs[1].ID)
}

func TestEffectiveInterval(t *testing.T) {
	rec := newRecord("m1", "U1", category.MultiDayLeave, at(3, 15))
	assert.True(t, rec.EffectiveInterval().Start.Equal(day(3)))
	assert.True(t, rec.EffectiveInterval().End.Equal(day(3)))

	start, end := day(4), day(6)
	rec.LeaveStart, rec.LeaveEnd = &start, &end
	assert.True(t, rec.EffectiveInterval().Start.Equal(day(4)))
	assert.True(t, rec.EffectiveInterval().End.Equal(day(6)))
}
