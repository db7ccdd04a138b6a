package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/Akshit-Devx/attendance-bot/internal/category"
	"github.com/Akshit-Devx/attendance-bot/internal/dates"
)

// Store is the query surface the attendance core needs.
type Store interface {
	// Insert persists a new record. Returns ErrDuplicateEvent when a record
	// with the same message id already exists; the insert relies on the
	// UNIQUE constraint, so concurrent duplicate deliveries race safely.
	Insert(ctx context.Context, rec *EventRecord) error

	// GetByID fetches a record by platform message id.
	GetByID(ctx context.Context, id string) (*EventRecord, error)

	// Update rewrites a record in place, keyed by message id.
	Update(ctx context.Context, rec *EventRecord) error

	// FindOverlapping returns records whose effective interval overlaps the
	// window: explicit leave intervals via the closed-interval test, records
	// without an interval via their posting day. Empty userID means all users.
	FindOverlapping(ctx context.Context, window dates.Interval, userID string) ([]*EventRecord, error)

	// FindByUser returns the user's most recent records, newest first.
	FindByUser(ctx context.Context, userID string, limit int) ([]*EventRecord, error)

	Close() error
}

const schema = `
CREATE TABLE IF NOT EXISTS events (
	uid          TEXT PRIMARY KEY,
	message_id   TEXT NOT NULL UNIQUE,
	user_id      TEXT NOT NULL,
	user_name    TEXT NOT NULL,
	channel_id   TEXT NOT NULL,
	text         TEXT NOT NULL,
	category     TEXT NOT NULL,
	revisions    TEXT NOT NULL DEFAULT '[]',
	posted_at    INTEGER NOT NULL,
	last_updated INTEGER NOT NULL,
	leave_start  INTEGER,
	leave_end    INTEGER
);
CREATE INDEX IF NOT EXISTS idx_events_user_posted ON events(user_id, posted_at);
CREATE INDEX IF NOT EXISTS idx_events_posted ON events(posted_at);
`

// SQLiteStore implements Store on a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens (creating if needed) the event database at path.
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

const insertSQL = `
INSERT INTO events (uid, message_id, user_id, user_name, channel_id, text, category, revisions, posted_at, last_updated, leave_start, leave_end)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (s *SQLiteStore) Insert(ctx context.Context, rec *EventRecord) error {
	if rec.UID == "" {
		rec.UID = uuid.NewString()
	}
	if rec.LastUpdated.IsZero() {
		rec.LastUpdated = rec.PostedAt
	}
	revs, err := json.Marshal(rec.Revisions)
	if err != nil {
		return fmt.Errorf("store: encode revisions: %w", err)
	}

	_, err = s.db.ExecContext(ctx, insertSQL,
		rec.UID, rec.ID, rec.UserID, rec.UserName, rec.ChannelID,
		rec.Text, string(rec.Category), string(revs),
		rec.PostedAt.Unix(), rec.LastUpdated.Unix(),
		unixOrNil(rec.LeaveStart), unixOrNil(rec.LeaveEnd),
	)
	if err != nil {
		var se sqlite3.Error
		if errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique {
			return ErrDuplicateEvent
		}
		return fmt.Errorf("store: insert event %s: %w", rec.ID, err)
	}
	return nil
}

const selectCols = `uid, message_id, user_id, user_name, channel_id, text, category, revisions, posted_at, last_updated, leave_start, leave_end`

func (s *SQLiteStore) GetByID(ctx context.Context, id string) (*EventRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+selectCols+` FROM events WHERE message_id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get event %s: %w", id, err)
	}
	return rec, nil
}

const updateSQL = `
UPDATE events
SET user_name = ?, text = ?, category = ?, revisions = ?, last_updated = ?, leave_start = ?, leave_end = ?
WHERE message_id = ?`

func (s *SQLiteStore) Update(ctx context.Context, rec *EventRecord) error {
	revs, err := json.Marshal(rec.Revisions)
	if err != nil {
		return fmt.Errorf("store: encode revisions: %w", err)
	}
	res, err := s.db.ExecContext(ctx, updateSQL,
		rec.UserName, rec.Text, string(rec.Category), string(revs),
		rec.LastUpdated.Unix(),
		unixOrNil(rec.LeaveStart), unixOrNil(rec.LeaveEnd),
		rec.ID,
	)
	if err != nil {
		return fmt.Errorf("store: update event %s: %w", rec.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: update event %s: %w", rec.ID, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

const overlapSQL = `
SELECT ` + selectCols + `
FROM events
WHERE (
	(leave_start IS NOT NULL AND leave_end IS NOT NULL AND leave_start <= ? AND leave_end >= ?)
	OR ((leave_start IS NULL OR leave_end IS NULL) AND posted_at BETWEEN ? AND ?)
)
AND (? = '' OR user_id = ?)
ORDER BY posted_at ASC, last_updated ASC, message_id ASC`

func (s *SQLiteStore) FindOverlapping(ctx context.Context, window dates.Interval, userID string) ([]*EventRecord, error) {
	winStart := window.Start.Unix()
	winEnd := dates.DayEnd(window.End).Unix()

	rows, err := s.db.QueryContext(ctx, overlapSQL,
		winEnd, winStart, winStart, winEnd, userID, userID)
	if err != nil {
		return nil, fmt.Errorf("store: find overlapping: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

func (s *SQLiteStore) FindByUser(ctx context.Context, userID string, limit int) ([]*EventRecord, error) {
	if limit <= 0 {
		limit = 30
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectCols+` FROM events WHERE user_id = ? ORDER BY posted_at DESC LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("store: find by user: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*EventRecord, error) {
	var (
		rec        EventRecord
		cat        string
		revs       string
		postedAt   int64
		updatedAt  int64
		leaveStart sql.NullInt64
		leaveEnd   sql.NullInt64
	)
	err := row.Scan(&rec.UID, &rec.ID, &rec.UserID, &rec.UserName, &rec.ChannelID,
		&rec.Text, &cat, &revs, &postedAt, &updatedAt, &leaveStart, &leaveEnd)
	if err != nil {
		return nil, err
	}

	rec.Category, _ = category.Parse(cat)
	if err := json.Unmarshal([]byte(revs), &rec.Revisions); err != nil {
		return nil, fmt.Errorf("decode revisions for %s: %w", rec.ID, err)
	}
	rec.PostedAt = time.Unix(postedAt, 0).UTC()
	rec.LastUpdated = time.Unix(updatedAt, 0).UTC()
	if leaveStart.Valid && leaveEnd.Valid {
		s := time.Unix(leaveStart.Int64, 0).UTC()
		e := time.Unix(leaveEnd.Int64, 0).UTC()
		rec.LeaveStart, rec.LeaveEnd = &s, &e
	}
	return &rec, nil
}

func scanRecords(rows *sql.Rows) ([]*EventRecord, error) {
	var out []*EventRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan event: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate events: %w", err)
	}
	return out, nil
}

func unixOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Unix()
}
