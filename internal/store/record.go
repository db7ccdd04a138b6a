// Package store persists classified attendance events. SQLite enforces the
// uniqueness of the platform message id, which is the only concurrency
// mechanism duplicate deliveries need.
package store

import (
	"errors"
	"time"

	"github.com/Akshit-Devx/attendance-bot/internal/category"
	"github.com/Akshit-Devx/attendance-bot/internal/dates"
)

var (
	// ErrDuplicateEvent signals the idempotency short-circuit: a record
	// with the same message id already exists. Not a true failure.
	ErrDuplicateEvent = errors.New("store: duplicate event")

	// ErrNotFound signals a lookup for an unknown message id.
	ErrNotFound = errors.New("store: record not found")
)

// Revision is a superseded message text, kept when the source message is
// edited. Revisions are append-only, oldest first.
type Revision struct {
	PriorText string    `json:"prior_text"`
	RevisedAt time.Time `json:"revised_at"`
}

// EventRecord is one classified status event.
type EventRecord struct {
	// UID is a surrogate identifier assigned at insert.
	UID string

	// ID is the platform message id and the idempotency key.
	ID string

	UserID    string
	UserName  string
	ChannelID string

	// Text is the latest raw message text.
	Text     string
	Category category.Category

	Revisions []Revision

	PostedAt    time.Time
	LastUpdated time.Time

	// LeaveStart/LeaveEnd are set only for MULTI_DAY_LEAVE records whose
	// dates were successfully extracted. Both or neither are present.
	LeaveStart *time.Time
	LeaveEnd   *time.Time
}

// HasLeaveInterval reports whether explicit leave dates are attached.
func (r *EventRecord) HasLeaveInterval() bool {
	return r.LeaveStart != nil && r.LeaveEnd != nil
}

// EffectiveInterval is the leave interval when present, else the single
// day containing the posting time.
func (r *EventRecord) EffectiveInterval() dates.Interval {
	if r.HasLeaveInterval() {
		return dates.NewInterval(*r.LeaveStart, *r.LeaveEnd)
	}
	return dates.SingleDay(r.PostedAt)
}
