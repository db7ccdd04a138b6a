// Package attendance is the temporal aggregation core: it turns classified
// chat messages into stored event records and reconciles overlapping
// single-day and multi-day records into per-user, per-day status.
package attendance

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Akshit-Devx/attendance-bot/internal/category"
	"github.com/Akshit-Devx/attendance-bot/internal/dates"
	"github.com/Akshit-Devx/attendance-bot/internal/store"
)

// TextClassifier maps raw text to a category, degrading to OTHER internally.
type TextClassifier interface {
	Classify(ctx context.Context, text string) category.Category
}

// DateResolver extracts an explicit leave interval from text. ok is false
// when no dates could be determined.
type DateResolver interface {
	ResolveInterval(ctx context.Context, text string, now time.Time) (dates.Interval, bool)
}

// IncomingMessage is one inbound chat message to be ingested.
type IncomingMessage struct {
	ID        string
	UserID    string
	UserName  string
	ChannelID string
	Text      string
	PostedAt  time.Time
}

// Ingestor stores classified events. All collaborators are injected.
type Ingestor struct {
	store     store.Store
	classify  TextClassifier
	resolve   DateResolver
	logPrefix string
}

func NewIngestor(s store.Store, c TextClassifier, r DateResolver, logPrefix string) *Ingestor {
	return &Ingestor{store: s, classify: c, resolve: r, logPrefix: logPrefix}
}

// Ingest classifies and persists a new message. Re-ingesting an id the store
// already holds returns the existing record together with
// store.ErrDuplicateEvent so callers can tell replay from first delivery.
// The store's unique constraint makes concurrent duplicates race-safe.
func (in *Ingestor) Ingest(ctx context.Context, msg IncomingMessage) (*store.EventRecord, error) {
	cat := in.classify.Classify(ctx, msg.Text)

	rec := &store.EventRecord{
		ID:          msg.ID,
		UserID:      msg.UserID,
		UserName:    msg.UserName,
		ChannelID:   msg.ChannelID,
		Text:        msg.Text,
		Category:    cat,
		PostedAt:    msg.PostedAt,
		LastUpdated: msg.PostedAt,
	}

	if cat == category.MultiDayLeave {
		if iv, ok := in.resolve.ResolveInterval(ctx, msg.Text, msg.PostedAt); ok {
			rec.LeaveStart, rec.LeaveEnd = &iv.Start, &iv.End
			log.Printf("%s leave dates extracted: msg=%s range=%s", in.logPrefix, msg.ID, iv.Format())
		} else {
			// Stored without an interval; the effective interval
			// degrades to the posting day.
			log.Printf("%s multi-day leave without resolvable dates: msg=%s", in.logPrefix, msg.ID)
		}
	}

	if err := in.store.Insert(ctx, rec); err != nil {
		if errors.Is(err, store.ErrDuplicateEvent) {
			existing, getErr := in.store.GetByID(ctx, msg.ID)
			if getErr != nil {
				return nil, fmt.Errorf("ingest %s: %w", msg.ID, getErr)
			}
			return existing, store.ErrDuplicateEvent
		}
		return nil, fmt.Errorf("ingest %s: %w", msg.ID, err)
	}
	return rec, nil
}

// ReviseText applies an edit to a stored record: the prior text moves into
// the revision history, the new text is re-classified, and the leave interval
// is re-resolved when the new category is MULTI_DAY_LEAVE. Repeating an
// identical edit notification is a no-op, so duplicate edit deliveries never
// duplicate revision entries.
func (in *Ingestor) ReviseText(ctx context.Context, id, newText string, revisedAt time.Time) (*store.EventRecord, error) {
	rec, err := in.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if rec.Text == newText {
		return rec, nil
	}

	rec.Revisions = append(rec.Revisions, store.Revision{PriorText: rec.Text, RevisedAt: revisedAt})
	rec.Text = newText
	rec.Category = in.classify.Classify(ctx, newText)
	rec.LastUpdated = revisedAt

	rec.LeaveStart, rec.LeaveEnd = nil, nil
	if rec.Category == category.MultiDayLeave {
		if iv, ok := in.resolve.ResolveInterval(ctx, newText, rec.PostedAt); ok {
			rec.LeaveStart, rec.LeaveEnd = &iv.Start, &iv.End
		}
	}

	if err := in.store.Update(ctx, rec); err != nil {
		return nil, fmt.Errorf("revise %s: %w", id, err)
	}
	return rec, nil
}
