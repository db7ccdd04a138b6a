// Package bot routes chat events into the attendance pipeline and answers
// report commands. Transports (HTTP Events API, Socket Mode) decode platform
// payloads and hand slack.MessageEvent values to Handler.
package bot

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/Akshit-Devx/attendance-bot/internal/attendance"
	"github.com/Akshit-Devx/attendance-bot/internal/category"
	"github.com/Akshit-Devx/attendance-bot/internal/metrics"
	"github.com/Akshit-Devx/attendance-bot/internal/slack"
	"github.com/Akshit-Devx/attendance-bot/internal/store"
)

const storeUnavailableReply = "Sorry, I couldn't record that right now. Please try again in a bit."

// Poster is the outbound message surface the handler needs.
type Poster interface {
	PostMessage(ctx context.Context, channelID, text string) error
	PostThreadReply(ctx context.Context, channelID, rootTS, text string) error
}

// NameResolver maps a user id to a display name.
type NameResolver interface {
	DisplayName(ctx context.Context, userID string) string
}

// Handler processes decoded message events.
type Handler struct {
	ingestor   *attendance.Ingestor
	aggregator *attendance.Aggregator
	store      store.Store
	poster     Poster
	names      NameResolver
	botUserID  string
	logPrefix  string
	now        func() time.Time
}

func NewHandler(ing *attendance.Ingestor, agg *attendance.Aggregator, st store.Store, poster Poster, names NameResolver, botUserID, logPrefix string) *Handler {
	return &Handler{
		ingestor:   ing,
		aggregator: agg,
		store:      st,
		poster:     poster,
		names:      names,
		botUserID:  botUserID,
		logPrefix:  logPrefix,
		now:        time.Now,
	}
}

// HandleMessage is the single entry point for message events from any
// transport. Bot-authored messages are dropped, edits become revisions,
// mentions of the bot become commands, and everything else is ingested
// as a status message.
func (h *Handler) HandleMessage(ctx context.Context, ev *slack.MessageEvent) {
	if ev.FromBot() {
		return
	}

	if ev.IsEdit() {
		h.handleEdit(ctx, ev)
		return
	}

	if ev.User == "" || ev.Text == "" {
		return
	}

	if cmd, ok := parseCommand(ev.Text, h.botUserID); ok {
		h.handleCommand(ctx, ev, cmd)
		return
	}

	h.handleStatus(ctx, ev)
}

func (h *Handler) handleStatus(ctx context.Context, ev *slack.MessageEvent) {
	postedAt, err := slack.ParseTS(ev.TS)
	if err != nil {
		log.Printf("%s bad message ts %q: %v", h.logPrefix, ev.TS, err)
		postedAt = h.now()
	}

	msg := attendance.IncomingMessage{
		ID:        ev.TS,
		UserID:    ev.User,
		UserName:  h.names.DisplayName(ctx, ev.User),
		ChannelID: ev.Channel,
		Text:      ev.Text,
		PostedAt:  postedAt,
	}

	rec, err := h.ingestor.Ingest(ctx, msg)
	switch {
	case errors.Is(err, store.ErrDuplicateEvent):
		metrics.DuplicateEvents.Inc()
		log.Printf("%s duplicate event id=%s user=%s", h.logPrefix, ev.TS, ev.User)
		return
	case err != nil:
		log.Printf("%s ingest failed id=%s: %v", h.logPrefix, ev.TS, err)
		h.reply(ctx, ev, storeUnavailableReply)
		return
	}

	metrics.MessagesIngested.WithLabelValues(string(rec.Category)).Inc()

	if text, ok := confirmation(rec); ok {
		h.reply(ctx, ev, text)
	}
}

func (h *Handler) handleEdit(ctx context.Context, ev *slack.MessageEvent) {
	if ev.Message == nil || ev.Message.User == "" {
		return
	}
	if ev.Message.BotID != "" {
		return
	}

	revisedAt := h.now()
	if ev.Message.Edited != nil && ev.Message.Edited.TS != "" {
		if t, err := slack.ParseTS(ev.Message.Edited.TS); err == nil {
			revisedAt = t
		}
	}

	rec, err := h.ingestor.ReviseText(ctx, ev.Message.TS, ev.Message.Text, revisedAt)
	switch {
	case errors.Is(err, store.ErrNotFound):
		// Edit of a message we never stored. Nothing to do.
		return
	case err != nil:
		log.Printf("%s revise failed id=%s: %v", h.logPrefix, ev.Message.TS, err)
		return
	}

	metrics.EditsApplied.Inc()
	log.Printf("%s revised id=%s category=%s revisions=%d", h.logPrefix, rec.ID, rec.Category, len(rec.Revisions))
}

func (h *Handler) reply(ctx context.Context, ev *slack.MessageEvent, text string) {
	if err := h.poster.PostThreadReply(ctx, ev.Channel, ev.TS, text); err != nil {
		metrics.SlackAPIErrors.WithLabelValues("chat.postMessage").Inc()
		log.Printf("%s thread reply failed channel=%s: %v", h.logPrefix, ev.Channel, err)
	}
}

func (h *Handler) post(ctx context.Context, channelID, text string) {
	if err := h.poster.PostMessage(ctx, channelID, text); err != nil {
		metrics.SlackAPIErrors.WithLabelValues("chat.postMessage").Inc()
		log.Printf("%s post failed channel=%s: %v", h.logPrefix, channelID, err)
	}
}

// confirmation builds the thread acknowledgement for a stored record.
// OTHER records are stored silently.
func confirmation(rec *store.EventRecord) (string, bool) {
	switch rec.Category {
	case category.WFH:
		return "Got it, marked you as working from home. 🏠", true
	case category.FullDayLeave:
		return "Got it, marked you on leave for the day. ❌", true
	case category.HalfDayLeave:
		return "Got it, marked you on half-day leave. 🕒", true
	case category.LateToOffice:
		return "Noted, you'll be in late. 🕘", true
	case category.LeavingEarly:
		return "Noted, you're leaving early today. 🏃", true
	case category.OOO:
		return "Got it, marked you out of office. 🌐", true
	case category.MultiDayLeave:
		if rec.HasLeaveInterval() {
			iv := rec.EffectiveInterval()
			return "Got it, marked you on leave " + iv.Format() + ". ❌", true
		}
		return "Got it, marked you on multi-day leave. ❌", true
	default:
		return "", false
	}
}
