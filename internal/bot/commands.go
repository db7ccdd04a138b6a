package bot

import (
	"context"
	"log"
	"regexp"
	"strings"

	"github.com/Akshit-Devx/attendance-bot/internal/dates"
	"github.com/Akshit-Devx/attendance-bot/internal/metrics"
	"github.com/Akshit-Devx/attendance-bot/internal/report"
	"github.com/Akshit-Devx/attendance-bot/internal/slack"
)

const userHistoryLimit = 200

type commandKind string

const (
	cmdHelp      commandKind = "help"
	cmdReport    commandKind = "report"
	cmdCalendar  commandKind = "calendar"
	cmdUserStats commandKind = "user_stats"
)

type command struct {
	kind commandKind
	// raw text with the bot mention stripped, lowercased for matching
	rest string
	// target user for user_stats
	targetUser string
}

var mentionRe = regexp.MustCompile(`<@([A-Z0-9]+)>`)

// parseCommand reports whether text is a command addressed to the bot.
// A message is a command only when it mentions the bot user.
func parseCommand(text, botUserID string) (command, bool) {
	if botUserID == "" {
		return command{}, false
	}
	mentions := mentionRe.FindAllStringSubmatch(text, -1)
	addressed := false
	var target string
	for _, m := range mentions {
		if m[1] == botUserID {
			addressed = true
		} else if target == "" {
			target = m[1]
		}
	}
	if !addressed {
		return command{}, false
	}

	rest := strings.ToLower(strings.TrimSpace(mentionRe.ReplaceAllString(text, " ")))
	rest = strings.Join(strings.Fields(rest), " ")

	switch {
	case target != "":
		return command{kind: cmdUserStats, rest: rest, targetUser: target}, true
	case strings.Contains(rest, "calendar") || strings.Contains(rest, "grid"):
		return command{kind: cmdCalendar, rest: rest}, true
	case strings.Contains(rest, "report") || strings.Contains(rest, "who"):
		return command{kind: cmdReport, rest: rest}, true
	case rest == "" || strings.Contains(rest, "help"):
		return command{kind: cmdHelp, rest: rest}, true
	default:
		// Addressed to the bot but not recognized: show help rather
		// than silently storing the mention as a status.
		return command{kind: cmdHelp, rest: rest}, true
	}
}

func (h *Handler) handleCommand(ctx context.Context, ev *slack.MessageEvent, cmd command) {
	metrics.CommandsHandled.WithLabelValues(string(cmd.kind)).Inc()
	log.Printf("%s command=%s user=%s", h.logPrefix, cmd.kind, ev.User)

	switch cmd.kind {
	case cmdHelp:
		h.post(ctx, ev.Channel, helpText)
	case cmdReport:
		h.runReport(ctx, ev, cmd, false)
	case cmdCalendar:
		h.runReport(ctx, ev, cmd, true)
	case cmdUserStats:
		h.runUserStats(ctx, ev, cmd)
	}
}

// commandWindow resolves the day range a report command asks about.
// With no recognizable phrase the current work week is used.
func (h *Handler) commandWindow(cmd command) dates.ResolvedRange {
	if rr, ok := dates.ResolveRelativePhrase(cmd.rest, h.now()); ok {
		return rr
	}
	return dates.ResolvedRange{Interval: dates.WorkWeek(h.now()), Label: "for this week"}
}

func (h *Handler) runReport(ctx context.Context, ev *slack.MessageEvent, cmd command, grid bool) {
	rr := h.commandWindow(cmd)

	merged, err := h.aggregator.Aggregate(ctx, rr.Interval, "")
	if err != nil {
		log.Printf("%s report aggregate failed: %v", h.logPrefix, err)
		h.post(ctx, ev.Channel, "Sorry, I couldn't build the report right now.")
		return
	}

	var text string
	if grid {
		text = report.Grid(merged, rr.Interval)
	} else {
		text = "*Attendance report " + rr.Label + ":*\n\n" + report.List(merged)
	}
	h.post(ctx, ev.Channel, text)
}

func (h *Handler) runUserStats(ctx context.Context, ev *slack.MessageEvent, cmd command) {
	name := h.names.DisplayName(ctx, cmd.targetUser)

	if rr, ok := dates.ResolveRelativePhrase(cmd.rest, h.now()); ok {
		merged, err := h.aggregator.Aggregate(ctx, rr.Interval, cmd.targetUser)
		if err != nil {
			log.Printf("%s user range aggregate failed: %v", h.logPrefix, err)
			h.post(ctx, ev.Channel, "Sorry, I couldn't look that up right now.")
			return
		}
		h.post(ctx, ev.Channel, report.UserRange(merged[cmd.targetUser], name, rr.Label))
		return
	}

	recs, err := h.store.FindByUser(ctx, cmd.targetUser, userHistoryLimit)
	if err != nil {
		log.Printf("%s user history lookup failed: %v", h.logPrefix, err)
		h.post(ctx, ev.Channel, "Sorry, I couldn't look that up right now.")
		return
	}
	// No explicit range: stats cover the current month.
	month := dates.MonthOf(h.now())
	inMonth := recs[:0]
	for _, rec := range recs {
		if rec.EffectiveInterval().Overlaps(month) {
			inMonth = append(inMonth, rec)
		}
	}
	h.post(ctx, ev.Channel, report.UserStats(name, inMonth))
}

const helpText = "*Attendance bot*\n" +
	"Post your status in this channel and I'll record it, e.g.\n" +
	"• `working from home today`\n" +
	"• `on leave from 4th March to 6th March`\n" +
	"• `will be late to office tomorrow`\n\n" +
	"Commands (mention me):\n" +
	"• `report` or `who is out` — who's away, optionally `today` / `tomorrow` / `this week`\n" +
	"• `calendar` — weekly grid view\n" +
	"• `@someone` — that person's attendance summary, optionally with a period\n" +
	"• `help` — this message"
