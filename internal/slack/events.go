package slack

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// EventCallback is the outer envelope of an Events API delivery.
type EventCallback struct {
	Type      string        `json:"type"`
	Challenge string        `json:"challenge"`
	Event     *MessageEvent `json:"event"`
}

// MessageEvent is a message-type inner event, covering both new messages
// and message_changed edits.
type MessageEvent struct {
	Type    string `json:"type"`
	Subtype string `json:"subtype"`
	User    string `json:"user"`
	Text    string `json:"text"`
	TS      string `json:"ts"`
	Channel string `json:"channel"`
	BotID   string `json:"bot_id"`

	// Message carries the edited message on message_changed events.
	Message *EditedMessage `json:"message"`
}

// EditedMessage is the new body of an edited message.
type EditedMessage struct {
	User   string      `json:"user"`
	Text   string      `json:"text"`
	TS     string      `json:"ts"`
	BotID  string      `json:"bot_id"`
	Edited *EditedMeta `json:"edited"`
}

// EditedMeta records who edited the message and when.
type EditedMeta struct {
	User string `json:"user"`
	TS   string `json:"ts"`
}

// IsEdit reports whether the event is a message edit.
func (e *MessageEvent) IsEdit() bool {
	return e.Subtype == "message_changed" && e.Message != nil
}

// FromBot reports whether the message was authored by a bot; those are
// never ingested.
func (e *MessageEvent) FromBot() bool {
	return e.BotID != ""
}

// ParseTS converts a Slack message timestamp ("1425097600.000003") to time.
func ParseTS(ts string) (time.Time, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(ts), 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("slack: invalid ts %q: %w", ts, err)
	}
	sec, frac := math.Modf(f)
	return time.Unix(int64(sec), int64(frac*1e9)), nil
}
