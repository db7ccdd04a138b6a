package classifier

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/Akshit-Devx/attendance-bot/internal/dates"
)

// parseDateRangeReply decodes the extractor's JSON reply. Models sometimes
// wrap the JSON in prose, so the outermost brace pair is carved out first.
func parseDateRangeReply(reply string, loc *time.Location) (dates.Interval, bool) {
	jsonStr := reply
	if open := strings.Index(reply, "{"); open >= 0 {
		if close := strings.LastIndex(reply, "}"); close > open {
			jsonStr = reply[open : close+1]
		}
	}

	var parsed struct {
		StartDate *string `json:"startDate"`
		EndDate   *string `json:"endDate"`
	}
	if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
		return dates.Interval{}, false
	}
	if parsed.StartDate == nil || parsed.EndDate == nil {
		return dates.Interval{}, false
	}

	start, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(*parsed.StartDate), loc)
	if err != nil {
		return dates.Interval{}, false
	}
	end, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(*parsed.EndDate), loc)
	if err != nil {
		return dates.Interval{}, false
	}

	return dates.NewInterval(start, end), true
}
