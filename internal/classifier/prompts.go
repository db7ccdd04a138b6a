package classifier

import (
	"fmt"
	"time"
)

func categoryPrompt(message string) string {
	return fmt.Sprintf(`You are a classifier for chat messages about attendance and leave. Categorize the message into one of the following:
- WFH (Working from Home)
- FULL_DAY_LEAVE (Taking a full day leave)
- HALF_DAY_LEAVE (Taking a half-day leave)
- LATE_TO_OFFICE (Arriving late to office)
- LEAVING_EARLY (Leaving the office early)
- OOO (Out of Office)
- MULTI_DAY_LEAVE (Taking leave for multiple consecutive days)
- OTHER (If it doesn't fit any category)

Message: %q

Classification guide:

MULTI_DAY_LEAVE: phrases indicating multiple days, like "from [date] to [date]", "next week", "for the next few days", "until [date]"; any range of consecutive leave days.

FULL_DAY_LEAVE: "on leave today", "day off", "sick leave", "vacation", "personal day"; completely unavailable for a single day.

HALF_DAY_LEAVE: "half-day", "available until [time]"; working only part of the day.

WFH: "WFH", "working from home", "working remotely"; working, but not from the office.

LATE_TO_OFFICE: "coming late", "will be there by [time]", "running late"; arriving after the usual start.

LEAVING_EARLY: "leaving early", "need to go at [time]"; departing before the usual end.

OOO: "OOO", "out of office", "offline", "unavailable"; uncontactable, often travel.

Return only the category name, nothing else.`, message)
}

func dateRangePrompt(message string, now time.Time) string {
	return fmt.Sprintf(`You extract date ranges from leave messages. Given a message about taking leave, identify the start and end date of the leave period.

Message: %q

Rules:
1. Specific dates like "from March 2nd to March 6th": extract them.
2. "next week": Monday to Friday of the following week.
3. "this week": the remaining days of the current week.
4. "tomorrow" / "today": both start and end set to that day.
5. "for X days": end date is today + X days.
6. "until Friday": the upcoming Friday.
7. No clear dates: null for both.

Current date for reference: %s

Return exactly this JSON and nothing else:
{"startDate": "YYYY-MM-DD", "endDate": "YYYY-MM-DD"}
or, if the dates cannot be determined:
{"startDate": null, "endDate": null}`, message, now.Format("2006-01-02"))
}
