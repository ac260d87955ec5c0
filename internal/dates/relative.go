package dates

import (
	"strings"
	"time"
)

// RelativeWindow is how many days either side of today get a relative label.
const RelativeWindow = 7

// ResolveKeyword resolves "today", "tomorrow" and "yesterday" against now.
func ResolveKeyword(value string, now time.Time) (time.Time, bool) {
	anchor := StartOfDay(now)
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "today":
		return anchor, true
	case "tomorrow":
		return anchor.AddDate(0, 0, 1), true
	case "yesterday":
		return anchor.AddDate(0, 0, -1), true
	default:
		return time.Time{}, false
	}
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DayOffset counts calendar days from today to date, ignoring time of day
// and daylight-saving shifts.
func DayOffset(date, today time.Time) int {
	d := time.Date(date.Year(), date.Month(), date.Day(), 12, 0, 0, 0, time.UTC)
	t := time.Date(today.Year(), today.Month(), today.Day(), 12, 0, 0, 0, time.UTC)
	return int(d.Sub(t) / (24 * time.Hour))
}

// RelativeLabel names date relative to today: "today", "tomorrow",
// "yesterday", "next Monday" for two to seven days ahead, and
// "last Monday" for two to seven days back. Dates further out have no label.
func RelativeLabel(date, today time.Time) (string, bool) {
	offset := DayOffset(date, today)
	switch {
	case offset == 0:
		return "today", true
	case offset == 1:
		return "tomorrow", true
	case offset == -1:
		return "yesterday", true
	case offset >= 2 && offset <= RelativeWindow:
		return "next " + date.Weekday().String(), true
	case offset <= -2 && offset >= -RelativeWindow:
		return "last " + date.Weekday().String(), true
	default:
		return "", false
	}
}
