// Package dates parses user-supplied dates and converts between dates and
// the strftime-style names of daily notes.
package dates

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DateLayout is the ISO calendar date layout.
const DateLayout = "2006-01-02"

var dateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// IsValidDate checks if a string is a valid YYYY-MM-DD date.
func IsValidDate(s string) bool {
	if !dateRegex.MatchString(s) {
		return false
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// ParseDate parses a YYYY-MM-DD date at midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if !IsValidDate(s) {
		return time.Time{}, fmt.Errorf("invalid date: %q", s)
	}
	return time.ParseInLocation(DateLayout, s, loc)
}

// ParseDateArg resolves "today", "yesterday", "tomorrow" or an ISO date
// relative to now. The empty string is today.
func ParseDateArg(arg string, now time.Time) (time.Time, error) {
	dateArg := strings.ToLower(strings.TrimSpace(arg))
	if dateArg == "" {
		return StartOfDay(now), nil
	}
	if keyword, ok := ResolveKeyword(dateArg, now); ok {
		return keyword, nil
	}
	parsed, err := ParseDate(dateArg, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format '%s', use YYYY-MM-DD or today/yesterday/tomorrow", arg)
	}
	return parsed, nil
}
