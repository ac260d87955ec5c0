package dates

import (
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

func newWhen() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}

// ParseFuzzy resolves a user-written date against now. It accepts, in
// order: today/tomorrow/yesterday and ISO dates, a name written in pattern
// (so a note's own filename round-trips), and natural language such as
// "next friday" or "in 3 days". The result is midnight in now's location.
func ParseFuzzy(input string, now time.Time, pattern string) (time.Time, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	if t, err := ParseDateArg(s, now); err == nil {
		return t, nil
	}
	if pattern != "" {
		if t, err := ParseFormat(pattern, s, now.Location()); err == nil {
			return StartOfDay(t), nil
		}
	}

	r, err := newWhen().Parse(s, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("no date found in %q", s)
	}
	return StartOfDay(r.Time.In(now.Location())), nil
}
