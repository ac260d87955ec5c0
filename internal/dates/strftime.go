package dates

import (
	"fmt"
	"strings"
	"time"

	"github.com/ncruces/go-strftime"
)

// unpaddedLayouts maps the "%-x" glibc extension to Go layout elements.
var unpaddedLayouts = map[byte]string{
	'd': "2",
	'm': "1",
	'I': "3",
	'M': "4",
	'S': "5",
}

// segment is a run of a strftime pattern: either plain strftime or a single
// unpadded "%-x" directive.
type segment struct {
	text     string
	unpadded byte
}

func splitPattern(pattern string) []segment {
	var out []segment
	start := 0
	for i := 0; i+2 < len(pattern); i++ {
		if pattern[i] != '%' {
			continue
		}
		if pattern[i+1] == '%' {
			i++
			continue
		}
		if pattern[i+1] == '-' {
			if i > start {
				out = append(out, segment{text: pattern[start:i]})
			}
			out = append(out, segment{unpadded: pattern[i+2]})
			start = i + 3
			i += 2
		}
	}
	if start < len(pattern) {
		out = append(out, segment{text: pattern[start:]})
	}
	return out
}

// Format renders t with a strftime pattern such as "%Y-%m-%d". The "%-d"
// style unpadded directives are supported.
func Format(pattern string, t time.Time) string {
	var sb strings.Builder
	for _, seg := range splitPattern(pattern) {
		if seg.unpadded == 0 {
			sb.WriteString(strftime.Format(seg.text, t))
			continue
		}
		s := strings.TrimLeft(strftime.Format("%"+string(seg.unpadded), t), "0 ")
		if s == "" {
			s = "0"
		}
		sb.WriteString(s)
	}
	return sb.String()
}

// Layout converts a strftime pattern to a Go time layout.
func Layout(pattern string) (string, error) {
	var sb strings.Builder
	for _, seg := range splitPattern(pattern) {
		if seg.unpadded == 0 {
			l, err := strftime.Layout(seg.text)
			if err != nil {
				return "", fmt.Errorf("date format %q: %w", pattern, err)
			}
			sb.WriteString(l)
			continue
		}
		l, ok := unpaddedLayouts[seg.unpadded]
		if !ok {
			return "", fmt.Errorf("date format %q: unsupported directive %%-%c", pattern, seg.unpadded)
		}
		sb.WriteString(l)
	}
	return sb.String(), nil
}

// ParseFormat parses s, which must match pattern exactly, as a date in loc.
func ParseFormat(pattern, s string, loc *time.Location) (time.Time, error) {
	layout, err := Layout(pattern)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.ParseInLocation(layout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %q with %q: %w", s, pattern, err)
	}
	return t, nil
}

// MatchPrefix reports whether some leading portion of s parses with
// pattern, so "2024-01-15 standup" matches "%Y-%m-%d". A pattern that cannot
// be converted matches nothing.
func MatchPrefix(pattern, s string) bool {
	layout, err := Layout(pattern)
	if err != nil {
		return false
	}
	for n := len(s); n > 0; n-- {
		if _, err := time.Parse(layout, s[:n]); err == nil {
			return true
		}
	}
	return false
}
