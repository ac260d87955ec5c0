package parser

import "strings"

// fence tracks whether the scanner is inside a fenced code block.
type fence struct {
	open bool
	ch   byte
	n    int
}

// normalizeFenceLine strips indentation and blockquote prefixes so fences
// inside quotes and list items are still recognised.
func normalizeFenceLine(line string) string {
	s := strings.TrimLeft(line, " \t")
	for strings.HasPrefix(s, ">") {
		s = strings.TrimLeft(s[1:], " \t")
	}
	return s
}

// parseFenceMarker reports whether line opens or closes a fence, returning
// the fence character and its run length.
func parseFenceMarker(line string) (ch byte, n int, ok bool) {
	if len(line) < 3 {
		return 0, 0, false
	}
	ch = line[0]
	if ch != '`' && ch != '~' {
		return 0, 0, false
	}
	for n < len(line) && line[n] == ch {
		n++
	}
	if n < 3 {
		return 0, 0, false
	}
	return ch, n, true
}

// step advances the state past line and reports whether line is code:
// a fence marker or anything between markers.
func (f *fence) step(line string) bool {
	ch, n, ok := parseFenceMarker(normalizeFenceLine(line))
	switch {
	case ok && !f.open:
		*f = fence{open: true, ch: ch, n: n}
		return true
	case ok && ch == f.ch && n >= f.n:
		*f = fence{}
		return true
	}
	return f.open
}

// maskInlineCode blanks inline code spans with spaces, keeping byte offsets
// of everything else unchanged. A run of N backticks is closed only by a
// run of exactly N.
func maskInlineCode(line string) string {
	if strings.IndexByte(line, '`') < 0 {
		return line
	}
	out := []byte(line)
	for i := 0; i < len(out); {
		if out[i] != '`' {
			i++
			continue
		}
		start := i
		for i < len(out) && out[i] == '`' {
			i++
		}
		open := i - start

		for j := i; j < len(out); {
			if out[j] != '`' {
				j++
				continue
			}
			runStart := j
			for j < len(out) && out[j] == '`' {
				j++
			}
			if j-runStart == open {
				for k := start; k < j; k++ {
					out[k] = ' '
				}
				i = j
				break
			}
		}
	}
	return string(out)
}
