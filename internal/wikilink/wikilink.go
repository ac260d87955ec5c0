// Package wikilink scans Obsidian-style wiki links.
//
// Grammar:
//
//	[[target]]
//	[[target|display text]]
//	[[target#Heading]]
//	[[#^block-id|display text]]
//	![[embedded target]]
//
// The package does not understand code fences or inline code; the parser
// decides which regions of a line are scanned.
package wikilink

import (
	"regexp"
	"strings"
)

// Match is a wiki link found in a single line.
type Match struct {
	// Target is the trimmed link target, including any "#anchor".
	Target string
	// Display is the text after "|", or empty.
	Display string
	// Embed is set for "![[...]]" transclusions.
	Embed bool
	// Start and End are byte offsets of the whole literal, "!" included.
	Start int
	End   int
}

// The target may not contain brackets or "|"; "[[[x]]]" is left alone.
var re = regexp.MustCompile(`(!?)\[\[([^\]\[|]+)(?:\|([^\]]*))?\]\]`)

// FindAll returns the wiki links in line, left to right.
func FindAll(line string) []Match {
	var out []Match
	for _, m := range re.FindAllStringSubmatchIndex(line, -1) {
		start, end := m[0], m[1]
		embed := m[3] > m[2]
		if !embed && start > 0 && line[start-1] == '[' {
			continue
		}

		target := strings.TrimSpace(line[m[4]:m[5]])
		if target == "" {
			continue
		}

		var display string
		if m[6] >= 0 {
			display = strings.TrimSpace(line[m[6]:m[7]])
		}

		out = append(out, Match{
			Target:  target,
			Display: display,
			Embed:   embed,
			Start:   start,
			End:     end,
		})
	}
	return out
}

// Split separates a target into its file part and anchor. The anchor keeps a
// leading "^" for block references.
func Split(target string) (file, anchor string) {
	file, anchor, _ = strings.Cut(target, "#")
	return strings.TrimSpace(file), strings.TrimSpace(anchor)
}
