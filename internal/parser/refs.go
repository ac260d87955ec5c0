package parser

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/aidanlsb/tern/internal/model"
	"github.com/aidanlsb/tern/internal/wikilink"
)

var (
	// [text](target) or [text](<target> "title"), optionally as an image.
	markdownLinkRe = regexp.MustCompile(`!?\[([^\]]*)\]\(\s*(?:<([^>]+)>|([^)\s]+))(?:\s+"[^"]*")?\s*\)`)

	// A URL scheme such as "https:" or "mailto:".
	schemeRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*:`)

	footnoteRefRe = regexp.MustCompile(`\[\^([^\]\s]+)\]`)
	footnoteDefRe = regexp.MustCompile(`^\[\^([^\]\s]+)\]:`)

	tagRe = regexp.MustCompile(`(?:^|[\s,;])(#[\p{L}\p{N}_][\p{L}\p{N}_/-]*)`)

	blockIDRe = regexp.MustCompile(`(?:^|\s)(\^[A-Za-z0-9-]+)\s*$`)
)

// Anchor is a named location defined inside a file: a block id or a
// footnote definition.
type Anchor struct {
	ID    string      `json:"id"`
	Range model.Range `json:"range"`
}

// scanLinks finds wiki links and markdown links in scan, reporting ranges
// against line. scan is line with ignored regions blanked.
func scanLinks(path string, lineNo int, line, scan string) []model.Reference {
	var out []model.Reference
	for _, m := range wikilink.FindAll(scan) {
		out = append(out, model.Reference{
			Kind:    model.WikiLink,
			Path:    path,
			Text:    m.Target,
			Display: m.Display,
			Range:   span(lineNo, line, m.Start, m.End),
		})
	}

	for _, m := range markdownLinkRe.FindAllStringSubmatchIndex(scan, -1) {
		var target string
		switch {
		case m[4] >= 0:
			target = scan[m[4]:m[5]]
		case m[6] >= 0:
			target = scan[m[6]:m[7]]
		}
		target = strings.TrimSpace(target)
		if target == "" || schemeRe.MatchString(target) {
			continue
		}
		out = append(out, model.Reference{
			Kind:    model.MarkdownLink,
			Path:    path,
			Text:    target,
			Display: strings.TrimSpace(scan[m[2]:m[3]]),
			Range:   span(lineNo, line, m[0], m[1]),
		})
	}
	return out
}

// scanFootnotes finds footnote references, skipping the label of a
// definition at the start of the line.
func scanFootnotes(path string, lineNo int, line, scan string) []model.Reference {
	defEnd := -1
	if m := footnoteDefRe.FindStringIndex(scan); m != nil {
		defEnd = m[1] - 1
	}

	var out []model.Reference
	for _, m := range footnoteRefRe.FindAllStringSubmatchIndex(scan, -1) {
		if m[1] == defEnd {
			continue
		}
		out = append(out, model.Reference{
			Kind:  model.Footnote,
			Path:  path,
			Text:  "^" + scan[m[2]:m[3]],
			Range: span(lineNo, line, m[0], m[1]),
		})
	}
	return out
}

// scanTags finds "#tag" references. Purely numeric tags are ignored.
func scanTags(path string, lineNo int, line, scan string) []model.Reference {
	var out []model.Reference
	for _, m := range tagRe.FindAllStringSubmatchIndex(scan, -1) {
		name := scan[m[2]+1 : m[3]]
		if !hasNonDigit(name) {
			continue
		}
		out = append(out, model.Reference{
			Kind:  model.Tag,
			Path:  path,
			Text:  name,
			Range: span(lineNo, line, m[2], m[3]),
		})
	}
	return out
}

func hasNonDigit(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// scanBlockID finds a trailing "^block-id" marker.
func scanBlockID(lineNo int, line, scan string) (Anchor, bool) {
	m := blockIDRe.FindStringSubmatchIndex(scan)
	if m == nil {
		return Anchor{}, false
	}
	return Anchor{
		ID:    scan[m[2]+1 : m[3]],
		Range: span(lineNo, line, m[2], m[3]),
	}, true
}

// scanFootnoteDef finds a "[^label]:" definition at the start of the line.
// The anchor id keeps the "^".
func scanFootnoteDef(lineNo int, line, scan string) (Anchor, bool) {
	m := footnoteDefRe.FindStringSubmatchIndex(scan)
	if m == nil {
		return Anchor{}, false
	}
	return Anchor{
		ID:    "^" + scan[m[2]:m[3]],
		Range: span(lineNo, line, m[0], m[1]-1),
	}, true
}

func sortByColumn(refs []model.Reference) {
	sort.SliceStable(refs, func(i, j int) bool {
		return refs[i].Range.Start.Character < refs[j].Range.Start.Character
	})
}
