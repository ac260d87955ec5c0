package parser

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/aidanlsb/tern/internal/model"
)

var markdown = goldmark.New()

// extractHeadings returns the headings of body in document order. Lines are
// numbered from startLine so callers can skip frontmatter; lines holds the
// whole file so ranges can span each heading's full line.
func extractHeadings(body string, startLine int, lines []string) []model.Heading {
	source := []byte(body)
	doc := markdown.Parser().Parse(text.NewReader(source))
	lineStarts := computeLineStarts(body)

	var headings []model.Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}

		var sb strings.Builder
		inlineText(heading, source, &sb)
		title := strings.TrimSpace(sb.String())
		if title == "" || heading.Lines().Len() == 0 {
			return ast.WalkSkipChildren, nil
		}

		line := startLine + offsetToLine(lineStarts, heading.Lines().At(0).Start)
		var full string
		if line < len(lines) {
			full = lines[line]
		}
		headings = append(headings, model.Heading{
			Level: heading.Level,
			Text:  title,
			Range: span(line, full, 0, len(full)),
		})
		return ast.WalkSkipChildren, nil
	})
	return headings
}

// inlineText concatenates the literal text beneath n, dropping markup.
func inlineText(n ast.Node, source []byte, sb *strings.Builder) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(t.Value)
		default:
			inlineText(c, source, sb)
		}
	}
}

// computeLineStarts returns the byte offset at which each line begins.
func computeLineStarts(content string) []int {
	starts := []int{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' && i+1 < len(content) {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// offsetToLine converts a byte offset to a zero-based line index.
func offsetToLine(lineStarts []int, offset int) int {
	for i := len(lineStarts) - 1; i >= 0; i-- {
		if lineStarts[i] <= offset {
			return i
		}
	}
	return 0
}
