// Package parser extracts the headings, references and anchors of markdown
// files.
package parser

import (
	"strings"

	"github.com/aidanlsb/tern/internal/model"
)

// Options control which regions of a file are scanned.
type Options struct {
	// TagsInCodeblocks scans fenced blocks and inline code for tags.
	TagsInCodeblocks bool
	// ReferencesInCodeblocks scans fenced blocks and inline code for links
	// and footnote references.
	ReferencesInCodeblocks bool
}

// DefaultOptions scans everything.
func DefaultOptions() Options {
	return Options{TagsInCodeblocks: true, ReferencesInCodeblocks: true}
}

// Document is the parsed form of one markdown file.
type Document struct {
	// Path is the absolute path of the file.
	Path string `json:"path"`

	Aliases    []string          `json:"aliases,omitempty"`
	Headings   []model.Heading   `json:"headings,omitempty"`
	References []model.Reference `json:"references,omitempty"`
	Blocks     []Anchor          `json:"blocks,omitempty"`
	Footnotes  []Anchor          `json:"footnotes,omitempty"`
}

// Parse parses markdown content read from path.
func Parse(path, content string, opts Options) *Document {
	lines := strings.Split(content, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}

	doc := &Document{Path: path}

	bodyStart := 0
	if end := frontmatterEnd(lines); end >= 0 {
		doc.Aliases = parseAliases(lines[1:end])
		bodyStart = end + 1
	}

	body := ""
	if bodyStart < len(lines) {
		body = strings.Join(lines[bodyStart:], "\n")
	}
	doc.Headings = extractHeadings(body, bodyStart, lines)

	var f fence
	for i := bodyStart; i < len(lines); i++ {
		line := lines[i]
		code := f.step(line)
		masked := line
		if !code {
			masked = maskInlineCode(line)
		}

		var found []model.Reference
		if !code || opts.ReferencesInCodeblocks {
			scan := masked
			if opts.ReferencesInCodeblocks {
				scan = line
			}
			found = append(found, scanLinks(path, i, line, scan)...)
			found = append(found, scanFootnotes(path, i, line, scan)...)
		}
		if !code || opts.TagsInCodeblocks {
			scan := masked
			if opts.TagsInCodeblocks {
				scan = line
			}
			found = append(found, scanTags(path, i, line, scan)...)
		}
		sortByColumn(found)
		doc.References = append(doc.References, found...)

		if code {
			continue
		}
		if a, ok := scanBlockID(i, line, masked); ok {
			doc.Blocks = append(doc.Blocks, a)
		}
		if a, ok := scanFootnoteDef(i, line, masked); ok {
			doc.Footnotes = append(doc.Footnotes, a)
		}
	}
	return doc
}

// Referenceables lists everything in the document that a reference can
// resolve to: the file itself, then its headings, blocks, tags and footnote
// definitions.
func (d *Document) Referenceables() []model.Referenceable {
	out := []model.Referenceable{{
		Kind:    model.TargetFile,
		Path:    d.Path,
		Aliases: d.Aliases,
	}}
	for _, h := range d.Headings {
		r := h.Range
		out = append(out, model.Referenceable{Kind: model.TargetHeading, Path: d.Path, Name: h.Text, Range: &r})
	}
	for _, b := range d.Blocks {
		r := b.Range
		out = append(out, model.Referenceable{Kind: model.TargetBlock, Path: d.Path, Name: b.ID, Range: &r})
	}
	for _, ref := range d.References {
		if ref.Kind != model.Tag {
			continue
		}
		r := ref.Range
		out = append(out, model.Referenceable{Kind: model.TargetTag, Path: d.Path, Name: ref.Text, Range: &r})
	}
	for _, fn := range d.Footnotes {
		r := fn.Range
		out = append(out, model.Referenceable{Kind: model.TargetFootnote, Path: d.Path, Name: fn.ID, Range: &r})
	}
	return out
}
