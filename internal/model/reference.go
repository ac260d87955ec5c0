package model

import (
	"fmt"
	"strings"
)

// ReferenceKind is the syntax a reference was written in.
type ReferenceKind int

const (
	WikiLink ReferenceKind = iota + 1
	MarkdownLink
	Tag
	Footnote
)

var referenceKindNames = map[ReferenceKind]string{
	WikiLink:     "wikilink",
	MarkdownLink: "markdown",
	Tag:          "tag",
	Footnote:     "footnote",
}

func (k ReferenceKind) String() string {
	if name, ok := referenceKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ReferenceKind(%d)", int(k))
}

// MarshalText renders the kind by name in JSON output.
func (k ReferenceKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// IsLink reports whether the reference names a file (optionally with an anchor).
func (k ReferenceKind) IsLink() bool {
	return k == WikiLink || k == MarkdownLink
}

// Reference is one occurrence of link syntax inside a markdown file.
type Reference struct {
	Kind ReferenceKind `json:"kind"`

	// Path is the absolute path of the file that contains the reference.
	Path string `json:"path"`

	// Text is the target as written. For links this includes any "#anchor"
	// suffix, for tags it is the tag without "#", and for footnotes it is
	// the "^id" label.
	Text string `json:"text"`

	// Display is the alias or link text shown to the reader, if any.
	Display string `json:"display,omitempty"`

	Range Range `json:"range"`
}

// Target splits a link's text into its file part and anchor.
func (r Reference) Target() (file, anchor string, hasAnchor bool) {
	return strings.Cut(r.Text, "#")
}

// HasAnchor reports whether the reference text names a heading or block.
func (r Reference) HasAnchor() bool {
	return strings.Contains(r.Text, "#")
}
