package model

// Position is a zero-based line and UTF-16 column, the unit LSP clients use.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range is a half-open span of positions within one file.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Contains reports whether inner lies on this range's start line and within its columns.
func (r Range) Contains(inner Range) bool {
	return r.Start.Line == inner.Start.Line &&
		r.Start.Character <= inner.Start.Character &&
		r.End.Character >= inner.End.Character
}

// Heading is a markdown heading as it appears in document order.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	Range Range  `json:"range"`
}
