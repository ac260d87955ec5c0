package parser

import (
	"unicode/utf16"

	"github.com/aidanlsb/tern/internal/model"
)

// utf16Len counts the UTF-16 code units in s.
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}

// span converts byte offsets within one line to an LSP range.
func span(lineNo int, line string, start, end int) model.Range {
	return model.Range{
		Start: model.Position{Line: lineNo, Character: utf16Len(line[:start])},
		End:   model.Position{Line: lineNo, Character: utf16Len(line[:end])},
	}
}
