package ui

import (
	"fmt"

	"github.com/dustin/go-humanize/english"
)

// Unicode symbols for status indicators
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "⚠"
)

// Success returns a success message with checkmark symbol
func Success(msg string) string {
	return fmt.Sprintf("%s %s", SymbolSuccess, msg)
}

// Successf returns a formatted success message with checkmark symbol
func Successf(format string, args ...interface{}) string {
	return Success(fmt.Sprintf(format, args...))
}

// Error returns an error message with X symbol
func Error(msg string) string {
	return fmt.Sprintf("%s %s", SymbolError, msg)
}

// Warning returns a warning message with warning symbol
func Warning(msg string) string {
	return fmt.Sprintf("%s %s", SymbolWarning, msg)
}

// Header returns a styled section header
func Header(msg string) string {
	return Bold.Render(msg)
}

// FilePath returns an accent-styled file path
func FilePath(path string) string {
	return Accent.Render(path)
}

// Location renders "path:line:col" with 1-based line and column.
func Location(path string, line, col int) string {
	return FilePath(path) + Muted.Render(fmt.Sprintf(":%d:%d", line+1, col+1))
}

// Hint returns muted hint text
func Hint(msg string) string {
	return Muted.Render(msg)
}

// Count renders a count with its noun, e.g. "1 reference" or "3 references".
func Count(n int, noun string) string {
	return english.Plural(n, noun, "")
}

// Badge is Count in muted parentheses, e.g. "(3 uses)".
func Badge(n int, noun string) string {
	return Muted.Render("(" + Count(n, noun) + ")")
}
