// Package slugs normalises names for the loose comparisons used when deciding
// whether a link is plausibly meant for a target.
package slugs

import (
	"strings"

	goslug "github.com/gosimple/slug"
)

// Heading converts heading or anchor text to its slug form, so that
// "My Heading", "my-heading" and "My  heading!" compare equal.
func Heading(text string) string {
	s := goslug.Make(text)
	if s == "" {
		return strings.ToLower(strings.TrimSpace(text))
	}
	return s
}

// Component slugs one path segment, ignoring a trailing ".md".
func Component(s string) string {
	s = strings.TrimSuffix(s, ".md")
	slugged := goslug.Make(s)
	if slugged == "" {
		slugged = strings.ToLower(strings.ReplaceAll(s, " ", "-"))
	}
	return slugged
}

// Path slugs every "/"-separated segment of a vault-relative name.
func Path(p string) string {
	parts := strings.Split(strings.TrimSuffix(p, ".md"), "/")
	for i, part := range parts {
		parts[i] = Component(part)
	}
	return strings.Join(parts, "/")
}

// EqualPath reports whether two names are equal after slugging.
func EqualPath(a, b string) bool {
	return Path(a) == Path(b)
}
