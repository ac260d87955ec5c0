// Package paths converts between absolute file paths and the vault-relative
// names that links are written with, and keeps generated paths inside the vault.
package paths

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrPathOutsideVault is returned when a path resolves outside the vault root.
var ErrPathOutsideVault = errors.New("path is outside vault")

// MarkdownExt is the extension of note files.
const MarkdownExt = ".md"

// ignoredDirs are never walked or watched.
var ignoredDirs = map[string]bool{
	".git":         true,
	".obsidian":    true,
	".trash":       true,
	"node_modules": true,
}

// IsIgnoredDir reports whether a directory name is excluded from the vault.
func IsIgnoredDir(name string) bool {
	return ignoredDirs[name]
}

// IsMarkdown reports whether path names a markdown note.
func IsMarkdown(path string) bool {
	return strings.EqualFold(filepath.Ext(path), MarkdownExt)
}

// RefName converts an absolute path to the name links use for it:
// relative to root, slash separated, with ".md" stripped.
//
// Examples (root "/vault"):
// - "/vault/people/freya.md" -> "people/freya"
// - "/vault/img/cat.png"     -> "img/cat.png"
func RefName(root, path string) (string, error) {
	rel, err := Rel(root, path)
	if err != nil {
		return "", err
	}
	if IsMarkdown(rel) {
		rel = rel[:len(rel)-len(MarkdownExt)]
	}
	return rel, nil
}

// Rel returns path relative to root using forward slashes.
func Rel(root, path string) (string, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", fmt.Errorf("relative path for %s: %w", path, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s: %w", path, ErrPathOutsideVault)
	}
	return filepath.ToSlash(rel), nil
}

// ValidateWithinVault returns ErrPathOutsideVault when target escapes root.
func ValidateWithinVault(root, target string) error {
	_, err := Rel(filepath.Clean(root), filepath.Clean(target))
	return err
}

// ForceMarkdown replaces any extension on path with ".md".
//
// Examples:
// - "notes/idea"     -> "notes/idea.md"
// - "notes/idea.txt" -> "notes/idea.md"
func ForceMarkdown(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + MarkdownExt
}

// WithMarkdownExt appends ".md" unless path already ends with it.
// Dotted date names such as "2024.01.15" keep every component.
func WithMarkdownExt(path string) string {
	if IsMarkdown(path) {
		return path
	}
	return path + MarkdownExt
}
