// Package daily maps notebooks of dated notes to files: which notebook a
// filename belongs to, and which file a notebook uses for a given date.
package daily

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aidanlsb/tern/internal/config"
	"github.com/aidanlsb/tern/internal/dates"
	"github.com/aidanlsb/tern/internal/paths"
)

// ErrNotebookNotFound is returned for a notebook name missing from settings.
var ErrNotebookNotFound = errors.New("notebook not found")

// DateParseError reports a date string that could not be resolved.
type DateParseError struct {
	Input  string
	Format string
	Err    error
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("could not parse date %q (note format %q)", e.Input, e.Format)
}

func (e *DateParseError) Unwrap() error { return e.Err }

// MatchNotebook returns the first configured notebook whose format parses a
// leading portion of filename. Trailing text such as an extension is
// ignored. When several formats parse the same filename the earliest
// configured notebook wins.
func MatchNotebook(s *config.Settings, filename string) (string, config.Notebook, bool) {
	for name, nb := range s.Notebooks.All() {
		if dates.MatchPrefix(nb.Format, filename) {
			return name, nb, true
		}
	}
	return "", config.Notebook{}, false
}

// Target is the note a notebook uses for one date.
type Target struct {
	Notebook string
	Date     time.Time
	Path     string
}

// Filename is the note's base name without the markdown extension.
func (t Target) Filename() string {
	return strings.TrimSuffix(filepath.Base(t.Path), paths.MarkdownExt)
}

// Resolve finds the note of notebook for date. A nil date means now. The
// date accepts ISO dates, today/tomorrow/yesterday, the notebook's own
// format and natural language such as "next friday".
func Resolve(root string, s *config.Settings, notebook string, date *string, now time.Time) (Target, error) {
	nb, ok := s.Notebook(notebook)
	if !ok {
		return Target{}, fmt.Errorf("%w: %s", ErrNotebookNotFound, notebook)
	}

	when := now
	if date != nil {
		parsed, err := dates.ParseFuzzy(*date, now, nb.Format)
		if err != nil {
			return Target{}, &DateParseError{Input: *date, Format: nb.Format, Err: err}
		}
		when = parsed
	}

	return Target{
		Notebook: notebook,
		Date:     when,
		Path:     NotePath(root, nb, when),
	}, nil
}

// NotePath is the file of nb for date: the folder under root, the date
// formatted with the notebook pattern, and a .md extension.
func NotePath(root string, nb config.Notebook, date time.Time) string {
	name := paths.WithMarkdownExt(dates.Format(nb.Format, date))
	return filepath.Join(root, filepath.FromSlash(nb.Folder), filepath.FromSlash(name))
}

// Ensure creates an empty note at path, with its parent directories,
// unless it already exists. An existing file is never modified.
func Ensure(path string) (bool, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, fmt.Errorf("create note directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if errors.Is(err, os.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("create note: %w", err)
	}
	if err := f.Close(); err != nil {
		return true, fmt.Errorf("create note: %w", err)
	}
	return true, nil
}
