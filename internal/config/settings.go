package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/aidanlsb/tern/internal/dates"
)

// DefaultDailyNote is the daily note format when nothing else is configured.
const DefaultDailyNote = "%Y-%m-%d"

// DailyNotebook is the notebook the "jump" command opens.
const DailyNotebook = "daily"

// Settings is the merged configuration for one vault.
type Settings struct {
	// DailyNote is the strftime pattern of daily note filenames.
	DailyNote string `json:"dailynote"`

	// Notebooks are named folders of dated notes, in configuration order.
	Notebooks Notebooks `json:"notebooks"`

	// UnresolvedDiagnostics publishes a diagnostic for each unresolved reference.
	UnresolvedDiagnostics bool `json:"unresolved_diagnostics"`

	// TagsInCodeblocks indexes tags found in code blocks and inline code.
	TagsInCodeblocks bool `json:"tags_in_codeblocks"`

	// ReferencesInCodeblocks indexes links found in code blocks and inline code.
	ReferencesInCodeblocks bool `json:"references_in_codeblocks"`
}

// Notebook is a folder of notes named by date.
type Notebook struct {
	// Folder is relative to the vault root; empty means the root itself.
	Folder string `toml:"folder" yaml:"folder" json:"folder"`
	// Format is the strftime pattern of note filenames, without extension.
	Format string `toml:"note_format" yaml:"note_format" json:"note_format"`
}

// Notebook returns the named notebook. When no notebook called "daily" is
// configured, one is synthesised at the vault root using DailyNote.
func (s *Settings) Notebook(name string) (Notebook, bool) {
	if nb, ok := s.Notebooks.Get(name); ok {
		return nb, true
	}
	if name == DailyNotebook {
		return Notebook{Format: s.DailyNote}, true
	}
	return Notebook{}, false
}

// Validate checks the daily note format and every notebook.
func (s *Settings) Validate() error {
	errs := validation.Errors{}
	if err := validation.Validate(s.DailyNote, validation.Required, validation.By(strftimePattern)); err != nil {
		errs["dailynote"] = err
	}
	for name, nb := range s.Notebooks.All() {
		if err := nb.Validate(); err != nil {
			errs["notebooks."+name] = err
		}
	}
	return errs.Filter()
}

// Validate checks that the notebook has a usable format and stays inside the vault.
func (n Notebook) Validate() error {
	return validation.ValidateStruct(&n,
		validation.Field(&n.Format, validation.Required, validation.By(strftimePattern)),
		validation.Field(&n.Folder, validation.By(relativeFolder)),
	)
}

func strftimePattern(value interface{}) error {
	s, _ := value.(string)
	if _, err := dates.Layout(s); err != nil {
		return errors.New("must be a supported strftime pattern")
	}
	return nil
}

func relativeFolder(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if filepath.IsAbs(s) || strings.HasPrefix(s, "/") {
		return errors.New("must be relative to the vault")
	}
	clean := filepath.Clean(filepath.FromSlash(s))
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return errors.New("must stay inside the vault")
	}
	return nil
}

// Notebooks is an ordered name -> Notebook mapping. Order is significant:
// filename matching tries notebooks first to last.
type Notebooks struct {
	names  []string
	byName map[string]Notebook
}

// Set adds or replaces a notebook. A replaced notebook keeps its position.
func (n *Notebooks) Set(name string, nb Notebook) {
	if n.byName == nil {
		n.byName = make(map[string]Notebook)
	}
	if _, ok := n.byName[name]; !ok {
		n.names = append(n.names, name)
	}
	n.byName[name] = nb
}

// Get returns the named notebook.
func (n Notebooks) Get(name string) (Notebook, bool) {
	nb, ok := n.byName[name]
	return nb, ok
}

// Names lists notebook names in order.
func (n Notebooks) Names() []string { return n.names }

// Len is the number of notebooks.
func (n Notebooks) Len() int { return len(n.names) }

// All iterates notebooks in order.
func (n Notebooks) All() iter.Seq2[string, Notebook] {
	return func(yield func(string, Notebook) bool) {
		for _, name := range n.names {
			if !yield(name, n.byName[name]) {
				return
			}
		}
	}
}

// merge overlays other onto n.
func (n *Notebooks) merge(other Notebooks) {
	for name, nb := range other.All() {
		n.Set(name, nb)
	}
}

// MarshalJSON renders notebooks as an ordered list.
func (n Notebooks) MarshalJSON() ([]byte, error) {
	type entry struct {
		Name string `json:"name"`
		Notebook
	}
	entries := make([]entry, 0, len(n.names))
	for name, nb := range n.All() {
		entries = append(entries, entry{Name: name, Notebook: nb})
	}
	return json.Marshal(entries)
}

// UnmarshalYAML keeps the mapping's key order.
func (n *Notebooks) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: notebooks must be a mapping", value.Line)
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, body := value.Content[i], value.Content[i+1]
		var nb Notebook
		if err := body.Decode(&nb); err != nil {
			return fmt.Errorf("notebook %q: %w", key.Value, err)
		}
		n.Set(key.Value, nb)
	}
	return nil
}
