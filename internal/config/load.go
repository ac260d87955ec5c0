// Package config loads tern settings from defaults, the Obsidian daily-notes
// plugin, a global TOML file and a per-vault YAML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// VaultFile is the per-vault settings file.
const VaultFile = "tern.yaml"

// ErrInvalid wraps every configuration error.
var ErrInvalid = errors.New("invalid configuration")

// overlay is one settings source. Unset fields leave earlier values alone.
type overlay struct {
	DailyNote              *string   `toml:"dailynote" yaml:"dailynote"`
	UnresolvedDiagnostics  *bool     `toml:"unresolved_diagnostics" yaml:"unresolved_diagnostics"`
	TagsInCodeblocks       *bool     `toml:"tags_in_codeblocks" yaml:"tags_in_codeblocks"`
	ReferencesInCodeblocks *bool     `toml:"references_in_codeblocks" yaml:"references_in_codeblocks"`
	Notebooks              Notebooks `toml:"-" yaml:"notebooks"`
}

func (o *overlay) apply(s *Settings) {
	if o.DailyNote != nil {
		s.DailyNote = *o.DailyNote
	}
	if o.UnresolvedDiagnostics != nil {
		s.UnresolvedDiagnostics = *o.UnresolvedDiagnostics
	}
	if o.TagsInCodeblocks != nil {
		s.TagsInCodeblocks = *o.TagsInCodeblocks
	}
	if o.ReferencesInCodeblocks != nil {
		s.ReferencesInCodeblocks = *o.ReferencesInCodeblocks
	}
	s.Notebooks.merge(o.Notebooks)
}

// Defaults returns the built-in settings for a vault. The daily note format
// comes from the Obsidian daily-notes plugin when the vault has one.
func Defaults(vaultPath string) *Settings {
	format := DefaultDailyNote
	if obsidian, ok := ObsidianDailyNoteFormat(vaultPath); ok {
		format = obsidian
	}
	return &Settings{
		DailyNote:              format,
		UnresolvedDiagnostics:  true,
		TagsInCodeblocks:       true,
		ReferencesInCodeblocks: true,
	}
}

// Load merges defaults, the global config and the vault's tern.yaml, then
// validates the result. An empty globalPath means DefaultPath, which may
// be absent; an explicit globalPath must exist.
func Load(vaultPath, globalPath string) (*Settings, error) {
	s := Defaults(vaultPath)

	required := globalPath != ""
	if globalPath == "" {
		globalPath = DefaultPath()
	}
	if err := loadTOML(globalPath, required, s); err != nil {
		return nil, err
	}
	if err := loadYAML(filepath.Join(vaultPath, VaultFile), s); err != nil {
		return nil, err
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return s, nil
}

// readExpanded reads a config file and expands $VAR references.
func readExpanded(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return os.ExpandEnv(string(data)), nil
}

func loadTOML(path string, required bool, s *Settings) error {
	data, err := readExpanded(path)
	if errors.Is(err, fs.ErrNotExist) && !required {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: read %s: %w", ErrInvalid, path, err)
	}

	var o overlay
	md, err := toml.Decode(data, &o)
	if err != nil {
		return fmt.Errorf("%w: parse %s: %w", ErrInvalid, path, err)
	}

	// TOML tables decode into maps, so recover the declared order from
	// the metadata keys.
	var tables struct {
		Notebooks map[string]Notebook `toml:"notebooks"`
	}
	if _, err := toml.Decode(data, &tables); err != nil {
		return fmt.Errorf("%w: parse %s: %w", ErrInvalid, path, err)
	}
	for _, key := range md.Keys() {
		if len(key) == 2 && key[0] == "notebooks" {
			o.Notebooks.Set(key[1], tables.Notebooks[key[1]])
		}
	}

	o.apply(s)
	return nil
}

func loadYAML(path string, s *Settings) error {
	data, err := readExpanded(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: read %s: %w", ErrInvalid, path, err)
	}

	var o overlay
	if err := yaml.Unmarshal([]byte(data), &o); err != nil {
		return fmt.Errorf("%w: parse %s: %w", ErrInvalid, path, err)
	}
	o.apply(s)
	return nil
}

// DefaultPath returns the global config path: $XDG_CONFIG_HOME/tern/config.toml,
// else ~/.config/tern/config.toml.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tern", "config.toml")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "tern", "config.toml")
	}
	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "tern", "config.toml")
	}
	return filepath.Join(".", "config.toml")
}
