// Package testutil provides temporary vaults and CLI helpers for tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestVault is a temporary vault directory built from in-memory files.
type TestVault struct {
	Path  string
	t     *testing.T
	files map[string]string
}

// NewTestVault creates a vault builder. Call Build to write it to disk.
func NewTestVault(t *testing.T) *TestVault {
	t.Helper()
	return &TestVault{
		t:     t,
		files: make(map[string]string),
	}
}

// WithFile adds a file, relative to the vault root.
func (v *TestVault) WithFile(path, content string) *TestVault {
	v.files[path] = content
	return v
}

// WithConfig sets the vault's tern.yaml.
func (v *TestVault) WithConfig(yaml string) *TestVault {
	v.files["tern.yaml"] = yaml
	return v
}

// WithObsidianDailyNotes writes the Obsidian daily-notes plugin settings.
func (v *TestVault) WithObsidianDailyNotes(json string) *TestVault {
	v.files[filepath.Join(".obsidian", "daily-notes.json")] = json
	return v
}

// Build creates the vault directory and writes every configured file.
func (v *TestVault) Build() *TestVault {
	v.t.Helper()

	// Resolve symlinks so paths compare equal to what the OS reports
	// (macOS puts temp dirs behind /var -> /private/var).
	dir, err := filepath.EvalSymlinks(v.t.TempDir())
	if err != nil {
		v.t.Fatalf("failed to resolve temp dir: %v", err)
	}
	v.Path = dir

	for path, content := range v.files {
		v.writeFile(path, content)
	}
	return v
}

// Abs returns the absolute path of a vault-relative path.
func (v *TestVault) Abs(relPath string) string {
	return filepath.Join(v.Path, filepath.FromSlash(relPath))
}

// WriteFile writes a file after Build, creating directories as needed.
func (v *TestVault) WriteFile(relPath, content string) {
	v.t.Helper()
	v.writeFile(relPath, content)
}

func (v *TestVault) writeFile(relPath, content string) {
	v.t.Helper()
	fullPath := v.Abs(relPath)

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.t.Fatalf("failed to create directory %s: %v", dir, err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		v.t.Fatalf("failed to write file %s: %v", fullPath, err)
	}
}

// ReadFile reads a file from the vault.
func (v *TestVault) ReadFile(relPath string) string {
	v.t.Helper()
	content, err := os.ReadFile(v.Abs(relPath))
	if err != nil {
		v.t.Fatalf("failed to read file %s: %v", relPath, err)
	}
	return string(content)
}

// FileExists reports whether a file exists in the vault.
func (v *TestVault) FileExists(relPath string) bool {
	_, err := os.Stat(v.Abs(relPath))
	return err == nil
}

// FixedClock returns a clock that always reports t.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// Date is a local-time midnight on the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
}
