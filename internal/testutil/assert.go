package testutil

import (
	"os"
	"strings"
)

// AssertFileExists fails the test if the file does not exist.
func (v *TestVault) AssertFileExists(relPath string) {
	v.t.Helper()
	if _, err := os.Stat(v.Abs(relPath)); os.IsNotExist(err) {
		v.t.Errorf("expected file to exist: %s", relPath)
	}
}

// AssertFileNotExists fails the test if the file exists.
func (v *TestVault) AssertFileNotExists(relPath string) {
	v.t.Helper()
	if _, err := os.Stat(v.Abs(relPath)); err == nil {
		v.t.Errorf("expected file to not exist: %s", relPath)
	}
}

// AssertFileContent fails the test if the file's content differs from want.
func (v *TestVault) AssertFileContent(relPath, want string) {
	v.t.Helper()
	if got := v.ReadFile(relPath); got != want {
		v.t.Errorf("file %s = %q, want %q", relPath, got, want)
	}
}

// AssertFileContains fails the test if the file does not contain substr.
func (v *TestVault) AssertFileContains(relPath, substr string) {
	v.t.Helper()
	content := v.ReadFile(relPath)
	if !strings.Contains(content, substr) {
		v.t.Errorf("expected file %s to contain %q, got:\n%s", relPath, substr, content)
	}
}
