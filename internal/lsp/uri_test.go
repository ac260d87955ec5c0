package lsp

import (
	"path/filepath"
	"strings"
	"testing"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

func TestURIRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "my notes", "a b.md")
	u, err := pathToURI(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(u), "file://") || strings.Contains(string(u), " ") {
		t.Errorf("pathToURI = %q", u)
	}
	back, err := uriToPath(u)
	if err != nil {
		t.Fatal(err)
	}
	if back != path {
		t.Errorf("uriToPath = %q, want %q", back, path)
	}
}

func TestURIErrors(t *testing.T) {
	if _, err := pathToURI("relative/a.md"); err == nil {
		t.Error("relative path should fail")
	}
	for _, u := range []protocol.DocumentUri{"untitled:Untitled-1", "https://example.com/a.md", ""} {
		if _, err := uriToPath(u); err == nil {
			t.Errorf("uriToPath(%q) should fail", u)
		}
	}
}
