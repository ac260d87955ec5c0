package lsp

import (
	"context"
	"sync"
	"testing"
	"time"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/aidanlsb/tern/internal/parser"
	"github.com/aidanlsb/tern/internal/testutil"
	"github.com/aidanlsb/tern/internal/vault"
)

// fakeClient records what the server sends to the editor.
type fakeClient struct {
	mu          sync.Mutex
	diagnostics []protocol.PublishDiagnosticsParams
	logs        []protocol.LogMessageParams
	shown       []protocol.ShowDocumentParams
}

func (c *fakeClient) PublishDiagnostics(_ context.Context, params protocol.PublishDiagnosticsParams) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diagnostics = append(c.diagnostics, params)
	return nil
}

func (c *fakeClient) LogMessage(_ context.Context, params protocol.LogMessageParams) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logs = append(c.logs, params)
	return nil
}

func (c *fakeClient) ShowDocument(_ context.Context, params protocol.ShowDocumentParams) (*protocol.ShowDocumentResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shown = append(c.shown, params)
	return &protocol.ShowDocumentResult{Success: true}, nil
}

func withClient(c client) Option {
	return func(s *Server) { s.client = c }
}

// monday is 2024-01-15 10:30 local time.
var monday = time.Date(2024, time.January, 15, 10, 30, 0, 0, time.Local)

func loadVault(t *testing.T, tv *testutil.TestVault) *vault.Vault {
	t.Helper()
	v := vault.New(tv.Path, parser.DefaultOptions(), nil)
	if err := v.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return v
}

func newTestServer(t *testing.T, tv *testutil.TestVault, opts ...Option) (*Server, *fakeClient) {
	t.Helper()
	fc := &fakeClient{}
	opts = append([]Option{WithClock(testutil.FixedClock(monday)), withClient(fc)}, opts...)
	return NewServer(loadVault(t, tv), opts...), fc
}

func mustURI(t *testing.T, path string) protocol.DocumentUri {
	t.Helper()
	u, err := pathToURI(path)
	if err != nil {
		t.Fatal(err)
	}
	return u
}
