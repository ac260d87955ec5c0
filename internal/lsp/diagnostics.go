package lsp

import (
	"context"
	"log/slog"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/aidanlsb/tern/internal/check"
)

// diagnosticSource labels every diagnostic the server publishes.
const diagnosticSource = "tern"

// diagnostics reports each unresolved reference in path. ok is false when
// path is not indexed.
func diagnostics(ctx context.Context, idx check.Index, path string) ([]protocol.Diagnostic, bool, error) {
	issues, ok, err := check.File(ctx, idx, path)
	if err != nil || !ok {
		return nil, ok, err
	}

	severity := protocol.DiagnosticSeverityInformation
	source := diagnosticSource
	out := make([]protocol.Diagnostic, 0, len(issues))
	for _, issue := range issues {
		out = append(out, protocol.Diagnostic{
			Range:    toRange(issue.Reference.Range),
			Severity: &severity,
			Source:   &source,
			Message:  issue.Message(),
		})
	}
	return out, true, nil
}

// publishDiagnostics sends path's diagnostics, replacing any earlier set.
// Nothing is sent when diagnostics are disabled or path is not indexed.
func (s *Server) publishDiagnostics(ctx context.Context, path string) {
	if !s.settings.UnresolvedDiagnostics {
		return
	}
	snap := s.vault.Snapshot()
	if snap == nil {
		return
	}

	diags, ok, err := diagnostics(ctx, snap, path)
	if err != nil {
		s.logger.Debug("lsp: diagnostics failed", slog.String("path", path), slog.Any("error", err))
		return
	}
	if !ok {
		return
	}
	uri, err := pathToURI(path)
	if err != nil {
		s.logger.Debug("lsp: diagnostics skipped", slog.String("path", path), slog.Any("error", err))
		return
	}

	if err := s.client.PublishDiagnostics(ctx, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diags,
	}); err != nil {
		s.logger.Debug("lsp: failed to publish diagnostics", slog.Any("error", err))
	}
}
