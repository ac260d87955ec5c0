package lsp

import (
	"context"
	"path/filepath"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/aidanlsb/tern/internal/check"
	"github.com/aidanlsb/tern/internal/model"
	"github.com/aidanlsb/tern/internal/paths"
)

// createFileActions offers one "Create File" quick fix per unresolved
// reference under sel, duplicates included. The edit carries no options, so
// the client fails it if the file already exists. Targets that cannot be
// turned into a vault file are skipped.
func createFileActions(ctx context.Context, idx check.Index, path string, sel model.Range) ([]protocol.CodeAction, error) {
	refs, ok, err := check.Creatable(ctx, idx, path, sel)
	if err != nil {
		return nil, err
	}
	actions := []protocol.CodeAction{}
	if !ok {
		return actions, nil
	}

	root := idx.Root()
	kind := protocol.CodeActionKindQuickFix
	for _, ref := range refs {
		target, err := check.CreatePath(root, ref)
		if err != nil {
			continue
		}
		uri, err := pathToURI(target)
		if err != nil {
			continue
		}
		rel, err := paths.Rel(root, target)
		if err != nil {
			continue
		}
		actions = append(actions, protocol.CodeAction{
			Title: "Create File: " + filepath.ToSlash(rel),
			Kind:  &kind,
			Edit: &protocol.WorkspaceEdit{
				DocumentChanges: []any{
					protocol.CreateFile{Kind: "create", URI: uri},
				},
			},
		})
	}
	return actions, nil
}

func (s *Server) codeActions(ctx context.Context, params protocol.CodeActionParams) ([]protocol.CodeAction, error) {
	snap := s.vault.Snapshot()
	if snap == nil {
		return []protocol.CodeAction{}, nil
	}
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, invalidParams("%v", err)
	}
	return createFileActions(ctx, snap, path, fromRange(params.Range))
}
