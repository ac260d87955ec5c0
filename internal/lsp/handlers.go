package lsp

import (
	"context"
	"encoding/json"
	"log/slog"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Commands served by workspace/executeCommand.
const (
	CommandNote = "note"
	CommandJump = "jump"
)

// Parameter types whose glsp counterparts decode through polymorphic fields.

type initializeParams struct {
	RootURI *protocol.DocumentUri `json:"rootUri"`
}

type didChangeParams struct {
	TextDocument   protocol.VersionedTextDocumentIdentifier `json:"textDocument"`
	ContentChanges []struct {
		Text string `json:"text"` // Full content (we use full sync)
	} `json:"contentChanges"`
}

func (s *Server) handleRequest(ctx context.Context, msg *jsonRPCMessage) (any, error) {
	if s.shutdown.Load() {
		return nil, &jsonRPCError{Code: codeInvalidRequest, Message: "server is shutting down"}
	}

	switch msg.Method {
	case "initialize":
		return s.handleInitialize(msg.Params)
	case "shutdown":
		s.shutdown.Store(true)
		return nil, nil
	case "textDocument/codeAction":
		var params protocol.CodeActionParams
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return nil, invalidParams("Invalid params")
		}
		return s.codeActions(ctx, params)
	case "textDocument/documentSymbol":
		var params protocol.DocumentSymbolParams
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return nil, invalidParams("Invalid params")
		}
		return s.documentSymbols(params)
	case "workspace/symbol":
		var params protocol.WorkspaceSymbolParams
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return nil, invalidParams("Invalid params")
		}
		return s.workspaceSymbols(), nil
	case "workspace/executeCommand":
		var params protocol.ExecuteCommandParams
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return nil, invalidParams("Invalid params")
		}
		return s.executeCommand(ctx, params)
	default:
		return nil, &jsonRPCError{Code: codeMethodNotFound, Message: "method not found: " + msg.Method}
	}
}

func (s *Server) handleNotification(ctx context.Context, msg *jsonRPCMessage) error {
	switch msg.Method {
	case "initialized":
		if s.vault.Snapshot() == nil {
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				s.load(ctx)
			}()
		}
		return nil
	case "textDocument/didOpen":
		var params protocol.DidOpenTextDocumentParams
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return err
		}
		return s.handleDidOpen(ctx, params)
	case "textDocument/didChange":
		var params didChangeParams
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return err
		}
		return s.handleDidChange(ctx, params)
	case "textDocument/didClose":
		var params protocol.DidCloseTextDocumentParams
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return err
		}
		return s.handleDidClose(params)
	default:
		s.logger.Debug("lsp: unhandled notification", slog.String("method", msg.Method))
		return nil
	}
}

func (s *Server) handleInitialize(raw json.RawMessage) (*protocol.InitializeResult, error) {
	var params initializeParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, invalidParams("Invalid params")
	}
	if params.RootURI != nil {
		if root, err := uriToPath(*params.RootURI); err == nil && root != s.vault.Root() {
			s.logger.Info("lsp: client root differs from vault", slog.String("client_root", root), slog.String("vault", s.vault.Root()))
		}
	}

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync:        protocol.TextDocumentSyncKindFull,
			CodeActionProvider:      true,
			DocumentSymbolProvider:  true,
			WorkspaceSymbolProvider: true,
			ExecuteCommandProvider: &protocol.ExecuteCommandOptions{
				Commands: []string{CommandNote, CommandJump},
			},
		},
	}, nil
}

// load indexes the vault, then re-applies open buffers over the disk
// contents and publishes their diagnostics.
func (s *Server) load(ctx context.Context) {
	if err := s.vault.Load(ctx); err != nil {
		s.logger.Error("lsp: failed to index vault", slog.Any("error", err))
		return
	}
	for _, doc := range s.documents.All() {
		s.vault.Update(doc.Path, doc.Content)
	}
	s.Refresh(ctx)
}

func (s *Server) handleDidOpen(ctx context.Context, params protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return err
	}
	s.documents.Open(params.TextDocument.URI, path, params.TextDocument.Text, int(params.TextDocument.Version))
	s.vault.Update(path, params.TextDocument.Text)
	s.publishDiagnostics(ctx, path)
	return nil
}

func (s *Server) handleDidChange(ctx context.Context, params didChangeParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return err
	}

	// We use full sync, so take the last content change
	content := params.ContentChanges[len(params.ContentChanges)-1].Text
	s.documents.Update(path, content, int(params.TextDocument.Version))
	s.vault.Update(path, content)
	s.publishDiagnostics(ctx, path)
	return nil
}

// handleDidClose drops the buffer and goes back to the file on disk.
func (s *Server) handleDidClose(params protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return err
	}
	s.documents.Close(path)
	if s.vault.Snapshot() == nil {
		return nil
	}
	return s.vault.Reload(path)
}

// IsOpen reports whether path is open in the editor. The watcher leaves
// open documents to the text sync handlers.
func (s *Server) IsOpen(path string) bool {
	return s.documents.IsOpen(path)
}

// Refresh republishes diagnostics for every open document, after changes
// elsewhere in the vault may have resolved or broken their references.
func (s *Server) Refresh(ctx context.Context) {
	for _, doc := range s.documents.All() {
		s.publishDiagnostics(ctx, doc.Path)
	}
}
