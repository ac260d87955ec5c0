package lsp

import (
	"context"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// client is the editor side of the connection.
type client interface {
	PublishDiagnostics(ctx context.Context, params protocol.PublishDiagnosticsParams) error
	LogMessage(ctx context.Context, params protocol.LogMessageParams) error
	ShowDocument(ctx context.Context, params protocol.ShowDocumentParams) (*protocol.ShowDocumentResult, error)
}

// rpcClient reaches the editor over the server's JSON-RPC stream.
type rpcClient struct {
	s *Server
}

func (c rpcClient) PublishDiagnostics(_ context.Context, params protocol.PublishDiagnosticsParams) error {
	return c.s.notify("textDocument/publishDiagnostics", params)
}

func (c rpcClient) LogMessage(_ context.Context, params protocol.LogMessageParams) error {
	return c.s.notify("window/logMessage", params)
}

func (c rpcClient) ShowDocument(ctx context.Context, params protocol.ShowDocumentParams) (*protocol.ShowDocumentResult, error) {
	var result protocol.ShowDocumentResult
	if err := c.s.call(ctx, "window/showDocument", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
