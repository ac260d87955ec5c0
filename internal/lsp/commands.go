package lsp

import (
	"context"
	"errors"
	"log/slog"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/aidanlsb/tern/internal/config"
	"github.com/aidanlsb/tern/internal/daily"
)

func (s *Server) executeCommand(ctx context.Context, params protocol.ExecuteCommandParams) (*protocol.ShowDocumentResult, error) {
	switch params.Command {
	case CommandNote:
		if len(params.Arguments) == 0 {
			return nil, invalidParams("%s: missing notebook name", CommandNote)
		}
		notebook, ok := params.Arguments[0].(string)
		if !ok {
			return nil, invalidParams("%s: notebook name must be a string", CommandNote)
		}
		return s.note(ctx, notebook, dateArg(params.Arguments, 1))
	case CommandJump:
		return s.note(ctx, config.DailyNotebook, dateArg(params.Arguments, 0))
	default:
		return nil, invalidParams("unknown command: %s", params.Command)
	}
}

// dateArg returns args[i] when it is a non-empty string.
func dateArg(args []any, i int) *string {
	if i >= len(args) {
		return nil
	}
	if s, ok := args[i].(string); ok && s != "" {
		return &s
	}
	return nil
}

// note resolves notebook's note for date, creates it if needed and asks the
// editor to open it. Creation failures are logged and the note is opened
// regardless.
func (s *Server) note(ctx context.Context, notebook string, date *string) (*protocol.ShowDocumentResult, error) {
	target, err := daily.Resolve(s.vault.Root(), s.settings, notebook, date, s.now())
	var parseErr *daily.DateParseError
	switch {
	case errors.Is(err, daily.ErrNotebookNotFound):
		return nil, invalidParams("%v", err)
	case errors.As(err, &parseErr):
		if logErr := s.client.LogMessage(ctx, protocol.LogMessageParams{
			Type:    protocol.MessageTypeError,
			Message: err.Error(),
		}); logErr != nil {
			s.logger.Debug("lsp: failed to log message", slog.Any("error", logErr))
		}
		return nil, invalidParams("%v", err)
	case err != nil:
		return nil, err
	}

	created, err := daily.Ensure(target.Path)
	switch {
	case err != nil:
		s.logger.Debug("lsp: could not create note", slog.String("path", target.Path), slog.Any("error", err))
	case created:
		s.logger.Info("lsp: created note", slog.String("notebook", notebook), slog.String("path", target.Path))
		if s.vault.Snapshot() != nil {
			if err := s.vault.Reload(target.Path); err != nil {
				s.logger.Debug("lsp: could not index note", slog.String("path", target.Path), slog.Any("error", err))
			}
		}
	}

	uri, err := pathToURI(target.Path)
	if err != nil {
		return nil, err
	}
	external, takeFocus := false, true
	return s.client.ShowDocument(ctx, protocol.ShowDocumentParams{
		URI:       uri,
		External:  &external,
		TakeFocus: &takeFocus,
	})
}
