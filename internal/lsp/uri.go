package lsp

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"
	"go.lsp.dev/uri"

	"github.com/aidanlsb/tern/internal/model"
)

// pathToURI converts an absolute filesystem path to a file:// URI.
func pathToURI(path string) (protocol.DocumentUri, error) {
	if !filepath.IsAbs(path) {
		return "", fmt.Errorf("not an absolute path: %q", path)
	}
	return protocol.DocumentUri(uri.File(path)), nil
}

// uriToPath converts a file:// URI to a filesystem path.
func uriToPath(u protocol.DocumentUri) (string, error) {
	s := string(u)
	if !strings.HasPrefix(s, "file://") {
		return "", fmt.Errorf("not a file URI: %q", s)
	}
	if _, err := url.ParseRequestURI(s); err != nil {
		return "", fmt.Errorf("parse %q: %w", s, err)
	}
	return filepath.Clean(uri.URI(s).Filename()), nil
}

func toPosition(p model.Position) protocol.Position {
	return protocol.Position{
		Line:      protocol.UInteger(p.Line),
		Character: protocol.UInteger(p.Character),
	}
}

func toRange(r model.Range) protocol.Range {
	return protocol.Range{Start: toPosition(r.Start), End: toPosition(r.End)}
}

func fromRange(r protocol.Range) model.Range {
	return model.Range{
		Start: model.Position{Line: int(r.Start.Line), Character: int(r.Start.Character)},
		End:   model.Position{Line: int(r.End.Line), Character: int(r.End.Character)},
	}
}
