package lsp

import (
	"path/filepath"
	"strings"
	"time"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/aidanlsb/tern/internal/config"
	"github.com/aidanlsb/tern/internal/dates"
	"github.com/aidanlsb/tern/internal/model"
	"github.com/aidanlsb/tern/internal/outline"
	"github.com/aidanlsb/tern/internal/paths"
	"github.com/aidanlsb/tern/internal/vault"
)

// outlineSymbols nests a document's headings into symbols.
func outlineSymbols(headings []model.Heading) []protocol.DocumentSymbol {
	forest := outline.Build(headings)
	out := make([]protocol.DocumentSymbol, 0, len(forest))
	for _, n := range forest {
		out = append(out, headingSymbol(n))
	}
	return out
}

// headingSymbol recurses once per heading level, so at most six deep.
func headingSymbol(n *outline.Node) protocol.DocumentSymbol {
	h := n.Heading
	name := h.Text
	if strings.TrimSpace(name) == "" {
		name = strings.Repeat("#", h.Level)
	}
	sym := protocol.DocumentSymbol{
		Name:           name,
		Kind:           protocol.SymbolKindStruct,
		Range:          toRange(h.Range),
		SelectionRange: toRange(h.Range),
	}
	for _, child := range n.Children {
		sym.Children = append(sym.Children, headingSymbol(child))
	}
	return sym
}

func (s *Server) documentSymbols(params protocol.DocumentSymbolParams) ([]protocol.DocumentSymbol, error) {
	snap := s.vault.Snapshot()
	if snap == nil {
		return []protocol.DocumentSymbol{}, nil
	}
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, invalidParams("%v", err)
	}
	headings, ok := snap.Headings(path)
	if !ok {
		return []protocol.DocumentSymbol{}, nil
	}
	return outlineSymbols(headings), nil
}

func symbolKind(k model.ReferenceableKind) protocol.SymbolKind {
	switch k {
	case model.TargetFile:
		return protocol.SymbolKindFile
	case model.TargetTag:
		return protocol.SymbolKindConstant
	default:
		return protocol.SymbolKindKey
	}
}

// vaultSymbols lists every referenceable in the snapshot, then one entry
// per day from a week ago to a week ahead pointing at that day's daily
// note. Entries whose location cannot be expressed as a file URI are
// dropped.
func vaultSymbols(snap *vault.Snapshot, settings *config.Settings, now time.Time) []protocol.SymbolInformation {
	root := snap.Root()
	targets := snap.Referenceables()
	out := make([]protocol.SymbolInformation, 0, len(targets)+2*dates.RelativeWindow+1)

	for _, t := range targets {
		var rng protocol.Range
		switch {
		case t.Range != nil:
			rng = toRange(*t.Range)
		case t.Kind != model.TargetFile:
			continue
		}
		name, err := t.RefName(root)
		if err != nil {
			continue
		}
		uri, err := pathToURI(t.Path)
		if err != nil {
			continue
		}
		out = append(out, protocol.SymbolInformation{
			Name:     name,
			Kind:     symbolKind(t.Kind),
			Location: protocol.Location{URI: uri, Range: rng},
		})
	}

	today := dates.StartOfDay(now)
	for offset := -dates.RelativeWindow; offset <= dates.RelativeWindow; offset++ {
		date := today.AddDate(0, 0, offset)
		label, _ := dates.RelativeLabel(date, today)
		filename := dates.Format(settings.DailyNote, date)
		uri, err := pathToURI(filepath.Join(root, filepath.FromSlash(paths.WithMarkdownExt(filename))))
		if err != nil {
			continue
		}
		out = append(out, protocol.SymbolInformation{
			Name:     label + ": " + filename,
			Kind:     protocol.SymbolKindFile,
			Location: protocol.Location{URI: uri},
		})
	}
	return out
}

func (s *Server) workspaceSymbols() []protocol.SymbolInformation {
	snap := s.vault.Snapshot()
	if snap == nil {
		return []protocol.SymbolInformation{}
	}
	return vaultSymbols(snap, s.settings, s.now())
}
