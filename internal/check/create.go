package check

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/aidanlsb/tern/internal/model"
	"github.com/aidanlsb/tern/internal/paths"
)

// Creatable returns the references in path that could be fixed by creating
// a file: strictly unresolved, anchor-free, and spanning sel on its line.
// Every kind qualifies, footnotes included.
// ok is false when path is not indexed.
func Creatable(ctx context.Context, idx Index, path string, sel model.Range) (refs []model.Reference, ok bool, err error) {
	all, ok := idx.SelectReferences(path)
	if !ok {
		return nil, false, nil
	}

	var candidates []model.Reference
	for _, ref := range all {
		if ref.HasAnchor() {
			continue
		}
		if !ref.Range.Contains(sel) {
			continue
		}
		candidates = append(candidates, ref)
	}
	if len(candidates) == 0 {
		return []model.Reference{}, true, nil
	}

	unresolved, err := Unresolved(ctx, candidates, idx.Referenceables(), idx.MatchesReference)
	if err != nil {
		return nil, true, err
	}
	if unresolved == nil {
		unresolved = []model.Reference{}
	}
	return unresolved, true, nil
}

// CreatePath is the file that creating ref's target would produce:
// root/<text> with its extension forced to ".md". Targets that escape the
// vault are rejected.
func CreatePath(root string, ref model.Reference) (string, error) {
	target := paths.ForceMarkdown(filepath.Join(root, filepath.FromSlash(ref.Text)))
	if err := paths.ValidateWithinVault(root, target); err != nil {
		return "", fmt.Errorf("create %q: %w", ref.Text, err)
	}
	return target, nil
}
