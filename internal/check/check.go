// Package check finds references that do not resolve to anything in the
// vault.
package check

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/aidanlsb/tern/internal/model"
)

// Index is the read-only view of a vault that checks run against.
type Index interface {
	Root() string
	SelectReferences(path string) ([]model.Reference, bool)
	References() []model.Reference
	Referenceables() []model.Referenceable
	MatchesReference(target model.Referenceable, ref model.Reference) bool
	IsReference(target model.Referenceable, ref model.Reference) bool
}

// Predicate reports whether target satisfies ref.
type Predicate func(target model.Referenceable, ref model.Reference) bool

// Unresolved returns the references that no target satisfies, preserving
// input order. Work is split across GOMAXPROCS goroutines; each writes to a
// disjoint part of the result mask.
func Unresolved(ctx context.Context, refs []model.Reference, targets []model.Referenceable, match Predicate) ([]model.Reference, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	resolved := make([]bool, len(refs))
	workers := runtime.GOMAXPROCS(0)
	chunk := (len(refs) + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	for start := 0; start < len(refs); start += chunk {
		end := min(start+chunk, len(refs))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				resolved[i] = anyMatch(targets, refs[i], match)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []model.Reference
	for i, ok := range resolved {
		if !ok {
			out = append(out, refs[i])
		}
	}
	return out, nil
}

func anyMatch(targets []model.Referenceable, ref model.Reference, match Predicate) bool {
	for _, t := range targets {
		if match(t, ref) {
			return true
		}
	}
	return false
}

// Issue is an unresolved reference in one file.
type Issue struct {
	Reference model.Reference `json:"reference"`
	// Count is how many references across the vault share this unresolved
	// target, this one included.
	Count int `json:"count"`
}

// Message is the text shown to the user for the issue.
func (i Issue) Message() string {
	if i.Count > 1 {
		return fmt.Sprintf("Unresolved Reference used %d times", i.Count)
	}
	return "Unresolved Reference"
}

// groupKey identifies references that point at the same thing. Footnotes
// are scoped to their file.
type groupKey struct {
	kind model.ReferenceKind
	text string
	path string
}

func keyOf(ref model.Reference) groupKey {
	k := groupKey{kind: ref.Kind, text: ref.Text}
	if ref.Kind == model.Footnote {
		k.path = ref.Path
	}
	return k
}

// File returns the loosely unresolved references in path, each with a
// vault-wide count of unresolved references sharing its kind and text.
// ok is false when path is not indexed.
func File(ctx context.Context, idx Index, path string) (issues []Issue, ok bool, err error) {
	refs, ok := idx.SelectReferences(path)
	if !ok {
		return nil, false, nil
	}

	targets := idx.Referenceables()
	unresolved, err := Unresolved(ctx, refs, targets, idx.IsReference)
	if err != nil {
		return nil, true, err
	}
	if len(unresolved) == 0 {
		return []Issue{}, true, nil
	}

	wanted := make(map[groupKey][]model.Reference)
	for _, ref := range unresolved {
		wanted[keyOf(ref)] = nil
	}
	for _, ref := range idx.References() {
		k := keyOf(ref)
		if group, ok := wanted[k]; ok {
			wanted[k] = append(group, ref)
		}
	}

	counts := make(map[groupKey]int, len(wanted))
	issues = make([]Issue, 0, len(unresolved))
	for _, ref := range unresolved {
		k := keyOf(ref)
		n, cached := counts[k]
		if !cached {
			same, err := Unresolved(ctx, wanted[k], targets, idx.IsReference)
			if err != nil {
				return nil, true, err
			}
			n = max(len(same), 1)
			counts[k] = n
		}
		issues = append(issues, Issue{Reference: ref, Count: n})
	}
	return issues, true, nil
}

// Vault checks every indexed file, in path order.
func Vault(ctx context.Context, idx Index, paths []string) ([]Issue, error) {
	var all []Issue
	for _, path := range paths {
		issues, ok, err := File(ctx, idx, path)
		if err != nil {
			return nil, err
		}
		if ok {
			all = append(all, issues...)
		}
	}
	return all, nil
}
