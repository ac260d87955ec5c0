package vault

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/aidanlsb/tern/internal/model"
	"github.com/aidanlsb/tern/internal/parser"
	"github.com/aidanlsb/tern/internal/resolver"
)

// Snapshot is an immutable view of the indexed vault. Readers may use a
// snapshot concurrently; edits produce a new snapshot.
type Snapshot struct {
	root  string
	docs  map[string]*parser.Document
	files map[string]struct{}

	derive  sync.Once
	order   []string
	refs    []model.Reference
	targets []model.Referenceable
}

func newSnapshot(root string, docs map[string]*parser.Document, files map[string]struct{}) *Snapshot {
	return &Snapshot{root: root, docs: docs, files: files}
}

// Root is the absolute vault directory.
func (s *Snapshot) Root() string { return s.root }

// Len is the number of markdown documents.
func (s *Snapshot) Len() int { return len(s.docs) }

// Document returns the parsed document at path.
func (s *Snapshot) Document(path string) (*parser.Document, bool) {
	doc, ok := s.docs[path]
	return doc, ok
}

// SelectReferences returns the references in one file. ok is false when the
// file is not indexed.
func (s *Snapshot) SelectReferences(path string) ([]model.Reference, bool) {
	doc, ok := s.docs[path]
	if !ok {
		return nil, false
	}
	return doc.References, true
}

// Headings returns one file's headings in document order.
func (s *Snapshot) Headings(path string) ([]model.Heading, bool) {
	doc, ok := s.docs[path]
	if !ok {
		return nil, false
	}
	return doc.Headings, true
}

// Paths lists the markdown documents, sorted.
func (s *Snapshot) Paths() []string {
	s.build()
	return s.order
}

// References returns every reference in the vault, grouped by file in path
// order.
func (s *Snapshot) References() []model.Reference {
	s.build()
	return s.refs
}

// Referenceables returns every target in the vault: documents with their
// headings, blocks, tags and footnotes, followed by non-markdown files.
func (s *Snapshot) Referenceables() []model.Referenceable {
	s.build()
	return s.targets
}

// MatchesReference is the strict predicate bound to this vault's root.
func (s *Snapshot) MatchesReference(target model.Referenceable, ref model.Reference) bool {
	return resolver.MatchesReference(s.root, target, ref)
}

// IsReference is the loose predicate bound to this vault's root.
func (s *Snapshot) IsReference(target model.Referenceable, ref model.Reference) bool {
	return resolver.IsReference(s.root, target, ref)
}

func (s *Snapshot) build() {
	s.derive.Do(func() {
		s.order = make([]string, 0, len(s.docs))
		for path := range s.docs {
			s.order = append(s.order, path)
		}
		sort.Strings(s.order)

		for _, path := range s.order {
			doc := s.docs[path]
			s.refs = append(s.refs, doc.References...)
			s.targets = append(s.targets, doc.Referenceables()...)
		}

		attachments := make([]string, 0, len(s.files))
		for path := range s.files {
			attachments = append(attachments, path)
		}
		sort.Strings(attachments)
		for _, path := range attachments {
			s.targets = append(s.targets, model.Referenceable{Kind: model.TargetFile, Path: path})
		}
	})
}

// withDocument returns a copy of s with doc added or replaced.
func (s *Snapshot) withDocument(doc *parser.Document) *Snapshot {
	docs := make(map[string]*parser.Document, len(s.docs)+1)
	for k, v := range s.docs {
		docs[k] = v
	}
	docs[doc.Path] = doc
	return newSnapshot(s.root, docs, s.files)
}

// withFile returns a copy of s with a non-markdown file added.
func (s *Snapshot) withFile(path string) *Snapshot {
	if _, ok := s.files[path]; ok {
		return s
	}
	files := make(map[string]struct{}, len(s.files)+1)
	for k := range s.files {
		files[k] = struct{}{}
	}
	files[path] = struct{}{}
	return newSnapshot(s.root, s.docs, files)
}

// without returns a copy of s with path and anything beneath it removed.
func (s *Snapshot) without(path string) *Snapshot {
	gone := func(k string) bool {
		return k == path || strings.HasPrefix(k, path+string(filepath.Separator))
	}
	docs := make(map[string]*parser.Document, len(s.docs))
	for k, v := range s.docs {
		if !gone(k) {
			docs[k] = v
		}
	}
	files := make(map[string]struct{}, len(s.files))
	for k := range s.files {
		if !gone(k) {
			files[k] = struct{}{}
		}
	}
	if len(docs) == len(s.docs) && len(files) == len(s.files) {
		return s
	}
	return newSnapshot(s.root, docs, files)
}
