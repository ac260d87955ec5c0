package lsp

import (
	"sync"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// DocumentManager tracks the documents open in the editor. While a
// document is open its buffer, not the file on disk, is what the vault
// indexes.
type DocumentManager struct {
	mu        sync.RWMutex
	documents map[string]*Document
}

// Document represents an open document in the editor.
type Document struct {
	URI     protocol.DocumentUri
	Path    string
	Content string
	Version int
}

// NewDocumentManager creates a new document manager.
func NewDocumentManager() *DocumentManager {
	return &DocumentManager{
		documents: make(map[string]*Document),
	}
}

// Open registers a newly opened document.
func (dm *DocumentManager) Open(uri protocol.DocumentUri, path, content string, version int) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	dm.documents[path] = &Document{
		URI:     uri,
		Path:    path,
		Content: content,
		Version: version,
	}
}

// Update replaces a document's content. Only full document sync is supported.
func (dm *DocumentManager) Update(path, content string, version int) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if doc, ok := dm.documents[path]; ok {
		doc.Content = content
		doc.Version = version
	}
}

// Close removes a document from tracking.
func (dm *DocumentManager) Close(path string) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	delete(dm.documents, path)
}

// Get retrieves a copy of a document by path.
func (dm *DocumentManager) Get(path string) (Document, bool) {
	dm.mu.RLock()
	defer dm.mu.RUnlock()

	doc, ok := dm.documents[path]
	if !ok {
		return Document{}, false
	}
	return *doc, true
}

// IsOpen reports whether path is open in the editor.
func (dm *DocumentManager) IsOpen(path string) bool {
	dm.mu.RLock()
	defer dm.mu.RUnlock()

	_, ok := dm.documents[path]
	return ok
}

// All returns copies of all open documents.
func (dm *DocumentManager) All() []Document {
	dm.mu.RLock()
	defer dm.mu.RUnlock()

	docs := make([]Document, 0, len(dm.documents))
	for _, doc := range dm.documents {
		docs = append(docs, *doc)
	}
	return docs
}
