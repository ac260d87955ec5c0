// Package vault indexes a directory of markdown notes. The index is held as
// an immutable Snapshot behind an atomic pointer: readers take the current
// snapshot and never block, writers build a modified copy and swap it in.
package vault

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/aidanlsb/tern/internal/parser"
	"github.com/aidanlsb/tern/internal/paths"
)

// Vault owns the current snapshot of one vault directory.
type Vault struct {
	root   string
	opts   parser.Options
	logger *slog.Logger

	// mu serialises writers; readers only load current.
	mu      sync.Mutex
	current atomic.Pointer[Snapshot]
}

// New creates an unloaded vault. Snapshot returns nil until Load succeeds.
func New(root string, opts parser.Options, logger *slog.Logger) *Vault {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Vault{root: filepath.Clean(root), opts: opts, logger: logger}
}

// Root is the absolute vault directory.
func (v *Vault) Root() string { return v.root }

// Snapshot returns the current index, or nil if the vault has not been loaded.
func (v *Vault) Snapshot() *Snapshot { return v.current.Load() }

// Load walks the vault and parses every markdown file in parallel, replacing
// the current snapshot. Unreadable files are logged and skipped.
func (v *Vault) Load(ctx context.Context) error {
	info, err := os.Stat(v.root)
	if err != nil {
		return fmt.Errorf("open vault: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("open vault: %s is not a directory", v.root)
	}

	var markdown []string
	files := make(map[string]struct{})
	err = WalkFiles(v.root, func(r WalkResult) error {
		if r.Error != nil {
			v.logger.Warn("vault: skipping entry", slog.String("path", r.Path), slog.Any("error", r.Error))
			return nil
		}
		if r.Markdown {
			markdown = append(markdown, r.Path)
		} else {
			files[r.Path] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk vault: %w", err)
	}

	parsed := make([]*parser.Document, len(markdown))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range markdown {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			content, err := os.ReadFile(path)
			if err != nil {
				v.logger.Warn("vault: skipping unreadable file", slog.String("path", path), slog.Any("error", err))
				return nil
			}
			parsed[i] = parser.Parse(path, string(content), v.opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	docs := make(map[string]*parser.Document, len(parsed))
	for _, doc := range parsed {
		if doc != nil {
			docs[doc.Path] = doc
		}
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.current.Store(newSnapshot(v.root, docs, files))
	v.logger.Debug("vault: loaded", slog.String("root", v.root), slog.Int("documents", len(docs)), slog.Int("files", len(files)))
	return nil
}

// Update re-parses path from in-memory content, typically an editor buffer.
// It is a no-op before Load or for paths outside the vault.
func (v *Vault) Update(path, content string) {
	if !paths.IsMarkdown(path) || paths.ValidateWithinVault(v.root, path) != nil {
		return
	}
	doc := parser.Parse(path, content, v.opts)

	v.mu.Lock()
	defer v.mu.Unlock()
	if cur := v.current.Load(); cur != nil {
		v.current.Store(cur.withDocument(doc))
	}
}

// Reload re-reads path from disk. A missing file is removed from the index.
func (v *Vault) Reload(path string) error {
	if err := paths.ValidateWithinVault(v.root, path); err != nil {
		return err
	}
	if !paths.IsMarkdown(path) {
		info, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			v.Remove(path)
			return nil
		}
		if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}
		if info.IsDir() {
			return nil
		}
		v.mu.Lock()
		defer v.mu.Unlock()
		if cur := v.current.Load(); cur != nil {
			v.current.Store(cur.withFile(path))
		}
		return nil
	}

	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		v.Remove(path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	v.Update(path, string(content))
	return nil
}

// Remove drops path, or everything beneath it if it was a directory.
func (v *Vault) Remove(path string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if cur := v.current.Load(); cur != nil {
		v.current.Store(cur.without(path))
	}
}
