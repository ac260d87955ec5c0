// Package watcher keeps a vault index current with changes made outside the
// editor, such as git checkouts, sync tools or other programs.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/aidanlsb/tern/internal/paths"
)

// Index is the part of the vault index the watcher refreshes.
type Index interface {
	Root() string
	Reload(path string) error
}

// Watcher monitors a vault directory and reloads changed files into the
// index after they settle.
type Watcher struct {
	index Index
	root  string

	// Configuration
	debounceDelay time.Duration
	logger        *slog.Logger
	skip          func(path string) bool

	// Internal state
	fsWatcher *fsnotify.Watcher
	pending   map[string]time.Time
	mu        sync.Mutex

	// Callbacks
	onReindex func(paths []string)
}

// Config holds configuration options for the Watcher.
type Config struct {
	Index         Index
	DebounceDelay time.Duration // Default: 100ms
	Logger        *slog.Logger

	// Skip leaves a path alone, for example a document open in the editor
	// whose buffer is newer than the file.
	Skip func(path string) bool

	// OnReindex is called after each batch of reloads.
	OnReindex func(paths []string)
}

// New creates a new Watcher with the given configuration.
func New(cfg Config) (*Watcher, error) {
	if cfg.Index == nil {
		return nil, errors.New("index is required")
	}

	debounce := cfg.DebounceDelay
	if debounce == 0 {
		debounce = 100 * time.Millisecond
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Watcher{
		index:         cfg.Index,
		root:          cfg.Index.Root(),
		debounceDelay: debounce,
		logger:        logger,
		skip:          cfg.Skip,
		pending:       make(map[string]time.Time),
		onReindex:     cfg.OnReindex,
	}, nil
}

// Start begins watching the vault for file changes.
// It blocks until the context is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	var err error
	w.fsWatcher, err = fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer w.fsWatcher.Close()

	if err := w.addWatchRecursive(w.root); err != nil {
		return fmt.Errorf("failed to watch vault: %w", err)
	}

	w.logger.Debug("watcher: watching vault", slog.String("root", w.root))

	go w.processDebounced(ctx)

	// Event loop
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher: error", slog.Any("error", err))
		}
	}
}

// handleEvent processes a single filesystem event.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name
	if w.shouldIgnore(path) {
		return
	}

	w.logger.Debug("watcher: event", slog.String("op", event.Op.String()), slog.String("path", path))

	// A new directory brings its contents without events of their own.
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if err := w.addWatchRecursive(path); err != nil {
				w.logger.Debug("watcher: failed to watch directory", slog.String("path", path), slog.Any("error", err))
			}
			w.scheduleTree(path)
			return
		}
	}

	if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		w.scheduleReindex(path)
	}
}

// scheduleReindex adds a file to the pending reindex queue with debouncing.
func (w *Watcher) scheduleReindex(path string) {
	if w.skip != nil && w.skip(path) {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[path] = time.Now()
}

// scheduleTree queues every file below dir.
func (w *Watcher) scheduleTree(dir string) {
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Skip errors
		}
		if w.shouldIgnore(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			w.scheduleReindex(path)
		}
		return nil
	})
	if err != nil {
		w.logger.Debug("watcher: failed to scan directory", slog.String("path", dir), slog.Any("error", err))
	}
}

// processDebounced processes pending reindex requests after debounce delay.
func (w *Watcher) processDebounced(ctx context.Context) {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.processPending()
		}
	}
}

// processPending reloads files that have been quiet for the debounce delay.
func (w *Watcher) processPending() {
	w.mu.Lock()
	now := time.Now()
	var ready []string
	for path, scheduledAt := range w.pending {
		if now.Sub(scheduledAt) >= w.debounceDelay {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	if len(ready) == 0 {
		return
	}
	sort.Strings(ready)

	for _, path := range ready {
		if err := w.index.Reload(path); err != nil {
			w.logger.Debug("watcher: failed to reload", slog.String("path", path), slog.Any("error", err))
			continue
		}
		w.logger.Debug("watcher: reloaded", slog.String("path", path))
	}
	if w.onReindex != nil {
		w.onReindex(ready)
	}
}

// addWatchRecursive adds a directory and all subdirectories to the watcher.
func (w *Watcher) addWatchRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Skip errors
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && paths.IsIgnoredDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.fsWatcher.Add(path); err != nil {
			w.logger.Debug("watcher: failed to watch", slog.String("path", path), slog.Any("error", err))
		}
		return nil
	})
}

// shouldIgnore reports whether path lies in an ignored directory or is a
// dotfile.
func (w *Watcher) shouldIgnore(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return true
	}

	parts := strings.Split(rel, string(filepath.Separator))
	for i, part := range parts {
		if i < len(parts)-1 && paths.IsIgnoredDir(part) {
			return true
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
