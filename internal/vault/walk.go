package vault

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/aidanlsb/tern/internal/paths"
)

// WalkResult is one file found while walking the vault.
type WalkResult struct {
	Path     string
	Markdown bool
	Error    error
}

// WalkFiles walks every file in the vault and calls handler for each. It
// skips ignored directories and dotfiles. Errors for individual entries are
// passed to handler rather than aborting the walk.
func WalkFiles(root string, handler func(WalkResult) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return handler(WalkResult{Path: path, Error: err})
		}

		if d.IsDir() {
			if path != root && paths.IsIgnoredDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") || !d.Type().IsRegular() {
			return nil
		}

		if err := paths.ValidateWithinVault(root, path); err != nil {
			if errors.Is(err, paths.ErrPathOutsideVault) {
				return nil
			}
			return handler(WalkResult{Path: path, Error: err})
		}

		return handler(WalkResult{Path: path, Markdown: paths.IsMarkdown(path)})
	})
}
