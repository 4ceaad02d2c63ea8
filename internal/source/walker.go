// Package source enumerates the processable files of a cloned repository.
package source

import (
	"bytes"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"unicode/utf8"

	"git.home.luguber.info/inful/reposcribe/internal/logfields"
)

// File is one readable text file found under a workspace root. Path is
// relative to the root and unique within one walk. A File present with empty
// Content means the file exists and is empty; unreadable or binary files are
// omitted entirely.
type File struct {
	Path    string
	Content string
}

// DefaultIgnore lists directory names excluded from every walk: version
// control internals and dependency/build caches that carry no source to
// document.
var DefaultIgnore = []string{
	".git",
	".hg",
	".svn",
	"node_modules",
	"vendor",
	"dist",
	"build",
	"target",
	"__pycache__",
	".idea",
	".vscode",
}

// Walker enumerates repository files with a configurable ignore set.
type Walker struct {
	ignore       map[string]struct{}
	maxFileBytes int64
}

// NewWalker creates a Walker. An empty ignore list falls back to
// DefaultIgnore; maxFileBytes <= 0 disables the size cap.
func NewWalker(ignore []string, maxFileBytes int64) *Walker {
	if len(ignore) == 0 {
		ignore = DefaultIgnore
	}
	set := make(map[string]struct{}, len(ignore))
	for _, name := range ignore {
		set[name] = struct{}{}
	}
	return &Walker{ignore: set, maxFileBytes: maxFileBytes}
}

// Walk returns every readable text file under root, depth first. Ignored
// directory names are skipped at any depth. A file that cannot be read, is
// binary, or exceeds the size cap is logged and omitted; a directory that
// cannot be read isolates only its own subtree. Walk fails only if root
// itself is unusable.
func (w *Walker) Walk(root string) ([]File, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("walk root %s: %w", root, err)
	}

	var files []File
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			slog.Warn("Skipping unreadable subtree", logfields.Path(path), logfields.Error(err))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if _, skip := w.ignore[d.Name()]; skip && path != root {
				return fs.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			// Symlinks can escape the workspace or loop; never follow them.
			return nil
		}

		if w.maxFileBytes > 0 {
			if info, ierr := d.Info(); ierr == nil && info.Size() > w.maxFileBytes {
				slog.Debug("Skipping oversized file", logfields.File(path), slog.Int64("size", info.Size()))
				return nil
			}
		}

		content, rerr := os.ReadFile(path)
		if rerr != nil {
			slog.Warn("Skipping unreadable file", logfields.File(path), logfields.Error(rerr))
			return nil
		}
		if isBinary(content) {
			slog.Debug("Skipping binary file", logfields.File(path))
			return nil
		}

		rel, rerr := filepath.Rel(root, path)
		if rerr != nil {
			slog.Warn("Skipping file outside root", logfields.File(path), logfields.Error(rerr))
			return nil
		}

		files = append(files, File{Path: filepath.ToSlash(rel), Content: string(content)})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	slog.Info("Enumerated repository files", logfields.Path(root), logfields.Count(len(files)))
	return files, nil
}

// isBinary applies a cheap content heuristic: a NUL byte or invalid UTF-8
// marks the file as non-text.
func isBinary(content []byte) bool {
	if len(content) == 0 {
		return false
	}
	if bytes.IndexByte(content, 0) >= 0 {
		return true
	}
	return !utf8.Valid(content)
}
