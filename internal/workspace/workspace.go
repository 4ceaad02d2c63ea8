package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/reposcribe/internal/logfields"
)

// Manager allocates and releases isolated clone directories. Each generation
// job owns exactly one workspace; directories are never shared across jobs.
type Manager struct {
	baseDir string
}

// NewManager creates a workspace manager rooted at baseDir.
func NewManager(baseDir string) *Manager {
	if baseDir == "" {
		baseDir = filepath.Join(os.TempDir(), "reposcribe", "repos")
	}
	return &Manager{baseDir: baseDir}
}

// BaseDir returns the directory under which workspaces are allocated.
func (m *Manager) BaseDir() string { return m.baseDir }

// Allocate creates a fresh workspace directory for the given repository URL.
// The directory name is the repository name plus a nanosecond timestamp token,
// so two jobs for the same URL never collide. A stale directory of the same
// derived name is removed first, so retried jobs never fail on leftover state.
func (m *Manager) Allocate(repoURL string) (string, error) {
	if err := os.MkdirAll(m.baseDir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create workspace base directory: %w", err)
	}

	timestamp := time.Now().Format("20060102-150405.000000000")
	dir := filepath.Join(m.baseDir, fmt.Sprintf("%s-%s", RepoName(repoURL), timestamp))

	if _, err := os.Stat(dir); err == nil {
		if err := os.RemoveAll(dir); err != nil {
			return "", fmt.Errorf("failed to remove stale workspace: %w", err)
		}
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create workspace directory: %w", err)
	}

	slog.Info("Allocated workspace", logfields.Path(dir), logfields.RepoURL(repoURL))
	return dir, nil
}

// Release removes a workspace directory. Removal errors are logged, never
// returned: by the time a job releases its workspace the outcome has already
// been delivered, and cleanup must not change it.
func (m *Manager) Release(path string) {
	if path == "" {
		return
	}
	if !m.owns(path) {
		slog.Warn("Refusing to release path outside workspace base", logfields.Path(path))
		return
	}
	if err := os.RemoveAll(path); err != nil {
		slog.Error("Failed to release workspace", logfields.Path(path), logfields.Error(err))
		return
	}
	slog.Info("Released workspace", logfields.Path(path))
}

// Sweep removes workspace directories older than maxAge. It backstops the
// per-job Release guarantee against crashed jobs leaving orphaned clones.
func (m *Manager) Sweep(maxAge time.Duration) error {
	entries, err := os.ReadDir(m.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read workspace base directory: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			slog.Warn("Failed to stat workspace entry", logfields.File(entry.Name()), logfields.Error(err))
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		stale := filepath.Join(m.baseDir, entry.Name())
		if err := os.RemoveAll(stale); err != nil {
			slog.Warn("Failed to remove stale workspace", logfields.Path(stale), logfields.Error(err))
			continue
		}
		slog.Info("Removed stale workspace", logfields.Path(stale))
	}
	return nil
}

// owns reports whether path resolves under the manager's base directory.
func (m *Manager) owns(path string) bool {
	rel, err := filepath.Rel(m.baseDir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// RepoName derives a directory-safe repository name from its URL: the final
// path segment with a trailing .git suffix stripped.
func RepoName(repoURL string) string {
	trimmed := strings.TrimSuffix(strings.TrimRight(repoURL, "/"), ".git")
	name := trimmed[strings.LastIndex(trimmed, "/")+1:]
	if name == "" {
		return "repository"
	}
	return name
}
