// Package gitfetch performs shallow clones of remote repositories into
// job workspaces.
package gitfetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/transport"

	"git.home.luguber.info/inful/reposcribe/internal/logfields"
)

// Fetcher clones remote repositories. One instance is safe for concurrent use;
// it holds only its timeout configuration, no per-job state.
type Fetcher struct {
	timeout time.Duration
}

// New creates a Fetcher. A zero timeout disables the per-clone deadline.
func New(timeout time.Duration) *Fetcher {
	return &Fetcher{timeout: timeout}
}

// Fetch performs a shallow (depth 1) clone of repoURL into dest. On failure the
// partially written destination is left in place for the workspace manager to
// clean up; the fetcher never removes directories it did not create.
func (f *Fetcher) Fetch(ctx context.Context, repoURL, dest string) error {
	if strings.TrimSpace(repoURL) == "" {
		return &InvalidURLError{URL: repoURL, Err: errors.New("empty URL")}
	}
	if _, err := transport.NewEndpoint(repoURL); err != nil {
		return &InvalidURLError{URL: repoURL, Err: err}
	}

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	start := time.Now()
	slog.Debug("Cloning repository", logfields.RepoURL(repoURL), logfields.Path(dest))

	// Depth 1 bounds transfer size: documentation generation only ever reads
	// the working tree, never history.
	repo, err := git.PlainCloneContext(ctx, dest, false, &git.CloneOptions{
		URL:          repoURL,
		Depth:        1,
		SingleBranch: true,
		Tags:         git.NoTags,
	})
	if err != nil {
		return classifyCloneError(repoURL, err)
	}

	if ref, herr := repo.Head(); herr == nil {
		slog.Info("Repository cloned",
			logfields.RepoURL(repoURL),
			slog.String("commit", ref.Hash().String()[:8]),
			logfields.DurationMS(float64(time.Since(start).Milliseconds())))
	} else {
		slog.Info("Repository cloned", logfields.RepoURL(repoURL), logfields.Path(dest))
	}
	return nil
}

// classifyCloneError wraps underlying go-git errors into typed variants where
// the failure mode is recognizable, so callers classify without string parsing.
func classifyCloneError(url string, err error) error {
	if errors.Is(err, transport.ErrAuthenticationRequired) || errors.Is(err, transport.ErrAuthorizationFailed) {
		return &AuthError{URL: url, Err: err}
	}
	if errors.Is(err, transport.ErrRepositoryNotFound) {
		return &NotFoundError{URL: url, Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &NetworkTimeoutError{URL: url, Err: err}
	}

	l := strings.ToLower(err.Error())
	switch {
	case strings.Contains(l, "authentication") || strings.Contains(l, "auth fail") || strings.Contains(l, "invalid username or password"):
		return &AuthError{URL: url, Err: err}
	case strings.Contains(l, "not found") || strings.Contains(l, "repository does not exist"):
		return &NotFoundError{URL: url, Err: err}
	case strings.Contains(l, "unsupported protocol") || strings.Contains(l, "protocol not supported"):
		return &InvalidURLError{URL: url, Err: err}
	case strings.Contains(l, "timeout") || strings.Contains(l, "i/o timeout"):
		return &NetworkTimeoutError{URL: url, Err: err}
	}
	return fmt.Errorf("failed to clone repository %s: %w", url, err)
}
