// Package store persists finished documentation. The pipeline works without
// any store; persistence is a convenience for the read API, not a dependency.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no documentation exists for a repository URL.
var ErrNotFound = errors.New("documentation not found")

// Record is one repository's finished documentation.
type Record struct {
	RepoURL   string            `json:"repoUrl"`
	Docs      string            `json:"docs"`
	Files     map[string]string `json:"files,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

// Store persists documentation records keyed by repository URL.
type Store interface {
	// Save upserts a record; a later job for the same URL replaces the
	// earlier documentation.
	Save(ctx context.Context, rec *Record) error

	// Get returns the record for repoURL, or ErrNotFound.
	Get(ctx context.Context, repoURL string) (*Record, error)

	// List returns all records, newest first.
	List(ctx context.Context) ([]Record, error)

	// Close releases any resources held by the store.
	Close() error
}
