package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore opens (or creates) a SQLite-backed store.
// Use ":memory:" for an in-memory database, or a file path for persistence.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documentation (
		repo_url TEXT PRIMARY KEY,
		docs TEXT NOT NULL,
		files TEXT,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_created_at ON documentation(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save upserts the record for its repository URL.
func (s *SQLiteStore) Save(ctx context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var filesJSON []byte
	if rec.Files != nil {
		var err error
		filesJSON, err = json.Marshal(rec.Files)
		if err != nil {
			return fmt.Errorf("marshal files map: %w", err)
		}
	}

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documentation (repo_url, docs, files, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(repo_url) DO UPDATE SET
			docs = excluded.docs,
			files = excluded.files,
			created_at = excluded.created_at`,
		rec.RepoURL, rec.Docs, string(filesJSON), createdAt.Unix())
	if err != nil {
		return fmt.Errorf("save documentation: %w", err)
	}
	return nil
}

// Get returns the record for repoURL, or ErrNotFound.
func (s *SQLiteStore) Get(ctx context.Context, repoURL string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT repo_url, docs, files, created_at FROM documentation WHERE repo_url = ?`, repoURL)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get documentation: %w", err)
	}
	return rec, nil
}

// List returns all records, newest first.
func (s *SQLiteStore) List(ctx context.Context) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT repo_url, docs, files, created_at FROM documentation ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list documentation: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan documentation row: %w", err)
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*Record, error) {
	var rec Record
	var filesJSON sql.NullString
	var createdAt int64
	if err := row.Scan(&rec.RepoURL, &rec.Docs, &filesJSON, &createdAt); err != nil {
		return nil, err
	}
	if filesJSON.Valid && filesJSON.String != "" {
		if err := json.Unmarshal([]byte(filesJSON.String), &rec.Files); err != nil {
			return nil, fmt.Errorf("unmarshal files map: %w", err)
		}
	}
	rec.CreatedAt = time.Unix(createdAt, 0)
	return &rec, nil
}
