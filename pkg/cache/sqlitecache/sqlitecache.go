// Package sqlitecache provides a persistent cache variant backed by a local
// SQLite database. It trades the shared, networked nature of Redis for a
// single-file store that needs no running server.
package sqlitecache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"unshorten/pkg/cache"
	"unshorten/pkg/serrors"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS expansions (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

// SQLite is the sqlx backed cache.Cache implementation.
type SQLite struct {
	db *sqlx.DB
}

// New opens (or creates) the database at path and ensures the schema exists.
// Failures here are startup-fatal for the run.
func New(path string) (*SQLite, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrUnavailable, err, "could not open sqlite cache at %s", path)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()

		return nil, serrors.Wrap(serrors.ErrUnavailable, err, "could not create sqlite schema")
	}

	return &SQLite{db: db}, nil
}

// Get returns the cached expansion for key.
func (s *SQLite) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.GetContext(ctx, &value, `SELECT value FROM expansions WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, serrors.Wrap(serrors.ErrCacheBackend, err, "sqlite get failed")
	}

	return value, true, nil
}

// Set stores the expansion for key, replacing any previous value.
func (s *SQLite) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO expansions (key, value) VALUES (?, ?)`, key, value)
	if err != nil {
		return serrors.Wrap(serrors.ErrCacheBackend, err, "sqlite set failed")
	}

	return nil
}

// Close closes the underlying database handle.
func (s *SQLite) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("could not close sqlite cache: %w", err)
	}

	return nil
}

var _ cache.Cache = (*SQLite)(nil)
