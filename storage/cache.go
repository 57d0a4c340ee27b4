// Package storage provides a SQLite cache of fetched CEDAR instance documents.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// Cache stores raw instance documents keyed by instance @id.
//
// Entries older than the cache's max age are treated as missing. A Cache is
// safe for concurrent use.
type Cache struct {
	db     *sql.DB
	path   string
	maxAge time.Duration
	now    func() time.Time
}

// OpenCache opens or creates the cache database at path. A maxAge of zero
// keeps entries forever.
func OpenCache(path string, maxAge time.Duration) (*Cache, error) {
	if path == "" {
		return nil, errors.New("cache path is required")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Serialize writers; concurrent fetches share one connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS instances (
		id TEXT PRIMARY KEY,
		payload BLOB NOT NULL,
		fetched_at INTEGER NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create instances table: %w", err)
	}
	return &Cache{db: db, path: path, maxAge: maxAge, now: time.Now}, nil
}

// Path returns the database location.
func (c *Cache) Path() string { return c.path }

// Get returns the cached payload for id, or ErrNotFound.
func (c *Cache) Get(ctx context.Context, id string) ([]byte, error) {
	var (
		payload   []byte
		fetchedAt int64
	)
	err := c.db.QueryRowContext(ctx,
		`SELECT payload, fetched_at FROM instances WHERE id = ?`, id,
	).Scan(&payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select instance %s: %w", id, err)
	}
	if c.maxAge > 0 && c.now().Sub(time.Unix(fetchedAt, 0)) > c.maxAge {
		return nil, ErrNotFound
	}
	return payload, nil
}

// Put stores payload for id, replacing any existing entry.
func (c *Cache) Put(ctx context.Context, id string, payload []byte) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO instances (id, payload, fetched_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at`,
		id, payload, c.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert instance %s: %w", id, err)
	}
	return nil
}

// Len returns the number of stored entries, including expired ones.
func (c *Cache) Len(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM instances`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count instances: %w", err)
	}
	return n, nil
}

// Prune deletes expired entries and returns how many were removed.
func (c *Cache) Prune(ctx context.Context) (int64, error) {
	if c.maxAge <= 0 {
		return 0, nil
	}
	cutoff := c.now().Add(-c.maxAge).Unix()
	res, err := c.db.ExecContext(ctx, `DELETE FROM instances WHERE fetched_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune instances: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the database.
func (c *Cache) Close() error {
	return c.db.Close()
}
