// Package scriptcache stores generated scripts in SQLite keyed by normalized location.
package scriptcache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/five82/auragen/internal/meditation"
)

const schema = `CREATE TABLE IF NOT EXISTS scripts (
    location_key TEXT PRIMARY KEY,
    location     TEXT NOT NULL,
    lines_json   TEXT NOT NULL,
    model        TEXT,
    created_at   TEXT NOT NULL
)`

// Entry is a cached script.
type Entry struct {
	Location  string
	Script    meditation.Script
	Model     string
	CreatedAt time.Time
}

// Cache is a SQLite-backed script cache.
type Cache struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open creates or opens the cache database at path.
func Open(path string) (*Cache, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("cache path is empty")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// A single connection keeps :memory: databases coherent and avoids writer contention.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Cache{db: db, path: path, now: time.Now}, nil
}

// Path returns the database location.
func (c *Cache) Path() string {
	return c.path
}

// Close closes the underlying database connection.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Get returns the cached script for location. Entries older than maxAge are
// treated as missing; a non-positive maxAge never expires.
func (c *Cache) Get(ctx context.Context, location string, maxAge time.Duration) (Entry, bool, error) {
	key := meditation.NormalizeLocation(location)
	if key == "" {
		return Entry{}, false, nil
	}

	row := c.db.QueryRowContext(ctx,
		`SELECT location, lines_json, COALESCE(model, ''), created_at FROM scripts WHERE location_key = ?`, key)

	var (
		entry     Entry
		linesJSON string
		createdAt string
	)
	if err := row.Scan(&entry.Location, &linesJSON, &entry.Model, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, false, nil
		}
		return Entry{}, false, fmt.Errorf("get script: %w", err)
	}

	created, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Entry{}, false, fmt.Errorf("parse created_at: %w", err)
	}
	entry.CreatedAt = created
	if maxAge > 0 && c.now().Sub(created) > maxAge {
		return Entry{}, false, nil
	}

	if err := json.Unmarshal([]byte(linesJSON), &entry.Script); err != nil {
		return Entry{}, false, fmt.Errorf("decode script: %w", err)
	}
	if err := entry.Script.Validate(); err != nil {
		return Entry{}, false, nil
	}
	return entry, true, nil
}

// Put stores or replaces the script for location.
func (c *Cache) Put(ctx context.Context, location string, script meditation.Script, model string) error {
	key := meditation.NormalizeLocation(location)
	if key == "" {
		return meditation.ErrEmptyLocation
	}
	if err := script.Validate(); err != nil {
		return err
	}
	linesJSON, err := json.Marshal(script)
	if err != nil {
		return fmt.Errorf("encode script: %w", err)
	}

	_, err = c.db.ExecContext(ctx,
		`INSERT INTO scripts (location_key, location, lines_json, model, created_at)
         VALUES (?, ?, ?, ?, ?)
         ON CONFLICT(location_key) DO UPDATE SET
             location = excluded.location,
             lines_json = excluded.lines_json,
             model = excluded.model,
             created_at = excluded.created_at`,
		key,
		strings.TrimSpace(location),
		string(linesJSON),
		nullableString(model),
		c.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("put script: %w", err)
	}
	return nil
}

// Purge deletes entries created before now-olderThan and returns how many were removed.
func (c *Cache) Purge(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, nil
	}
	cutoff := c.now().Add(-olderThan).UTC().Format(time.RFC3339Nano)
	res, err := c.db.ExecContext(ctx, `DELETE FROM scripts WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge scripts: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

func nullableString(value string) any {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return value
}
