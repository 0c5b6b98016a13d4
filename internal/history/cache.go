// Package history implements the sqlite-backed cache for weather history
// payloads.
//
// Building tomorrow's forecast costs seven history requests per location.
// Past days never change, so their raw payloads are cached keyed by
// (location query, wire date); after the first request for a location,
// only the current day needs a live fetch. The cache stores the raw JSON
// exactly as the upstream sent it — decoding stays the weatherapi
// package's job.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	// Pure-Go sqlite driver; registers itself as "sqlite" with database/sql.
	_ "modernc.org/sqlite"
)

// schema creates the cache table. The composite primary key makes Put an
// upsert target and gives Get an index for free.
const schema = `
CREATE TABLE IF NOT EXISTS history (
	location   TEXT NOT NULL,
	date       TEXT NOT NULL,
	payload    BLOB NOT NULL,
	fetched_at DATETIME NOT NULL,
	PRIMARY KEY (location, date)
)`

// Cache is a sqlite-backed store of raw history payloads.
// It is safe for concurrent use; database/sql serializes access.
type Cache struct {
	db *sql.DB
}

// Open opens (creating if necessary) the cache database at path and
// ensures the schema exists.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history cache: open %q: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history cache: create schema: %w", err)
	}
	return &Cache{db: db}, nil
}

// Get returns the cached payload for a location and wire date
// ("2006-01-02"), and whether it was present.
func (c *Cache) Get(ctx context.Context, location, date string) ([]byte, bool, error) {
	var payload []byte
	err := c.db.QueryRowContext(ctx,
		`SELECT payload FROM history WHERE location = ? AND date = ?`,
		location, date,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("history cache: get %s/%s: %w", location, date, err)
	}
	return payload, true, nil
}

// Put stores a payload for a location and wire date, replacing any
// existing entry. Callers only write fully elapsed days, so a replace
// never changes meaning — it just refreshes identical data.
func (c *Cache) Put(ctx context.Context, location, date string, payload []byte) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO history (location, date, payload, fetched_at) VALUES (?, ?, ?, ?)`,
		location, date, payload, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("history cache: put %s/%s: %w", location, date, err)
	}
	return nil
}

// Prune removes entries older than the retention window. The feature
// window only ever looks back seven days, so anything older is dead
// weight in the file.
func (c *Cache) Prune(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := c.db.ExecContext(ctx,
		`DELETE FROM history WHERE date < ?`, olderThan.Format("2006-01-02"))
	if err != nil {
		return 0, fmt.Errorf("history cache: prune: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("history cache: prune count: %w", err)
	}
	return n, nil
}

// Close releases the underlying database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}
