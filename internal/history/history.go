// Package history persists watch events in an embedded SQLite database.
//
// Each recorded title gets one row: the first watch inserts it with a
// count of one, later watches bump the count and refresh the
// last-watched timestamp. Queries are parameterized, so titles taken
// from on-disk filenames cannot alter the SQL.
package history

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // SQLite driver
)

// Store is the watch-history database.
type Store struct {
	db *sql.DB
}

// Entry is one row of watch history.
type Entry struct {
	Title       string
	WatchCount  int
	LastWatched string
}

// Open opens (creating if necessary) the watch-history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+
		"?_pragma=journal_mode(WAL)&"+
		"_pragma=busy_timeout(5000)&"+ // ms; avoids immediate SQLITE_BUSY
		"_pragma=synchronous(NORMAL)")
	if err != nil {
		return nil, fmt.Errorf("opening history database %s: %w", path, err)
	}

	store := &Store{db: db}
	if err := store.init(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) init() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS watches(
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL UNIQUE,
	watch_count INTEGER NOT NULL,
	last_watched TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
)`)
	if err != nil {
		return fmt.Errorf("failed to create watches table: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordWatch registers one viewing of title. A new title is inserted
// with a count of one; a known title has its count incremented and its
// last-watched timestamp refreshed.
func (s *Store) RecordWatch(ctx context.Context, title string) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO watches(title, watch_count)
VALUES(?, 1)
ON CONFLICT(title) DO UPDATE SET
	watch_count = watch_count + 1,
	last_watched = CURRENT_TIMESTAMP`, title)
	if err != nil {
		return fmt.Errorf("recording watch of %q: %w", title, err)
	}
	return nil
}

// List returns the watch history, most-watched first. Titles with equal
// counts sort alphabetically so the output is stable.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT title, watch_count, last_watched
FROM watches
ORDER BY watch_count DESC, title ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing watch history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Title, &e.WatchCount, &e.LastWatched); err != nil {
			return nil, fmt.Errorf("scanning watch row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
