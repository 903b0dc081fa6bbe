// Package storage keeps finished games, their replays and versus results in
// a SQLite file through the pure-Go modernc.org/sqlite driver.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Store is an open scores database.
type Store struct {
	db *sql.DB
}

// migrations run in order; PRAGMA user_version counts the applied ones.
var migrations = []string{
	`CREATE TABLE scores (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		mode       TEXT    NOT NULL,
		score      INTEGER NOT NULL,
		lines      INTEGER NOT NULL DEFAULT 0,
		level      INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX scores_by_mode ON scores(mode, score DESC);`,

	`CREATE TABLE replays (
		score_id INTEGER PRIMARY KEY REFERENCES scores(id) ON DELETE CASCADE,
		data     BLOB NOT NULL
	);`,

	`CREATE TABLE online_matches (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		match_id        TEXT    NOT NULL UNIQUE,
		preset          TEXT    NOT NULL,
		player1_session TEXT    NOT NULL,
		player2_session TEXT    NOT NULL,
		score1          INTEGER NOT NULL DEFAULT 0,
		score2          INTEGER NOT NULL DEFAULT 0,
		winner_session  TEXT,
		end_reason      TEXT    NOT NULL,
		duration_secs   INTEGER NOT NULL DEFAULT 0,
		created_at      DATETIME DEFAULT CURRENT_TIMESTAMP
	);`,
}

// Open opens the database at path, creating it and its directory when
// missing. A leading ~ is the user's home directory.
func Open(path string) (*Store, error) {
	path, err := expandHome(path)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("storage: create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", path, err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("storage: expand %s: %w", path, err)
	}
	return filepath.Join(home, path[1:]), nil
}

func (s *Store) migrate() error {
	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("storage: read schema version: %w", err)
	}
	for v := version; v < len(migrations); v++ {
		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("storage: migrate to v%d: %w", v+1, err)
		}
		if _, err := tx.Exec(migrations[v]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("storage: migrate to v%d: %w", v+1, err)
		}
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", v+1)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("storage: migrate to v%d: %w", v+1, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("storage: migrate to v%d: %w", v+1, err)
		}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// timestamp reads a DATETIME column. The driver hands it back as
// time.Time or as text depending on how it was written.
func timestamp(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		parsed, _ := time.Parse(time.DateTime, t)
		return parsed
	}
	return time.Time{}
}

// collect runs a query and scans every row with scan.
func collect[T any](db *sql.DB, scan func(*sql.Rows) (T, error), query string, args ...any) ([]T, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
