// Package store provides the local SQLite cache of the catalog.
//
// The cache exists for warm start and the stale-on-error policy: the UI
// can render the last successful fetch immediately while a refetch runs.
// It is a snapshot, not a sync layer: ReplaceAll swaps the whole
// catalog atomically, mirroring how the backend list replaces items
// wholesale.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/bdwatch/pursuit/internal/catalog"
)

// Store handles SQLite persistence. NOT an interface - concrete type.
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open creates a Store at the given database path, creating tables as
// needed. Uses WAL mode for file-based databases.
func Open(dbPath string) (*Store, error) {
	connStr := dbPath
	if dbPath == ":memory:" {
		// Shared cache so every pooled connection sees the same database.
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return s, nil
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS solicitations (
		source_id   TEXT PRIMARY KEY,
		title       TEXT NOT NULL,
		description TEXT,
		agency      TEXT NOT NULL,
		due_date    DATETIME NOT NULL,
		url         TEXT,
		documents   TEXT,
		position    INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_solicitations_position ON solicitations(position);

	CREATE TABLE IF NOT EXISTS meta (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// ReplaceAll swaps the cached catalog for the given items in one
// transaction, preserving backend order via the position column.
func (s *Store) ReplaceAll(items []catalog.Solicitation, fetchedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM solicitations"); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO solicitations (source_id, title, description, agency, due_date, url, documents, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, it := range items {
		docs, err := json.Marshal(it.Documents)
		if err != nil {
			return fmt.Errorf("marshal documents for %s: %w", it.SourceID, err)
		}
		if _, err := stmt.Exec(it.SourceID, it.Title, it.Description, it.Agency,
			it.DueDate.UTC().Format(time.RFC3339), it.URL, string(docs), i); err != nil {
			return fmt.Errorf("insert %s: %w", it.SourceID, err)
		}
	}

	if _, err := tx.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('fetched_at', ?)`,
		fetchedAt.UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("record fetch time: %w", err)
	}

	return tx.Commit()
}

// Items returns the cached catalog in the order it arrived from the
// backend. An empty cache returns an empty slice, not nil.
func (s *Store) Items() ([]catalog.Solicitation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT source_id, title, description, agency, due_date, url, documents
		FROM solicitations ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query cache: %w", err)
	}
	defer rows.Close()

	items := make([]catalog.Solicitation, 0)
	for rows.Next() {
		var it catalog.Solicitation
		var due, docs string
		if err := rows.Scan(&it.SourceID, &it.Title, &it.Description, &it.Agency, &due, &it.URL, &docs); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, due); err == nil {
			it.DueDate = t
		}
		if docs != "" && docs != "null" {
			if err := json.Unmarshal([]byte(docs), &it.Documents); err != nil {
				return nil, fmt.Errorf("unmarshal documents for %s: %w", it.SourceID, err)
			}
		}
		items = append(items, it)
	}

	return items, rows.Err()
}

// FetchedAt returns when the cached catalog was last replaced.
// Reports false if the cache has never been filled.
func (s *Store) FetchedAt() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var v string
	err := s.db.QueryRow(`SELECT value FROM meta WHERE key = 'fetched_at'`).Scan(&v)
	if err != nil {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
