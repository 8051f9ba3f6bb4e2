package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// HistoryStore persists the recent-URL list in SQLite.
type HistoryStore struct {
	db *sql.DB
}

// OpenHistory opens (or creates) the history database at path.
// Pass ":memory:" for an in-memory database (used by tests).
func OpenHistory(path string) (*HistoryStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// Limit to single connection to avoid "database is locked" errors.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS search_history (
		position INTEGER PRIMARY KEY,
		url      TEXT NOT NULL UNIQUE
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating search_history table: %w", err)
	}

	return &HistoryStore{db: db}, nil
}

func (h *HistoryStore) Close() error {
	return h.db.Close()
}

// LoadHistory returns the stored URLs, most recent first.
func (h *HistoryStore) LoadHistory() ([]string, error) {
	rows, err := h.db.Query(`SELECT url FROM search_history ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scanning history: %w", err)
		}
		urls = append(urls, u)
	}
	return urls, rows.Err()
}

// SaveHistory replaces the stored list with urls.
func (h *HistoryStore) SaveHistory(urls []string) error {
	tx, err := h.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM search_history`); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	for i, u := range urls {
		if _, err := tx.Exec(`INSERT INTO search_history (position, url) VALUES (?, ?)`, i, u); err != nil {
			return fmt.Errorf("inserting history: %w", err)
		}
	}
	return tx.Commit()
}
