package graphql

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteCache persists responses across runs so cached reads keep working
// while the endpoint is unreachable.
type SQLiteCache struct {
	db *sql.DB
}

// OpenSQLiteCache opens (or creates) the cache database at dir/cache.db.
func OpenSQLiteCache(dir string) (*SQLiteCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, "cache.db"))
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS responses (
		key       TEXT PRIMARY KEY,
		body      BLOB NOT NULL,
		stored_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating responses table: %w", err)
	}

	return &SQLiteCache{db: db}, nil
}

func (s *SQLiteCache) Get(key []byte) ([]byte, error) {
	var body []byte
	err := s.db.QueryRow(`SELECT body FROM responses WHERE key = ?`, string(key)).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite cache get: %w", err)
	}
	return body, nil
}

func (s *SQLiteCache) Set(key, value []byte) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO responses (key, body, stored_at) VALUES (?, ?, CURRENT_TIMESTAMP)`,
		string(key), value,
	)
	if err != nil {
		return fmt.Errorf("sqlite cache set: %w", err)
	}
	return nil
}

func (s *SQLiteCache) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM responses`); err != nil {
		return fmt.Errorf("sqlite cache clear: %w", err)
	}
	return nil
}

// Len returns the number of stored responses.
func (s *SQLiteCache) Len() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM responses`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Close closes the cache database.
func (s *SQLiteCache) Close() error {
	return s.db.Close()
}
