// Package sqlite persists variant observations in a SQLite database.
// The load path is append-only: batched INSERT OR IGNORE keyed on
// (file_id, CHROM, POS), so re-loading the same input is idempotent.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// Store manages the SQLite database holding variant observations.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the database at path, creating parent directories
// and the schema as needed. Safe to call on an existing, populated store.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

// ensureSchema creates the variants table and its indexes if absent.
func (s *Store) ensureSchema() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS variants (
		file_id TEXT,
		CHROM TEXT,
		POS INTEGER,
		ID TEXT,
		REF TEXT,
		ALT TEXT,
		GT TEXT,
		AD TEXT,
		DP INTEGER,
		GQ INTEGER,
		PL TEXT,
		PRIMARY KEY (file_id, CHROM, POS)
	)`); err != nil {
		return err
	}

	if _, err := s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_chrom_pos ON variants(CHROM, POS)`); err != nil {
		return err
	}
	_, err := s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_id ON variants(ID)`)
	return err
}

// Finalize applies post-load tuning: WAL journaling, relaxed sync
// durability, a larger page cache, and refreshed planner statistics.
// Call it once after bulk loading; calling it again is safe.
func (s *Store) Finalize() error {
	for _, stmt := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA cache_size = -10000",
		"ANALYZE",
	} {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("%s: %w", stmt, err)
		}
	}
	return nil
}

// Count returns the number of stored observations.
func (s *Store) Count() (int64, error) {
	var n int64
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM variants`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count variants: %w", err)
	}
	return n, nil
}

// Size returns the database file size in bytes, or 0 if it cannot be
// determined.
func (s *Store) Size() int64 {
	info, err := os.Stat(s.path)
	if err != nil {
		return 0
	}
	return info.Size()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
