package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

// SchemaVersion is the latest schema version. Stored in the SQLite
// user_version pragma so Migrate can apply only the missing steps.
const SchemaVersion = 2

type DB struct {
	*sql.DB
}

func New(dbPath string) (*DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("%w: failed to create database directory: %v", ErrStorageUnavailable, err)
	}

	// Open database
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %v", ErrStorageUnavailable, err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: failed to enable WAL mode: %v", ErrStorageUnavailable, err)
	}

	// Wait instead of failing when another writer holds the lock
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: failed to set busy timeout: %v", ErrStorageUnavailable, err)
	}

	return &DB{db}, nil
}

// Migrate brings the schema up to SchemaVersion. Migrations are additive:
// each step only creates containers and indexes that its version
// introduced, so data written under an earlier version is never touched.
// A database already at or ahead of SchemaVersion is left as is.
func (db *DB) Migrate() error {
	version, err := db.schemaVersion()
	if err != nil {
		return err
	}

	if version < 1 {
		queries := []string{
			`CREATE TABLE IF NOT EXISTS qr_codes (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				url TEXT NOT NULL,
				bank_name TEXT NOT NULL,
				account_no TEXT NOT NULL,
				amount TEXT NOT NULL DEFAULT '',
				description TEXT NOT NULL DEFAULT '',
				timestamp INTEGER NOT NULL,
				is_pinned INTEGER NOT NULL DEFAULT 0,
				template_name TEXT NOT NULL DEFAULT '',
				account_name TEXT NOT NULL DEFAULT ''
			)`,
			`CREATE INDEX IF NOT EXISTS idx_qr_codes_timestamp ON qr_codes(timestamp)`,
			`CREATE INDEX IF NOT EXISTS idx_qr_codes_bank_name ON qr_codes(bank_name)`,
			`CREATE INDEX IF NOT EXISTS idx_qr_codes_is_pinned ON qr_codes(is_pinned)`,
		}
		if err := db.applyMigration(1, queries); err != nil {
			return err
		}
	}

	if version < 2 {
		queries := []string{
			`CREATE TABLE IF NOT EXISTS settings (
				key TEXT PRIMARY KEY,
				value BLOB NOT NULL
			)`,
		}
		if err := db.applyMigration(2, queries); err != nil {
			return err
		}
	}

	return nil
}

func (db *DB) schemaVersion() (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("%w: failed to read schema version: %v", ErrStorageUnavailable, err)
	}
	return version, nil
}

func (db *DB) applyMigration(version int, queries []string) error {
	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("migration to version %d failed: %w", version, err)
		}
	}
	// PRAGMA does not accept bound parameters
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", version)); err != nil {
		return fmt.Errorf("failed to record schema version %d: %w", version, err)
	}
	return nil
}

func (db *DB) Close() error {
	return db.DB.Close()
}

var (
	openOnce sync.Once
	shared   *DB
	openErr  error
)

// Open returns the process-wide database handle, creating and migrating it
// on the first call. Concurrent first callers are collapsed into a single
// initialization; every caller sees the same handle or the same open error.
func Open(dbPath string) (*DB, error) {
	openOnce.Do(func() {
		db, err := New(dbPath)
		if err != nil {
			openErr = err
			return
		}
		if err := db.Migrate(); err != nil {
			db.Close()
			openErr = err
			return
		}
		shared = db
	})
	return shared, openErr
}
