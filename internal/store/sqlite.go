package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver

	"github.com/soyeahso/wabridge/internal/logging"
)

// DB wraps a SQLite database connection with migration support.
type DB struct {
	sql *sql.DB
	log *logging.Logger
}

// Open opens (or creates) a SQLite database at the given path and runs
// migrations. Use ":memory:" for an in-memory database (useful for tests).
func Open(path string, log *logging.Logger) (*DB, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance
	if _, err := sqlDB.Exec("PRAGMA journal_mode=WAL"); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	db := &DB{sql: sqlDB, log: log.Sub("store")}

	if err := db.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	db.log.Info().Str("path", path).Msg("database opened")
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	db.log.Info().Msg("closing database")
	return db.sql.Close()
}

// migrate runs all pending migrations.
func (db *DB) migrate() error {
	if _, err := db.sql.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TEXT NOT NULL DEFAULT (datetime('now'))
		)
	`); err != nil {
		return fmt.Errorf("creating migrations table: %w", err)
	}

	for _, m := range migrations {
		applied, err := db.isMigrationApplied(m.Version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		db.log.Info().Int("version", m.Version).Str("name", m.Name).Msg("applying migration")

		tx, err := db.sql.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.Version, err)
		}

		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Name, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", m.Version); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}

	return nil
}

func (db *DB) isMigrationApplied(version int) (bool, error) {
	var count int
	err := db.sql.QueryRow("SELECT COUNT(*) FROM schema_migrations WHERE version = ?", version).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking migration %d: %w", version, err)
	}
	return count > 0, nil
}

// SQLiteThreadStore is a sender → thread mapping backed by SQLite, so
// conversation threads survive process restarts.
type SQLiteThreadStore struct {
	db *DB
	mu sync.Mutex
}

// NewSQLiteThreadStore creates a thread store using the given database.
func NewSQLiteThreadStore(db *DB) *SQLiteThreadStore {
	return &SQLiteThreadStore{db: db}
}

// GetOrCreate returns the sender's thread ID, invoking create to make one on
// first contact. The lock covers the remote create so this process never
// creates two threads for one sender; a concurrent writer from another
// process is resolved by re-reading after the insert.
func (s *SQLiteThreadStore) GetOrCreate(sender string, create func() (string, error)) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.lookup(sender); ok {
		return id, nil
	}

	id, err := create()
	if err != nil {
		return "", err
	}

	_, err = s.db.sql.Exec(
		`INSERT INTO threads (sender, thread_id, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(sender) DO NOTHING`,
		sender, id, time.Now().Format(time.DateTime),
	)
	if err != nil {
		return "", fmt.Errorf("storing thread: %w", err)
	}

	// Re-read to return the winner if another writer got there first.
	if stored, ok := s.lookup(sender); ok {
		return stored, nil
	}
	return id, nil
}

// Count returns the number of known senders.
func (s *SQLiteThreadStore) Count() int {
	var n int
	if err := s.db.sql.QueryRow(`SELECT COUNT(*) FROM threads`).Scan(&n); err != nil {
		return 0
	}
	return n
}

func (s *SQLiteThreadStore) lookup(sender string) (string, bool) {
	var id string
	err := s.db.sql.QueryRow(`SELECT thread_id FROM threads WHERE sender = ?`, sender).Scan(&id)
	if err != nil {
		return "", false
	}
	return id, true
}
