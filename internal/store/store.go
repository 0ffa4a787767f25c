// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver.
)

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInsufficientFunds is returned when a debit would make currency negative.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrAlreadyPurchased is returned when buying an unlockable twice.
	ErrAlreadyPurchased = errors.New("already purchased")
)

// Store wraps SQLite access for presets, settings, the shop and phase history.
type Store struct {
	db *sql.DB
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection serializes writers.
	db.SetMaxOpenConns(1)
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS presets (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			rounds_in_session INTEGER NOT NULL,
			total_sessions INTEGER NOT NULL,
			focus_length INTEGER NOT NULL,
			break_length INTEGER NOT NULL,
			long_break_length INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS unlockables (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			cost INTEGER NOT NULL,
			purchased INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS phase_history (
			id TEXT PRIMARY KEY,
			preset_id INTEGER NOT NULL,
			preset_name TEXT NOT NULL,
			phase TEXT NOT NULL,
			planned_seconds INTEGER NOT NULL,
			points INTEGER NOT NULL,
			skipped INTEGER NOT NULL,
			ended_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_phase_history_ended_at ON phase_history(ended_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			// Best-effort rollback.
			_ = rerr
		}
		return err
	}
	return tx.Commit()
}

func closeRows(rows *sql.Rows) {
	if cerr := rows.Close(); cerr != nil {
		// Best-effort rows close.
		_ = cerr
	}
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
