// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	msqlite "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/mmynk/coverwise/internal/storage"
	"github.com/mmynk/coverwise/internal/storage/sqlstore"
)

// New opens the SQLite database at dbPath and returns a store over it.
// It creates the parent directories and runs migrations automatically.
//
// Every transaction begins IMMEDIATE, so it holds the database write lock from
// its first statement; concurrent writers queue on busy_timeout instead of
// failing at commit.
func New(dbPath string) (*sqlstore.Store, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return sqlstore.New(db, dialect{}), nil
}

func dsn(dbPath string) string {
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "busy_timeout(10000)")
	q.Add("_pragma", "journal_mode(WAL)")
	q.Set("_txlock", "immediate")
	return "file:" + dbPath + "?" + q.Encode()
}

type dialect struct{}

func (dialect) Rebind(query string) string {
	return sqlstore.QuestionRebind(query)
}

// LockClause is empty: the IMMEDIATE transaction already holds the write lock.
func (dialect) LockClause() string {
	return ""
}

func (dialect) ClassifyError(err error) error {
	var serr *msqlite.Error
	if !errors.As(err, &serr) {
		return err
	}
	switch serr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		if strings.Contains(serr.Error(), "policyholders.email") {
			return fmt.Errorf("%w: %v", storage.ErrDuplicateEmail, err)
		}
		return fmt.Errorf("%w: %v", storage.ErrDuplicateID, err)
	}
	return err
}
