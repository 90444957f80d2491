// Package sqlstore implements storage.Store on database/sql. The SQLite and
// PostgreSQL backends share it and differ only in their Dialect.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mmynk/coverwise/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Ensure Tx implements storage.Tx
var _ storage.Tx = (*Tx)(nil)

// Store implements storage.Store over a *sql.DB.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// New wraps an open database. The schema must already exist.
func New(db *sql.DB, dialect Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

// DB returns the underlying database for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// BeginTx starts a transaction. A cancelled ctx rolls it back.
func (s *Store) BeginTx(ctx context.Context) (storage.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &Tx{tx: tx, dialect: s.dialect}, nil
}

// Tx implements storage.Tx over a *sql.Tx.
type Tx struct {
	tx      *sql.Tx
	dialect Dialect
}

// Commit commits the transaction.
func (t *Tx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", t.dialect.ClassifyError(err))
	}
	return nil
}

// Rollback aborts the transaction. Rolling back a finished transaction is a no-op.
func (t *Tx) Rollback() error {
	if err := t.tx.Rollback(); err != nil && err != sql.ErrTxDone {
		return fmt.Errorf("failed to roll back transaction: %w", err)
	}
	return nil
}

// IDExists reports whether id is already taken in the namespace's table.
func (t *Tx) IDExists(ctx context.Context, ns storage.Namespace, id int64) (bool, error) {
	var query string
	switch ns {
	case storage.NamespacePolicyholders:
		query = "SELECT 1 FROM policyholders WHERE id = ?"
	case storage.NamespacePolicies:
		query = "SELECT 1 FROM policies WHERE policy_id = ?"
	case storage.NamespaceClaims:
		query = "SELECT 1 FROM claims WHERE claim_id = ?"
	default:
		return false, fmt.Errorf("unknown namespace: %q", ns)
	}

	var exists int
	err := t.tx.QueryRowContext(ctx, t.dialect.Rebind(query), id).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check %s id: %w", ns, err)
	}
	return true, nil
}

func (t *Tx) exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := t.tx.ExecContext(ctx, t.dialect.Rebind(query), args...)
	if err != nil {
		return 0, t.dialect.ClassifyError(err)
	}
	return res.RowsAffected()
}

func (t *Tx) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return t.tx.QueryRowContext(ctx, t.dialect.Rebind(query), args...)
}

func (t *Tx) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return t.tx.QueryContext(ctx, t.dialect.Rebind(query), args...)
}
