// Package postgres provides a PostgreSQL-backed implementation of the
// storage.Store interface using the pgx driver.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver

	"github.com/mmynk/coverwise/internal/storage"
	"github.com/mmynk/coverwise/internal/storage/sqlstore"
)

const uniqueViolation = "23505"

var (
	connectRetries = 10
	retryDelay     = time.Second
	pingTimeout    = 2 * time.Second
)

// New connects to the database at dsn, waits for it to accept connections,
// runs migrations and returns a store over it.
func New(ctx context.Context, dsn string) (*sqlstore.Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := ping(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return sqlstore.New(db, dialect{}), nil
}

func ping(ctx context.Context, db *sql.DB) error {
	var lastErr error
	for i := 0; i < connectRetries; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		lastErr = db.PingContext(pingCtx)
		cancel()
		if lastErr == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryDelay):
		}
	}
	return fmt.Errorf("db ping retries exhausted: %w", lastErr)
}

type dialect struct{}

func (dialect) Rebind(query string) string {
	return sqlstore.DollarRebind(query)
}

// LockClause takes a row lock; a second transaction locking the same policy
// blocks until the first commits or rolls back.
func (dialect) LockClause() string {
	return " FOR UPDATE"
}

func (dialect) ClassifyError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return err
	}
	if pgErr.ConstraintName == "policyholders_email_key" {
		return fmt.Errorf("%w: %v", storage.ErrDuplicateEmail, err)
	}
	return fmt.Errorf("%w: %v", storage.ErrDuplicateID, err)
}
