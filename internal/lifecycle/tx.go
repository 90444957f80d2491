package lifecycle

import (
	"context"
	"errors"

	dErrors "github.com/mmynk/coverwise/internal/domainerrors"
	"github.com/mmynk/coverwise/internal/storage"
)

// inTx runs fn in one store transaction and commits it. Any error rolls the
// transaction back. An identifier collision replays fn in a fresh
// transaction, up to m.txRetries times. The returned error always carries a
// domain code.
func (m *Manager) inTx(ctx context.Context, op string, fn func(tx storage.Tx) error) error {
	var err error
	for attempt := 0; attempt <= m.txRetries; attempt++ {
		if attempt > 0 {
			m.metrics.TxRetried()
			m.logger.Debug("Retrying transaction after id collision", "op", op, "attempt", attempt)
		}

		err = m.runOnce(ctx, fn)
		if err == nil {
			return nil
		}
		if !errors.Is(err, storage.ErrDuplicateID) || ctx.Err() != nil {
			break
		}
	}
	return translate(err, op)
}

func (m *Manager) runOnce(ctx context.Context, fn func(tx storage.Tx) error) error {
	tx, err := m.store.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		if errors.Is(err, storage.ErrDuplicateID) || errors.Is(err, storage.ErrDuplicateEmail) {
			return err
		}
		return dErrors.Wrap(err, dErrors.CodeConflict, "transaction was not committed")
	}
	return nil
}

// translate maps store sentinels onto domain codes. Errors that already
// carry a code pass through.
func translate(err error, op string) error {
	var de *dErrors.Error
	switch {
	case errors.As(err, &de):
		return err
	case errors.Is(err, storage.ErrDuplicateEmail):
		return dErrors.Wrap(err, dErrors.CodeConflict, "email already registered")
	case errors.Is(err, storage.ErrDuplicateID):
		return dErrors.Wrap(err, dErrors.CodeConflict, op+": identifier collision persisted after retries")
	case errors.Is(err, storage.ErrNotFound):
		return dErrors.Wrap(err, dErrors.CodeNotFound, op+": not found")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, op+" failed")
	}
}

// notFound turns a store ErrNotFound into a NotFound domain error naming what.
func notFound(err error, what string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, what+" not found")
	}
	return err
}
