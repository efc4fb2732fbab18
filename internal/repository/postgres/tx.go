package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"conferencecentral/internal/domain"
)

const maxTxAttempts = 3

// retryable reports whether err is a serialization failure or deadlock that
// Postgres expects the client to retry.
func retryable(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == "40001" || pqErr.Code == "40P01"
}

// mapConstraintError turns unique and check violations into domain errors.
func mapConstraintError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code.Name() {
	case "unique_violation":
		return fmt.Errorf("%w: %s", domain.ErrConflict, pqErr.Message)
	case "check_violation":
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, pqErr.Message)
	}
	return err
}

// withTx runs fn in a transaction, committing on success and rolling back on
// error. Serialization failures are retried up to maxTxAttempts times.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	var err error
	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		err = runTx(ctx, db, fn)
		if err == nil || !retryable(err) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return err
}

func runTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
