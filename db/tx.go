package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type TxFunc[T any] func(*sqlx.Tx) (T, error)

// Tx runs fn in one transaction, committing only when fn succeeds.
func Tx[T any](ctx context.Context, db *sqlx.DB, fn TxFunc[T]) (T, error) {
	var zero T
	if db == nil {
		return zero, ErrDatabaseDisabled
	}
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return zero, fmt.Errorf("begin tx: %w", err)
	}
	out, err := fn(tx)
	if err != nil {
		_ = tx.Rollback()
		return zero, err
	}
	if err := tx.Commit(); err != nil {
		return zero, fmt.Errorf("commit tx: %w", err)
	}
	return out, nil
}
