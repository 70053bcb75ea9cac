// Package dbx holds the small database plumbing the repositories share: the
// DBTX handle they are bound to, the transaction wrapper the identity flows
// run under, and PostgreSQL error classification.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is the common surface of *sql.DB and *sql.Tx. Repositories accept it
// so the same code serves one-off reads and multi-row writes like the
// registration transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx runs fn inside a transaction: commit when fn returns nil, rollback
// when it returns an error or panics. A panic is rolled back and rethrown.
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    _, err := tx.ExecContext(ctx, "UPDATE user_secrets ...")
//	    return err
//	})
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(ctx, tx)
	return err
}
