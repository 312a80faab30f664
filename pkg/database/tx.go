package database

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Beginner is satisfied by *pgxpool.Pool and pgxmock pools.
type Beginner interface {
	DB
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TxManager runs a function inside a transaction carried by the context.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type txKey struct{}

type txManager struct {
	db Beginner
}

func NewTxManager(db Beginner) TxManager {
	return &txManager{db: db}
}

// RunInTx commits when fn returns nil and rolls back on error or panic.
// A call nested inside an existing transaction joins it.
func (tm *txManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}

	tx, err := tm.db.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		} else if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Conn returns the transaction stored in ctx, or fallback when there is none.
func Conn(ctx context.Context, fallback DB) DB {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return fallback
}
