package database

import (
	"context"

	"github.com/uptrace/bun"
)

type txKey struct{}

// RunInTx runs fn inside a single database transaction. The transaction is
// carried in the context, so any repository built on this package joins it
// transparently via Conn. Nested calls reuse the already-open transaction.
func (db *DB) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(bun.Tx); ok {
		return fn(ctx)
	}
	return db.bunDB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// Conn returns the connection to use for ctx: the open transaction if one is
// carried in the context, the plain DB otherwise.
func Conn(ctx context.Context, db *bun.DB) bun.IDB {
	if tx, ok := ctx.Value(txKey{}).(bun.Tx); ok {
		return tx
	}
	return db
}

// InTx reports whether ctx carries an open transaction started by RunInTx.
func InTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(bun.Tx)
	return ok
}
