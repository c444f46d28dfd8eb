// Package tx carries a database/sql transaction through context so a store
// write can join a transaction its caller already opened.
package tx

import (
	"context"
	"database/sql"
)

type txKey struct{}

// WithTx binds the transaction to the context. A nil transaction leaves the
// context unchanged.
func WithTx(ctx context.Context, t *sql.Tx) context.Context {
	if t == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey{}, t)
}

// From returns the bound transaction, if any. Stores fall back to their own
// pool when none is present.
func From(ctx context.Context) (*sql.Tx, bool) {
	t, ok := ctx.Value(txKey{}).(*sql.Tx)
	return t, ok
}
