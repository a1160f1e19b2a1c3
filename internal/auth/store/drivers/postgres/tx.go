package postgres

import (
	"context"

	"github.com/aussiebroadwan/otpauth/internal/auth/store"
	"github.com/jackc/pgx/v5"
)

type txStore struct {
	tx pgx.Tx
}

func (t *txStore) Commit() error   { return t.tx.Commit(context.Background()) }
func (t *txStore) Rollback() error { return t.tx.Rollback(context.Background()) }

func (t *txStore) Close() error               { return nil }
func (t *txStore) Ping(context.Context) error { return nil }

func (t *txStore) Tx(context.Context) (store.Tx, error) {
	return nil, pgx.ErrTxClosed
}

func (t *txStore) WithTx(context.Context, func(tx store.Tx) error) error {
	return pgx.ErrTxClosed
}

func (t *txStore) Identities() store.Identities { return &identitiesRepo{q: t.tx} }
func (t *txStore) Challenges() store.Challenges { return &challengesRepo{q: t.tx} }

func (t *txStore) ApplyMigrations() error { return nil }
