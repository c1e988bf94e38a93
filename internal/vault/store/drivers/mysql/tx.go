package mysql

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/credvault/internal/vault/store"
)

// txStore routes every repository call through one *sql.Tx. Reads of
// administrators take row locks so a count-then-insert in the same
// transaction cannot interleave with another writer.
type txStore struct {
	tx *sql.Tx
}

func (t *txStore) Administrators() store.Administrators {
	return &administratorsRepo{db: t.tx, locking: true}
}

// Accounts reuses the transaction for the owner row lock.
func (t *txStore) Accounts() store.Accounts { return &accountsRepo{db: t.tx} }

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Tx(context.Context) (store.Tx, error) { return nil, store.ErrNestedTx }

func (t *txStore) WithTx(context.Context, func(store.Tx) error) error { return store.ErrNestedTx }

// The schema and the pool belong to the parent Store.
func (t *txStore) ApplyMigrations() error     { return nil }
func (t *txStore) Close() error               { return nil }
func (t *txStore) Ping(context.Context) error { return nil }
