package sqlstore

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/guild/internal/guild/store"
)

type txStore struct {
	tx *sql.Tx
	q  *Queries
}

func newTx(tx *sql.Tx, d Dialect) *txStore {
	return &txStore{tx: tx, q: NewQueries(tx, d)}
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

// Close is a no-op; the owner commits or rolls back and the pool stays open.
func (t *txStore) Close() error { return nil }

func (t *txStore) Ping(context.Context) error { return nil }

// Nested transactions are not supported.
func (t *txStore) Tx(context.Context) (store.Tx, error) { return nil, sql.ErrTxDone }

func (t *txStore) WithTx(context.Context, func(store.Tx) error) error { return sql.ErrTxDone }

// Migrations run on the pool before any transaction starts.
func (t *txStore) ApplyMigrations() error { return nil }

func (t *txStore) Applications() store.Applications { return &applicationsRepo{q: t.q} }
func (t *txStore) Invitations() store.Invitations   { return &invitationsRepo{q: t.q} }
func (t *txStore) Users() store.Users               { return &usersRepo{q: t.q} }
func (t *txStore) Members() store.Members           { return &membersRepo{q: t.q} }
func (t *txStore) Referrals() store.Referrals       { return &referralsRepo{q: t.q} }

var _ store.Tx = (*txStore)(nil)
