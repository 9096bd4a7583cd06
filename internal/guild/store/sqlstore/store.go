package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/aussiebroadwan/guild/internal/guild/store"
)

// Migrator applies the driver's embedded schema to db.
type Migrator func(db *sql.DB) error

// Store implements store.Store on database/sql. Drivers supply the opened
// pool, the dialect and their migrations.
type Store struct {
	db      *sql.DB
	q       *Queries
	d       Dialect
	migrate Migrator
}

func New(db *sql.DB, d Dialect, migrate Migrator) *Store {
	return &Store{db: db, q: NewQueries(db, d), d: d, migrate: migrate}
}

// DB exposes the underlying pool for driver-level tooling.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Dialect() Dialect { return s.d }

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) ApplyMigrations() error {
	if s.migrate == nil {
		return errors.New("sqlstore: no migrations configured")
	}
	return s.migrate(s.db)
}

// Tx starts a read/write transaction and returns a Tx-scoped Store.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return newTx(tx, s.d), nil
}

// WithTx executes fn within a transaction, automatically handling commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback() // no-op after commit
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) Applications() store.Applications { return &applicationsRepo{q: s.q} }
func (s *Store) Invitations() store.Invitations   { return &invitationsRepo{q: s.q} }
func (s *Store) Users() store.Users               { return &usersRepo{q: s.q} }
func (s *Store) Members() store.Members           { return &membersRepo{q: s.q} }
func (s *Store) Referrals() store.Referrals       { return &referralsRepo{q: s.q} }

var _ store.Store = (*Store)(nil)
