package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// ledgerLockKey is the pg_advisory_xact_lock key taken by every ledger write.
const ledgerLockKey int64 = 0x6c6564676572

type scanner interface {
	Scan(dest ...any) error
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type PostgresStore struct {
	pool *sql.DB
	q    querier
	inTx bool
}

func NewPostgresStore(pool *sql.DB) *PostgresStore {
	return &PostgresStore{pool: pool, q: pool}
}

func (s *PostgresStore) Conn() *sql.DB {
	return s.pool
}

func (s *PostgresStore) Transactions() TransactionStore {
	return NewTransactionRepository(s.q)
}

func (s *PostgresStore) Categories() CategoryStore {
	return NewCategoryRepository(s.q)
}

func (s *PostgresStore) WithinTx(ctx context.Context, fn func(Store) error) error {
	if s.inTx {
		return fn(s)
	}

	tx, err := s.pool.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("WithinTx: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, ledgerLockKey); err != nil {
		return fmt.Errorf("WithinTx: lock: %w", err)
	}

	if err := fn(&PostgresStore{pool: s.pool, q: tx, inTx: true}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("WithinTx: commit: %w", err)
	}
	return nil
}

var _ Store = (*PostgresStore)(nil)
