package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/josh-kwaku/ledger-write-service/internal/domain"
)

type TransactionStore interface {
	GetBalance(ctx context.Context) (domain.Balance, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	List(ctx context.Context) ([]domain.Transaction, error)
	Create(ctx context.Context, t *domain.Transaction) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type CategoryStore interface {
	FindByTitle(ctx context.Context, title string) (*domain.Category, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	Create(ctx context.Context, c *domain.Category) error
}

// Store is a storage backend. WithinTx runs fn against a Store whose ledger
// writes are serialized with every other WithinTx caller; calling WithinTx on
// the Store handed to fn runs in the same unit of work.
type Store interface {
	Transactions() TransactionStore
	Categories() CategoryStore
	WithinTx(ctx context.Context, fn func(Store) error) error
}
