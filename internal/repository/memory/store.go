// Package memory is an in-process storage backend for tests, the CLI and
// single-node deployments. It has no rollback: writes made inside WithinTx
// before fn fails stay in place.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/ledger-write-service/internal/domain"
	"github.com/josh-kwaku/ledger-write-service/internal/repository"
)

type state struct {
	mu           sync.RWMutex
	transactions map[uuid.UUID]domain.Transaction
	categories   map[uuid.UUID]domain.Category
	byTitle      map[string]uuid.UUID
}

type Store struct {
	data    *state
	writeMu *sync.Mutex
	inTx    bool
}

func NewStore() *Store {
	return &Store{
		data: &state{
			transactions: make(map[uuid.UUID]domain.Transaction),
			categories:   make(map[uuid.UUID]domain.Category),
			byTitle:      make(map[string]uuid.UUID),
		},
		writeMu: &sync.Mutex{},
	}
}

func (s *Store) Transactions() repository.TransactionStore {
	return &transactionStore{data: s.data}
}

func (s *Store) Categories() repository.CategoryStore {
	return &categoryStore{data: s.data}
}

func (s *Store) WithinTx(ctx context.Context, fn func(repository.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("WithinTx: %w", err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	return fn(&Store{data: s.data, writeMu: s.writeMu, inTx: true})
}

type transactionStore struct {
	data *state
}

func (r *transactionStore) GetBalance(ctx context.Context) (domain.Balance, error) {
	r.data.mu.RLock()
	defer r.data.mu.RUnlock()

	income, outcome := decimal.Zero, decimal.Zero
	for _, t := range r.data.transactions {
		switch t.Type {
		case domain.TransactionTypeIncome:
			income = income.Add(t.Value)
		case domain.TransactionTypeOutcome:
			outcome = outcome.Add(t.Value)
		}
	}
	return domain.NewBalance(income, outcome), nil
}

func (r *transactionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	r.data.mu.RLock()
	defer r.data.mu.RUnlock()

	t, ok := r.data.transactions[id]
	if !ok {
		return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
	}
	r.data.attachCategory(&t)
	return &t, nil
}

func (r *transactionStore) List(ctx context.Context) ([]domain.Transaction, error) {
	r.data.mu.RLock()
	defer r.data.mu.RUnlock()

	transactions := make([]domain.Transaction, 0, len(r.data.transactions))
	for _, t := range r.data.transactions {
		r.data.attachCategory(&t)
		transactions = append(transactions, t)
	}
	sort.Slice(transactions, func(i, j int) bool {
		a, b := transactions[i], transactions[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID.String() < b.ID.String()
	})
	return transactions, nil
}

func (r *transactionStore) Create(ctx context.Context, t *domain.Transaction) error {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()

	if _, ok := r.data.categories[t.CategoryID]; !ok {
		return fmt.Errorf("Create: category %s: %w", t.CategoryID, domain.ErrNotFound)
	}
	if _, ok := r.data.transactions[t.ID]; ok {
		return fmt.Errorf("Create: duplicate transaction id %s", t.ID)
	}

	stored := *t
	stored.Category = nil
	r.data.transactions[t.ID] = stored
	return nil
}

func (r *transactionStore) Delete(ctx context.Context, id uuid.UUID) error {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()

	if _, ok := r.data.transactions[id]; !ok {
		return fmt.Errorf("Delete: %w", domain.ErrNotFound)
	}
	delete(r.data.transactions, id)
	return nil
}

type categoryStore struct {
	data *state
}

func (r *categoryStore) FindByTitle(ctx context.Context, title string) (*domain.Category, error) {
	r.data.mu.RLock()
	defer r.data.mu.RUnlock()

	id, ok := r.data.byTitle[title]
	if !ok {
		return nil, fmt.Errorf("FindByTitle: %w", domain.ErrNotFound)
	}
	c := r.data.categories[id]
	return &c, nil
}

func (r *categoryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	r.data.mu.RLock()
	defer r.data.mu.RUnlock()

	c, ok := r.data.categories[id]
	if !ok {
		return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
	}
	return &c, nil
}

// Create adopts the stored category when the title is already taken, matching
// the upsert the postgres backend performs.
func (r *categoryStore) Create(ctx context.Context, c *domain.Category) error {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()

	if id, ok := r.data.byTitle[c.Title]; ok {
		*c = r.data.categories[id]
		return nil
	}
	r.data.categories[c.ID] = *c
	r.data.byTitle[c.Title] = c.ID
	return nil
}

// attachCategory must be called with mu held.
func (s *state) attachCategory(t *domain.Transaction) {
	if c, ok := s.categories[t.CategoryID]; ok {
		t.Category = &c
	}
}

var _ repository.Store = (*Store)(nil)
