package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/ledger-write-service/internal/domain"
	"github.com/josh-kwaku/ledger-write-service/internal/events"
	"github.com/josh-kwaku/ledger-write-service/internal/logging"
	"github.com/josh-kwaku/ledger-write-service/internal/repository"
)

// publishTimeout bounds a single event publish after a committed write.
const publishTimeout = 3 * time.Second

type eventPublisher interface {
	Publish(ctx context.Context, event events.TransactionEvent) error
}

type Service struct {
	store  repository.Store
	events eventPublisher
	now    func() time.Time
}

func NewService(store repository.Store, publisher eventPublisher) *Service {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &Service{
		store:  store,
		events: publisher,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

type CreateTransactionRequest struct {
	Title         string
	Value         decimal.Decimal
	Type          domain.TransactionType
	CategoryTitle string
}

func (s *Service) GetBalance(ctx context.Context) (domain.Balance, error) {
	b, err := s.store.Transactions().GetBalance(ctx)
	if err != nil {
		return domain.Balance{}, fmt.Errorf("GetBalance: %w", err)
	}
	return b, nil
}

func (s *Service) ListTransactions(ctx context.Context) (*domain.Statement, error) {
	var stmt domain.Statement
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		transactions, err := tx.Transactions().List(ctx)
		if err != nil {
			return err
		}
		balance, err := tx.Transactions().GetBalance(ctx)
		if err != nil {
			return err
		}
		stmt = domain.Statement{Transactions: transactions, Balance: balance}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ListTransactions: %w", err)
	}
	return &stmt, nil
}

// ResolveCategory returns the category titled title, creating it on first use.
func (s *Service) ResolveCategory(ctx context.Context, title string) (*domain.Category, error) {
	c, err := s.resolveCategory(ctx, s.store.Categories(), title)
	if err != nil {
		return nil, fmt.Errorf("ResolveCategory: %w", err)
	}
	return c, nil
}

func (s *Service) resolveCategory(ctx context.Context, categories repository.CategoryStore, title string) (*domain.Category, error) {
	c, err := categories.FindByTitle(ctx, title)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("resolveCategory: %w", err)
	}

	now := s.now()
	c = &domain.Category{
		ID:        uuid.New(),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := categories.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("resolveCategory: create: %w", err)
	}

	logging.FromContext(ctx).Info("category created", "category_id", c.ID, "title", c.Title)
	return c, nil
}

func (s *Service) CreateTransaction(ctx context.Context, req CreateTransactionRequest) (*domain.Transaction, error) {
	log := logging.FromContext(ctx)

	req.Title = strings.TrimSpace(req.Title)
	req.CategoryTitle = strings.TrimSpace(req.CategoryTitle)
	if err := validateCreate(req); err != nil {
		return nil, fmt.Errorf("CreateTransaction: %w", err)
	}

	var created *domain.Transaction
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		balance, err := tx.Transactions().GetBalance(ctx)
		if err != nil {
			return err
		}

		if req.Type == domain.TransactionTypeOutcome && req.Value.GreaterThan(balance.Total) {
			return domain.ErrInsufficientFunds
		}

		category, err := s.resolveCategory(ctx, tx.Categories(), req.CategoryTitle)
		if err != nil {
			return err
		}

		now := s.now()
		t := &domain.Transaction{
			ID:         uuid.New(),
			Title:      req.Title,
			Value:      req.Value,
			Type:       req.Type,
			CategoryID: category.ID,
			Category:   category,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := tx.Transactions().Create(ctx, t); err != nil {
			return err
		}
		created = t
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("CreateTransaction: %w", err)
	}

	log.Info("transaction created",
		"transaction_id", created.ID,
		"type", created.Type,
		"value", created.Value.String(),
		"category_id", created.CategoryID,
	)
	s.publish(ctx, events.NewTransactionEvent(events.EventTypeTransactionCreated, created, created.CreatedAt))

	return created, nil
}

func (s *Service) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	var deleted *domain.Transaction
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		t, err := tx.Transactions().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.Transactions().Delete(ctx, t.ID); err != nil {
			return err
		}
		deleted = t
		return nil
	})
	if err != nil {
		return fmt.Errorf("DeleteTransaction: %w", err)
	}

	logging.FromContext(ctx).Info("transaction deleted",
		"transaction_id", deleted.ID,
		"category_id", deleted.CategoryID,
	)
	s.publish(ctx, events.NewTransactionEvent(events.EventTypeTransactionDeleted, deleted, s.now()))

	return nil
}

// publish runs after the write is committed, so a broker failure is logged
// and otherwise ignored. It is detached from the caller's cancellation and
// bounded by publishTimeout.
func (s *Service) publish(ctx context.Context, event events.TransactionEvent) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := s.events.Publish(ctx, event); err != nil {
		logging.FromContext(ctx).Warn("failed to publish ledger event",
			"error", err,
			"event_type", event.Type,
			"transaction_id", event.TransactionID,
		)
	}
}

func validateCreate(req CreateTransactionRequest) error {
	if req.Title == "" {
		return fmt.Errorf("validateCreate: title: %w", domain.ErrInvalidRequest)
	}
	if req.CategoryTitle == "" {
		return fmt.Errorf("validateCreate: category: %w", domain.ErrInvalidRequest)
	}
	if !domain.ValidValue(req.Value) {
		return fmt.Errorf("validateCreate: value %s: %w", req.Value, domain.ErrInvalidAmount)
	}
	if !req.Type.IsValid() {
		return fmt.Errorf("validateCreate: %w", domain.ErrInvalidType)
	}
	return nil
}
