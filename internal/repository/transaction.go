package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/ledger-write-service/internal/domain"
)

const transactionSelect = `SELECT t.id, t.title, t.value, t.type, t.category_id,
	t.created_at, t.updated_at,
	c.id, c.title, c.created_at, c.updated_at
	FROM transactions t
	JOIN categories c ON c.id = t.category_id`

type TransactionRepository struct {
	q querier
}

func NewTransactionRepository(q querier) *TransactionRepository {
	return &TransactionRepository{q: q}
}

func (r *TransactionRepository) GetBalance(ctx context.Context) (domain.Balance, error) {
	var income, outcome decimal.Decimal
	err := r.q.QueryRowContext(ctx,
		`SELECT
			COALESCE(SUM(value) FILTER (WHERE type = $1), 0),
			COALESCE(SUM(value) FILTER (WHERE type = $2), 0)
		FROM transactions`,
		domain.TransactionTypeIncome, domain.TransactionTypeOutcome,
	).Scan(&income, &outcome)
	if err != nil {
		return domain.Balance{}, fmt.Errorf("GetBalance: %w", err)
	}
	return domain.NewBalance(income, outcome), nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	row := r.q.QueryRowContext(ctx, transactionSelect+` WHERE t.id = $1`, id)
	t, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return t, nil
}

func (r *TransactionRepository) List(ctx context.Context) ([]domain.Transaction, error) {
	rows, err := r.q.QueryContext(ctx, transactionSelect+` ORDER BY t.created_at, t.id`)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("List: scan: %w", err)
		}
		transactions = append(transactions, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List: rows: %w", err)
	}
	return transactions, nil
}

func (r *TransactionRepository) Create(ctx context.Context, t *domain.Transaction) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO transactions (id, title, value, type, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.ID, t.Title, t.Value, t.Type, t.CategoryID, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *TransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Delete: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func scanTransaction(s scanner) (*domain.Transaction, error) {
	var t domain.Transaction
	var c domain.Category
	err := s.Scan(
		&t.ID, &t.Title, &t.Value, &t.Type, &t.CategoryID,
		&t.CreatedAt, &t.UpdatedAt,
		&c.ID, &c.Title, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.Category = &c
	return &t, nil
}
