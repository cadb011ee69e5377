package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/josh-kwaku/ledger-write-service/internal/domain"
)

const categoryColumns = `id, title, created_at, updated_at`

type CategoryRepository struct {
	q querier
}

func NewCategoryRepository(q querier) *CategoryRepository {
	return &CategoryRepository{q: q}
}

func (r *CategoryRepository) FindByTitle(ctx context.Context, title string) (*domain.Category, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE title = $1`, title,
	)
	c, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("FindByTitle: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("FindByTitle: %w", err)
	}
	return c, nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id,
	)
	c, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return c, nil
}

// Create inserts c, or adopts the existing row when another writer already
// created a category with the same title. c is overwritten with the stored row.
func (r *CategoryRepository) Create(ctx context.Context, c *domain.Category) error {
	row := r.q.QueryRowContext(ctx,
		`INSERT INTO categories (id, title, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (title) DO UPDATE SET title = EXCLUDED.title
		RETURNING `+categoryColumns,
		c.ID, c.Title, c.CreatedAt, c.UpdatedAt,
	)
	stored, err := scanCategory(row)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	*c = *stored
	return nil
}

func scanCategory(s scanner) (*domain.Category, error) {
	var c domain.Category
	if err := s.Scan(&c.ID, &c.Title, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
