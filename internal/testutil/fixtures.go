package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/ledger-write-service/internal/domain"
)

func SeedCategory(t *testing.T, db *sql.DB, title string) *domain.Category {
	t.Helper()

	now := time.Now().UTC()
	c := &domain.Category{ID: uuid.New(), Title: title, CreatedAt: now, UpdatedAt: now}
	_, err := db.Exec(
		`INSERT INTO categories (id, title, created_at, updated_at) VALUES ($1, $2, $3, $4)`,
		c.ID, c.Title, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("seed category %s: %v", title, err)
	}
	return c
}

func SeedTransaction(t *testing.T, db *sql.DB, categoryID uuid.UUID, typ domain.TransactionType, value string) *domain.Transaction {
	t.Helper()

	now := time.Now().UTC()
	tx := &domain.Transaction{
		ID:         uuid.New(),
		Title:      "seeded " + string(typ),
		Value:      decimal.RequireFromString(value),
		Type:       typ,
		CategoryID: categoryID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	_, err := db.Exec(
		`INSERT INTO transactions (id, title, value, type, category_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		tx.ID, tx.Title, tx.Value, tx.Type, tx.CategoryID, tx.CreatedAt, tx.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("seed transaction %s %s: %v", typ, value, err)
	}
	return tx
}

func CountTransactions(t *testing.T, db *sql.DB) int {
	t.Helper()

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM transactions`).Scan(&count); err != nil {
		t.Fatalf("count transactions: %v", err)
	}
	return count
}

func CountCategories(t *testing.T, db *sql.DB, title string) int {
	t.Helper()

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM categories WHERE title = $1`, title).Scan(&count); err != nil {
		t.Fatalf("count categories %s: %v", title, err)
	}
	return count
}

func CountAllCategories(t *testing.T, db *sql.DB) int {
	t.Helper()

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM categories`).Scan(&count); err != nil {
		t.Fatalf("count categories: %v", err)
	}
	return count
}
