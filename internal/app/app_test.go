package app

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josh-kwaku/ledger-write-service/internal/config"
	"github.com/josh-kwaku/ledger-write-service/internal/domain"
	"github.com/josh-kwaku/ledger-write-service/internal/events"
	"github.com/josh-kwaku/ledger-write-service/internal/service/ledger"
)

func TestNew_MemoryBackend(t *testing.T) {
	a, err := New(context.Background(), &config.Config{StorageBackend: config.BackendMemory})
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, a.Close()) })

	assert.Nil(t, a.DB)
	assert.IsType(t, events.Noop{}, a.publisher)

	tx, err := a.Ledger.CreateTransaction(context.Background(), ledger.CreateTransactionRequest{
		Title:         "Salary",
		Value:         decimal.NewFromInt(10),
		Type:          domain.TransactionTypeIncome,
		CategoryTitle: "Job",
	})
	require.NoError(t, err)
	assert.Equal(t, "Job", tx.Category.Title)
}

func TestNew_UnknownBackend(t *testing.T) {
	_, err := New(context.Background(), &config.Config{StorageBackend: "sqlite"})
	assert.Error(t, err)
}
