package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/ledger-write-service/internal/domain"
)

type EventType string

const (
	EventTypeTransactionCreated EventType = "transaction.created"
	EventTypeTransactionDeleted EventType = "transaction.deleted"
)

type TransactionEvent struct {
	Type            EventType              `json:"type"`
	TransactionID   uuid.UUID              `json:"transaction_id"`
	Title           string                 `json:"title"`
	Value           decimal.Decimal        `json:"value"`
	TransactionType domain.TransactionType `json:"transaction_type"`
	CategoryID      uuid.UUID              `json:"category_id"`
	CategoryTitle   string                 `json:"category_title,omitempty"`
	OccurredAt      time.Time              `json:"occurred_at"`
}

func NewTransactionEvent(eventType EventType, t *domain.Transaction, at time.Time) TransactionEvent {
	e := TransactionEvent{
		Type:            eventType,
		TransactionID:   t.ID,
		Title:           t.Title,
		Value:           t.Value,
		TransactionType: t.Type,
		CategoryID:      t.CategoryID,
		OccurredAt:      at,
	}
	if t.Category != nil {
		e.CategoryTitle = t.Category.Title
	}
	return e
}

// Noop discards events. Used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, TransactionEvent) error { return nil }

func (Noop) Close() error { return nil }
