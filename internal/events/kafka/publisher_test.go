package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josh-kwaku/ledger-write-service/internal/domain"
	"github.com/josh-kwaku/ledger-write-service/internal/events"
)

type mockWriter struct {
	written []kafka.Message
	err     error
	closed  bool
}

func (m *mockWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if m.err != nil {
		return m.err
	}
	m.written = append(m.written, msgs...)
	return nil
}

func (m *mockWriter) Close() error {
	m.closed = true
	return nil
}

func sampleEvent() events.TransactionEvent {
	return events.TransactionEvent{
		Type:            events.EventTypeTransactionCreated,
		TransactionID:   uuid.New(),
		Title:           "Salary",
		Value:           decimal.RequireFromString("1000.50"),
		TransactionType: domain.TransactionTypeIncome,
		CategoryID:      uuid.New(),
		CategoryTitle:   "Job",
		OccurredAt:      time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC),
	}
}

func TestPublish(t *testing.T) {
	w := &mockWriter{}
	p := &Publisher{writer: w}
	event := sampleEvent()

	require.NoError(t, p.Publish(context.Background(), event))
	require.Len(t, w.written, 1)

	msg := w.written[0]
	assert.Equal(t, event.TransactionID.String(), string(msg.Key))
	assert.Equal(t, event.OccurredAt, msg.Time)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "transaction.created", string(msg.Headers[0].Value))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "Salary", decoded["title"])
	assert.Equal(t, "1000.5", decoded["value"])
	assert.Equal(t, "income", decoded["transaction_type"])
	assert.Equal(t, "Job", decoded["category_title"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublish_WriterError(t *testing.T) {
	boom := errors.New("broker unavailable")
	p := &Publisher{writer: &mockWriter{err: boom}}

	err := p.Publish(context.Background(), sampleEvent())
	require.ErrorIs(t, err, boom)
}

func TestNewPublisher_WriterSettings(t *testing.T) {
	p := NewPublisher([]string{"localhost:9092"}, "ledger.transactions")
	w, ok := p.writer.(*kafka.Writer)
	require.True(t, ok)

	assert.Equal(t, "ledger.transactions", w.Topic)
	assert.Equal(t, 1, w.BatchSize)
	assert.LessOrEqual(t, w.BatchTimeout, 10*time.Millisecond)
	assert.LessOrEqual(t, w.WriteTimeout, 2*time.Second)
	assert.Equal(t, 3, w.MaxAttempts)
	assert.Equal(t, kafka.RequireAll, w.RequiredAcks)
	require.NoError(t, p.Close())
}
