package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/josh-kwaku/ledger-write-service/internal/events"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Publisher struct {
	writer messageWriter
}

// Ledger writes publish one event at a time on the request path, so the
// writer flushes almost immediately and gives up quickly on a dead broker.
const (
	batchTimeout = 10 * time.Millisecond
	writeTimeout = 2 * time.Second
	maxAttempts  = 3
)

func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
			BatchSize:              1,
			BatchTimeout:           batchTimeout,
			WriteTimeout:           writeTimeout,
			MaxAttempts:            maxAttempts,
		},
	}
}

func (p *Publisher) Publish(ctx context.Context, event events.TransactionEvent) error {
	msg, err := newMessage(event)
	if err != nil {
		return fmt.Errorf("Publish: %w", err)
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("Publish: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// Messages are keyed by transaction id so a create and its delete land on
// the same partition.
func newMessage(event events.TransactionEvent) (kafka.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("newMessage: %w", err)
	}
	return kafka.Message{
		Key:   []byte(event.TransactionID.String()),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
		Time: event.OccurredAt,
	}, nil
}
