package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	portssvc "github.com/chapelworks/chms_backend/internal/core/ports/services"
	"github.com/segmentio/kafka-go"
)

// Publisher emits financial audit events to a Kafka topic.
type Publisher struct {
	writer *kafka.Writer
}

var _ portssvc.EventPublisher = (*Publisher)(nil)

// NewPublisher creates a publisher writing to the given brokers and topic.
func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			WriteTimeout: 5 * time.Second,
			RequiredAcks: kafka.RequireOne,
		},
	}
}

// PublishFinancialEvent writes one event keyed by entry ID so events for the
// same entry stay ordered within a partition.
func (p *Publisher) PublishFinancialEvent(ctx context.Context, event portssvc.FinancialEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal financial event %s: %w", event.EventID, err)
	}
	msg := kafka.Message{
		Key:   []byte(event.EntryID),
		Value: payload,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish financial event %s: %w", event.EventID, err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
