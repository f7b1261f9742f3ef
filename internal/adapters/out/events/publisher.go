// Package events publishes order lifecycle events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/tracing"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the part of *kafka.Writer the publisher uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type stateMessage struct {
	Status   string `json:"status"`
	Delivery string `json:"deliveryStatus,omitempty"`
}

// StatusChangedMessage is the wire form of order.StatusChanged.
type StatusChangedMessage struct {
	Type       string       `json:"type"`
	OrderID    string       `json:"orderId"`
	CustomerID string       `json:"customerId"`
	Action     string       `json:"action"`
	From       stateMessage `json:"from"`
	To         stateMessage `json:"to"`
	Version    int64        `json:"version"`
	OccurredAt time.Time    `json:"occurredAt"`
}

const statusChangedType = "order.status_changed"

// KafkaOrderEventPublisher writes events keyed by order id so a consumer sees
// one order's changes in order.
type KafkaOrderEventPublisher struct {
	writer MessageWriter
}

func NewKafkaOrderEventPublisher(writer MessageWriter) *KafkaOrderEventPublisher {
	return &KafkaOrderEventPublisher{writer: writer}
}

func (p *KafkaOrderEventPublisher) Publish(ctx context.Context, event order.StatusChanged) error {
	payload, err := json.Marshal(toMessage(event))
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderID.String()),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(statusChangedType)},
		},
	}
	tracing.InjectKafka(ctx, &msg)

	if err = p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s for order %s: %w", statusChangedType, event.OrderID, err)
	}
	return nil
}

func toMessage(e order.StatusChanged) StatusChangedMessage {
	return StatusChangedMessage{
		Type:       statusChangedType,
		OrderID:    e.OrderID.String(),
		CustomerID: e.CustomerID,
		Action:     e.Action.String(),
		From:       toState(e.From),
		To:         toState(e.To),
		Version:    e.Version,
		OccurredAt: e.OccurredAt.UTC(),
	}
}

func toState(s order.State) stateMessage {
	m := stateMessage{Status: s.Status.String()}
	if s.Delivery.IsSet() {
		m.Delivery = s.Delivery.String()
	}
	return m
}
