package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/polkiloo/orderengine/internal/domain/model"
)

const (
	TypeOrderCreated       = "order.created"
	TypeOrderStatusChanged = "order.status_changed"

	writeTimeout = 5 * time.Second
	batchTimeout = 5 * time.Millisecond
)

// Publisher emits order lifecycle events after commit.
type Publisher interface {
	OrderCreated(ctx context.Context, order model.Order)
	OrderStatusChanged(ctx context.Context, order model.Order, from model.OrderStatus, override bool)
	Close() error
}

// Envelope wraps every event written to the topic.
type Envelope struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data"`
}

// OrderCreatedData is the body of order.created.
type OrderCreatedData struct {
	OrderID        int64  `json:"order_id"`
	OrderNumber    string `json:"order_number"`
	CustomerID     int64  `json:"customer_id"`
	Total          string `json:"total"`
	DeliveryMethod string `json:"delivery_method"`
	PaymentMethod  string `json:"payment_method"`
	Source         string `json:"source"`
}

// OrderStatusChangedData is the body of order.status_changed.
type OrderStatusChangedData struct {
	OrderID     int64  `json:"order_id"`
	OrderNumber string `json:"order_number"`
	From        string `json:"from"`
	To          string `json:"to"`
	Override    bool   `json:"override"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes JSON envelopes keyed by order number.
type KafkaPublisher struct {
	writer messageWriter
	logger *slog.Logger
	now    func() time.Time
}

// NewKafkaPublisher creates publisher for brokers and topic.
func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) *KafkaPublisher {
	return newKafkaPublisher(newWriter(brokers, topic), logger)
}

// newWriter flushes after batchTimeout rather than the one second kafka-go default.
func newWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: batchTimeout,
	}
}

func newKafkaPublisher(w messageWriter, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: w, logger: logger, now: time.Now}
}

// OrderCreated publishes order.created.
func (p *KafkaPublisher) OrderCreated(ctx context.Context, order model.Order) {
	p.publish(ctx, TypeOrderCreated, order.Number, OrderCreatedData{
		OrderID:        order.ID,
		OrderNumber:    order.Number,
		CustomerID:     order.CustomerID,
		Total:          order.Total.StringFixed(2),
		DeliveryMethod: string(order.DeliveryMethod),
		PaymentMethod:  string(order.PaymentMethod),
		Source:         string(order.Source),
	})
}

// OrderStatusChanged publishes order.status_changed.
func (p *KafkaPublisher) OrderStatusChanged(ctx context.Context, order model.Order, from model.OrderStatus, override bool) {
	p.publish(ctx, TypeOrderStatusChanged, order.Number, OrderStatusChangedData{
		OrderID:     order.ID,
		OrderNumber: order.Number,
		From:        string(from),
		To:          string(order.Status),
		Override:    override,
	})
}

// Close flushes and closes the writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func (p *KafkaPublisher) publish(ctx context.Context, eventType, key string, data any) {
	msg, err := p.message(eventType, key, data)
	if err != nil {
		p.logger.Error("encode event failed", slog.String("type", eventType), slog.String("error", err.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
	defer cancel()
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("publish event failed",
			slog.String("type", eventType),
			slog.String("order_number", key),
			slog.String("error", err.Error()),
		)
	}
}

func (p *KafkaPublisher) message(eventType, key string, data any) (kafka.Message, error) {
	body, err := json.Marshal(data)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal %s: %w", eventType, err)
	}
	value, err := json.Marshal(Envelope{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: p.now().UTC(),
		Data:       body,
	})
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal envelope: %w", err)
	}
	return kafka.Message{
		Key:     []byte(key),
		Value:   value,
		Headers: []kafka.Header{{Key: "type", Value: []byte(eventType)}},
	}, nil
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) OrderCreated(context.Context, model.Order) {}

func (NoopPublisher) OrderStatusChanged(context.Context, model.Order, model.OrderStatus, bool) {}

func (NoopPublisher) Close() error { return nil }
