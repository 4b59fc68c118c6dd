package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/billy-le/love-edith/internal/domain"
	pkgkafka "github.com/billy-le/love-edith/pkg/kafka"
)

// Kafka topic constants for storefront domain events.
const (
	TopicCartUpdated  = "storefront.cart.updated"
	TopicOrderCreated = "storefront.order.created"
)

// Aggregate type constants.
const (
	AggregateTypeCart  = "cart"
	AggregateTypeOrder = "order"
)

// Source identifier for events originating from this service.
const SourceStorefront = "storefront-service"

// CartUpdatedData is the payload for a cart.updated event.
type CartUpdatedData struct {
	SessionID string            `json:"session_id"`
	Items     []domain.LineItem `json:"items"`
	ItemCount int               `json:"item_count"`
	Subtotal  int64             `json:"subtotal"`
	Currency  string            `json:"currency"`
}

// OrderCreatedData is the payload for an order.created event.
type OrderCreatedData struct {
	OrderID        string `json:"order_id"`
	SessionID      string `json:"session_id"`
	ItemCount      int    `json:"item_count"`
	SubtotalAmount int64  `json:"subtotal_amount"`
	TotalAmount    int64  `json:"total_amount"`
	Currency       string `json:"currency"`
	ShippingTier   string `json:"shipping_tier"`
	PaymentMethod  string `json:"payment_method"`
}

// Producer publishes storefront domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishCartUpdated publishes a cart.updated event.
func (p *Producer) PublishCartUpdated(ctx context.Context, sessionID string, items []domain.LineItem) error {
	data := CartUpdatedData{
		SessionID: sessionID,
		Items:     items,
		ItemCount: domain.ItemCount(items),
		Subtotal:  domain.Subtotal(items),
		Currency:  domain.Currency,
	}

	event, err := pkgkafka.NewEvent(TopicCartUpdated, sessionID, AggregateTypeCart, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create cart.updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartUpdated, event); err != nil {
		return fmt.Errorf("publish cart.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.updated event",
		slog.String("session_id", sessionID),
		slog.Int("item_count", data.ItemCount),
	)

	return nil
}

// PublishOrderCreated publishes an order.created event.
func (p *Producer) PublishOrderCreated(ctx context.Context, order *domain.Order) error {
	var count int
	for _, item := range order.Items {
		count += item.Qty
	}

	data := OrderCreatedData{
		OrderID:        order.ID,
		SessionID:      order.SessionID,
		ItemCount:      count,
		SubtotalAmount: order.SubtotalAmount,
		TotalAmount:    order.TotalAmount,
		Currency:       order.Currency,
		ShippingTier:   string(order.ShippingTier),
		PaymentMethod:  order.PaymentMethod,
	}

	event, err := pkgkafka.NewEvent(TopicOrderCreated, order.ID, AggregateTypeOrder, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create order.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicOrderCreated, event); err != nil {
		return fmt.Errorf("publish order.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published order.created event",
		slog.String("order_id", order.ID),
		slog.String("session_id", order.SessionID),
	)

	return nil
}
