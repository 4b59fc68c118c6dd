package repository

import (
	"context"
	"time"

	"github.com/billy-le/love-edith/internal/cart"
	"github.com/billy-le/love-edith/internal/domain"
)

// CartStorageProvider hands out session-scoped storage adapters for the cart
// store. The provider owns key layout and TTL; the store only sees Load,
// Save, and Clear.
type CartStorageProvider interface {
	ForSession(sessionID string) cart.Storage
}

// PromotionRepository defines the interface for promotion lookups.
type PromotionRepository interface {
	// GetActive returns the featured promotion that has not expired at the
	// given instant, or an ErrNotFound-wrapping error when none is running.
	GetActive(ctx context.Context, now time.Time) (*domain.Promotion, error)
}

// OrderRepository defines the interface for order persistence operations.
type OrderRepository interface {
	// Create inserts an order and its items atomically.
	Create(ctx context.Context, order *domain.Order) error

	// GetByID retrieves an order by its unique identifier, including items.
	GetByID(ctx context.Context, id string) (*domain.Order, error)
}

// VariantRepository defines the interface for variant stock lookups.
type VariantRepository interface {
	// ListByProduct returns per-variant stock for the given product.
	ListByProduct(ctx context.Context, productID int64) ([]domain.VariantStock, error)
}
