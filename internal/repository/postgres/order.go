package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/billy-le/love-edith/internal/domain"
	"github.com/billy-le/love-edith/pkg/database"
	apperrors "github.com/billy-le/love-edith/pkg/errors"
)

// OrderRepository implements repository.OrderRepository using PostgreSQL.
type OrderRepository struct {
	pool database.DBTX
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool database.DBTX) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create inserts a new order and its items atomically within a transaction.
func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	addressJSON, err := json.Marshal(o.ShippingAddress)
	if err != nil {
		return fmt.Errorf("marshal shipping address: %w", err)
	}

	orderQuery := `
		INSERT INTO orders (id, session_id, status, subtotal_amount, amount_discount,
			percent_discount, shipping_amount, total_amount, currency, shipping_tier,
			payment_method, shipping_address, promotion_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err = tx.Exec(ctx, orderQuery,
		o.ID,
		o.SessionID,
		o.Status,
		o.SubtotalAmount,
		o.AmountDiscount,
		o.PercentDiscount,
		o.ShippingAmount,
		o.TotalAmount,
		o.Currency,
		string(o.ShippingTier),
		o.PaymentMethod,
		addressJSON,
		o.PromotionID,
		o.CreatedAt,
		o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (order_id, product_id, variant_id, name, size, color, price, qty, is_preorder)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	for _, item := range o.Items {
		_, err = tx.Exec(ctx, itemQuery,
			o.ID,
			item.ProductID,
			item.VariantID,
			item.Name,
			item.Size,
			item.Color,
			item.Price,
			item.Qty,
			item.IsPreorder,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// GetByID retrieves an order by its ID, eagerly loading its items.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `
		SELECT
			o.id, o.session_id, o.status, o.subtotal_amount, o.amount_discount,
			o.percent_discount, o.shipping_amount, o.total_amount, o.currency,
			o.shipping_tier, o.payment_method, o.shipping_address, o.promotion_id,
			o.created_at, o.updated_at,
			COALESCE(
				JSONB_AGG(
					JSONB_BUILD_OBJECT(
						'product_id', oi.product_id,
						'variant_id', oi.variant_id,
						'name', oi.name,
						'size', oi.size,
						'color', oi.color,
						'price', oi.price,
						'qty', oi.qty,
						'is_preorder', oi.is_preorder
					) ORDER BY oi.variant_id
				) FILTER (WHERE oi.variant_id IS NOT NULL),
				'[]'::jsonb
			) AS items
		FROM orders o
		LEFT JOIN order_items oi ON o.id = oi.order_id
		WHERE o.id = $1
		GROUP BY o.id, o.session_id, o.status, o.subtotal_amount, o.amount_discount,
			o.percent_discount, o.shipping_amount, o.total_amount, o.currency,
			o.shipping_tier, o.payment_method, o.shipping_address, o.promotion_id,
			o.created_at, o.updated_at`

	var (
		o           domain.Order
		tier        string
		addressJSON []byte
		itemsJSON   []byte
	)

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&o.ID,
		&o.SessionID,
		&o.Status,
		&o.SubtotalAmount,
		&o.AmountDiscount,
		&o.PercentDiscount,
		&o.ShippingAmount,
		&o.TotalAmount,
		&o.Currency,
		&tier,
		&o.PaymentMethod,
		&addressJSON,
		&o.PromotionID,
		&o.CreatedAt,
		&o.UpdatedAt,
		&itemsJSON,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("order", id)
		}
		return nil, fmt.Errorf("query order: %w", err)
	}

	o.ShippingTier = domain.ShippingTier(tier)

	if len(addressJSON) > 0 {
		if err := json.Unmarshal(addressJSON, &o.ShippingAddress); err != nil {
			return nil, fmt.Errorf("unmarshal shipping address: %w", err)
		}
	}

	if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
		return nil, fmt.Errorf("unmarshal order items: %w", err)
	}

	return &o, nil
}
