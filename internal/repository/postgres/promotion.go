package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/billy-le/love-edith/internal/domain"
	"github.com/billy-le/love-edith/pkg/database"
	apperrors "github.com/billy-le/love-edith/pkg/errors"
)

// PromotionRepository implements repository.PromotionRepository using PostgreSQL.
type PromotionRepository struct {
	pool database.DBTX
}

// NewPromotionRepository creates a new PostgreSQL-backed promotion repository.
func NewPromotionRepository(pool database.DBTX) *PromotionRepository {
	return &PromotionRepository{pool: pool}
}

// GetActive returns the featured promotion whose expiration date is still in
// the future at the given instant. When several are running, the one closest
// to expiry wins.
func (r *PromotionRepository) GetActive(ctx context.Context, now time.Time) (*domain.Promotion, error) {
	query := `
		SELECT id, name, details, percent_discount, percent_discount_threshold,
			   amount, amount_threshold, is_free_shipping, free_shipping_threshold,
			   expiration_date
		FROM promotions
		WHERE is_featured = TRUE AND expiration_date > $1
		ORDER BY expiration_date ASC
		LIMIT 1`

	var p domain.Promotion
	err := r.pool.QueryRow(ctx, query, now).Scan(
		&p.ID,
		&p.Name,
		&p.Details,
		&p.PercentDiscount,
		&p.PercentDiscountThreshold,
		&p.Amount,
		&p.AmountThreshold,
		&p.IsFreeShipping,
		&p.FreeShippingThreshold,
		&p.ExpirationDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("promotion", "active")
		}
		return nil, fmt.Errorf("query active promotion: %w", err)
	}

	return &p, nil
}
