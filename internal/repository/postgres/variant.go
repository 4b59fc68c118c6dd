package postgres

import (
	"context"
	"fmt"

	"github.com/billy-le/love-edith/internal/domain"
	"github.com/billy-le/love-edith/pkg/database"
)

// VariantRepository implements repository.VariantRepository using PostgreSQL.
type VariantRepository struct {
	pool database.DBTX
}

// NewVariantRepository creates a new PostgreSQL-backed variant repository.
func NewVariantRepository(pool database.DBTX) *VariantRepository {
	return &VariantRepository{pool: pool}
}

// ListByProduct returns per-variant stock for the given product, ordered by
// size then color for stable display.
func (r *VariantRepository) ListByProduct(ctx context.Context, productID int64) ([]domain.VariantStock, error) {
	query := `
		SELECT id, product_id, size, color, qty
		FROM variants
		WHERE product_id = $1
		ORDER BY size, color`

	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("query variants: %w", err)
	}
	defer rows.Close()

	var stocks []domain.VariantStock
	for rows.Next() {
		var v domain.VariantStock
		if err := rows.Scan(&v.VariantID, &v.ProductID, &v.Size, &v.Color, &v.Qty); err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		stocks = append(stocks, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate variants: %w", err)
	}

	return stocks, nil
}
