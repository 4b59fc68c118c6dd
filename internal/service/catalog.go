package service

import (
	"context"
	"log/slog"

	"github.com/billy-le/love-edith/internal/domain"
	"github.com/billy-le/love-edith/internal/repository"
	apperrors "github.com/billy-le/love-edith/pkg/errors"
)

// CatalogService exposes per-variant stock for sold-out display.
type CatalogService struct {
	variants repository.VariantRepository
	logger   *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(variants repository.VariantRepository, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		variants: variants,
		logger:   logger,
	}
}

// Availability returns stock per variant for a product. A product with no
// variants yields an empty list, not an error.
func (s *CatalogService) Availability(ctx context.Context, productID int64) ([]domain.VariantStock, error) {
	if productID <= 0 {
		return nil, apperrors.InvalidInput("product id must be positive")
	}

	stocks, err := s.variants.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if stocks == nil {
		stocks = []domain.VariantStock{}
	}

	return stocks, nil
}
