package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/billy-le/love-edith/internal/domain"
	"github.com/billy-le/love-edith/internal/repository"
	apperrors "github.com/billy-le/love-edith/pkg/errors"
)

// PromotionService exposes the currently running promotion.
type PromotionService struct {
	promos  repository.PromotionRepository
	logger  *slog.Logger
	nowFunc func() time.Time
}

// NewPromotionService creates a new promotion service.
func NewPromotionService(promos repository.PromotionRepository, logger *slog.Logger) *PromotionService {
	return &PromotionService{
		promos:  promos,
		logger:  logger,
		nowFunc: func() time.Time { return time.Now().UTC() },
	}
}

// GetActive returns the featured promotion that has not expired, or nil when
// none is running.
func (s *PromotionService) GetActive(ctx context.Context) (*domain.Promotion, error) {
	promo, err := s.promos.GetActive(ctx, s.nowFunc())
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return promo, nil
}
