package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/billy-le/love-edith/internal/domain"
	apperrors "github.com/billy-le/love-edith/pkg/errors"
)

func TestPromotionService_GetActive(t *testing.T) {
	promos := new(mockPromotionRepository)
	promos.On("GetActive", mock.Anything, mock.Anything).Return(&domain.Promotion{
		ID:             7,
		Name:           "Anniversary Sale",
		ExpirationDate: time.Date(2021, 7, 1, 0, 0, 0, 0, time.UTC),
	}, nil)

	svc := NewPromotionService(promos, newTestLogger())

	promo, err := svc.GetActive(context.Background())

	require.NoError(t, err)
	require.NotNil(t, promo)
	assert.Equal(t, int64(7), promo.ID)
}

func TestPromotionService_GetActive_NoneRunning(t *testing.T) {
	promos := new(mockPromotionRepository)
	promos.On("GetActive", mock.Anything, mock.Anything).
		Return(nil, apperrors.NotFound("promotion", "active"))

	svc := NewPromotionService(promos, newTestLogger())

	promo, err := svc.GetActive(context.Background())

	require.NoError(t, err)
	assert.Nil(t, promo)
}

func TestPromotionService_GetActive_Error(t *testing.T) {
	promos := new(mockPromotionRepository)
	promos.On("GetActive", mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused"))

	svc := NewPromotionService(promos, newTestLogger())

	_, err := svc.GetActive(context.Background())

	require.Error(t, err)
}
