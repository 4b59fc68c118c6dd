package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/billy-le/love-edith/internal/domain"
	apperrors "github.com/billy-le/love-edith/pkg/errors"
)

type mockOrderRepository struct {
	mock.Mock
}

func (m *mockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *mockOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func newCheckoutService(storage *memStorage, promos *mockPromotionRepository, orders *mockOrderRepository, publisher *mockPublisher) *CheckoutService {
	svc := NewCheckoutService(&memProvider{storage: storage}, promos, orders, publisher, newTestLogger())
	svc.nowFunc = func() time.Time { return time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func validOrderInput() PlaceOrderInput {
	return PlaceOrderInput{
		ShippingTier:  "79",
		PaymentMethod: "gcash",
		Address: AddressInput{
			FullName:    "Maria Santos",
			AddressLine: "12 Mabini St",
			Barangay:    "Poblacion",
			City:        "Makati",
			Province:    "Metro Manila",
			Phone:       "+63 917 000 0000",
		},
	}
}

func TestCheckoutService_PlaceOrder(t *testing.T) {
	item := dressItem(11, 99900)
	item.Qty = 2
	storage := &memStorage{items: []domain.LineItem{item}}

	promos := new(mockPromotionRepository)
	noPromotion(promos)

	orders := new(mockOrderRepository)
	orders.On("Create", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil)

	publisher := new(mockPublisher)
	publisher.On("PublishOrderCreated", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil)

	svc := newCheckoutService(storage, promos, orders, publisher)

	order, err := svc.PlaceOrder(context.Background(), "sess-1", validOrderInput())

	require.NoError(t, err)
	_, parseErr := uuid.Parse(order.ID)
	assert.NoError(t, parseErr)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Equal(t, int64(199800), order.SubtotalAmount)
	assert.Equal(t, int64(7900), order.ShippingAmount)
	assert.Equal(t, int64(207700), order.TotalAmount)
	assert.Equal(t, domain.TierMetroManila, order.ShippingTier)
	assert.Equal(t, "PHP", order.Currency)
	assert.Nil(t, order.PromotionID)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 2, order.Items[0].Qty)

	assert.True(t, storage.cleared)
	orders.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestCheckoutService_PlaceOrder_WithPromotion(t *testing.T) {
	item := dressItem(11, 99900)
	item.Qty = 2
	storage := &memStorage{items: []domain.LineItem{item}}

	promos := new(mockPromotionRepository)
	promos.On("GetActive", mock.Anything, mock.Anything).Return(&domain.Promotion{
		ID:              7,
		Name:            "Anniversary Sale",
		PercentDiscount: 10,
		ExpirationDate:  time.Date(2021, 7, 1, 0, 0, 0, 0, time.UTC),
	}, nil)

	orders := new(mockOrderRepository)
	orders.On("Create", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil)

	publisher := new(mockPublisher)
	publisher.On("PublishOrderCreated", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil)

	svc := newCheckoutService(storage, promos, orders, publisher)

	order, err := svc.PlaceOrder(context.Background(), "sess-1", validOrderInput())

	require.NoError(t, err)
	assert.Equal(t, int64(19980), order.PercentDiscount)
	assert.Equal(t, int64(187720), order.TotalAmount)
	require.NotNil(t, order.PromotionID)
	assert.Equal(t, int64(7), *order.PromotionID)
}

func TestCheckoutService_PlaceOrder_EmptyCart(t *testing.T) {
	storage := &memStorage{}
	svc := newCheckoutService(storage, new(mockPromotionRepository), new(mockOrderRepository), new(mockPublisher))

	_, err := svc.PlaceOrder(context.Background(), "sess-1", validOrderInput())

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestCheckoutService_PlaceOrder_PrunesZeroQtyLines(t *testing.T) {
	ghost := dressItem(11, 99900)
	ghost.Qty = 0
	storage := &memStorage{items: []domain.LineItem{ghost}}

	svc := newCheckoutService(storage, new(mockPromotionRepository), new(mockOrderRepository), new(mockPublisher))

	_, err := svc.PlaceOrder(context.Background(), "sess-1", validOrderInput())

	// All lines were at zero quantity, so after pruning the cart is empty.
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Empty(t, storage.items)
	assert.Equal(t, 1, storage.saves)
}

func TestCheckoutService_PlaceOrder_InvalidTier(t *testing.T) {
	storage := &memStorage{items: []domain.LineItem{dressItem(11, 99900)}}
	svc := newCheckoutService(storage, new(mockPromotionRepository), new(mockOrderRepository), new(mockPublisher))

	input := validOrderInput()
	input.ShippingTier = "250"

	_, err := svc.PlaceOrder(context.Background(), "sess-1", input)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestCheckoutService_PlaceOrder_RepositoryFailureKeepsCart(t *testing.T) {
	storage := &memStorage{items: []domain.LineItem{dressItem(11, 99900)}}

	promos := new(mockPromotionRepository)
	noPromotion(promos)

	orders := new(mockOrderRepository)
	orders.On("Create", mock.Anything, mock.AnythingOfType("*domain.Order")).
		Return(errors.New("connection refused"))

	svc := newCheckoutService(storage, promos, orders, new(mockPublisher))

	_, err := svc.PlaceOrder(context.Background(), "sess-1", validOrderInput())

	require.Error(t, err)
	assert.False(t, storage.cleared)
	require.Len(t, storage.items, 1)
}

func TestCheckoutService_GetOrder(t *testing.T) {
	orders := new(mockOrderRepository)
	orders.On("GetByID", mock.Anything, "ord-1").Return(&domain.Order{
		ID:        "ord-1",
		SessionID: "sess-1",
		Status:    domain.OrderStatusPending,
	}, nil)

	svc := newCheckoutService(&memStorage{}, new(mockPromotionRepository), orders, new(mockPublisher))

	order, err := svc.GetOrder(context.Background(), "sess-1", "ord-1")

	require.NoError(t, err)
	assert.Equal(t, "ord-1", order.ID)
}

func TestCheckoutService_GetOrder_WrongSession(t *testing.T) {
	orders := new(mockOrderRepository)
	orders.On("GetByID", mock.Anything, "ord-1").Return(&domain.Order{
		ID:        "ord-1",
		SessionID: "sess-1",
	}, nil)

	svc := newCheckoutService(&memStorage{}, new(mockPromotionRepository), orders, new(mockPublisher))

	_, err := svc.GetOrder(context.Background(), "sess-2", "ord-1")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
