package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/billy-le/love-edith/internal/cart"
	"github.com/billy-le/love-edith/internal/domain"
	"github.com/billy-le/love-edith/internal/repository"
	apperrors "github.com/billy-le/love-edith/pkg/errors"
)

// AddressInput is the shipping address submitted at checkout.
type AddressInput struct {
	FullName    string `json:"full_name" validate:"required,min=1,max=200"`
	AddressLine string `json:"address_line" validate:"required,min=1,max=500"`
	Barangay    string `json:"barangay" validate:"max=200"`
	City        string `json:"city" validate:"required,max=200"`
	Province    string `json:"province" validate:"required,max=200"`
	Region      string `json:"region" validate:"max=200"`
	PostalCode  string `json:"postal_code" validate:"max=20"`
	Phone       string `json:"phone" validate:"required,max=50"`
	Email       string `json:"email" validate:"omitempty,email"`
}

// PlaceOrderInput holds the parameters for placing an order.
type PlaceOrderInput struct {
	ShippingTier  string       `json:"shipping_tier" validate:"required,oneof=0 79 150"`
	PaymentMethod string       `json:"payment_method" validate:"required,oneof=gcash bpi bdo paypal cod"`
	Address       AddressInput `json:"address" validate:"required"`
}

// CheckoutService turns a session's cart into an order.
type CheckoutService struct {
	storage   repository.CartStorageProvider
	promos    repository.PromotionRepository
	orders    repository.OrderRepository
	publisher EventPublisher
	logger    *slog.Logger
	nowFunc   func() time.Time
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(
	storage repository.CartStorageProvider,
	promos repository.PromotionRepository,
	orders repository.OrderRepository,
	publisher EventPublisher,
	logger *slog.Logger,
) *CheckoutService {
	return &CheckoutService{
		storage:   storage,
		promos:    promos,
		orders:    orders,
		publisher: publisher,
		logger:    logger,
		nowFunc:   func() time.Time { return time.Now().UTC() },
	}
}

// PlaceOrder prices the session's cart against the active promotion and the
// chosen shipping tier, persists the order, and clears the cart. Zero-quantity
// lines are pruned before pricing; a cart left empty after pruning cannot be
// checked out. The cart is cleared only after the order is durably stored, so
// a failed attempt can be retried with the cart intact.
func (s *CheckoutService) PlaceOrder(ctx context.Context, sessionID string, input PlaceOrderInput) (*domain.Order, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	tier := domain.ShippingTier(input.ShippingTier)
	if !tier.Valid() {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown shipping tier %q", input.ShippingTier))
	}

	store := cart.NewStore(s.storage.ForSession(sessionID), s.logger)
	store.Hydrate(ctx)

	state := store.State()
	if pruned := domain.PruneZeroQty(state.Items); len(pruned) != len(state.Items) {
		state = store.Dispatch(ctx, cart.SetItems{Items: pruned})
	}
	if len(state.Items) == 0 {
		return nil, apperrors.InvalidInput("cart is empty")
	}

	now := s.nowFunc()

	promo, err := s.promos.GetActive(ctx, now)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "failed to fetch active promotion",
				slog.String("error", err.Error()),
			)
		}
		promo = nil
	}

	quote := domain.ComputeQuote(state.Items, promo, &tier, now)

	order := &domain.Order{
		ID:              uuid.New().String(),
		SessionID:       sessionID,
		Status:          domain.OrderStatusPending,
		Items:           orderItems(state.Items),
		SubtotalAmount:  quote.Subtotal,
		AmountDiscount:  quote.AmountDiscount,
		PercentDiscount: quote.PercentDiscount,
		ShippingAmount:  quote.ShippingAmount,
		TotalAmount:     quote.Total,
		Currency:        quote.Currency,
		ShippingTier:    tier,
		PaymentMethod:   input.PaymentMethod,
		ShippingAddress: domain.Address{
			FullName:    input.Address.FullName,
			AddressLine: input.Address.AddressLine,
			Barangay:    input.Address.Barangay,
			City:        input.Address.City,
			Province:    input.Address.Province,
			Region:      input.Address.Region,
			PostalCode:  input.Address.PostalCode,
			Phone:       input.Address.Phone,
			Email:       input.Address.Email,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if promo != nil && (quote.AmountDiscount > 0 || quote.PercentDiscount > 0 || quote.FreeShipping) {
		order.PromotionID = &promo.ID
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	if err := s.storage.ForSession(sessionID).Clear(ctx); err != nil {
		s.logger.ErrorContext(ctx, "failed to clear cart after checkout",
			slog.String("session_id", sessionID),
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	if err := s.publisher.PublishOrderCreated(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.created event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order placed",
		slog.String("order_id", order.ID),
		slog.String("session_id", sessionID),
		slog.Int64("total_amount", order.TotalAmount),
	)

	return order, nil
}

// GetOrder retrieves an order, restricted to the session that placed it.
func (s *CheckoutService) GetOrder(ctx context.Context, sessionID, orderID string) (*domain.Order, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if orderID == "" {
		return nil, apperrors.InvalidInput("order id is required")
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.SessionID != sessionID {
		return nil, apperrors.NotFound("order", orderID)
	}

	return order, nil
}

func orderItems(items []domain.LineItem) []domain.OrderItem {
	out := make([]domain.OrderItem, 0, len(items))
	for _, item := range items {
		out = append(out, domain.OrderItem{
			ProductID:  item.ProductID,
			VariantID:  item.VariantID,
			Name:       item.Name,
			Size:       item.Size,
			Color:      item.Color,
			Price:      item.Price,
			Qty:        item.Qty,
			IsPreorder: item.IsPreorder,
		})
	}
	return out
}
