package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/billy-le/love-edith/internal/cart"
	"github.com/billy-le/love-edith/internal/domain"
	"github.com/billy-le/love-edith/internal/repository"
	apperrors "github.com/billy-le/love-edith/pkg/errors"
)

// Cart operation upper-bound limits to prevent abuse.
const (
	// MaxQtyPerLine is the maximum quantity allowed for a single line item.
	MaxQtyPerLine = 20
	// MaxLinesPerCart is the maximum number of distinct lines allowed in a cart.
	MaxLinesPerCart = 50
	// MaxPriceCentavos is the maximum price (100,000.00 PHP) allowed per item.
	MaxPriceCentavos = 100_000_00
)

// EventPublisher publishes storefront domain events. Publish failures are
// logged by callers and never fail the operation.
type EventPublisher interface {
	PublishCartUpdated(ctx context.Context, sessionID string, items []domain.LineItem) error
	PublishOrderCreated(ctx context.Context, order *domain.Order) error
}

// AddItemInput holds the parameters for incrementing a line item.
type AddItemInput struct {
	ProductID       int64                `json:"product_id" validate:"required,gt=0"`
	VariantID       int64                `json:"variant_id" validate:"required,gt=0"`
	Name            string               `json:"name" validate:"required,min=1,max=500"`
	Price           int64                `json:"price" validate:"gte=0"`
	Size            string               `json:"size" validate:"required"`
	Color           string               `json:"color" validate:"required"`
	Images          []domain.ImageFormat `json:"images"`
	HasFreeShipping bool                 `json:"has_free_shipping"`
	IsPreorder      bool                 `json:"is_preorder"`
}

// CartView is a cart snapshot together with its freshly computed totals.
type CartView struct {
	Items []domain.LineItem `json:"items"`
	Quote domain.Quote      `json:"quote"`
}

// CartService implements the business logic for cart operations. Each
// request hydrates a store from the session's durable storage, dispatches
// actions against it, and recomputes the quote from the resulting state.
type CartService struct {
	storage   repository.CartStorageProvider
	promos    repository.PromotionRepository
	publisher EventPublisher
	logger    *slog.Logger
	nowFunc   func() time.Time
}

// NewCartService creates a new cart service.
func NewCartService(
	storage repository.CartStorageProvider,
	promos repository.PromotionRepository,
	publisher EventPublisher,
	logger *slog.Logger,
) *CartService {
	return &CartService{
		storage:   storage,
		promos:    promos,
		publisher: publisher,
		logger:    logger,
		nowFunc:   func() time.Time { return time.Now().UTC() },
	}
}

// GetCart returns the hydrated cart and its quote for the given session.
func (s *CartService) GetCart(ctx context.Context, sessionID string, tier *domain.ShippingTier) (*CartView, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	store := s.hydratedStore(ctx, sessionID)
	return s.view(ctx, store.State(), tier), nil
}

// AddItem increments the line matching the input's variant ID, appending a
// new line with quantity one when absent.
func (s *CartService) AddItem(ctx context.Context, sessionID string, input AddItemInput, tier *domain.ShippingTier) (*CartView, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if input.VariantID <= 0 {
		return nil, apperrors.InvalidInput("variant id is required")
	}
	if input.ProductID <= 0 {
		return nil, apperrors.InvalidInput("product id is required")
	}
	if input.Price < 0 {
		return nil, apperrors.InvalidInput("price must not be negative")
	}
	if input.Price > MaxPriceCentavos {
		return nil, apperrors.InvalidInput(fmt.Sprintf("price must not exceed %d centavos", MaxPriceCentavos))
	}

	store := s.hydratedStore(ctx, sessionID)
	state := store.State()

	if i := domain.FindByVariant(state.Items, input.VariantID); i != -1 {
		if state.Items[i].Qty >= MaxQtyPerLine {
			return nil, apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQtyPerLine))
		}
	} else if len(state.Items) >= MaxLinesPerCart {
		return nil, apperrors.InvalidInput(fmt.Sprintf("cart must not contain more than %d items", MaxLinesPerCart))
	}

	state = store.Dispatch(ctx, cart.Increment{Item: domain.LineItem{
		ProductID:       input.ProductID,
		VariantID:       input.VariantID,
		Name:            input.Name,
		Price:           input.Price,
		Size:            input.Size,
		Color:           input.Color,
		Images:          input.Images,
		HasFreeShipping: input.HasFreeShipping,
		IsPreorder:      input.IsPreorder,
	}})

	s.publishCartUpdated(ctx, sessionID, state.Items)

	s.logger.InfoContext(ctx, "line item incremented",
		slog.String("session_id", sessionID),
		slog.Int64("variant_id", input.VariantID),
	)

	return s.view(ctx, state, tier), nil
}

// DecrementItem decrements the line matching the variant ID, clamping at
// zero. Decrementing an absent or zero-quantity line is a no-op.
func (s *CartService) DecrementItem(ctx context.Context, sessionID string, variantID int64, tier *domain.ShippingTier) (*CartView, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if variantID <= 0 {
		return nil, apperrors.InvalidInput("variant id is required")
	}

	store := s.hydratedStore(ctx, sessionID)
	state := store.Dispatch(ctx, cart.Decrement{Item: domain.LineItem{VariantID: variantID}})

	s.publishCartUpdated(ctx, sessionID, state.Items)

	s.logger.InfoContext(ctx, "line item decremented",
		slog.String("session_id", sessionID),
		slog.Int64("variant_id", variantID),
	)

	return s.view(ctx, state, tier), nil
}

// RemoveItem deletes the line matching the variant ID.
func (s *CartService) RemoveItem(ctx context.Context, sessionID string, variantID int64, tier *domain.ShippingTier) (*CartView, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if variantID <= 0 {
		return nil, apperrors.InvalidInput("variant id is required")
	}

	store := s.hydratedStore(ctx, sessionID)
	state := store.Dispatch(ctx, cart.Delete{VariantID: variantID})

	s.publishCartUpdated(ctx, sessionID, state.Items)

	s.logger.InfoContext(ctx, "line item removed",
		slog.String("session_id", sessionID),
		slog.Int64("variant_id", variantID),
	)

	return s.view(ctx, state, tier), nil
}

// ReplaceItems replaces the entire line list wholesale.
func (s *CartService) ReplaceItems(ctx context.Context, sessionID string, items []domain.LineItem, tier *domain.ShippingTier) (*CartView, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if len(items) > MaxLinesPerCart {
		return nil, apperrors.InvalidInput(fmt.Sprintf("cart must not contain more than %d items", MaxLinesPerCart))
	}
	for i, item := range items {
		if item.VariantID <= 0 {
			return nil, apperrors.InvalidInput(fmt.Sprintf("item %d: variant id is required", i))
		}
		if item.Qty < 0 {
			return nil, apperrors.InvalidInput(fmt.Sprintf("item %d: qty must not be negative", i))
		}
	}

	store := s.hydratedStore(ctx, sessionID)
	state := store.Dispatch(ctx, cart.SetItems{Items: items})

	s.publishCartUpdated(ctx, sessionID, state.Items)

	s.logger.InfoContext(ctx, "cart replaced",
		slog.String("session_id", sessionID),
		slog.Int("items", len(items)),
	)

	return s.view(ctx, state, tier), nil
}

// ClearCart removes the session's persisted cart entirely.
func (s *CartService) ClearCart(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return apperrors.InvalidInput("session id is required")
	}

	if err := s.storage.ForSession(sessionID).Clear(ctx); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}

	s.publishCartUpdated(ctx, sessionID, nil)

	s.logger.InfoContext(ctx, "cart cleared",
		slog.String("session_id", sessionID),
	)

	return nil
}

// hydratedStore builds a store over the session's storage and hydrates it.
// Hydration failures fall back to an empty cart inside the store.
func (s *CartService) hydratedStore(ctx context.Context, sessionID string) *cart.Store {
	store := cart.NewStore(s.storage.ForSession(sessionID), s.logger)
	store.Hydrate(ctx)
	return store
}

// view recomputes the quote against the state, applying the currently
// active promotion and the caller's shipping tier.
func (s *CartService) view(ctx context.Context, state cart.State, tier *domain.ShippingTier) *CartView {
	now := s.nowFunc()
	promo := s.activePromotion(ctx, now)

	state, _ = cart.Reduce(state, cart.SetPromotion{Promo: promo})
	state, _ = cart.Reduce(state, cart.SetShipping{Tier: tier})

	return &CartView{
		Items: state.Items,
		Quote: domain.ComputeQuote(state.Items, state.Promo, state.Tier, now),
	}
}

// activePromotion fetches the featured promotion. Absence and lookup
// failures both yield nil; a broken promotions store must not break the cart.
func (s *CartService) activePromotion(ctx context.Context, now time.Time) *domain.Promotion {
	promo, err := s.promos.GetActive(ctx, now)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "failed to fetch active promotion",
				slog.String("error", err.Error()),
			)
		}
		return nil
	}
	return promo
}

func (s *CartService) publishCartUpdated(ctx context.Context, sessionID string, items []domain.LineItem) {
	if err := s.publisher.PublishCartUpdated(ctx, sessionID, items); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}
}
