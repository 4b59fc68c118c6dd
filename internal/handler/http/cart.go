package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/billy-le/love-edith/internal/domain"
	"github.com/billy-le/love-edith/internal/service"
	"github.com/billy-le/love-edith/pkg/httputil"
	"github.com/billy-le/love-edith/pkg/validator"
)

// CartHandler handles HTTP requests for cart endpoints.
type CartHandler struct {
	service *service.CartService
	logger  *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(svc *service.CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// AddItemRequest is the JSON request body for adding an item to the cart.
type AddItemRequest struct {
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

// DecrementItemRequest is the JSON request body for decrementing a line.
type DecrementItemRequest struct {
	VariantID int64 `json:"variant_id" validate:"required,gt=0"`
}

// ReplaceCartRequest is the JSON request body for replacing the line list.
type ReplaceCartRequest struct {
	Items []domain.LineItem `json:"items" validate:"required"`
}

// --- Handlers ---

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := sessionIDFromContext(r.Context())

	tier, ok := shippingTierFromQuery(w, r)
	if !ok {
		return
	}

	view, err := h.service.GetCart(r.Context(), sessionID, tier)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: view})
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := sessionIDFromContext(r.Context())

	tier, ok := shippingTierFromQuery(w, r)
	if !ok {
		return
	}

	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	input := service.AddItemInput{
		ProductID:       req.ProductID,
		VariantID:       req.VariantID,
		Name:            req.Name,
		Price:           req.Price,
		Size:            req.Size,
		Color:           req.Color,
		Images:          req.Images,
		HasFreeShipping: req.HasFreeShipping,
		IsPreorder:      req.IsPreorder,
	}

	view, err := h.service.AddItem(r.Context(), sessionID, input, tier)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: view})
}

// DecrementItem handles POST /api/v1/cart/items/decrement
func (h *CartHandler) DecrementItem(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := sessionIDFromContext(r.Context())

	tier, ok := shippingTierFromQuery(w, r)
	if !ok {
		return
	}

	var req DecrementItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	view, err := h.service.DecrementItem(r.Context(), sessionID, req.VariantID, tier)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: view})
}

// RemoveItem handles DELETE /api/v1/cart/items/{variantId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := sessionIDFromContext(r.Context())

	tier, ok := shippingTierFromQuery(w, r)
	if !ok {
		return
	}

	variantID, err := strconv.ParseInt(chi.URLParam(r, "variantId"), 10, 64)
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "variantId must be an integer"},
		})
		return
	}

	view, err := h.service.RemoveItem(r.Context(), sessionID, variantID, tier)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: view})
}

// ReplaceCart handles PUT /api/v1/cart
func (h *CartHandler) ReplaceCart(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := sessionIDFromContext(r.Context())

	tier, ok := shippingTierFromQuery(w, r)
	if !ok {
		return
	}

	var req ReplaceCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	view, err := h.service.ReplaceItems(r.Context(), sessionID, req.Items, tier)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: view})
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := sessionIDFromContext(r.Context())

	if err := h.service.ClearCart(r.Context(), sessionID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "cleared"}})
}

// shippingTierFromQuery parses the optional "shipping" query parameter. A
// missing parameter yields a nil tier (no tier selected); an unknown label is
// rejected so totals are never silently computed against tier zero.
func shippingTierFromQuery(w http.ResponseWriter, r *http.Request) (*domain.ShippingTier, bool) {
	raw := r.URL.Query().Get("shipping")
	if raw == "" {
		return nil, true
	}

	tier, err := domain.ParseShippingTier(raw)
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: err.Error()},
		})
		return nil, false
	}
	return &tier, true
}
