package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billy-le/love-edith/internal/cart"
	"github.com/billy-le/love-edith/internal/domain"
	"github.com/billy-le/love-edith/internal/service"
	apperrors "github.com/billy-le/love-edith/pkg/errors"
	"github.com/billy-le/love-edith/pkg/httputil"
)

// ============================================================================
// Test fakes
// ============================================================================

// stubStorage is an in-memory cart storage shared across requests in a test.
type stubStorage struct {
	items []domain.LineItem
}

func (s *stubStorage) Load(_ context.Context) ([]domain.LineItem, error) {
	return s.items, nil
}

func (s *stubStorage) Save(_ context.Context, items []domain.LineItem) error {
	s.items = items
	return nil
}

func (s *stubStorage) Clear(_ context.Context) error {
	s.items = nil
	return nil
}

type stubProvider struct {
	storage *stubStorage
}

func (s *stubProvider) ForSession(_ string) cart.Storage {
	return s.storage
}

// stubPromos serves a fixed promotion, or none when promo is nil.
type stubPromos struct {
	promo *domain.Promotion
}

func (s *stubPromos) GetActive(_ context.Context, _ time.Time) (*domain.Promotion, error) {
	if s.promo == nil {
		return nil, apperrors.NotFound("promotion", "active")
	}
	return s.promo, nil
}

// nopPublisher drops every event.
type nopPublisher struct{}

func (nopPublisher) PublishCartUpdated(_ context.Context, _ string, _ []domain.LineItem) error {
	return nil
}

func (nopPublisher) PublishOrderCreated(_ context.Context, _ *domain.Order) error {
	return nil
}

// ============================================================================
// Test helpers
// ============================================================================

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testCartHandler(storage *stubStorage, promos *stubPromos) *CartHandler {
	svc := service.NewCartService(&stubProvider{storage: storage}, promos, nopPublisher{}, testLogger())
	return NewCartHandler(svc, testLogger())
}

// setupCartRouter creates a chi router matching the production route layout,
// including the SessionIDFromHeader and ContentTypeJSON middleware so session
// handling is tested end-to-end.
func setupCartRouter(handler *CartHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(SessionIDFromHeader)

		r.Get("/", handler.GetCart)
		r.Put("/", handler.ReplaceCart)
		r.Delete("/", handler.ClearCart)

		r.Post("/items", handler.AddItem)
		r.Post("/items/decrement", handler.DecrementItem)
		r.Delete("/items/{variantId}", handler.RemoveItem)
	})
	return r
}

// decodeResponse reads the response body into the standard Response struct.
func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) httputil.Response {
	t.Helper()
	var resp httputil.Response
	err := json.NewDecoder(rec.Body).Decode(&resp)
	require.NoError(t, err)
	return resp
}

// viewFromResponse re-marshals the data field into a CartView.
func viewFromResponse(t *testing.T, resp httputil.Response) service.CartView {
	t.Helper()
	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var view service.CartView
	require.NoError(t, json.Unmarshal(raw, &view))
	return view
}

func sampleItems() []domain.LineItem {
	return []domain.LineItem{
		{
			ProductID: 1,
			VariantID: 11,
			Name:      "Rosa Linen Dress",
			Price:     99900,
			Size:      "M",
			Color:     "Terracotta",
			Qty:       2,
		},
	}
}

// ============================================================================
// Tests
// ============================================================================

func TestGetCart_RequiresSessionHeader(t *testing.T) {
	router := setupCartRouter(testCartHandler(&stubStorage{}, &stubPromos{}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
}

func TestGetCart_EmptyCart(t *testing.T) {
	router := setupCartRouter(testCartHandler(&stubStorage{}, &stubPromos{}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("X-Session-ID", "sess-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	view := viewFromResponse(t, decodeResponse(t, rec))
	assert.Empty(t, view.Items)
	assert.Equal(t, int64(0), view.Quote.Subtotal)
	assert.Equal(t, "PHP", view.Quote.Currency)
}

func TestGetCart_WithShippingTier(t *testing.T) {
	storage := &stubStorage{items: sampleItems()}
	router := setupCartRouter(testCartHandler(storage, &stubPromos{}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart?shipping=79", nil)
	req.Header.Set("X-Session-ID", "sess-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	view := viewFromResponse(t, decodeResponse(t, rec))
	assert.Equal(t, int64(199800), view.Quote.Subtotal)
	assert.Equal(t, int64(7900), view.Quote.ShippingAmount)
	assert.Equal(t, int64(207700), view.Quote.Total)
}

func TestGetCart_UnknownShippingTier(t *testing.T) {
	router := setupCartRouter(testCartHandler(&stubStorage{}, &stubPromos{}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart?shipping=250", nil)
	req.Header.Set("X-Session-ID", "sess-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetCart_WithActivePromotion(t *testing.T) {
	storage := &stubStorage{items: sampleItems()}
	promos := &stubPromos{promo: &domain.Promotion{
		ID:              7,
		Name:            "Anniversary Sale",
		PercentDiscount: 10,
		ExpirationDate:  time.Now().UTC().Add(24 * time.Hour),
	}}
	router := setupCartRouter(testCartHandler(storage, promos))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("X-Session-ID", "sess-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	view := viewFromResponse(t, decodeResponse(t, rec))
	assert.Equal(t, int64(19980), view.Quote.PercentDiscount)
	assert.Equal(t, int64(179820), view.Quote.Total)
}

func TestAddItem(t *testing.T) {
	storage := &stubStorage{}
	router := setupCartRouter(testCartHandler(storage, &stubPromos{}))

	body := `{
		"product_id": 1,
		"variant_id": 11,
		"name": "Rosa Linen Dress",
		"price": 99900,
		"size": "M",
		"color": "Terracotta"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewBufferString(body))
	req.Header.Set("X-Session-ID", "sess-1")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	view := viewFromResponse(t, decodeResponse(t, rec))
	require.Len(t, view.Items, 1)
	assert.Equal(t, 1, view.Items[0].Qty)
	require.Len(t, storage.items, 1)
}

func TestAddItem_ValidationFailure(t *testing.T) {
	router := setupCartRouter(testCartHandler(&stubStorage{}, &stubPromos{}))

	body := `{"product_id": 1, "name": "Rosa Linen Dress", "price": 99900}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewBufferString(body))
	req.Header.Set("X-Session-ID", "sess-1")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Contains(t, resp.Error.Fields, "VariantID")
}

func TestAddItem_RejectsNonJSONContentType(t *testing.T) {
	router := setupCartRouter(testCartHandler(&stubStorage{}, &stubPromos{}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewBufferString("variant_id=11"))
	req.Header.Set("X-Session-ID", "sess-1")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestDecrementItem(t *testing.T) {
	storage := &stubStorage{items: sampleItems()}
	router := setupCartRouter(testCartHandler(storage, &stubPromos{}))

	body := `{"variant_id": 11}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items/decrement", bytes.NewBufferString(body))
	req.Header.Set("X-Session-ID", "sess-1")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	view := viewFromResponse(t, decodeResponse(t, rec))
	require.Len(t, view.Items, 1)
	assert.Equal(t, 1, view.Items[0].Qty)
}

func TestRemoveItem(t *testing.T) {
	storage := &stubStorage{items: sampleItems()}
	router := setupCartRouter(testCartHandler(storage, &stubPromos{}))

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart/items/11", nil)
	req.Header.Set("X-Session-ID", "sess-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	view := viewFromResponse(t, decodeResponse(t, rec))
	assert.Empty(t, view.Items)
	assert.Empty(t, storage.items)
}

func TestRemoveItem_NonIntegerVariantID(t *testing.T) {
	router := setupCartRouter(testCartHandler(&stubStorage{}, &stubPromos{}))

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart/items/abc", nil)
	req.Header.Set("X-Session-ID", "sess-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReplaceCart(t *testing.T) {
	storage := &stubStorage{items: sampleItems()}
	router := setupCartRouter(testCartHandler(storage, &stubPromos{}))

	body, err := json.Marshal(ReplaceCartRequest{Items: []domain.LineItem{
		{ProductID: 2, VariantID: 21, Name: "Ines Wrap Top", Price: 59900, Size: "S", Color: "Cream", Qty: 1},
	}})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/cart", bytes.NewBuffer(body))
	req.Header.Set("X-Session-ID", "sess-1")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	view := viewFromResponse(t, decodeResponse(t, rec))
	require.Len(t, view.Items, 1)
	assert.Equal(t, int64(21), view.Items[0].VariantID)
}

func TestClearCart(t *testing.T) {
	storage := &stubStorage{items: sampleItems()}
	router := setupCartRouter(testCartHandler(storage, &stubPromos{}))

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart", nil)
	req.Header.Set("X-Session-ID", "sess-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, storage.items)
}

func TestCartFlow_AddDecrementRemove(t *testing.T) {
	storage := &stubStorage{}
	router := setupCartRouter(testCartHandler(storage, &stubPromos{}))

	do := func(method, target, body string) *httptest.ResponseRecorder {
		var req *http.Request
		if body != "" {
			req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
			req.Header.Set("Content-Type", "application/json")
		} else {
			req = httptest.NewRequest(method, target, nil)
		}
		req.Header.Set("X-Session-ID", "sess-1")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	addBody := `{"product_id":1,"variant_id":11,"name":"Rosa Linen Dress","price":99900,"size":"M","color":"Terracotta"}`
	require.Equal(t, http.StatusOK, do(http.MethodPost, "/api/v1/cart/items", addBody).Code)
	require.Equal(t, http.StatusOK, do(http.MethodPost, "/api/v1/cart/items", addBody).Code)

	rec := do(http.MethodPost, "/api/v1/cart/items/decrement", `{"variant_id":11}`)
	require.Equal(t, http.StatusOK, rec.Code)
	view := viewFromResponse(t, decodeResponse(t, rec))
	require.Len(t, view.Items, 1)
	assert.Equal(t, 1, view.Items[0].Qty)

	rec = do(http.MethodDelete, fmt.Sprintf("/api/v1/cart/items/%d", 11), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, storage.items)
}
