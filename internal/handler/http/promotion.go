package http

import (
	"log/slog"
	"net/http"

	"github.com/billy-le/love-edith/internal/service"
	"github.com/billy-le/love-edith/pkg/httputil"
)

// PromotionHandler handles HTTP requests for promotion endpoints.
type PromotionHandler struct {
	service *service.PromotionService
	logger  *slog.Logger
}

// NewPromotionHandler creates a new promotion HTTP handler.
func NewPromotionHandler(svc *service.PromotionService, logger *slog.Logger) *PromotionHandler {
	return &PromotionHandler{
		service: svc,
		logger:  logger,
	}
}

// GetActive handles GET /api/v1/promotions/active. When no promotion is
// running the data field is null, which the storefront treats as no banner.
func (h *PromotionHandler) GetActive(w http.ResponseWriter, r *http.Request) {
	promo, err := h.service.GetActive(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: promo})
}
