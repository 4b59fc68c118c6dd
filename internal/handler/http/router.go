package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/billy-le/love-edith/internal/service"
	"github.com/billy-le/love-edith/pkg/health"
	"github.com/billy-le/love-edith/pkg/middleware"
)

// RouterConfig bundles the dependencies for the storefront router.
type RouterConfig struct {
	CartService      *service.CartService
	CheckoutService  *service.CheckoutService
	PromotionService *service.PromotionService
	CatalogService   *service.CatalogService
	HealthHandler    *health.Handler
	Logger           *slog.Logger
	RateLimitRPS     int
	RateLimitBurst   int
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.Tracing("storefront"))
	r.Use(middleware.RequestLogger(cfg.Logger))

	if cfg.RateLimitRPS > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.Logger))
	}

	// Health check endpoints
	r.Get("/health/live", cfg.HealthHandler.LivenessHandler())
	r.Get("/health/ready", cfg.HealthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	cartHandler := NewCartHandler(cfg.CartService, cfg.Logger)
	checkoutHandler := NewCheckoutHandler(cfg.CheckoutService, cfg.Logger)
	promotionHandler := NewPromotionHandler(cfg.PromotionService, cfg.Logger)
	catalogHandler := NewCatalogHandler(cfg.CatalogService, cfg.Logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		// Session-scoped cart and checkout endpoints
		r.Group(func(r chi.Router) {
			r.Use(SessionIDFromHeader)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartHandler.GetCart)
				r.Put("/", cartHandler.ReplaceCart)
				r.Delete("/", cartHandler.ClearCart)

				r.Post("/items", cartHandler.AddItem)
				r.Post("/items/decrement", cartHandler.DecrementItem)
				r.Delete("/items/{variantId}", cartHandler.RemoveItem)
			})

			r.Post("/checkout", checkoutHandler.PlaceOrder)
			r.Get("/orders/{orderId}", checkoutHandler.GetOrder)
		})

		// Public endpoints
		r.Get("/promotions/active", promotionHandler.GetActive)
		r.Get("/products/{productId}/availability", catalogHandler.Availability)
	})

	return r
}
