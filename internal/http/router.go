// Package http is the HTTP surface of the storefront service: public menu,
// session cart and checkout, and the admin panel routes.
package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/mrrobot2937/mazorca-system/internal/api"
	"github.com/mrrobot2937/mazorca-system/internal/cart"
	"github.com/mrrobot2937/mazorca-system/internal/poller"
)

// RouterConfig carries everything the HTTP surface needs.
type RouterConfig struct {
	Client              api.Client
	CartStore           cart.Store
	Poller              *poller.Poller
	Log                 logrus.FieldLogger
	DefaultRestaurantID string
	RestaurantName      string
	WhatsAppNumber      string
	RequestTimeout      time.Duration
}

// NewRouter assembles the full route tree with the global middleware stack.
func NewRouter(cfg RouterConfig) http.Handler {
	menuHandler := NewMenuHandler(cfg.Client, cfg.Log, cfg.RequestTimeout)
	cartHandler := NewCartHandler(cfg.CartStore, cfg.Client, cfg.DefaultRestaurantID, cfg.RequestTimeout)
	checkoutHandler := NewCheckoutHandler(cfg.CartStore, cfg.Client, cfg.Log,
		cfg.RestaurantName, cfg.WhatsAppNumber, cfg.RequestTimeout)
	adminHandler := NewAdminHandler(cfg.Client, cfg.Poller, cfg.Log, cfg.RequestTimeout)

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(SessionMiddleware)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/menu", menuHandler.GetMenu)
		r.Get("/products/{id}", menuHandler.GetProduct)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{key}", cartHandler.UpdateQuantity)
			r.Delete("/items/{key}", cartHandler.RemoveItem)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/coupon", cartHandler.ApplyCoupon)
		})

		r.Post("/checkout", checkoutHandler.Checkout)

		r.Route("/admin", func(r chi.Router) {
			r.Route("/products", func(r chi.Router) {
				r.Get("/", adminHandler.GetProducts)
				r.Post("/", adminHandler.CreateProduct)
				r.Get("/{id}", adminHandler.GetProduct)
				r.Put("/{id}", adminHandler.UpdateProduct)
				r.Delete("/{id}", adminHandler.DeleteProduct)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", adminHandler.GetOrders)
				r.Get("/{id}", adminHandler.GetOrderStatus)
				r.Patch("/{id}/status", adminHandler.UpdateOrderStatus)
				r.Post("/{id}/products", adminHandler.AddProductToOrder)
				r.Put("/{id}/products/{product_id}", adminHandler.UpdateProductQuantityInOrder)
				r.Delete("/{id}/products/{product_id}", adminHandler.RemoveProductFromOrder)
			})

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", adminHandler.GetCategories)
				r.Post("/", adminHandler.CreateCategory)
			})

			r.Get("/stats", adminHandler.GetStats)
			r.Post("/cache/clear", adminHandler.ClearCache)

			r.Get("/notifications", adminHandler.GetNotifications)
			r.Post("/notifications/reset", adminHandler.ResetNotifications)
		})
	})

	return otelhttp.NewHandler(r, "storefront")
}
