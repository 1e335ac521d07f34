package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/mrrobot2937/mazorca-system/internal/api"
	"github.com/mrrobot2937/mazorca-system/internal/domain"
)

// MenuHandler serves the public storefront reads: the menu and single
// products.
type MenuHandler struct {
	client  api.Client
	log     logrus.FieldLogger
	timeout time.Duration
}

func NewMenuHandler(client api.Client, log logrus.FieldLogger, timeout time.Duration) *MenuHandler {
	return &MenuHandler{client: client, log: log, timeout: timeout}
}

type MenuResponseDTO struct {
	Products     []domain.Product  `json:"products"`
	Categories   []domain.Category `json:"categories"`
	RestaurantID string            `json:"restaurant_id"`
}

// GetMenu returns products and categories in one response. Categories are
// auxiliary; when that read fails the menu still renders, grouped client-side.
func (h *MenuHandler) GetMenu(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	restaurantID := r.URL.Query().Get("restaurant_id")
	category := r.URL.Query().Get("category")

	products, err := h.client.GetProducts(ctx, restaurantID, category)
	if err != nil {
		handleAPIError(w, err)
		return
	}

	categories := []domain.Category{}
	if list, err := h.client.GetCategories(ctx, restaurantID); err != nil {
		h.log.WithError(err).Warn("could not load categories, serving menu without them")
	} else {
		categories = list.Categories
	}

	respondJSON(w, http.StatusOK, MenuResponseDTO{
		Products:     products.Products,
		Categories:   categories,
		RestaurantID: products.RestaurantID,
	})
}

func (h *MenuHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID := chi.URLParam(r, "id")
	restaurantID := r.URL.Query().Get("restaurant_id")

	product, err := h.client.GetProduct(ctx, productID, restaurantID)
	if err != nil {
		handleAPIError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}
