package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mrrobot2937/mazorca-system/internal/api"
	"github.com/mrrobot2937/mazorca-system/internal/cart"
)

// CartHandler serves the session cart. Products are looked up through the API
// client on add, so lines always carry backend-confirmed names and prices.
type CartHandler struct {
	store               cart.Store
	client              api.Client
	defaultRestaurantID string
	timeout             time.Duration
}

func NewCartHandler(store cart.Store, client api.Client, defaultRestaurantID string, timeout time.Duration) *CartHandler {
	return &CartHandler{
		store:               store,
		client:              client,
		defaultRestaurantID: defaultRestaurantID,
		timeout:             timeout,
	}
}

type AddItemRequestDTO struct {
	ProductID   string `json:"product_id"`
	VariantSize string `json:"variant_size,omitempty"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type ApplyCouponRequestDTO struct {
	Code string `json:"code"`
}

// CartResponseDTO is the cart plus its derived totals.
type CartResponseDTO struct {
	RestaurantID  string      `json:"restaurantId"`
	Items         []cart.Line `json:"items"`
	TotalItems    int         `json:"totalItems"`
	TotalPrice    float64     `json:"totalPrice"`
	Discount      float64     `json:"discount"`
	CouponApplied bool        `json:"couponApplied"`
	Total         float64     `json:"total"`
}

func cartResponse(c *cart.Cart) CartResponseDTO {
	items := c.Lines
	if items == nil {
		items = []cart.Line{}
	}
	return CartResponseDTO{
		RestaurantID:  c.RestaurantID,
		Items:         items,
		TotalItems:    c.TotalItems(),
		TotalPrice:    c.TotalPrice(),
		Discount:      c.Discount,
		CouponApplied: c.CouponApplied,
		Total:         c.Total(),
	}
}

// loadCart fetches the session's cart, creating an empty one when absent.
func (h *CartHandler) loadCart(ctx context.Context, sessionID string) (*cart.Cart, error) {
	c, err := h.store.Get(ctx, sessionID)
	if errors.Is(err, cart.ErrCartNotFound) {
		return cart.New(h.defaultRestaurantID), nil
	}
	return c, err
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	c, err := h.loadCart(ctx, getSessionID(ctx))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "could not load cart")
		return
	}
	respondJSON(w, http.StatusOK, cartResponse(c))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	sessionID := getSessionID(ctx)
	c, err := h.loadCart(ctx, sessionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "could not load cart")
		return
	}

	product, err := h.client.GetProduct(ctx, req.ProductID, c.RestaurantID)
	if err != nil {
		handleAPIError(w, err)
		return
	}

	var variant *cart.SelectedVariant
	if req.VariantSize != "" {
		v, ok := product.Variant(req.VariantSize)
		if !ok {
			respondError(w, http.StatusBadRequest, "invalid_variant",
				"product has no variant of size "+req.VariantSize)
			return
		}
		variant = &cart.SelectedVariant{Size: v.Size, Price: v.Price}
	}

	c.Add(*product, variant)
	if err := h.store.Save(ctx, sessionID, c); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "could not save cart")
		return
	}
	respondJSON(w, http.StatusCreated, cartResponse(c))
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	key := chi.URLParam(r, "key")

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	sessionID := getSessionID(ctx)
	c, err := h.loadCart(ctx, sessionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "could not load cart")
		return
	}

	c.UpdateQuantity(key, req.Quantity)
	if err := h.store.Save(ctx, sessionID, c); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "could not save cart")
		return
	}
	respondJSON(w, http.StatusOK, cartResponse(c))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	key := chi.URLParam(r, "key")

	sessionID := getSessionID(ctx)
	c, err := h.loadCart(ctx, sessionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "could not load cart")
		return
	}

	c.Remove(key)
	if err := h.store.Save(ctx, sessionID, c); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "could not save cart")
		return
	}
	respondJSON(w, http.StatusOK, cartResponse(c))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionID(ctx)
	c, err := h.loadCart(ctx, sessionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "could not load cart")
		return
	}

	c.Clear()
	if err := h.store.Save(ctx, sessionID, c); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "could not save cart")
		return
	}
	respondJSON(w, http.StatusOK, cartResponse(c))
}

func (h *CartHandler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req ApplyCouponRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	sessionID := getSessionID(ctx)
	c, err := h.loadCart(ctx, sessionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "could not load cart")
		return
	}

	if err := c.ApplyCoupon(req.Code); err != nil {
		handleCheckoutError(w, err)
		return
	}
	if err := h.store.Save(ctx, sessionID, c); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "could not save cart")
		return
	}
	respondJSON(w, http.StatusOK, cartResponse(c))
}
