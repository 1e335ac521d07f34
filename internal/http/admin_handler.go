package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/mrrobot2937/mazorca-system/internal/api"
	"github.com/mrrobot2937/mazorca-system/internal/domain"
	"github.com/mrrobot2937/mazorca-system/internal/identity"
	"github.com/mrrobot2937/mazorca-system/internal/poller"
)

// AdminHandler serves the management surface: product and category CRUD,
// order tracking and manipulation, stats, and cache control.
type AdminHandler struct {
	client  api.Client
	poller  *poller.Poller
	log     logrus.FieldLogger
	timeout time.Duration
}

// NewAdminHandler builds the handler. The poller is optional; without it the
// notification endpoints report empty state.
func NewAdminHandler(client api.Client, p *poller.Poller, log logrus.FieldLogger, timeout time.Duration) *AdminHandler {
	return &AdminHandler{client: client, poller: p, log: log, timeout: timeout}
}

type UpdateOrderStatusRequestDTO struct {
	Status string `json:"status"`
}

type OrderProductRequestDTO struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type CreateCategoryRequestDTO struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type NotificationsResponseDTO struct {
	NewOrdersCount int64     `json:"new_orders_count"`
	LastCheck      time.Time `json:"last_check"`
}

// resolveProductID accepts either the original string id or its legacy
// numeric form. Numeric ids are mapped back through the current catalog; an
// all-digit string that matches no product is used as-is, since original ids
// may themselves be numeric.
func (h *AdminHandler) resolveProductID(ctx context.Context, raw, restaurantID string) string {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return raw
	}

	list, err := h.client.GetProducts(ctx, restaurantID, "")
	if err != nil {
		h.log.WithError(err).Warn("could not load catalog to resolve numeric product id")
		return raw
	}
	resolver, err := identity.NewResolver(list.Products)
	if err != nil {
		h.log.WithError(err).Error("catalog has colliding numeric ids")
		return raw
	}
	if id, err := resolver.Resolve(n); err == nil {
		return id
	}
	return raw
}

func (h *AdminHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	list, err := h.client.GetProducts(ctx, r.URL.Query().Get("restaurant_id"), r.URL.Query().Get("category"))
	if err != nil {
		handleAPIError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func (h *AdminHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	restaurantID := r.URL.Query().Get("restaurant_id")
	productID := h.resolveProductID(ctx, chi.URLParam(r, "id"), restaurantID)

	product, err := h.client.GetProduct(ctx, productID, restaurantID)
	if err != nil {
		handleAPIError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req domain.CreateProductInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "invalid_name", "name is required")
		return
	}
	if req.Price <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_price", "price must be positive")
		return
	}

	result, err := h.client.CreateProduct(ctx, req)
	if err != nil {
		handleAPIError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, result)
}

func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req domain.UpdateProductInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Price != nil && *req.Price <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_price", "price must be positive")
		return
	}

	restaurantID := r.URL.Query().Get("restaurant_id")
	productID := h.resolveProductID(ctx, chi.URLParam(r, "id"), restaurantID)

	result, err := h.client.UpdateProduct(ctx, productID, req, restaurantID)
	if err != nil {
		handleAPIError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	restaurantID := r.URL.Query().Get("restaurant_id")
	productID := h.resolveProductID(ctx, chi.URLParam(r, "id"), restaurantID)

	result, err := h.client.DeleteProduct(ctx, productID, restaurantID)
	if err != nil {
		handleAPIError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *AdminHandler) GetOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	q := r.URL.Query()
	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "invalid_limit", "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	forceRefresh, _ := strconv.ParseBool(q.Get("force_refresh"))

	list, err := h.client.GetOrders(ctx, q.Get("restaurant_id"), q.Get("status"), limit, forceRefresh)
	if err != nil {
		handleAPIError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func (h *AdminHandler) GetOrderStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	order, err := h.client.GetOrderStatus(ctx, chi.URLParam(r, "id"), r.URL.Query().Get("restaurant_id"))
	if err != nil {
		handleAPIError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req UpdateOrderStatusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	status, err := domain.ParseOrderStatus(req.Status)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_status", err.Error())
		return
	}

	result, err := h.client.UpdateOrderStatus(ctx, chi.URLParam(r, "id"), status, r.URL.Query().Get("restaurant_id"))
	if err != nil {
		handleAPIError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *AdminHandler) AddProductToOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req OrderProductRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}
	if req.Quantity <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be positive")
		return
	}

	restaurantID := r.URL.Query().Get("restaurant_id")
	productID := h.resolveProductID(ctx, req.ProductID, restaurantID)

	result, err := h.client.AddProductToOrder(ctx, chi.URLParam(r, "id"), productID, req.Quantity, restaurantID)
	if err != nil {
		handleAPIError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *AdminHandler) UpdateProductQuantityInOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be positive")
		return
	}

	restaurantID := r.URL.Query().Get("restaurant_id")
	productID := h.resolveProductID(ctx, chi.URLParam(r, "product_id"), restaurantID)

	result, err := h.client.UpdateProductQuantityInOrder(ctx, chi.URLParam(r, "id"), productID, req.Quantity, restaurantID)
	if err != nil {
		handleAPIError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *AdminHandler) RemoveProductFromOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	restaurantID := r.URL.Query().Get("restaurant_id")
	productID := h.resolveProductID(ctx, chi.URLParam(r, "product_id"), restaurantID)

	result, err := h.client.RemoveProductFromOrder(ctx, chi.URLParam(r, "id"), productID, restaurantID)
	if err != nil {
		handleAPIError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *AdminHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	list, err := h.client.GetCategories(ctx, r.URL.Query().Get("restaurant_id"))
	if err != nil {
		handleAPIError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func (h *AdminHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req CreateCategoryRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "invalid_name", "name is required")
		return
	}

	result, err := h.client.CreateCategory(ctx, domain.CreateCategoryInput{
		Name:         req.Name,
		Description:  req.Description,
		RestaurantID: r.URL.Query().Get("restaurant_id"),
	})
	if err != nil {
		handleAPIError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, result)
}

func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	stats, err := h.client.GetRestaurantStats(ctx, r.URL.Query().Get("restaurant_id"))
	if err != nil {
		handleAPIError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func (h *AdminHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.client.ClearCache(ctx); err != nil {
		handleAPIError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "cache cleared"})
}

func (h *AdminHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	if h.poller == nil {
		respondJSON(w, http.StatusOK, NotificationsResponseDTO{})
		return
	}
	respondJSON(w, http.StatusOK, NotificationsResponseDTO{
		NewOrdersCount: h.poller.NewOrdersCount(),
		LastCheck:      h.poller.LastCheck(),
	})
}

func (h *AdminHandler) ResetNotifications(w http.ResponseWriter, r *http.Request) {
	if h.poller != nil {
		h.poller.ResetNewOrdersCount()
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
