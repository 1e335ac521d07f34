package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mrrobot2937/mazorca-system/internal/api"
	"github.com/mrrobot2937/mazorca-system/internal/cart"
	"github.com/mrrobot2937/mazorca-system/internal/checkout"
)

// CheckoutHandler submits the session cart as an order. Validation runs
// before the backend call, and the cart is cleared only after the backend
// accepts the order.
type CheckoutHandler struct {
	store          cart.Store
	client         api.Client
	log            logrus.FieldLogger
	restaurantName string
	whatsAppNumber string
	timeout        time.Duration
}

func NewCheckoutHandler(store cart.Store, client api.Client, log logrus.FieldLogger, restaurantName, whatsAppNumber string, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		store:          store,
		client:         client,
		log:            log,
		restaurantName: restaurantName,
		whatsAppNumber: whatsAppNumber,
		timeout:        timeout,
	}
}

type CheckoutResponseDTO struct {
	Success         bool    `json:"success"`
	OrderID         string  `json:"order_id"`
	NumericID       int64   `json:"numeric_id,omitempty"`
	Total           float64 `json:"total"`
	WhatsAppMessage string  `json:"whatsapp_message"`
	WhatsAppLink    string  `json:"whatsapp_link"`
}

func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req checkout.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	sessionID := getSessionID(ctx)
	c, err := h.store.Get(ctx, sessionID)
	if err != nil {
		// No stored cart means an empty one; Build rejects it uniformly.
		c = cart.New("")
	}

	in, err := checkout.Build(c, req)
	if err != nil {
		handleCheckoutError(w, err)
		return
	}

	result, err := h.client.CreateOrder(ctx, in)
	if err != nil {
		handleAPIError(w, err)
		return
	}

	msg := checkout.WhatsAppMessage(h.restaurantName, result.ID, c, in)

	// The order is placed; a failed cart cleanup must not fail the checkout.
	c.Clear()
	if err := h.store.Save(ctx, sessionID, c); err != nil {
		h.log.WithError(err).Warn("could not clear cart after checkout")
	}

	respondJSON(w, http.StatusCreated, CheckoutResponseDTO{
		Success:         true,
		OrderID:         result.ID,
		NumericID:       result.NumericID,
		Total:           in.Total,
		WhatsAppMessage: msg,
		WhatsAppLink:    checkout.WhatsAppLink(h.whatsAppNumber, msg),
	})
}
