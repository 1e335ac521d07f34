package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/mrrobot2937/mazorca-system/internal/api"
	"github.com/mrrobot2937/mazorca-system/internal/cart"
	"github.com/mrrobot2937/mazorca-system/internal/checkout"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleAPIError maps the shim's error taxonomy onto HTTP status codes.
func handleAPIError(w http.ResponseWriter, err error) {
	switch api.ErrorKind(err) {
	case api.KindValidation:
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case api.KindNotFound:
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case api.KindBusiness:
		respondError(w, http.StatusUnprocessableEntity, "backend_rejected", err.Error())
	case api.KindTransport:
		respondError(w, http.StatusBadGateway, "backend_unavailable", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// handleCheckoutError maps checkout validation failures; everything it rejects
// is a client mistake.
func handleCheckoutError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", err.Error())
	case errors.Is(err, checkout.ErrMissingAddress):
		respondError(w, http.StatusBadRequest, "missing_address", err.Error())
	case errors.Is(err, checkout.ErrMissingMesa):
		respondError(w, http.StatusBadRequest, "missing_mesa", err.Error())
	case errors.Is(err, cart.ErrInvalidCoupon):
		respondError(w, http.StatusBadRequest, "invalid_coupon", err.Error())
	default:
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
	}
}
