package domain

import (
	"fmt"
	"strings"
)

// OrderStatus is the canonical order status vocabulary. The backends disagree
// on casing (older deployments emit lowercase), so parsing is case-insensitive
// and the canonical form is always upper-case.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusConfirmed OrderStatus = "CONFIRMED"
	StatusPreparing OrderStatus = "PREPARING"
	StatusReady     OrderStatus = "READY"
	StatusDelivered OrderStatus = "DELIVERED"
	StatusPaid      OrderStatus = "PAID"
	StatusCompleted OrderStatus = "COMPLETED"
	StatusCancelled OrderStatus = "CANCELLED"
)

func (s OrderStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no further status transitions are expected.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCompleted || s == StatusCancelled
}

// ParseOrderStatus normalizes a backend-supplied status into the canonical
// vocabulary, accepting both casings.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	s := OrderStatus(strings.ToUpper(strings.TrimSpace(raw)))
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusReady,
		StatusDelivered, StatusPaid, StatusCompleted, StatusCancelled:
		return s, nil
	}
	return "", fmt.Errorf("unknown order status %q", raw)
}

// restStatus maps the canonical vocabulary onto the legacy REST one
// (pending|preparing|ready|completed|cancelled). The REST surface has no
// CONFIRMED or PAID, and DELIVERED is reported as completed.
var restStatus = map[OrderStatus]string{
	StatusPending:   "pending",
	StatusConfirmed: "pending",
	StatusPreparing: "preparing",
	StatusReady:     "ready",
	StatusDelivered: "completed",
	StatusPaid:      "completed",
	StatusCompleted: "completed",
	StatusCancelled: "cancelled",
}

// RESTStatus returns the legacy REST form of s.
func (s OrderStatus) RESTStatus() string {
	if m, ok := restStatus[s]; ok {
		return m
	}
	return strings.ToLower(string(s))
}

// DeliveryMethod is the canonical delivery vocabulary. The checkout form
// historically submitted lowercase Spanish values (mesa|recoger|domicilio),
// which are still accepted at the boundary.
type DeliveryMethod string

const (
	DeliveryDineIn   DeliveryMethod = "DINE_IN"
	DeliveryPickup   DeliveryMethod = "PICKUP"
	DeliveryDelivery DeliveryMethod = "DELIVERY"
)

func ParseDeliveryMethod(raw string) (DeliveryMethod, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "dine_in", "mesa":
		return DeliveryDineIn, nil
	case "pickup", "recoger":
		return DeliveryPickup, nil
	case "delivery", "domicilio":
		return DeliveryDelivery, nil
	}
	return "", fmt.Errorf("unknown delivery method %q", raw)
}

// LegacyForm returns the lowercase Spanish value the order backends expect.
func (d DeliveryMethod) LegacyForm() string {
	switch d {
	case DeliveryDineIn:
		return "mesa"
	case DeliveryPickup:
		return "recoger"
	case DeliveryDelivery:
		return "domicilio"
	}
	return strings.ToLower(string(d))
}

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "CASH"
	PaymentTransfer PaymentMethod = "TRANSFER"
)

func ParsePaymentMethod(raw string) (PaymentMethod, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "cash", "efectivo":
		return PaymentCash, nil
	case "transfer", "transferencia":
		return PaymentTransfer, nil
	}
	return "", fmt.Errorf("unknown payment method %q", raw)
}

// LegacyForm returns the lowercase Spanish value the order backends expect.
func (p PaymentMethod) LegacyForm() string {
	switch p {
	case PaymentCash:
		return "efectivo"
	case PaymentTransfer:
		return "transferencia"
	}
	return strings.ToLower(string(p))
}
