// Package checkout turns a session cart plus the checkout form into an order
// submission. All validation happens here, before anything touches the
// network.
package checkout

import (
	"errors"
	"fmt"

	"github.com/mrrobot2937/mazorca-system/internal/cart"
	"github.com/mrrobot2937/mazorca-system/internal/domain"
)

var (
	ErrEmptyCart      = errors.New("cart is empty")
	ErrMissingAddress = errors.New("delivery orders require an address")
	ErrMissingMesa    = errors.New("dine-in orders require a table number")
)

// Waiter-flow defaults: the checkout form has no customer fields, orders are
// placed by staff on the customer's behalf.
const (
	DefaultCustomerName  = "Cliente de mesa"
	DefaultCustomerPhone = "3000000000"
	DefaultCustomerEmail = "cliente@mazorca.com"
)

// Request is the checkout form. Method fields accept both the canonical
// vocabulary and the legacy Spanish form values.
type Request struct {
	PaymentMethod   string `json:"payment_method"`
	DeliveryMethod  string `json:"delivery_method"`
	Mesa            string `json:"mesa,omitempty"`
	DeliveryAddress string `json:"delivery_address,omitempty"`

	CustomerName  string `json:"customer_name,omitempty"`
	CustomerPhone string `json:"customer_phone,omitempty"`
	CustomerEmail string `json:"customer_email,omitempty"`
}

// Build validates the request against the cart and produces the order input.
// Product ids stay the original strings; transports that need numeric ids
// derive them at their own boundary.
func Build(c *cart.Cart, req Request) (domain.CreateOrderInput, error) {
	var in domain.CreateOrderInput

	if c == nil || c.IsEmpty() {
		return in, ErrEmptyCart
	}

	payment, err := domain.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return in, fmt.Errorf("payment method: %w", err)
	}
	delivery, err := domain.ParseDeliveryMethod(req.DeliveryMethod)
	if err != nil {
		return in, fmt.Errorf("delivery method: %w", err)
	}

	switch delivery {
	case domain.DeliveryDelivery:
		if req.DeliveryAddress == "" {
			return in, ErrMissingAddress
		}
	case domain.DeliveryDineIn:
		if req.Mesa == "" {
			return in, ErrMissingMesa
		}
	}

	products := make([]domain.OrderProductInput, 0, len(c.Lines))
	for _, l := range c.Lines {
		products = append(products, domain.OrderProductInput{
			ID:       l.ProductID,
			Quantity: l.Quantity,
			Price:    l.Price,
		})
	}

	in = domain.CreateOrderInput{
		CustomerName:   orDefault(req.CustomerName, DefaultCustomerName),
		CustomerPhone:  orDefault(req.CustomerPhone, DefaultCustomerPhone),
		CustomerEmail:  orDefault(req.CustomerEmail, DefaultCustomerEmail),
		RestaurantID:   c.RestaurantID,
		Products:       products,
		Total:          c.Total(),
		PaymentMethod:  payment,
		DeliveryMethod: delivery,
	}

	// Mesa and address are mutually exclusive with the other methods; only
	// the field matching the chosen method is carried.
	switch delivery {
	case domain.DeliveryDineIn:
		in.Mesa = req.Mesa
	case domain.DeliveryDelivery:
		in.DeliveryAddress = req.DeliveryAddress
	}

	return in, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
