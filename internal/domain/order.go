package domain

import "time"

type Customer struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
}

type OrderProduct struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Total    float64 `json:"total"`
}

type Order struct {
	ID              string         `json:"id"`
	RestaurantID    string         `json:"restaurantId"`
	Customer        Customer       `json:"customer"`
	Products        []OrderProduct `json:"products"`
	Total           float64        `json:"total"`
	PaymentMethod   PaymentMethod  `json:"paymentMethod"`
	DeliveryMethod  DeliveryMethod `json:"deliveryMethod"`
	Mesa            string         `json:"mesa,omitempty"`
	DeliveryAddress string         `json:"deliveryAddress,omitempty"`
	Status          OrderStatus    `json:"status"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

type OrderProductInput struct {
	ID       string  `json:"id"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// CreateOrderInput is the order-creation request in canonical form. Product
// ids are the original string ids; transports that need numeric ids derive
// them at their own boundary.
type CreateOrderInput struct {
	CustomerName    string              `json:"customerName"`
	CustomerPhone   string              `json:"customerPhone"`
	CustomerEmail   string              `json:"customerEmail,omitempty"`
	RestaurantID    string              `json:"restaurantId"`
	Products        []OrderProductInput `json:"products"`
	Total           float64             `json:"total"`
	PaymentMethod   PaymentMethod       `json:"paymentMethod"`
	DeliveryMethod  DeliveryMethod      `json:"deliveryMethod"`
	Mesa            string              `json:"mesa,omitempty"`
	DeliveryAddress string              `json:"deliveryAddress,omitempty"`
}

type RestaurantStats struct {
	RestaurantID    string         `json:"restaurantId"`
	TotalOrders     int            `json:"totalOrders"`
	TotalRevenue    float64        `json:"totalRevenue"`
	PendingOrders   int            `json:"pendingOrders"`
	PreparingOrders int            `json:"preparingOrders"`
	StatusBreakdown map[string]int `json:"statusBreakdown"`
}
