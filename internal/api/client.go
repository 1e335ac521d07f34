// Package api is the compatibility shim over the remote restaurant backend.
// It exposes one method surface with two interchangeable transports, GraphQL
// and legacy REST, selected at startup and never mixed at runtime.
package api

import (
	"context"

	"github.com/mrrobot2937/mazorca-system/internal/domain"
)

// ProductList is the normalized products response, transport-independent.
type ProductList struct {
	Products     []domain.Product `json:"products"`
	RestaurantID string           `json:"restaurant_id"`
	Total        int              `json:"total"`
}

type OrderList struct {
	Orders       []domain.Order `json:"orders"`
	RestaurantID string         `json:"restaurant_id"`
	TotalCount   int            `json:"total_count"`
}

type CategoryList struct {
	Categories   []domain.Category `json:"categories"`
	RestaurantID string            `json:"restaurant_id"`
	Total        int               `json:"total"`
}

// MutationResult is the normalized outcome of a write. ID is the backend's
// string id; NumericID is its legacy numeric form for consumers that still
// key on numbers.
type MutationResult struct {
	Success   bool          `json:"success"`
	Message   string        `json:"message"`
	ID        string        `json:"id,omitempty"`
	NumericID int64         `json:"numeric_id,omitempty"`
	Order     *domain.Order `json:"order,omitempty"`
}

// Client is the single method surface callers program against. Every method
// scopes to a restaurant; an empty restaurantID means the configured default.
// Failed calls return *Error.
type Client interface {
	GetProducts(ctx context.Context, restaurantID, category string) (*ProductList, error)
	GetProduct(ctx context.Context, productID, restaurantID string) (*domain.Product, error)
	CreateProduct(ctx context.Context, in domain.CreateProductInput) (*MutationResult, error)
	UpdateProduct(ctx context.Context, productID string, in domain.UpdateProductInput, restaurantID string) (*MutationResult, error)
	DeleteProduct(ctx context.Context, productID, restaurantID string) (*MutationResult, error)

	CreateOrder(ctx context.Context, in domain.CreateOrderInput) (*MutationResult, error)
	GetOrders(ctx context.Context, restaurantID, status string, limit int, forceRefresh bool) (*OrderList, error)
	GetOrderStatus(ctx context.Context, orderID, restaurantID string) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus, restaurantID string) (*MutationResult, error)
	AddProductToOrder(ctx context.Context, orderID, productID string, quantity int, restaurantID string) (*MutationResult, error)
	RemoveProductFromOrder(ctx context.Context, orderID, productID, restaurantID string) (*MutationResult, error)
	UpdateProductQuantityInOrder(ctx context.Context, orderID, productID string, quantity int, restaurantID string) (*MutationResult, error)

	GetCategories(ctx context.Context, restaurantID string) (*CategoryList, error)
	GetRestaurantStats(ctx context.Context, restaurantID string) (*domain.RestaurantStats, error)
	CreateCategory(ctx context.Context, in domain.CreateCategoryInput) (*MutationResult, error)

	ClearCache(ctx context.Context) error
}
