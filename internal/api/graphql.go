package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"github.com/mrrobot2937/mazorca-system/internal/domain"
	"github.com/mrrobot2937/mazorca-system/internal/identity"
)

// GraphQLClient talks to the GraphQL backend. It does not retry failed calls
// except for the narrow 500 case, where a single retry is attempted; business
// errors (success:false or a GraphQL error payload) are surfaced immediately.
type GraphQLClient struct {
	t                   *transport
	defaultRestaurantID string
}

type GraphQLConfig struct {
	Endpoint            string
	DefaultRestaurantID string
	Timeout             time.Duration
	// RetryWait is the pause before the single 500 retry. Zero means one second.
	RetryWait time.Duration
}

func NewGraphQLClient(cfg GraphQLConfig, log logrus.FieldLogger) *GraphQLClient {
	t := newTransport("graphql", cfg.Endpoint, cfg.Timeout, log)

	wait := cfg.RetryWait
	if wait == 0 {
		wait = time.Second
	}
	t.rc.SetRetryCount(1)
	t.rc.SetRetryWaitTime(wait)
	t.rc.AddRetryCondition(func(r *resty.Response, err error) bool {
		return err == nil && r != nil && r.StatusCode() == http.StatusInternalServerError
	})

	return &GraphQLClient{t: t, defaultRestaurantID: cfg.DefaultRestaurantID}
}

func (c *GraphQLClient) restaurant(id string) string {
	if id == "" {
		return c.defaultRestaurantID
	}
	return id
}

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type gqlError struct {
	Message string `json:"message"`
}

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors,omitempty"`
}

// do posts one operation and decodes data into out. GraphQL-level errors are
// business errors; HTTP-level failures are transport errors.
func (c *GraphQLClient) do(ctx context.Context, op, query string, vars map[string]any, out any) error {
	resp, err := c.t.execute(op, func() (*resty.Response, error) {
		return c.t.rc.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetBody(gqlRequest{Query: query, Variables: vars}).
			Post("")
	})
	if err != nil {
		return transportError(op, troubleshootMessage(err), err)
	}
	if resp.IsError() {
		return transportError(op, fmt.Sprintf("backend returned HTTP %d", resp.StatusCode()), nil)
	}

	var envelope gqlResponse
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return transportError(op, "invalid response from backend", err)
	}
	if len(envelope.Errors) > 0 {
		return businessError(op, envelope.Errors[0].Message)
	}
	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return transportError(op, "invalid response payload", err)
		}
	}
	return nil
}

type gqlProduct struct {
	ID              string                  `json:"id"`
	Name            string                  `json:"name"`
	Description     string                  `json:"description"`
	Price           float64                 `json:"price"`
	ImageURL        string                  `json:"imageUrl"`
	Available       bool                    `json:"available"`
	PreparationTime int                     `json:"preparationTime"`
	RestaurantID    string                  `json:"restaurantId"`
	Category        categoryField           `json:"category"`
	Variants        []domain.ProductVariant `json:"variants"`
}

func (g gqlProduct) toDomain() domain.Product {
	return domain.Product{
		ID:              g.ID,
		Name:            g.Name,
		Description:     g.Description,
		Price:           g.Price,
		ImageURL:        g.ImageURL,
		Available:       g.Available,
		PreparationTime: g.PreparationTime,
		RestaurantID:    g.RestaurantID,
		Category:        g.Category.Category,
		Variants:        g.Variants,
	}
}

type gqlOrder struct {
	ID             string                `json:"id"`
	RestaurantID   string                `json:"restaurantId"`
	Customer       domain.Customer       `json:"customer"`
	Products       []domain.OrderProduct `json:"products"`
	Total          float64               `json:"total"`
	PaymentMethod  string                `json:"paymentMethod"`
	DeliveryMethod string                `json:"deliveryMethod"`
	Mesa           string                `json:"mesa"`
	Address        string                `json:"deliveryAddress"`
	Status         string                `json:"status"`
	CreatedAt      string                `json:"createdAt"`
	UpdatedAt      string                `json:"updatedAt"`
}

func (g gqlOrder) toDomain() domain.Order {
	return domain.Order{
		ID:              g.ID,
		RestaurantID:    g.RestaurantID,
		Customer:        g.Customer,
		Products:        g.Products,
		Total:           g.Total,
		PaymentMethod:   parsePayment(g.PaymentMethod),
		DeliveryMethod:  parseDelivery(g.DeliveryMethod),
		Mesa:            g.Mesa,
		DeliveryAddress: g.Address,
		Status:          parseStatus(g.Status),
		CreatedAt:       parseTime(g.CreatedAt),
		UpdatedAt:       parseTime(g.UpdatedAt),
	}
}

type gqlMutationResult struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	ID      string    `json:"id"`
	Order   *gqlOrder `json:"order"`
}

func (c *GraphQLClient) mutate(ctx context.Context, op, query string, vars map[string]any, field string) (*MutationResult, error) {
	payload := map[string]*gqlMutationResult{}
	if err := c.do(ctx, op, query, vars, &payload); err != nil {
		return nil, err
	}

	result := payload[field]
	if result == nil {
		return nil, transportError(op, "backend returned no result", nil)
	}
	if !result.Success {
		return nil, businessError(op, result.Message)
	}

	out := &MutationResult{
		Success: true,
		Message: result.Message,
		ID:      result.ID,
	}
	if result.ID != "" {
		out.NumericID = identity.NumericID(result.ID)
	}
	if result.Order != nil {
		order := result.Order.toDomain()
		out.Order = &order
	}
	return out, nil
}

func (c *GraphQLClient) GetProducts(ctx context.Context, restaurantID, category string) (*ProductList, error) {
	restaurantID = c.restaurant(restaurantID)

	var payload struct {
		Products []gqlProduct `json:"products"`
	}
	err := c.do(ctx, "getProducts", queryGetProducts, map[string]any{"restaurantId": restaurantID}, &payload)
	if err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(payload.Products))
	for _, p := range payload.Products {
		dp := p.toDomain()
		if category != "" && !dp.InCategory(category) {
			continue
		}
		products = append(products, dp)
	}

	return &ProductList{Products: products, RestaurantID: restaurantID, Total: len(products)}, nil
}

func (c *GraphQLClient) GetProduct(ctx context.Context, productID, restaurantID string) (*domain.Product, error) {
	var payload struct {
		Product *gqlProduct `json:"product"`
	}
	err := c.do(ctx, "getProduct", queryGetProduct, map[string]any{"productId": productID}, &payload)
	if err != nil {
		return nil, err
	}
	if payload.Product == nil {
		return nil, notFoundError("getProduct", fmt.Sprintf("product not found: %s", productID))
	}

	p := payload.Product.toDomain()
	return &p, nil
}

func (c *GraphQLClient) CreateProduct(ctx context.Context, in domain.CreateProductInput) (*MutationResult, error) {
	in.RestaurantID = c.restaurant(in.RestaurantID)
	return c.mutate(ctx, "createProduct", mutationCreateProduct, map[string]any{"input": in}, "createProduct")
}

func (c *GraphQLClient) UpdateProduct(ctx context.Context, productID string, in domain.UpdateProductInput, restaurantID string) (*MutationResult, error) {
	return c.mutate(ctx, "updateProduct", mutationUpdateProduct, map[string]any{
		"productId": productID,
		"input":     in,
	}, "updateProduct")
}

func (c *GraphQLClient) DeleteProduct(ctx context.Context, productID, restaurantID string) (*MutationResult, error) {
	return c.mutate(ctx, "deleteProduct", mutationDeleteProduct, map[string]any{"productId": productID}, "deleteProduct")
}

func (c *GraphQLClient) CreateOrder(ctx context.Context, in domain.CreateOrderInput) (*MutationResult, error) {
	in.RestaurantID = c.restaurant(in.RestaurantID)

	// Product ids are carried through as the original strings end to end;
	// no numeric round trip happens on this path.
	input := map[string]any{
		"customerName":    in.CustomerName,
		"customerPhone":   in.CustomerPhone,
		"customerEmail":   in.CustomerEmail,
		"restaurantId":    in.RestaurantID,
		"products":        in.Products,
		"total":           in.Total,
		"paymentMethod":   in.PaymentMethod.LegacyForm(),
		"deliveryMethod":  in.DeliveryMethod.LegacyForm(),
		"mesa":            in.Mesa,
		"deliveryAddress": in.DeliveryAddress,
	}
	return c.mutate(ctx, "createOrder", mutationCreateOrder, map[string]any{"input": input}, "createOrder")
}

func (c *GraphQLClient) GetOrders(ctx context.Context, restaurantID, status string, limit int, _ bool) (*OrderList, error) {
	restaurantID = c.restaurant(restaurantID)

	vars := map[string]any{"restaurantId": restaurantID}
	if status != "" {
		vars["status"] = status
	}
	if limit > 0 {
		vars["limit"] = limit
	}

	var payload struct {
		Orders []gqlOrder `json:"orders"`
	}
	if err := c.do(ctx, "getOrders", queryGetOrders, vars, &payload); err != nil {
		return nil, err
	}

	orders := make([]domain.Order, 0, len(payload.Orders))
	for _, o := range payload.Orders {
		orders = append(orders, o.toDomain())
	}
	return &OrderList{Orders: orders, RestaurantID: restaurantID, TotalCount: len(orders)}, nil
}

// GetOrderStatus reuses the orders query and scans for the id; the backend
// has no dedicated single-order operation on this transport.
func (c *GraphQLClient) GetOrderStatus(ctx context.Context, orderID, restaurantID string) (*domain.Order, error) {
	list, err := c.GetOrders(ctx, restaurantID, "", 0, true)
	if err != nil {
		return nil, err
	}
	for i := range list.Orders {
		if list.Orders[i].ID == orderID {
			return &list.Orders[i], nil
		}
	}
	return nil, notFoundError("getOrderStatus", fmt.Sprintf("order not found: %s", orderID))
}

func (c *GraphQLClient) UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus, restaurantID string) (*MutationResult, error) {
	return c.mutate(ctx, "updateOrderStatus", mutationUpdateOrderStatus, map[string]any{
		"orderId":      orderID,
		"status":       status.String(),
		"restaurantId": c.restaurant(restaurantID),
	}, "updateOrderStatus")
}

func (c *GraphQLClient) AddProductToOrder(ctx context.Context, orderID, productID string, quantity int, restaurantID string) (*MutationResult, error) {
	return c.mutate(ctx, "addProductToOrder", mutationAddProductToOrder, map[string]any{
		"orderId":      orderID,
		"productId":    productID,
		"quantity":     quantity,
		"restaurantId": c.restaurant(restaurantID),
	}, "addProductToOrder")
}

func (c *GraphQLClient) RemoveProductFromOrder(ctx context.Context, orderID, productID, restaurantID string) (*MutationResult, error) {
	return c.mutate(ctx, "removeProductFromOrder", mutationRemoveProductFromOrder, map[string]any{
		"orderId":      orderID,
		"productId":    productID,
		"restaurantId": c.restaurant(restaurantID),
	}, "removeProductFromOrder")
}

func (c *GraphQLClient) UpdateProductQuantityInOrder(ctx context.Context, orderID, productID string, quantity int, restaurantID string) (*MutationResult, error) {
	return c.mutate(ctx, "updateProductQuantityInOrder", mutationUpdateProductQuantityInOrder, map[string]any{
		"orderId":      orderID,
		"productId":    productID,
		"quantity":     quantity,
		"restaurantId": c.restaurant(restaurantID),
	}, "updateProductQuantityInOrder")
}

func (c *GraphQLClient) GetCategories(ctx context.Context, restaurantID string) (*CategoryList, error) {
	restaurantID = c.restaurant(restaurantID)

	var payload struct {
		Categories []domain.Category `json:"categories"`
	}
	if err := c.do(ctx, "getCategories", queryGetCategories, map[string]any{"restaurantId": restaurantID}, &payload); err != nil {
		return nil, err
	}
	return &CategoryList{Categories: payload.Categories, RestaurantID: restaurantID, Total: len(payload.Categories)}, nil
}

func (c *GraphQLClient) GetRestaurantStats(ctx context.Context, restaurantID string) (*domain.RestaurantStats, error) {
	restaurantID = c.restaurant(restaurantID)

	var payload struct {
		Stats *domain.RestaurantStats `json:"restaurantStats"`
	}
	if err := c.do(ctx, "getRestaurantStats", queryGetRestaurantStats, map[string]any{"restaurantId": restaurantID}, &payload); err != nil {
		return nil, err
	}
	if payload.Stats == nil {
		return nil, notFoundError("getRestaurantStats", fmt.Sprintf("no stats for restaurant %s", restaurantID))
	}
	return payload.Stats, nil
}

func (c *GraphQLClient) CreateCategory(ctx context.Context, in domain.CreateCategoryInput) (*MutationResult, error) {
	in.RestaurantID = c.restaurant(in.RestaurantID)
	return c.mutate(ctx, "createCategory", mutationCreateCategory, map[string]any{"input": in}, "createCategory")
}

// ClearCache is a no-op on the raw transport; caching lives in the decorating
// client.
func (c *GraphQLClient) ClearCache(context.Context) error {
	return nil
}
