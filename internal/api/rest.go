package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"github.com/mrrobot2937/mazorca-system/internal/domain"
	"github.com/mrrobot2937/mazorca-system/internal/identity"
)

const restMaxAttempts = 3

// RESTClient talks to the legacy REST surface (/api/productos, /api/pedidos,
// /api/categorias, /api/stats). That surface keys products by numeric id and
// speaks the lowercase status vocabulary; both conventions are translated
// here and never leak to callers.
type RESTClient struct {
	t                   *transport
	defaultRestaurantID string

	// resolver maps numeric order-line ids back to original string ids.
	// Refreshed from every product fetch; the hash is never authoritative,
	// so unresolvable ids fall back to their decimal form.
	mu       sync.RWMutex
	resolver *identity.Resolver
}

type RESTConfig struct {
	BaseURL             string
	DefaultRestaurantID string
	Timeout             time.Duration
	// RetryWait is the base of the linear backoff between attempts
	// (wait = attempt * RetryWait). Zero means one second.
	RetryWait time.Duration
}

func NewRESTClient(cfg RESTConfig, log logrus.FieldLogger) *RESTClient {
	t := newTransport("rest", cfg.BaseURL, cfg.Timeout, log)

	wait := cfg.RetryWait
	if wait == 0 {
		wait = time.Second
	}
	t.rc.SetRetryCount(restMaxAttempts - 1)
	t.rc.SetRetryAfter(func(_ *resty.Client, resp *resty.Response) (time.Duration, error) {
		attempt := 1
		if resp != nil && resp.Request != nil {
			attempt = resp.Request.Attempt
		}
		return time.Duration(attempt) * wait, nil
	})
	t.rc.AddRetryCondition(func(r *resty.Response, err error) bool {
		return err != nil || (r != nil && r.StatusCode() >= 500)
	})

	return &RESTClient{t: t, defaultRestaurantID: cfg.DefaultRestaurantID}
}

func (c *RESTClient) restaurant(id string) string {
	if id == "" {
		return c.defaultRestaurantID
	}
	return id
}

// do issues one REST call and decodes the body into out when non-nil.
func (c *RESTClient) do(ctx context.Context, op, method, path string, query map[string]string, body, out any) error {
	resp, err := c.t.execute(op, func() (*resty.Response, error) {
		req := c.t.rc.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json")
		if query != nil {
			req.SetQueryParams(query)
		}
		if body != nil {
			req.SetBody(body)
		}
		return req.Execute(method, path)
	})
	if err != nil {
		return transportError(op, troubleshootMessage(err), err)
	}
	if resp.StatusCode() == 404 {
		return notFoundError(op, fmt.Sprintf("not found: %s", path))
	}
	if resp.IsError() {
		return businessError(op, fmt.Sprintf("API error %d: %s", resp.StatusCode(), string(resp.Body())))
	}
	if out != nil {
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return transportError(op, "invalid response from backend", err)
		}
	}
	return nil
}

type restProduct struct {
	ID              string                  `json:"id"`
	Name            string                  `json:"name"`
	Description     string                  `json:"description"`
	Price           float64                 `json:"price"`
	ImageURL        string                  `json:"image_url"`
	IsAvailable     bool                    `json:"is_available"`
	PreparationTime int                     `json:"preparation_time"`
	Category        categoryField           `json:"category"`
	Variants        []domain.ProductVariant `json:"variants"`
}

func (r restProduct) toDomain() domain.Product {
	return domain.Product{
		ID:              r.ID,
		Name:            r.Name,
		Description:     r.Description,
		Price:           r.Price,
		ImageURL:        r.ImageURL,
		Available:       r.IsAvailable,
		PreparationTime: r.PreparationTime,
		Category:        r.Category.Category,
		Variants:        r.Variants,
	}
}

type restOrderProduct struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Quantity int     `json:"cantidad"`
	Price    float64 `json:"precio"`
}

type restOrder struct {
	OrderID        string             `json:"order_id"`
	RestaurantID   string             `json:"restaurant_id"`
	CustomerName   string             `json:"customer_name"`
	CustomerPhone  string             `json:"customer_phone"`
	CustomerEmail  string             `json:"customer_email"`
	Products       []restOrderProduct `json:"products"`
	Total          float64            `json:"total"`
	PaymentMethod  string             `json:"payment_method"`
	DeliveryMethod string             `json:"delivery_method"`
	Mesa           string             `json:"mesa"`
	Address        string             `json:"direccion"`
	Status         string             `json:"status"`
	CreatedAt      string             `json:"created_at"`
	UpdatedAt      string             `json:"updated_at"`
}

func (c *RESTClient) orderToDomain(o restOrder) domain.Order {
	products := make([]domain.OrderProduct, 0, len(o.Products))
	for _, p := range o.Products {
		products = append(products, domain.OrderProduct{
			ID:       c.resolveNumericID(p.ID),
			Name:     p.Name,
			Quantity: p.Quantity,
			Price:    p.Price,
			Total:    p.Price * float64(p.Quantity),
		})
	}
	return domain.Order{
		ID:              o.OrderID,
		RestaurantID:    o.RestaurantID,
		Customer:        domain.Customer{Name: o.CustomerName, Phone: o.CustomerPhone, Email: o.CustomerEmail},
		Products:        products,
		Total:           o.Total,
		PaymentMethod:   parsePayment(o.PaymentMethod),
		DeliveryMethod:  parseDelivery(o.DeliveryMethod),
		Mesa:            o.Mesa,
		DeliveryAddress: o.Address,
		Status:          parseStatus(o.Status),
		CreatedAt:       parseTime(o.CreatedAt),
		UpdatedAt:       parseTime(o.UpdatedAt),
	}
}

// resolveNumericID recovers the original string id for a numeric one using
// the last loaded catalog, falling back to the decimal form.
func (c *RESTClient) resolveNumericID(n int64) string {
	c.mu.RLock()
	r := c.resolver
	c.mu.RUnlock()

	if r != nil {
		if id, err := r.Resolve(n); err == nil {
			return id
		}
	}
	return strconv.FormatInt(n, 10)
}

func (c *RESTClient) refreshResolver(products []domain.Product) {
	r, err := identity.NewResolver(products)
	if err != nil {
		// A colliding catalog would mis-resolve order lines; keep the
		// previous index and surface the condition in the logs.
		c.t.log.WithError(err).Error("catalog has colliding numeric ids, keeping stale resolver")
		return
	}
	c.mu.Lock()
	c.resolver = r
	c.mu.Unlock()
}

func (c *RESTClient) GetProducts(ctx context.Context, restaurantID, category string) (*ProductList, error) {
	restaurantID = c.restaurant(restaurantID)

	query := map[string]string{"restaurant_id": restaurantID}
	if category != "" {
		query["category"] = category
	}

	var payload struct {
		Products     []restProduct `json:"products"`
		RestaurantID string        `json:"restaurant_id"`
		Total        int           `json:"total"`
	}
	if err := c.do(ctx, "getProducts", "GET", "/api/productos", query, nil, &payload); err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(payload.Products))
	for _, p := range payload.Products {
		products = append(products, p.toDomain())
	}
	c.refreshResolver(products)

	return &ProductList{Products: products, RestaurantID: restaurantID, Total: len(products)}, nil
}

func (c *RESTClient) GetProduct(ctx context.Context, productID, restaurantID string) (*domain.Product, error) {
	restaurantID = c.restaurant(restaurantID)

	var payload struct {
		Product *restProduct `json:"product"`
	}
	err := c.do(ctx, "getProduct", "GET", "/api/productos/"+productID,
		map[string]string{"restaurant_id": restaurantID}, nil, &payload)
	if err != nil {
		return nil, err
	}
	if payload.Product == nil {
		return nil, notFoundError("getProduct", fmt.Sprintf("product not found: %s", productID))
	}
	p := payload.Product.toDomain()
	return &p, nil
}

type restMutationResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ProductID int64  `json:"product_id"`
	OrderID   string `json:"order_id"`
	ID        string `json:"id"`
}

func (c *RESTClient) mutationResult(op string, resp restMutationResponse) (*MutationResult, error) {
	if !resp.Success {
		return nil, businessError(op, resp.Message)
	}

	out := &MutationResult{Success: true, Message: resp.Message}
	switch {
	case resp.OrderID != "":
		out.ID = resp.OrderID
	case resp.ID != "":
		out.ID = resp.ID
	}
	if resp.ProductID != 0 {
		out.NumericID = resp.ProductID
		out.ID = c.resolveNumericID(resp.ProductID)
	} else if out.ID != "" {
		out.NumericID = identity.NumericID(out.ID)
	}
	return out, nil
}

func (c *RESTClient) CreateProduct(ctx context.Context, in domain.CreateProductInput) (*MutationResult, error) {
	restaurantID := c.restaurant(in.RestaurantID)

	body := map[string]any{
		"name":          in.Name,
		"description":   in.Description,
		"price":         in.Price,
		"image_url":     in.ImageURL,
		"is_available":  in.Available,
		"category":      in.CategoryID,
		"restaurant_id": restaurantID,
	}
	if in.PreparationTime > 0 {
		body["preparation_time"] = in.PreparationTime
	}
	if len(in.Variants) > 0 {
		body["variants"] = in.Variants
	}

	var resp restMutationResponse
	err := c.do(ctx, "createProduct", "POST", "/api/productos",
		map[string]string{"restaurant_id": restaurantID}, body, &resp)
	if err != nil {
		return nil, err
	}
	return c.mutationResult("createProduct", resp)
}

// UpdateProduct needs the original string id in the path; the numeric form
// is never accepted by this surface for writes.
func (c *RESTClient) UpdateProduct(ctx context.Context, productID string, in domain.UpdateProductInput, _ string) (*MutationResult, error) {
	body := map[string]any{}
	if in.Name != nil {
		body["name"] = *in.Name
	}
	if in.Description != nil {
		body["description"] = *in.Description
	}
	if in.Price != nil {
		body["price"] = *in.Price
	}
	if in.ImageURL != nil {
		body["image_url"] = *in.ImageURL
	}
	if in.Available != nil {
		body["is_available"] = *in.Available
	}
	if in.CategoryID != nil {
		body["category"] = *in.CategoryID
	}
	if len(in.Variants) > 0 {
		body["variants"] = in.Variants
	}

	var resp restMutationResponse
	if err := c.do(ctx, "updateProduct", "PUT", "/api/productos/"+productID, nil, body, &resp); err != nil {
		return nil, err
	}
	return c.mutationResult("updateProduct", resp)
}

func (c *RESTClient) DeleteProduct(ctx context.Context, productID, _ string) (*MutationResult, error) {
	var resp restMutationResponse
	if err := c.do(ctx, "deleteProduct", "DELETE", "/api/productos/"+productID, nil, nil, &resp); err != nil {
		return nil, err
	}
	return c.mutationResult("deleteProduct", resp)
}

func (c *RESTClient) CreateOrder(ctx context.Context, in domain.CreateOrderInput) (*MutationResult, error) {
	restaurantID := c.restaurant(in.RestaurantID)

	// This surface wants numeric product ids; derive them here, at the last
	// possible boundary.
	productos := make([]map[string]any, 0, len(in.Products))
	for _, p := range in.Products {
		productos = append(productos, map[string]any{
			"id":       identity.NumericID(p.ID),
			"cantidad": p.Quantity,
			"precio":   p.Price,
		})
	}

	body := map[string]any{
		"nombre":            in.CustomerName,
		"telefono":          in.CustomerPhone,
		"correo":            in.CustomerEmail,
		"productos":         productos,
		"total":             in.Total,
		"metodo_pago":       in.PaymentMethod.LegacyForm(),
		"modalidad_entrega": in.DeliveryMethod.LegacyForm(),
		"mesa":              in.Mesa,
		"direccion":         in.DeliveryAddress,
	}

	var resp restMutationResponse
	err := c.do(ctx, "createOrder", "POST", "/api/pedidos",
		map[string]string{"restaurant_id": restaurantID}, body, &resp)
	if err != nil {
		return nil, err
	}
	return c.mutationResult("createOrder", resp)
}

func (c *RESTClient) GetOrders(ctx context.Context, restaurantID, status string, limit int, _ bool) (*OrderList, error) {
	restaurantID = c.restaurant(restaurantID)

	query := map[string]string{"restaurant_id": restaurantID}
	if status != "" {
		query["status"] = parseStatus(status).RESTStatus()
	}
	if limit > 0 {
		query["limit"] = strconv.Itoa(limit)
	}

	var payload struct {
		Success      bool        `json:"success"`
		RestaurantID string      `json:"restaurant_id"`
		Orders       []restOrder `json:"orders"`
		TotalCount   int         `json:"total_count"`
	}
	if err := c.do(ctx, "getOrders", "GET", "/api/pedidos", query, nil, &payload); err != nil {
		return nil, err
	}

	orders := make([]domain.Order, 0, len(payload.Orders))
	for _, o := range payload.Orders {
		orders = append(orders, c.orderToDomain(o))
	}
	return &OrderList{Orders: orders, RestaurantID: restaurantID, TotalCount: len(orders)}, nil
}

func (c *RESTClient) GetOrderStatus(ctx context.Context, orderID, restaurantID string) (*domain.Order, error) {
	var payload restOrder
	err := c.do(ctx, "getOrderStatus", "GET", "/api/pedidos",
		map[string]string{"order_id": orderID, "restaurant_id": c.restaurant(restaurantID)}, nil, &payload)
	if err != nil {
		return nil, err
	}
	if payload.OrderID == "" {
		return nil, notFoundError("getOrderStatus", fmt.Sprintf("order not found: %s", orderID))
	}
	order := c.orderToDomain(payload)
	return &order, nil
}

func (c *RESTClient) UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus, _ string) (*MutationResult, error) {
	var resp restMutationResponse
	err := c.do(ctx, "updateOrderStatus", "PUT", "/api/pedidos",
		map[string]string{"order_id": orderID},
		map[string]string{"status": status.RESTStatus()}, &resp)
	if err != nil {
		return nil, err
	}
	return c.mutationResult("updateOrderStatus", resp)
}

func (c *RESTClient) AddProductToOrder(ctx context.Context, orderID, productID string, quantity int, restaurantID string) (*MutationResult, error) {
	body := map[string]any{
		"id":       identity.NumericID(productID),
		"cantidad": quantity,
	}
	var resp restMutationResponse
	err := c.do(ctx, "addProductToOrder", "POST", "/api/pedidos/"+orderID+"/productos",
		map[string]string{"restaurant_id": c.restaurant(restaurantID)}, body, &resp)
	if err != nil {
		return nil, err
	}
	return c.mutationResult("addProductToOrder", resp)
}

func (c *RESTClient) RemoveProductFromOrder(ctx context.Context, orderID, productID, restaurantID string) (*MutationResult, error) {
	numeric := strconv.FormatInt(identity.NumericID(productID), 10)
	var resp restMutationResponse
	err := c.do(ctx, "removeProductFromOrder", "DELETE", "/api/pedidos/"+orderID+"/productos/"+numeric,
		map[string]string{"restaurant_id": c.restaurant(restaurantID)}, nil, &resp)
	if err != nil {
		return nil, err
	}
	return c.mutationResult("removeProductFromOrder", resp)
}

func (c *RESTClient) UpdateProductQuantityInOrder(ctx context.Context, orderID, productID string, quantity int, restaurantID string) (*MutationResult, error) {
	numeric := strconv.FormatInt(identity.NumericID(productID), 10)
	var resp restMutationResponse
	err := c.do(ctx, "updateProductQuantityInOrder", "PUT", "/api/pedidos/"+orderID+"/productos/"+numeric,
		map[string]string{"restaurant_id": c.restaurant(restaurantID)},
		map[string]int{"cantidad": quantity}, &resp)
	if err != nil {
		return nil, err
	}
	return c.mutationResult("updateProductQuantityInOrder", resp)
}

func (c *RESTClient) GetCategories(ctx context.Context, restaurantID string) (*CategoryList, error) {
	restaurantID = c.restaurant(restaurantID)

	var payload struct {
		RestaurantID string            `json:"restaurant_id"`
		Categories   []domain.Category `json:"categories"`
		Total        int               `json:"total"`
	}
	err := c.do(ctx, "getCategories", "GET", "/api/categorias",
		map[string]string{"restaurant_id": restaurantID}, nil, &payload)
	if err != nil {
		return nil, err
	}
	return &CategoryList{Categories: payload.Categories, RestaurantID: restaurantID, Total: len(payload.Categories)}, nil
}

func (c *RESTClient) GetRestaurantStats(ctx context.Context, restaurantID string) (*domain.RestaurantStats, error) {
	restaurantID = c.restaurant(restaurantID)

	var payload struct {
		RestaurantID    string         `json:"restaurant_id"`
		TotalOrders     int            `json:"total_orders"`
		TotalRevenue    float64        `json:"total_revenue"`
		PendingOrders   int            `json:"pending_orders"`
		PreparingOrders int            `json:"preparing_orders"`
		StatusBreakdown map[string]int `json:"status_breakdown"`
	}
	err := c.do(ctx, "getRestaurantStats", "GET", "/api/stats",
		map[string]string{"restaurant_id": restaurantID}, nil, &payload)
	if err != nil {
		return nil, err
	}
	return &domain.RestaurantStats{
		RestaurantID:    restaurantID,
		TotalOrders:     payload.TotalOrders,
		TotalRevenue:    payload.TotalRevenue,
		PendingOrders:   payload.PendingOrders,
		PreparingOrders: payload.PreparingOrders,
		StatusBreakdown: payload.StatusBreakdown,
	}, nil
}

func (c *RESTClient) CreateCategory(ctx context.Context, in domain.CreateCategoryInput) (*MutationResult, error) {
	restaurantID := c.restaurant(in.RestaurantID)

	var resp restMutationResponse
	err := c.do(ctx, "createCategory", "POST", "/api/categorias",
		map[string]string{"restaurant_id": restaurantID},
		map[string]string{"name": in.Name, "description": in.Description}, &resp)
	if err != nil {
		return nil, err
	}
	return c.mutationResult("createCategory", resp)
}

// ClearCache is a no-op on the raw transport; caching lives in the decorating
// client.
func (c *RESTClient) ClearCache(context.Context) error {
	return nil
}
