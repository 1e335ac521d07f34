package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/mrrobot2937/mazorca-system/internal/api"
	"github.com/mrrobot2937/mazorca-system/internal/cart"
	"github.com/mrrobot2937/mazorca-system/internal/domain"
)

// fakeClient is a hand-rolled api.Client double. Function fields override
// behavior per test; unset fields fall back to canned data.
type fakeClient struct {
	products   []domain.Product
	orders     []domain.Order
	categories []domain.Category

	getProductErr    error
	getCategoriesErr error

	createOrderFn func(domain.CreateOrderInput) (*api.MutationResult, error)

	createOrderCalls  int
	lastOrderInput    domain.CreateOrderInput
	lastStatusUpdate  domain.OrderStatus
	lastProductID     string
	clearCacheCalls   int
	createdCategories []domain.CreateCategoryInput
}

func (f *fakeClient) GetProducts(_ context.Context, restaurantID, category string) (*api.ProductList, error) {
	out := make([]domain.Product, 0, len(f.products))
	for _, p := range f.products {
		if category != "" && !p.InCategory(category) {
			continue
		}
		out = append(out, p)
	}
	return &api.ProductList{Products: out, RestaurantID: restaurantID, Total: len(out)}, nil
}

func (f *fakeClient) GetProduct(_ context.Context, productID, _ string) (*domain.Product, error) {
	if f.getProductErr != nil {
		return nil, f.getProductErr
	}
	for _, p := range f.products {
		if p.ID == productID {
			return &p, nil
		}
	}
	return nil, &api.Error{Op: "getProduct", Kind: api.KindNotFound, Message: "product not found: " + productID}
}

func (f *fakeClient) CreateProduct(_ context.Context, in domain.CreateProductInput) (*api.MutationResult, error) {
	return &api.MutationResult{Success: true, ID: "created-1", Message: "ok"}, nil
}

func (f *fakeClient) UpdateProduct(_ context.Context, productID string, _ domain.UpdateProductInput, _ string) (*api.MutationResult, error) {
	f.lastProductID = productID
	return &api.MutationResult{Success: true, ID: productID}, nil
}

func (f *fakeClient) DeleteProduct(_ context.Context, productID, _ string) (*api.MutationResult, error) {
	f.lastProductID = productID
	return &api.MutationResult{Success: true, ID: productID}, nil
}

func (f *fakeClient) CreateOrder(_ context.Context, in domain.CreateOrderInput) (*api.MutationResult, error) {
	f.createOrderCalls++
	f.lastOrderInput = in
	if f.createOrderFn != nil {
		return f.createOrderFn(in)
	}
	return &api.MutationResult{Success: true, ID: "ORD-1", NumericID: 123, Message: "created"}, nil
}

func (f *fakeClient) GetOrders(_ context.Context, restaurantID, _ string, _ int, _ bool) (*api.OrderList, error) {
	return &api.OrderList{Orders: f.orders, RestaurantID: restaurantID, TotalCount: len(f.orders)}, nil
}

func (f *fakeClient) GetOrderStatus(_ context.Context, orderID, _ string) (*domain.Order, error) {
	for _, o := range f.orders {
		if o.ID == orderID {
			return &o, nil
		}
	}
	return nil, &api.Error{Op: "getOrderStatus", Kind: api.KindNotFound, Message: "order not found: " + orderID}
}

func (f *fakeClient) UpdateOrderStatus(_ context.Context, _ string, status domain.OrderStatus, _ string) (*api.MutationResult, error) {
	f.lastStatusUpdate = status
	return &api.MutationResult{Success: true}, nil
}

func (f *fakeClient) AddProductToOrder(_ context.Context, _, productID string, _ int, _ string) (*api.MutationResult, error) {
	f.lastProductID = productID
	return &api.MutationResult{Success: true}, nil
}

func (f *fakeClient) RemoveProductFromOrder(_ context.Context, _, productID, _ string) (*api.MutationResult, error) {
	f.lastProductID = productID
	return &api.MutationResult{Success: true}, nil
}

func (f *fakeClient) UpdateProductQuantityInOrder(_ context.Context, _, productID string, _ int, _ string) (*api.MutationResult, error) {
	f.lastProductID = productID
	return &api.MutationResult{Success: true}, nil
}

func (f *fakeClient) GetCategories(_ context.Context, restaurantID string) (*api.CategoryList, error) {
	if f.getCategoriesErr != nil {
		return nil, f.getCategoriesErr
	}
	return &api.CategoryList{Categories: f.categories, RestaurantID: restaurantID, Total: len(f.categories)}, nil
}

func (f *fakeClient) GetRestaurantStats(_ context.Context, restaurantID string) (*domain.RestaurantStats, error) {
	return &domain.RestaurantStats{RestaurantID: restaurantID, TotalOrders: 5}, nil
}

func (f *fakeClient) CreateCategory(_ context.Context, in domain.CreateCategoryInput) (*api.MutationResult, error) {
	f.createdCategories = append(f.createdCategories, in)
	return &api.MutationResult{Success: true, ID: "cat-1"}, nil
}

func (f *fakeClient) ClearCache(context.Context) error {
	f.clearCacheCalls++
	return nil
}

func defaultFakeClient() *fakeClient {
	return &fakeClient{
		products: []domain.Product{
			{
				ID: "arepa-1", Name: "Arepa", Price: 8000, Available: true,
				Category: domain.Category{ID: "principal", Name: "Platos principales"},
			},
			{
				ID: "chicha-1", Name: "Chicha", Price: 3000, Available: true,
				Category: domain.Category{ID: "bebidas", Name: "Bebidas"},
				Variants: []domain.ProductVariant{{Size: "M", Price: 3500}, {Size: "L", Price: 4500}},
			},
		},
		categories: []domain.Category{
			{ID: "principal", Name: "Platos principales"},
			{ID: "bebidas", Name: "Bebidas"},
		},
		orders: []domain.Order{
			{ID: "ORD-1", Status: domain.StatusPending, Total: 16000},
		},
	}
}

type fixture struct {
	srv    *httptest.Server
	client *fakeClient
	store  *cart.MemoryStore
}

func newFixture(t *testing.T, client *fakeClient) *fixture {
	t.Helper()

	store := cart.NewMemoryStore()
	t.Cleanup(store.Close)

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	router := NewRouter(RouterConfig{
		Client:              client,
		CartStore:           store,
		Log:                 log,
		DefaultRestaurantID: "mazorca",
		RestaurantName:      "Ay Wey",
		WhatsAppNumber:      "3000000000",
		RequestTimeout:      5 * time.Second,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &fixture{srv: srv, client: client, store: store}
}

// do issues a request with a fixed session id and decodes the JSON response.
func (f *fixture) do(t *testing.T, method, path string, body any, out any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, f.srv.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("X-Session-ID", "test-session")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func jsonDecode(resp *http.Response, out any) error {
	return json.NewDecoder(resp.Body).Decode(out)
}
