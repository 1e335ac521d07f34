package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrrobot2937/mazorca-system/internal/domain"
	"github.com/mrrobot2937/mazorca-system/internal/identity"
)

func newRESTTestClient(t *testing.T, handler http.Handler) *RESTClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewRESTClient(RESTConfig{
		BaseURL:             srv.URL,
		DefaultRestaurantID: "mazorca",
		Timeout:             5 * time.Second,
		RetryWait:           time.Millisecond,
	}, testLogger())
}

func TestRESTClient_GetProducts(t *testing.T) {
	var gotRestaurant string
	client := newRESTTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/productos", r.URL.Path)
		gotRestaurant = r.URL.Query().Get("restaurant_id")
		w.Write([]byte(`{"products":[
			{"id":"arepa-1","name":"Arepa","price":8000,"is_available":true,
			 "image_url":"http://img/arepa.png","preparation_time":10,
			 "category":"principal"}
		],"total":1}`))
	}))

	list, err := client.GetProducts(context.Background(), "", "")
	require.NoError(t, err)

	assert.Equal(t, "mazorca", gotRestaurant)
	require.Len(t, list.Products, 1)

	p := list.Products[0]
	assert.True(t, p.Available)
	assert.Equal(t, "http://img/arepa.png", p.ImageURL)
	assert.Equal(t, 10, p.PreparationTime)
	assert.Equal(t, "principal", p.Category.ID)
}

func TestRESTClient_GetOrders_ResolvesNumericIDs(t *testing.T) {
	numeric := identity.NumericID("arepa-1")

	mux := http.NewServeMux()
	mux.HandleFunc("/api/productos", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"products":[{"id":"arepa-1","name":"Arepa","price":8000,"is_available":true}]}`))
	})
	mux.HandleFunc("/api/pedidos", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "pending", r.URL.Query().Get("status"))
		fmt.Fprintf(w, `{"success":true,"orders":[
			{"order_id":"ORD-1","customer_name":"Ana","status":"pending",
			 "payment_method":"efectivo","delivery_method":"mesa","mesa":"4",
			 "products":[{"id":%d,"name":"Arepa","cantidad":2,"precio":8000}],
			 "total":16000}
		],"total_count":1}`, numeric)
	})
	client := newRESTTestClient(t, mux)

	// Load the catalog first so the reverse index exists.
	_, err := client.GetProducts(context.Background(), "", "")
	require.NoError(t, err)

	list, err := client.GetOrders(context.Background(), "", "PENDING", 0, false)
	require.NoError(t, err)
	require.Len(t, list.Orders, 1)

	order := list.Orders[0]
	assert.Equal(t, domain.StatusPending, order.Status)
	assert.Equal(t, domain.PaymentCash, order.PaymentMethod)
	assert.Equal(t, domain.DeliveryDineIn, order.DeliveryMethod)

	require.Len(t, order.Products, 1)
	assert.Equal(t, "arepa-1", order.Products[0].ID)
	assert.Equal(t, 16000.0, order.Products[0].Total)
}

func TestRESTClient_GetOrders_UnresolvableIDFallsBack(t *testing.T) {
	client := newRESTTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"orders":[
			{"order_id":"ORD-1","status":"pending",
			 "products":[{"id":12345,"name":"Misterio","cantidad":1,"precio":100}]}
		]}`))
	}))

	list, err := client.GetOrders(context.Background(), "", "", 0, false)
	require.NoError(t, err)
	assert.Equal(t, "12345", list.Orders[0].Products[0].ID)
}

func TestRESTClient_CreateOrder_SendsNumericIDs(t *testing.T) {
	var body map[string]any
	client := newRESTTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Write([]byte(`{"success":true,"message":"created","order_id":"ORD-9"}`))
	}))

	res, err := client.CreateOrder(context.Background(), domain.CreateOrderInput{
		CustomerName:   "Ana",
		CustomerPhone:  "3001112233",
		Products:       []domain.OrderProductInput{{ID: "arepa-1", Quantity: 2, Price: 8000}},
		Total:          16000,
		PaymentMethod:  domain.PaymentTransfer,
		DeliveryMethod: domain.DeliveryDelivery,
		DeliveryAddress: "Calle 1 # 2-3",
	})
	require.NoError(t, err)
	assert.Equal(t, "ORD-9", res.ID)

	assert.Equal(t, "Ana", body["nombre"])
	assert.Equal(t, "transferencia", body["metodo_pago"])
	assert.Equal(t, "domicilio", body["modalidad_entrega"])

	productos := body["productos"].([]any)
	first := productos[0].(map[string]any)
	assert.Equal(t, float64(identity.NumericID("arepa-1")), first["id"])
	assert.Equal(t, 2.0, first["cantidad"])
}

func TestRESTClient_UpdateOrderStatus_LegacyVocabulary(t *testing.T) {
	var gotStatus, gotOrderID string
	client := newRESTTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		gotOrderID = r.URL.Query().Get("order_id")
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotStatus = body["status"]
		w.Write([]byte(`{"success":true,"message":"updated","id":"ORD-1"}`))
	}))

	_, err := client.UpdateOrderStatus(context.Background(), "ORD-1", domain.StatusDelivered, "")
	require.NoError(t, err)

	// DELIVERED does not exist on this surface; it travels as completed.
	assert.Equal(t, "completed", gotStatus)
	assert.Equal(t, "ORD-1", gotOrderID)
}

func TestRESTClient_OrderLineOps_UseNumericPath(t *testing.T) {
	numeric := strconv.FormatInt(identity.NumericID("arepa-1"), 10)

	var gotPaths []string
	client := newRESTTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPaths = append(gotPaths, r.Method+" "+r.URL.Path)
		w.Write([]byte(`{"success":true,"message":"ok","id":"ORD-1"}`))
	}))

	ctx := context.Background()
	_, err := client.AddProductToOrder(ctx, "ORD-1", "arepa-1", 1, "")
	require.NoError(t, err)
	_, err = client.UpdateProductQuantityInOrder(ctx, "ORD-1", "arepa-1", 3, "")
	require.NoError(t, err)
	_, err = client.RemoveProductFromOrder(ctx, "ORD-1", "arepa-1", "")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"POST /api/pedidos/ORD-1/productos",
		"PUT /api/pedidos/ORD-1/productos/" + numeric,
		"DELETE /api/pedidos/ORD-1/productos/" + numeric,
	}, gotPaths)
}

func TestRESTClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	client := newRESTTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"categories":[{"id":"bebidas","name":"Bebidas"}]}`))
	}))

	list, err := client.GetCategories(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
	require.Len(t, list.Categories, 1)
}

func TestRESTClient_BusinessErrorAfterExhaustion(t *testing.T) {
	var calls atomic.Int32
	client := newRESTTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`backend down`))
	}))

	_, err := client.GetCategories(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, int32(restMaxAttempts), calls.Load())
	assert.Equal(t, KindBusiness, ErrorKind(err))
	assert.Contains(t, err.Error(), "503")
}

func TestRESTClient_NotFound(t *testing.T) {
	client := newRESTTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := client.GetProduct(context.Background(), "ghost", "")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestRESTClient_GetRestaurantStats(t *testing.T) {
	client := newRESTTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/stats", r.URL.Path)
		w.Write([]byte(`{"restaurant_id":"mazorca","total_orders":10,"total_revenue":90000,
			"pending_orders":1,"preparing_orders":2,"status_breakdown":{"pending":1}}`))
	}))

	stats, err := client.GetRestaurantStats(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 10, stats.TotalOrders)
	assert.Equal(t, 90000.0, stats.TotalRevenue)
	assert.Equal(t, 1, stats.StatusBreakdown["pending"])
}
