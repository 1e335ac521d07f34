package poller

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrrobot2937/mazorca-system/internal/api"
	"github.com/mrrobot2937/mazorca-system/internal/domain"
)

// fakeOrdersClient stubs GetOrders; the embedded interface covers the rest of
// the surface, which the poller never touches.
type fakeOrdersClient struct {
	api.Client
	calls  atomic.Int32
	orders func() []domain.Order
}

func (f *fakeOrdersClient) GetOrders(_ context.Context, restaurantID, _ string, _ int, forceRefresh bool) (*api.OrderList, error) {
	f.calls.Add(1)
	if !forceRefresh {
		panic("poller must bypass the cache")
	}
	return &api.OrderList{Orders: f.orders(), RestaurantID: restaurantID}, nil
}

func testLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func order(id string, status domain.OrderStatus) domain.Order {
	return domain.Order{ID: id, Status: status}
}

func TestPoller_DetectsNewOrders(t *testing.T) {
	orders := []domain.Order{order("ORD-1", domain.StatusPending)}
	client := &fakeOrdersClient{orders: func() []domain.Order { return orders }}

	p := New(client, Config{RestaurantID: "mazorca"}, testLogger())

	var notified [][]domain.Order
	p.OnNewOrders(func(fresh []domain.Order) { notified = append(notified, fresh) })

	require.NoError(t, p.Poll(context.Background()))
	require.Len(t, notified, 1)
	assert.Equal(t, "ORD-1", notified[0][0].ID)
	assert.Equal(t, int64(1), p.NewOrdersCount())

	// Same snapshot again: nothing new.
	require.NoError(t, p.Poll(context.Background()))
	assert.Len(t, notified, 1)

	// A second pending order arrives.
	orders = append(orders, order("ORD-2", domain.StatusConfirmed))
	require.NoError(t, p.Poll(context.Background()))
	require.Len(t, notified, 2)
	assert.Equal(t, "ORD-2", notified[1][0].ID)
	assert.Equal(t, int64(2), p.NewOrdersCount())

	p.ResetNewOrdersCount()
	assert.Zero(t, p.NewOrdersCount())
}

func TestPoller_IgnoresNonPendingOrders(t *testing.T) {
	client := &fakeOrdersClient{orders: func() []domain.Order {
		return []domain.Order{
			order("ORD-1", domain.StatusCompleted),
			order("ORD-2", domain.StatusPreparing),
		}
	}}
	p := New(client, Config{RestaurantID: "mazorca"}, testLogger())

	var fresh []domain.Order
	p.OnNewOrders(func(o []domain.Order) { fresh = o })

	require.NoError(t, p.Poll(context.Background()))
	assert.Empty(t, fresh)
	// The full snapshot still includes them.
	assert.Len(t, p.Orders(), 2)
}

func TestPoller_DiscardsStaleResponses(t *testing.T) {
	p := New(&fakeOrdersClient{}, Config{RestaurantID: "mazorca"}, testLogger())

	p.apply(2, []domain.Order{order("ORD-NEW", domain.StatusPending)})
	// A slower, older response must not win.
	p.apply(1, []domain.Order{order("ORD-OLD", domain.StatusPending)})

	orders := p.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, "ORD-NEW", orders[0].ID)
	assert.Equal(t, int64(1), p.NewOrdersCount())
}

func TestPoller_StripsLegacyRestaurantPrefix(t *testing.T) {
	var gotRestaurant string
	client := &fakeOrdersClient{orders: func() []domain.Order { return nil }}
	p := New(client, Config{RestaurantID: "rest_mazorca"}, testLogger())

	p.OnOrders(func([]domain.Order) {})
	require.NoError(t, p.Poll(context.Background()))
	gotRestaurant = p.restaurantID
	assert.Equal(t, "mazorca", gotRestaurant)
}

func TestPoller_RunStopsOnCancel(t *testing.T) {
	client := &fakeOrdersClient{orders: func() []domain.Order { return nil }}
	p := New(client, Config{RestaurantID: "mazorca", Interval: 5 * time.Millisecond}, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return client.calls.Load() >= 2 }, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop after cancellation")
	}
}
