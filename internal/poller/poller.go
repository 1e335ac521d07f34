// Package poller keeps the admin dashboard's order list fresh by periodically
// re-fetching it and flagging newly arrived orders.
package poller

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/mrrobot2937/mazorca-system/internal/api"
	"github.com/mrrobot2937/mazorca-system/internal/domain"
)

const DefaultInterval = 15 * time.Second

type Config struct {
	RestaurantID string
	Interval     time.Duration
}

// Poller re-fetches orders on a fixed interval. Concurrent ticks collapse into
// one upstream fetch, and a generation counter guarantees that a slow response
// can never overwrite the result of a newer one.
type Poller struct {
	client   api.Client
	log      logrus.FieldLogger
	interval time.Duration

	restaurantID string

	sfg singleflight.Group
	seq atomic.Uint64

	newCount atomic.Int64

	mu          sync.Mutex
	lastApplied uint64
	seen        map[string]struct{}
	latest      []domain.Order
	lastCheck   time.Time

	onOrders    func([]domain.Order)
	onNewOrders func([]domain.Order)
}

func New(client api.Client, cfg Config, log logrus.FieldLogger) *Poller {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	// Some stored restaurant ids carry a historical "rest_" prefix the
	// backend does not know about.
	restaurantID := strings.TrimPrefix(cfg.RestaurantID, "rest_")

	return &Poller{
		client:       client,
		log:          log.WithField("component", "poller"),
		interval:     interval,
		restaurantID: restaurantID,
		seen:         make(map[string]struct{}),
	}
}

// OnOrders registers a callback invoked with the full order list after every
// applied poll. Must be set before Run.
func (p *Poller) OnOrders(fn func([]domain.Order)) {
	p.onOrders = fn
}

// OnNewOrders registers a callback invoked with orders in PENDING or
// CONFIRMED state that were not present in the previous poll. Must be set
// before Run.
func (p *Poller) OnNewOrders(fn func([]domain.Order)) {
	p.onNewOrders = fn
}

// Run polls immediately and then on every tick until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	if err := p.Poll(ctx); err != nil {
		p.log.WithError(err).Error("initial order poll failed")
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.Poll(ctx); err != nil {
				p.log.WithError(err).Error("order poll failed")
			}
		}
	}
}

// Poll fetches the order list once, bypassing the cache, and applies it if it
// is still the newest response.
func (p *Poller) Poll(ctx context.Context) error {
	gen := p.seq.Add(1)

	v, err, shared := p.sfg.Do("orders:"+p.restaurantID, func() (any, error) {
		return p.client.GetOrders(ctx, p.restaurantID, "", 0, true)
	})
	if err != nil {
		return err
	}
	if shared {
		p.log.Debug("order poll coalesced with concurrent fetch")
	}

	p.apply(gen, v.(*api.OrderList).Orders)
	return nil
}

// apply installs orders as the latest snapshot unless a newer generation
// already did.
func (p *Poller) apply(gen uint64, orders []domain.Order) {
	p.mu.Lock()

	if gen <= p.lastApplied {
		p.mu.Unlock()
		p.log.WithField("generation", gen).Debug("discarding stale poll response")
		return
	}
	p.lastApplied = gen

	current := make(map[string]struct{})
	var fresh []domain.Order
	for _, o := range orders {
		if o.Status != domain.StatusPending && o.Status != domain.StatusConfirmed {
			continue
		}
		current[o.ID] = struct{}{}
		if _, ok := p.seen[o.ID]; !ok {
			fresh = append(fresh, o)
		}
	}

	p.seen = current
	p.latest = orders
	p.lastCheck = time.Now()
	onOrders, onNew := p.onOrders, p.onNewOrders
	p.mu.Unlock()

	if len(fresh) > 0 {
		p.newCount.Add(int64(len(fresh)))
		p.log.WithField("count", len(fresh)).Info("new pending orders detected")
		if onNew != nil {
			onNew(fresh)
		}
	}
	if onOrders != nil {
		onOrders(orders)
	}
}

// Orders returns the latest applied snapshot.
func (p *Poller) Orders() []domain.Order {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.Order, len(p.latest))
	copy(out, p.latest)
	return out
}

// LastCheck returns when the latest snapshot was applied.
func (p *Poller) LastCheck() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastCheck
}

// NewOrdersCount is the number of new pending orders detected since the last
// reset, for the dashboard badge.
func (p *Poller) NewOrdersCount() int64 {
	return p.newCount.Load()
}

func (p *Poller) ResetNewOrdersCount() {
	p.newCount.Store(0)
}
