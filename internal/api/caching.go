package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/mrrobot2937/mazorca-system/internal/cache"
	"github.com/mrrobot2937/mazorca-system/internal/domain"
	"github.com/mrrobot2937/mazorca-system/internal/metrics"
)

// CachingClient decorates any Client with read-through caching and stampede
// control. Reads fill the cache under singleflight; writes delegate and then
// invalidate every key family the write could have changed.
type CachingClient struct {
	inner Client
	cache cache.Cache
	log   logrus.FieldLogger
	sfg   singleflight.Group
}

func NewCachingClient(inner Client, c cache.Cache, log logrus.FieldLogger) *CachingClient {
	return &CachingClient{inner: inner, cache: c, log: log}
}

// readThrough serves out from the cache, deduplicating concurrent misses per
// key. Cache failures degrade to a direct fetch; they never fail the read.
func readThrough[T any](ctx context.Context, c *CachingClient, key string, fetch func() (*T, error)) (*T, error) {
	if data, err := c.cache.Get(ctx, key); err == nil {
		var out T
		if err := json.Unmarshal(data, &out); err == nil {
			metrics.CacheEvents.WithLabelValues("hit").Inc()
			return &out, nil
		}
		c.log.WithField("key", key).Warn("discarding undecodable cache entry")
	} else if err != cache.ErrCacheMiss {
		c.log.WithField("key", key).WithError(err).Warn("cache read failed")
	}
	metrics.CacheEvents.WithLabelValues("miss").Inc()

	v, err, _ := c.sfg.Do(key, func() (any, error) {
		out, err := fetch()
		if err != nil {
			return nil, err
		}
		if data, err := json.Marshal(out); err == nil {
			if err := c.cache.Set(ctx, key, data); err != nil {
				c.log.WithField("key", key).WithError(err).Warn("cache write failed")
			}
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*T), nil
}

func (c *CachingClient) invalidate(ctx context.Context, prefixes ...string) {
	for _, p := range prefixes {
		if err := c.cache.DeletePrefix(ctx, p); err != nil {
			c.log.WithField("prefix", p).WithError(err).Warn("cache invalidation failed")
			continue
		}
		metrics.CacheEvents.WithLabelValues("invalidate").Inc()
	}
}

func (c *CachingClient) GetProducts(ctx context.Context, restaurantID, category string) (*ProductList, error) {
	key := fmt.Sprintf("products:%s:%s", restaurantID, category)
	return readThrough(ctx, c, key, func() (*ProductList, error) {
		return c.inner.GetProducts(ctx, restaurantID, category)
	})
}

func (c *CachingClient) GetProduct(ctx context.Context, productID, restaurantID string) (*domain.Product, error) {
	key := fmt.Sprintf("product:%s:%s", restaurantID, productID)
	return readThrough(ctx, c, key, func() (*domain.Product, error) {
		return c.inner.GetProduct(ctx, productID, restaurantID)
	})
}

func (c *CachingClient) CreateProduct(ctx context.Context, in domain.CreateProductInput) (*MutationResult, error) {
	res, err := c.inner.CreateProduct(ctx, in)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, "products:", "product:")
	return res, nil
}

func (c *CachingClient) UpdateProduct(ctx context.Context, productID string, in domain.UpdateProductInput, restaurantID string) (*MutationResult, error) {
	res, err := c.inner.UpdateProduct(ctx, productID, in, restaurantID)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, "products:", "product:")
	return res, nil
}

func (c *CachingClient) DeleteProduct(ctx context.Context, productID, restaurantID string) (*MutationResult, error) {
	res, err := c.inner.DeleteProduct(ctx, productID, restaurantID)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, "products:", "product:")
	return res, nil
}

func (c *CachingClient) CreateOrder(ctx context.Context, in domain.CreateOrderInput) (*MutationResult, error) {
	res, err := c.inner.CreateOrder(ctx, in)
	if err != nil {
		return nil, err
	}
	metrics.OrdersCreated.Inc()
	c.invalidate(ctx, "orders:", "stats:")
	return res, nil
}

func (c *CachingClient) GetOrders(ctx context.Context, restaurantID, status string, limit int, forceRefresh bool) (*OrderList, error) {
	if forceRefresh {
		return c.inner.GetOrders(ctx, restaurantID, status, limit, true)
	}
	key := fmt.Sprintf("orders:%s:%s:%d", restaurantID, status, limit)
	return readThrough(ctx, c, key, func() (*OrderList, error) {
		return c.inner.GetOrders(ctx, restaurantID, status, limit, false)
	})
}

// GetOrderStatus is always fresh: an order's status is exactly the field the
// caller polls for.
func (c *CachingClient) GetOrderStatus(ctx context.Context, orderID, restaurantID string) (*domain.Order, error) {
	return c.inner.GetOrderStatus(ctx, orderID, restaurantID)
}

func (c *CachingClient) UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus, restaurantID string) (*MutationResult, error) {
	res, err := c.inner.UpdateOrderStatus(ctx, orderID, status, restaurantID)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, "orders:", "stats:")
	return res, nil
}

func (c *CachingClient) AddProductToOrder(ctx context.Context, orderID, productID string, quantity int, restaurantID string) (*MutationResult, error) {
	res, err := c.inner.AddProductToOrder(ctx, orderID, productID, quantity, restaurantID)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, "orders:", "stats:")
	return res, nil
}

func (c *CachingClient) RemoveProductFromOrder(ctx context.Context, orderID, productID, restaurantID string) (*MutationResult, error) {
	res, err := c.inner.RemoveProductFromOrder(ctx, orderID, productID, restaurantID)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, "orders:", "stats:")
	return res, nil
}

func (c *CachingClient) UpdateProductQuantityInOrder(ctx context.Context, orderID, productID string, quantity int, restaurantID string) (*MutationResult, error) {
	res, err := c.inner.UpdateProductQuantityInOrder(ctx, orderID, productID, quantity, restaurantID)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, "orders:", "stats:")
	return res, nil
}

func (c *CachingClient) GetCategories(ctx context.Context, restaurantID string) (*CategoryList, error) {
	key := fmt.Sprintf("categories:%s", restaurantID)
	return readThrough(ctx, c, key, func() (*CategoryList, error) {
		return c.inner.GetCategories(ctx, restaurantID)
	})
}

func (c *CachingClient) GetRestaurantStats(ctx context.Context, restaurantID string) (*domain.RestaurantStats, error) {
	key := fmt.Sprintf("stats:%s", restaurantID)
	return readThrough(ctx, c, key, func() (*domain.RestaurantStats, error) {
		return c.inner.GetRestaurantStats(ctx, restaurantID)
	})
}

func (c *CachingClient) CreateCategory(ctx context.Context, in domain.CreateCategoryInput) (*MutationResult, error) {
	res, err := c.inner.CreateCategory(ctx, in)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, "categories:")
	return res, nil
}

func (c *CachingClient) ClearCache(ctx context.Context) error {
	if err := c.cache.Flush(ctx); err != nil {
		return err
	}
	metrics.CacheEvents.WithLabelValues("flush").Inc()
	return c.inner.ClearCache(ctx)
}
