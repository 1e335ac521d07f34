// Package metrics exposes the Prometheus instrumentation for the storefront.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BackendRequests counts calls to the remote restaurant backend,
	// labeled by transport (graphql|rest), operation and outcome.
	BackendRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_backend_requests_total",
		Help: "Requests issued to the remote restaurant backend",
	}, []string{"transport", "operation", "outcome"})

	// BackendDuration observes backend call latency per transport and operation.
	BackendDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storefront_backend_request_duration_seconds",
		Help:    "Latency of remote backend calls",
		Buckets: prometheus.DefBuckets,
	}, []string{"transport", "operation"})

	// CacheEvents counts list-cache hits, misses and invalidations.
	CacheEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cache_events_total",
		Help: "List cache events",
	}, []string{"event"})

	// OrdersCreated counts orders submitted through checkout.
	OrdersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_orders_created_total",
		Help: "Orders successfully created via checkout",
	})
)
