package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the Prometheus metrics of the service on its own registry,
// so tests can build as many collectors as they like.
// All methods are safe on a nil *Collector.
type Collector struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	todoMutations *prometheus.CounterVec
	storeErrors   *prometheus.CounterVec
	items         *prometheus.GaugeVec
}

// NewCollector creates a collector whose metrics live under namespace.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		todoMutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "todo_mutations_total",
				Help:      "Successful todo mutations by kind",
			},
			[]string{"kind"},
		),
		storeErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_errors_total",
				Help:      "Storage failures by operation",
			},
			[]string{"op"},
		),
		items: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "items",
				Help:      "Stored todo items by state, refreshed on a schedule",
			},
			[]string{"state"},
		),
	}

	registry.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.todoMutations,
		c.storeErrors,
		c.items,
		collectors.NewGoCollector(),
	)

	return c
}

// ObserveRequest records one served HTTP request.
func (c *Collector) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if c == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// IncMutation counts a successful create, update or delete.
func (c *Collector) IncMutation(kind string) {
	if c == nil {
		return
	}
	c.todoMutations.WithLabelValues(kind).Inc()
}

// IncStoreError counts a storage failure for op.
func (c *Collector) IncStoreError(op string) {
	if c == nil {
		return
	}
	c.storeErrors.WithLabelValues(op).Inc()
}

// SetItemCounts publishes the current number of done and open items.
func (c *Collector) SetItemCounts(done, open int) {
	if c == nil {
		return
	}
	c.items.WithLabelValues("done").Set(float64(done))
	c.items.WithLabelValues("open").Set(float64(open))
}

// Registry exposes the underlying registry.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
