package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the HTTP, outbox and search cache collectors on a private registry.
type Metrics struct {
	registry      *prometheus.Registry
	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	OutboxLatency prometheus.Histogram
	SearchCache   *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shelf_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "shelf_http_request_duration_seconds",
			Help:    "HTTP request latency by route and method.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		OutboxLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "shelf_outbox_publish_latency_seconds",
			Help:    "Delay between an activity write and its event publication.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		SearchCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shelf_search_cache_lookups_total",
			Help: "Upstream search cache lookups by result (hit or miss).",
		}, []string{"result"}),
	}
	m.registry.MustRegister(
		m.requests, m.duration, m.OutboxLatency, m.SearchCache,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// SearchCacheCounters returns the hit and miss counters for cache.SearchCache.Instrument.
func (m *Metrics) SearchCacheCounters() (hits, misses prometheus.Counter) {
	return m.SearchCache.WithLabelValues("hit"), m.SearchCache.WithLabelValues("miss")
}

func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// ObserveOutbox drains relay latency samples until the channel is closed or done fires.
func (m *Metrics) ObserveOutbox(samples <-chan time.Duration, done <-chan struct{}) {
	for {
		select {
		case d, ok := <-samples:
			if !ok {
				return
			}
			m.OutboxLatency.Observe(d.Seconds())
		case <-done:
			return
		}
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
