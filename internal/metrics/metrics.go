// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the Prometheus collectors for the HTTP surface and the
// transfer engine.
type Collector struct {
	registry       *prometheus.Registry
	httpStatus     *prometheus.CounterVec
	requestLatency prometheus.Histogram
	transfersOK    prometheus.Counter
	transfersFail  prometheus.Counter
}

// NewCollector creates a Collector with its own registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "minibank_http_status_total",
			Help: "Responses by HTTP status code.",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "minibank_request_latency_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		transfersOK: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "minibank_transfers_success_total",
			Help: "Completed transfers.",
		}),
		transfersFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "minibank_transfers_fail_total",
			Help: "Rejected or failed transfers.",
		}),
	}

	c.registry.MustRegister(
		c.httpStatus,
		c.requestLatency,
		c.transfersOK,
		c.transfersFail,
	)

	return c
}

// RecordTransferSuccess counts a committed transfer.
func (c *Collector) RecordTransferSuccess() {
	c.transfersOK.Inc()
}

// RecordTransferFailure counts a rejected or failed transfer.
func (c *Collector) RecordTransferFailure() {
	c.transfersFail.Inc()
}

// Middleware records status code and latency for every request.
func (c *Collector) Middleware() gin.HandlerFunc {
	return func(gctx *gin.Context) {
		start := time.Now()

		gctx.Next()

		c.httpStatus.WithLabelValues(strconv.Itoa(gctx.Writer.Status())).Inc()
		c.requestLatency.Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the registry in Prometheus text format.
func (c *Collector) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})

	return func(gctx *gin.Context) {
		h.ServeHTTP(gctx.Writer, gctx.Request)
	}
}
