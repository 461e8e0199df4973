package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// HTTP collectors. The path label is the registered route, never the raw URL,
// so order ids do not become label values.
var (
	httpReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpLat = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	httpInflight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_inflight",
			Help: "Current number of in-flight HTTP requests.",
		},
	)

	httpRespSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "Size of HTTP responses in bytes.",
			Buckets: prometheus.ExponentialBuckets(256, 4, 8), // 256B..4MiB
		},
		[]string{"method", "path"},
	)
)

// Domain collectors.
var (
	ordersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "forge",
			Name:      "orders_total",
			Help:      "Service requests by outcome (created, replayed, invalid, failed, imported).",
		},
		[]string{"outcome"},
	)

	reviewsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "forge",
			Name:      "reviews_total",
			Help:      "Review submissions by outcome.",
		},
		[]string{"outcome"},
	)

	receiptShapes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "forge",
			Name:      "receipt_shapes_total",
			Help:      "Stored orders normalized for the dashboard, by payload shape.",
		},
		[]string{"shape"},
	)

	signIns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "forge",
			Name:      "signins_total",
			Help:      "Sign-in attempts by result.",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(
		httpReqs, httpLat, httpInflight, httpRespSize,
		ordersTotal, reviewsTotal, receiptShapes, signIns,
	)
}

// CountOrder records one intake outcome.
func CountOrder(outcome string) { ordersTotal.WithLabelValues(outcome).Inc() }

// CountReview records one review submission outcome.
func CountReview(outcome string) { reviewsTotal.WithLabelValues(outcome).Inc() }

// CountReceiptShape records the payload shape of a normalized order.
func CountReceiptShape(shape string) { receiptShapes.WithLabelValues(shape).Inc() }

// CountSignIn records a sign-in result (started, busy, success, failure, cancelled).
func CountSignIn(result string) { signIns.WithLabelValues(result).Inc() }

// Metrics instruments every request with count, latency, in-flight and
// response size collectors. Mount promhttp.Handler() separately.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpInflight.Inc()
		defer httpInflight.Dec()

		c.Next()

		path := routePath(c)
		method := c.Request.Method
		httpReqs.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpLat.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		// Size is -1 when nothing was written.
		if size := c.Writer.Size(); size >= 0 {
			httpRespSize.WithLabelValues(method, path).Observe(float64(size))
		}
	}
}
