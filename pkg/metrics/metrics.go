package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	dbQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Database query latency by operation and table.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"operation", "table"})

	enrollments = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "course_enrollments_total",
		Help: "Enrollments created, by kind (free or paid).",
	}, []string{"kind"})

	checkoutSessions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_checkout_sessions_total",
		Help: "Checkout sessions requested from the payment provider, by result.",
	}, []string{"result"})

	paymentCaptures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_captures_total",
		Help: "Payment confirmations, by outcome (captured, unpaid, raced).",
	}, []string{"outcome"})
)

// Middleware records request counts and latency per matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// RecordDBQuery observes a database query duration.
func RecordDBQuery(operation, table string, elapsed time.Duration) {
	dbQueryDuration.WithLabelValues(operation, table).Observe(elapsed.Seconds())
}

// RecordEnrollment counts a new enrollment of the given kind.
func RecordEnrollment(kind string) {
	enrollments.WithLabelValues(kind).Inc()
}

// RecordCheckoutSession counts a provider checkout session request.
func RecordCheckoutSession(success bool) {
	result := "ok"
	if !success {
		result = "error"
	}
	checkoutSessions.WithLabelValues(result).Inc()
}

// RecordPaymentCapture counts a confirmation outcome.
func RecordPaymentCapture(outcome string) {
	paymentCaptures.WithLabelValues(outcome).Inc()
}
