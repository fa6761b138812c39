package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareCountsMatchedRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Middleware())
	router.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/items/:id", "204"))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/42", nil))
	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/items/:id", "204"))

	assert.Equal(t, before+1, after)
}

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(enrollments.WithLabelValues("free"))
	RecordEnrollment("free")
	assert.Equal(t, before+1, testutil.ToFloat64(enrollments.WithLabelValues("free")))

	before = testutil.ToFloat64(paymentCaptures.WithLabelValues("captured"))
	RecordPaymentCapture("captured")
	assert.Equal(t, before+1, testutil.ToFloat64(paymentCaptures.WithLabelValues("captured")))

	before = testutil.ToFloat64(checkoutSessions.WithLabelValues("error"))
	RecordCheckoutSession(false)
	assert.Equal(t, before+1, testutil.ToFloat64(checkoutSessions.WithLabelValues("error")))

	RecordDBQuery("SELECT", "courses", 3*time.Millisecond)
	assert.Positive(t, testutil.CollectAndCount(dbQueryDuration, "db_query_duration_seconds"))
}
