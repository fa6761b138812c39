package middleware

import (
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mo-amir99/course-marketplace-go/pkg/cache"
	"github.com/mo-amir99/course-marketplace-go/pkg/jobs"
	"github.com/mo-amir99/course-marketplace-go/pkg/logger"
)

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/api/v1/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"pong": true}) })
	r.GET("/panic", func(c *gin.Context) { panic("kaboom") })
	return r
}

func do(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiterWindow(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	now := time.Now()
	rl.now = func() time.Time { return now }

	assert.True(t, rl.allow("ip"))
	assert.True(t, rl.allow("ip"))
	assert.False(t, rl.allow("ip"))
	assert.True(t, rl.allow("other"))

	now = now.Add(2 * time.Minute)
	assert.True(t, rl.allow("ip"))

	now = now.Add(2 * time.Minute)
	rl.Sweep()
	assert.Empty(t, rl.windows)
}

func TestRateLimiterSweepsAsScheduledJob(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	now := time.Now()
	rl.now = func() time.Time { return now }

	for _, ip := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"} {
		assert.True(t, rl.allow(ip))
	}
	require.Len(t, rl.windows, 3)

	scheduler := jobs.NewScheduler(logger.Discard(), time.Second)
	scheduler.AddJob(rl, time.Hour)

	require.NoError(t, scheduler.RunOnce(context.Background(), "rate_limit_sweep"))
	assert.Len(t, rl.windows, 3)

	now = now.Add(2 * time.Minute)
	require.NoError(t, scheduler.RunOnce(context.Background(), "rate_limit_sweep"))
	assert.Empty(t, rl.windows)
}

func TestStoreLimiterBlocksAfterLimit(t *testing.T) {
	limiter := NewStoreLimiter(cache.NewMemoryCache(), logger.Discard())
	r := newRouter(limiter.Limit("forget", 2, time.Minute))

	for i := 0; i < 2; i++ {
		rec := do(r, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	rec := do(r, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
}

func TestRecoveryReturnsEnvelope(t *testing.T) {
	r := newRouter(RequestID(), Recovery(logger.Discard()))

	rec := do(r, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestRequestIDPropagates(t *testing.T) {
	r := newRouter(RequestID())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")

	rec := do(r, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestCORSAllowsCredentialedOrigin(t *testing.T) {
	r := newRouter(CORS([]string{"http://localhost:3000"}))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/ping", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")

	rec := do(r, req)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCompressionAndCacheHeaders(t *testing.T) {
	r := newRouter(CacheControl(), Compression(gzip.DefaultCompression))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := do(r, req)

	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
	assert.Contains(t, rec.Header().Get("Cache-Control"), "no-store")

	zr, err := gzip.NewReader(rec.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.JSONEq(t, `{"pong":true}`, string(body))
}

func TestRequestSizeLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestSizeLimit(4))
	r.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.ContentLength = 10
	rec := do(r, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
