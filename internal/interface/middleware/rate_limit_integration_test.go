//go:build integration

package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/bookshelf/internal/testsupport"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func limitedEngine(t *testing.T, max int, window time.Duration) *gin.Engine {
	t.Helper()
	rdb := testsupport.StartRedis(t)
	r := gin.New()
	r.Use(RealIP())
	r.POST("/api/auth/login", RateLimit(rdb, max, window, KeyByIPAndPath(), nil), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func fromIP(ip string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.Header.Set("X-Forwarded-For", ip)
	return req
}

func TestIntegration_RateLimitRejectsOverMax(t *testing.T) {
	r := limitedEngine(t, 2, time.Minute)
	before := testutil.ToFloat64(RateLimited.WithLabelValues("/api/auth/login"))

	w := serve(r, fromIP("203.0.113.7"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))

	w = serve(r, fromIP("203.0.113.7"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = serve(r, fromIP("203.0.113.7"))
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	retry, err := strconv.Atoi(w.Header().Get("Retry-After"))
	require.NoError(t, err)
	assert.InDelta(t, 60, retry, 1)
	assert.Equal(t, before+1, testutil.ToFloat64(RateLimited.WithLabelValues("/api/auth/login")))

	w = serve(r, fromIP("198.51.100.4"))
	assert.Equal(t, http.StatusOK, w.Code, "other clients keep their own bucket")
}

func TestIntegration_RateLimitWindowResets(t *testing.T) {
	r := limitedEngine(t, 1, 500*time.Millisecond)

	require.Equal(t, http.StatusOK, serve(r, fromIP("203.0.113.8")).Code)
	require.Equal(t, http.StatusTooManyRequests, serve(r, fromIP("203.0.113.8")).Code)

	require.Eventually(t, func() bool {
		return serve(r, fromIP("203.0.113.8")).Code == http.StatusOK
	}, 3*time.Second, 100*time.Millisecond)
}
