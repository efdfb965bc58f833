package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/bookshelf/pkg/helpers"
)

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func withCookie(req *http.Request, token string) *http.Request {
	req.AddCookie(&http.Cookie{Name: helpers.SessionCookieName, Value: token})
	return req
}

func sessionEngine(tokens *helpers.SessionTokens, invalidStatus int) *gin.Engine {
	r := gin.New()
	r.GET("/p", RequireSession(tokens, invalidStatus), func(c *gin.Context) {
		c.String(http.StatusOK, UserID(c))
	})
	return r
}

func TestRequireSession(t *testing.T) {
	tokens := helpers.NewSessionTokens("test-secret")
	tok, _, err := tokens.Issue("user-1")
	require.NoError(t, err)

	t.Run("no cookie is 401", func(t *testing.T) {
		w := serve(sessionEngine(tokens, http.StatusForbidden), httptest.NewRequest(http.MethodGet, "/p", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("tampered cookie uses the route status", func(t *testing.T) {
		req := withCookie(httptest.NewRequest(http.MethodGet, "/p", nil), tok+"x")
		assert.Equal(t, http.StatusForbidden, serve(sessionEngine(tokens, http.StatusForbidden), req).Code)

		req = withCookie(httptest.NewRequest(http.MethodGet, "/p", nil), tok+"x")
		assert.Equal(t, http.StatusUnauthorized, serve(sessionEngine(tokens, http.StatusUnauthorized), req).Code)
	})

	t.Run("token from another secret is rejected", func(t *testing.T) {
		other, _, err := helpers.NewSessionTokens("other").Issue("user-1")
		require.NoError(t, err)
		req := withCookie(httptest.NewRequest(http.MethodGet, "/p", nil), other)
		assert.Equal(t, http.StatusForbidden, serve(sessionEngine(tokens, 0), req).Code)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		past := helpers.NewSessionTokens("test-secret", helpers.WithClock(func() time.Time {
			return time.Now().Add(-8 * 24 * time.Hour)
		}))
		old, _, err := past.Issue("user-1")
		require.NoError(t, err)
		req := withCookie(httptest.NewRequest(http.MethodGet, "/p", nil), old)
		assert.Equal(t, http.StatusForbidden, serve(sessionEngine(tokens, http.StatusForbidden), req).Code)
	})

	t.Run("valid cookie passes the user id", func(t *testing.T) {
		req := withCookie(httptest.NewRequest(http.MethodGet, "/p", nil), tok)
		w := serve(sessionEngine(tokens, http.StatusForbidden), req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "user-1", w.Body.String())
	})
}

func TestDecide(t *testing.T) {
	cases := []struct {
		path   string
		cookie bool
		want   GuardDecision
	}{
		{"/dashboard", false, RedirectToLogin},
		{"/dashboard/stats", false, RedirectToLogin},
		{"/books/123", false, Allow},
		{"/me", false, Allow},
		{"/dashboard", true, Allow},
		{"/login", true, RedirectToDashboard},
		{"/register", true, RedirectToDashboard},
		{"/login", false, Allow},
		{"/", false, Allow},
		{"/bookshelf", false, Allow},
		{"/u/ada", false, Allow},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Decide(tc.path, tc.cookie), "%s cookie=%v", tc.path, tc.cookie)
	}
}

func TestRouteGuard(t *testing.T) {
	r := gin.New()
	r.Use(RouteGuard(DefaultGuardConfig()))
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	r.GET("/dashboard", ok)
	r.GET("/login", ok)
	r.GET("/api/books", ok)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	w = serve(r, withCookie(httptest.NewRequest(http.MethodGet, "/login", nil), "anything"))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))

	w = serve(r, withCookie(httptest.NewRequest(http.MethodGet, "/dashboard", nil), "anything"))
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/api/books", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Body.String())
	assert.Equal(t, w.Body.String(), w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "6f1c7d2e-4d3b-4a55-9a7e-2b6f3f1f0a11")
	w = serve(r, req)
	assert.Equal(t, "6f1c7d2e-4d3b-4a55-9a7e-2b6f3f1f0a11", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "<script>")
	w = serve(r, req)
	assert.NotEqual(t, "<script>", w.Body.String())
}

func TestRealIP(t *testing.T) {
	r := gin.New()
	r.Use(RealIP())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("real_ip")) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("CF-Connecting-IP", "203.0.113.9")
	req.Header.Set("X-Forwarded-For", "198.51.100.1")
	assert.Equal(t, "203.0.113.9", serve(r, req).Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "198.51.100.1, 10.0.0.1")
	assert.Equal(t, "198.51.100.1", serve(r, req).Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("CF-Connecting-IP", "garbage")
	req.RemoteAddr = "192.0.2.4:1234"
	assert.Equal(t, "192.0.2.4", serve(r, req).Body.String())
}

func TestAllowPrivateIP(t *testing.T) {
	allow := AllowPrivateIP()
	for ip, want := range map[string]bool{"127.0.0.1": true, "10.1.2.3": true, "192.168.0.7": true, "8.8.8.8": false, "nope": false} {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Set("real_ip", ip)
		assert.Equal(t, want, allow(c), ip)
	}
}

func TestRateLimit_DisabledWithoutRedis(t *testing.T) {
	r := gin.New()
	r.GET("/", RateLimit(nil, 1, time.Minute, KeyByIP(), nil), func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
	}
}

func TestKeyFuncs(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/api/auth/login", nil)
	c.Set("real_ip", "203.0.113.9")

	assert.Equal(t, "rl:ip:203.0.113.9", KeyByIP()(c))
	assert.Equal(t, "rl:path:/api/auth/login:ip:203.0.113.9", KeyByIPAndPath()(c))
	assert.Equal(t, "rl:user:anon:ip:203.0.113.9", KeyByUserID()(c))
	c.Set(CtxUserIDKey, "u1")
	assert.Equal(t, "rl:user:u1", KeyByUserID()(c))
}

func TestMetrics(t *testing.T) {
	r := gin.New()
	r.Use(Metrics())
	r.GET("/api/books/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	before := testutil.ToFloat64(HTTPRequests.WithLabelValues(http.MethodGet, "/api/books/:id", "404"))
	serve(r, httptest.NewRequest(http.MethodGet, "/api/books/42", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/api/books/43", nil))
	after := testutil.ToFloat64(HTTPRequests.WithLabelValues(http.MethodGet, "/api/books/:id", "404"))
	assert.Equal(t, before+2, after)
}
