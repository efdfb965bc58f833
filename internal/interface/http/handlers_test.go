package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/bookshelf/internal/application"
	"github.com/oksasatya/bookshelf/pkg/helpers"
)

func init() { gin.SetMode(gin.TestMode) }

func TestStatusFor(t *testing.T) {
	cases := []struct {
		kind     application.Kind
		conflict conflictStatus
		want     int
	}{
		{application.KindValidation, 0, http.StatusBadRequest},
		{application.KindUnauthorized, 0, http.StatusUnauthorized},
		{application.KindInvalidToken, 0, http.StatusForbidden},
		{application.KindConflict, 0, http.StatusConflict},
		{application.KindConflict, conflictAsBadRequest, http.StatusBadRequest},
		{application.KindNotFound, 0, http.StatusNotFound},
		{application.KindUnavailable, 0, http.StatusServiceUnavailable},
		{application.KindUpstream, 0, http.StatusBadGateway},
		{application.KindInternal, 0, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusFor(tc.kind, tc.conflict), tc.kind.String())
	}
}

func TestWriteError_HidesInternalCause(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	writeError(c, helpers.NewDiscardLogger(), errors.New("pq: connection refused to 10.0.0.5"), conflictAsConflict)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.5")
}

func TestWriteError_CarriesDetails(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	err := &application.Error{Kind: application.KindConflict, Message: "slug already taken", Details: map[string]string{"slug": "slug already taken"}}
	writeError(c, nil, err, conflictAsConflict)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), `"slug":"slug already taken"`)
}

func TestPages_Render(t *testing.T) {
	h := NewPageHandler("Bookshelf", helpers.NewDiscardLogger())
	r := gin.New()
	r.GET("/reset-password", h.ResetPassword)
	r.GET("/u/:handle", h.PublicProfile)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reset-password?token=abc123", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="abc123"`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/u/%3Cscript%3E", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "<script>\"")
}
