package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/bookshelf/pkg/helpers"
	"github.com/oksasatya/bookshelf/pkg/response"
)

// CtxUserIDKey holds the verified session user id in the Gin context.
const CtxUserIDKey = "userID"

// RequireSession verifies the session cookie and injects the user id into the context.
// A missing cookie is 401; a cookie that fails verification aborts with invalidStatus.
func RequireSession(tokens *helpers.SessionTokens, invalidStatus int) gin.HandlerFunc {
	if invalidStatus == 0 {
		invalidStatus = http.StatusForbidden
	}
	return func(c *gin.Context) {
		token := helpers.SessionToken(c)
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, "authentication required", nil)
			return
		}
		uid, err := tokens.Verify(token)
		if err != nil {
			response.Abort(c, invalidStatus, "invalid or expired session", nil)
			return
		}
		c.Set(CtxUserIDKey, uid)
		c.Next()
	}
}

// UserID returns the id set by RequireSession, or "".
func UserID(c *gin.Context) string {
	return c.GetString(CtxUserIDKey)
}
