package modules

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/bookshelf/internal/interface/http"
	"github.com/oksasatya/bookshelf/internal/interface/middleware"
	"github.com/oksasatya/bookshelf/pkg/helpers"
)

type AuthModule struct {
	Handler *handlers.AuthHandler
	Tokens  *helpers.SessionTokens
	RDB     *redis.Client
}

func NewAuthModule(h *handlers.AuthHandler, tokens *helpers.SessionTokens, rdb *redis.Client) *AuthModule {
	return &AuthModule{Handler: h, Tokens: tokens, RDB: rdb}
}

func (m *AuthModule) Name() string { return "auth" }

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	loginLimiter := middleware.RateLimit(m.RDB, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	registerLimiter := middleware.RateLimit(m.RDB, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	resetInitLimiter := middleware.RateLimit(m.RDB, 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	resetLimiter := middleware.RateLimit(m.RDB, 30, time.Minute, middleware.KeyByIPAndPath(), nil)

	auth := rg.Group("/auth")
	auth.POST("/register", registerLimiter, m.Handler.Register)
	auth.POST("/login", loginLimiter, m.Handler.Login)
	auth.POST("/logout", m.Handler.Logout)
	auth.POST("/reset-password/init", resetInitLimiter, m.Handler.ResetInit)
	auth.POST("/reset-password", resetLimiter, m.Handler.ResetPassword)

	// A bad token on /me is 403; the mutation routes report it as 401.
	auth.GET("/me", middleware.RequireSession(m.Tokens, http.StatusForbidden), m.Handler.Me)

	mutate := auth.Group("/")
	mutate.Use(
		middleware.RequireSession(m.Tokens, http.StatusUnauthorized),
		middleware.RateLimit(m.RDB, 20, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		mutate.POST("/change-password", m.Handler.ChangePassword)
		mutate.POST("/change-email", m.Handler.ChangeEmail)
		mutate.POST("/change-username", m.Handler.ChangeUsername)
	}
}
