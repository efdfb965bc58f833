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

// UserModule serves the slug setter and the public profile.
// Public: GET /api/profile/:idOrSlug
// Protected: PUT /api/users/slug
type UserModule struct {
	Handler *handlers.UserHandler
	Tokens  *helpers.SessionTokens
	RDB     *redis.Client
}

func NewUserModule(h *handlers.UserHandler, tokens *helpers.SessionTokens, rdb *redis.Client) *UserModule {
	return &UserModule{Handler: h, Tokens: tokens, RDB: rdb}
}

func (m *UserModule) Name() string { return "users" }

func (m *UserModule) Register(rg *gin.RouterGroup) {
	profileLimiter := middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyByIP(), nil)
	rg.GET("/profile/:idOrSlug", profileLimiter, m.Handler.Profile)

	rg.PUT("/users/slug",
		middleware.RequireSession(m.Tokens, http.StatusForbidden),
		middleware.RateLimit(m.RDB, 20, time.Minute, middleware.KeyByUserID(), nil),
		m.Handler.SetSlug,
	)
}
