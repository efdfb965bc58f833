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

type CatalogModule struct {
	Handler *handlers.CatalogHandler
	Tokens  *helpers.SessionTokens
	RDB     *redis.Client
}

func NewCatalogModule(h *handlers.CatalogHandler, tokens *helpers.SessionTokens, rdb *redis.Client) *CatalogModule {
	return &CatalogModule{Handler: h, Tokens: tokens, RDB: rdb}
}

func (m *CatalogModule) Name() string { return "catalog" }

// Register keeps the upstream quota in check with a per-user limit.
func (m *CatalogModule) Register(rg *gin.RouterGroup) {
	rg.GET("/catalog/search",
		middleware.RequireSession(m.Tokens, http.StatusForbidden),
		middleware.RateLimit(m.RDB, 60, time.Minute, middleware.KeyByUserID(), nil),
		m.Handler.Search,
	)
}
