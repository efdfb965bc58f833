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

type BookModule struct {
	Handler *handlers.BookHandler
	Tokens  *helpers.SessionTokens
	RDB     *redis.Client
}

func NewBookModule(h *handlers.BookHandler, tokens *helpers.SessionTokens, rdb *redis.Client) *BookModule {
	return &BookModule{Handler: h, Tokens: tokens, RDB: rdb}
}

func (m *BookModule) Name() string { return "books" }

func (m *BookModule) Register(rg *gin.RouterGroup) {
	books := rg.Group("/books")
	books.Use(
		middleware.RequireSession(m.Tokens, http.StatusForbidden),
		middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		books.GET("", m.Handler.List)
		books.POST("", m.Handler.Create)
		books.GET("/stats", m.Handler.Stats)
		books.GET("/search", m.Handler.Search)
		books.POST("/export", middleware.RateLimit(m.RDB, 5, time.Hour, middleware.KeyByUserID(), nil), m.Handler.Export)
		books.GET("/:id", m.Handler.Get)
		books.PUT("/:id", m.Handler.Update)
		books.DELETE("/:id", m.Handler.Delete)
	}
}
