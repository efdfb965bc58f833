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

type NoteModule struct {
	Handler *handlers.NoteHandler
	Tokens  *helpers.SessionTokens
	RDB     *redis.Client
}

func NewNoteModule(h *handlers.NoteHandler, tokens *helpers.SessionTokens, rdb *redis.Client) *NoteModule {
	return &NoteModule{Handler: h, Tokens: tokens, RDB: rdb}
}

func (m *NoteModule) Name() string { return "notes" }

func (m *NoteModule) Register(rg *gin.RouterGroup) {
	notes := rg.Group("/notes")
	notes.Use(
		middleware.RequireSession(m.Tokens, http.StatusForbidden),
		middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		notes.GET("", m.Handler.List)
		notes.POST("", m.Handler.Create)
		notes.PUT("/:id", m.Handler.Update)
		notes.DELETE("/:id", m.Handler.Delete)
	}
}
