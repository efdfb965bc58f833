package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/bookshelf/internal/interface/http"
)

// PageModule mounts the browser pages at the site root.
type PageModule struct {
	Handler *handlers.PageHandler
}

func NewPageModule(h *handlers.PageHandler) *PageModule {
	return &PageModule{Handler: h}
}

func (m *PageModule) Name() string { return "pages" }

func (m *PageModule) Register(rg *gin.RouterGroup) {
	rg.GET("/", m.Handler.Root)
	rg.GET("/login", m.Handler.Login)
	rg.GET("/register", m.Handler.Register)
	rg.GET("/dashboard", m.Handler.Dashboard)
	rg.GET("/reset-password", m.Handler.ResetPassword)
	rg.GET("/u/:handle", m.Handler.PublicProfile)
}
