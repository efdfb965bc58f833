package handlers

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bookshelf/pkg/helpers"
)

//go:embed pages/*.html
var pageFS embed.FS

var pages = template.Must(template.ParseFS(pageFS, "pages/*.html"))

type pageData struct {
	AppName string
	Title   string
	Token   string
	Handle  string
}

// PageHandler renders the browser pages. Access control for them lives in middleware.RouteGuard.
type PageHandler struct {
	AppName string
	Logger  *logrus.Logger
}

func NewPageHandler(appName string, logger *logrus.Logger) *PageHandler {
	return &PageHandler{AppName: appName, Logger: logger}
}

func (h *PageHandler) render(c *gin.Context, name string, data pageData) {
	data.AppName = h.AppName
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := pages.ExecuteTemplate(c.Writer, name, data); err != nil {
		helpers.LogError(h.Logger, "render page failed", err, logrus.Fields{"page": name})
	}
}

func (h *PageHandler) Login(c *gin.Context)    { h.render(c, "login", pageData{Title: "Sign in"}) }
func (h *PageHandler) Register(c *gin.Context) { h.render(c, "register", pageData{Title: "Create account"}) }
func (h *PageHandler) Dashboard(c *gin.Context) {
	h.render(c, "dashboard", pageData{Title: "Dashboard"})
}

func (h *PageHandler) ResetPassword(c *gin.Context) {
	h.render(c, "reset", pageData{Title: "Reset password", Token: c.Query("token")})
}

// PublicProfile GET /u/:handle
func (h *PageHandler) PublicProfile(c *gin.Context) {
	h.render(c, "profile", pageData{Title: "Bookshelf", Handle: c.Param("handle")})
}

func (h *PageHandler) Root(c *gin.Context) {
	c.Redirect(http.StatusFound, "/dashboard")
}
