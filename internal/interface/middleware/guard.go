package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/bookshelf/pkg/helpers"
)

type GuardDecision int

const (
	Allow GuardDecision = iota
	RedirectToLogin
	RedirectToDashboard
)

func (d GuardDecision) String() string {
	switch d {
	case RedirectToLogin:
		return "redirect_login"
	case RedirectToDashboard:
		return "redirect_dashboard"
	default:
		return "allow"
	}
}

// GuardConfig lists the page paths the guard cares about.
type GuardConfig struct {
	Protected     []string
	AuthOnly      []string
	LoginPath     string
	DashboardPath string
}

func DefaultGuardConfig() GuardConfig {
	return GuardConfig{
		Protected:     []string{"/dashboard"},
		AuthOnly:      []string{"/login", "/register"},
		LoginPath:     "/login",
		DashboardPath: "/dashboard",
	}
}

// Decide applies the default page rules. Only cookie presence matters here.
func Decide(path string, hasCookie bool) GuardDecision {
	return DefaultGuardConfig().Decide(path, hasCookie)
}

func (g GuardConfig) Decide(path string, hasCookie bool) GuardDecision {
	if !hasCookie && matchesAny(path, g.Protected) {
		return RedirectToLogin
	}
	if hasCookie && matchesAny(path, g.AuthOnly) {
		return RedirectToDashboard
	}
	return Allow
}

func matchesAny(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// RouteGuard redirects page requests based on Decide. /api is never redirected.
func RouteGuard(cfg GuardConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if path == "/api" || strings.HasPrefix(path, "/api/") {
			c.Next()
			return
		}
		switch cfg.Decide(path, helpers.SessionToken(c) != "") {
		case RedirectToLogin:
			c.Redirect(http.StatusFound, cfg.LoginPath)
			c.Abort()
		case RedirectToDashboard:
			c.Redirect(http.StatusFound, cfg.DashboardPath)
			c.Abort()
		default:
			c.Next()
		}
	}
}
