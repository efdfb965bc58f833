package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/bookshelf/internal/interface/middleware"
)

type DebugModule struct {
	RDB     *redis.Client
	Expvars bool
}

func NewDebugModule(rdb *redis.Client, expvars bool) *DebugModule {
	return &DebugModule{RDB: rdb, Expvars: expvars}
}

func (m *DebugModule) Name() string { return "debug" }

// Register exposes Prometheus metrics and, when enabled, expvar. Private networks skip the limiter.
func (m *DebugModule) Register(rg *gin.RouterGroup) {
	rl := middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	rg.GET("/metrics", rl, gin.WrapH(promhttp.Handler()))
	if m.Expvars {
		rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
	}
}
