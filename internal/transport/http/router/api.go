package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"rentkojo-api/internal/core/cache"
	"rentkojo-api/internal/core/config"
	"rentkojo-api/internal/core/server"
	"rentkojo-api/internal/service"
	"rentkojo-api/internal/transport/http/ez"
	"rentkojo-api/internal/transport/http/handler"
	mdw "rentkojo-api/internal/transport/http/middleware"
	resp "rentkojo-api/internal/transport/http/response"
)

// Deps 两个 engine 共用的依赖
type Deps struct {
	Logger     *zap.Logger
	DB         *gorm.DB
	Services   *service.Services
	Cache      *cache.Cache // 可为 nil
	Limits     config.Limits
	Pagination config.Pagination
}

func (d Deps) paging() ez.Paging {
	return ez.Paging{DefaultSize: d.Pagination.DefaultPageSize, MaxSize: d.Pagination.MaxPageSize}
}

func NewAPIEngine(d Deps) *gin.Engine {
	r := server.NewRouter(d.Logger)
	r.Use(protect(d.Limits)...)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, resp.OK(nil, "Welcome to the rentkojo API"))
	})
	r.GET("/health", health(d.DB))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	reg := &Registry{}
	reg.Register(
		handler.NewCatalog(d.Services, d.paging()),
		handler.NewStores(d.Services, d.paging()),
		handler.NewUsers(d.Services, d.paging()),
	)
	reg.MountAPI(api)

	return r
}

// protect 入口保护；配置为 0 的项不启用
func protect(l config.Limits) []gin.HandlerFunc {
	var hs []gin.HandlerFunc
	if l.RPS > 0 {
		hs = append(hs, mdw.RateLimit(rate.Limit(l.RPS), l.Burst))
	}
	if l.PerIPRPS > 0 {
		hs = append(hs, mdw.RateLimitPerIP(rate.Limit(l.PerIPRPS), l.PerIPBurst, 10*time.Minute))
	}
	if l.Concurrency > 0 {
		hs = append(hs, mdw.ConcurrencyLimit(l.Concurrency))
	}
	if l.MaxBodyBytes > 0 {
		hs = append(hs, mdw.MaxBodyBytes(l.MaxBodyBytes))
	}
	if l.RequestTimeout > 0 {
		hs = append(hs, mdw.Timeout(time.Duration(l.RequestTimeout)*time.Second))
	}
	return hs
}

func health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusServiceUnavailable, resp.New(false, "database unavailable", gin.H{"ok": 0}, nil))
			return
		}
		c.JSON(http.StatusOK, resp.OK(gin.H{"ok": 1}, ""))
	}
}
