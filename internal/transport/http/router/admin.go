package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rentkojo-api/internal/core/server"
	"rentkojo-api/internal/transport/http/handler"
)

// NewAdminEngine 后台不做鉴权，默认只监听 127.0.0.1
func NewAdminEngine(d Deps) *gin.Engine {
	r := server.NewRouter(d.Logger)
	r.Use(protect(d.Limits)...)

	r.GET("/health", health(d.DB))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	admin := r.Group("/admin/v1")

	reg := &Registry{}
	reg.Register(handler.NewAdmin(d.DB, d.Cache))
	reg.MountAdmin(admin)

	return r
}
