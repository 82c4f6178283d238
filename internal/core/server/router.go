package server

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	mdw "rentkojo-api/internal/transport/http/middleware"
)

// NewRouter 基础 engine：请求 ID、访问日志、指标、panic 恢复、CORS、404 兜底
func NewRouter(l *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(
		mdw.RequestID(),
		mdw.AccessLog(l),
		mdw.Metrics(),
		mdw.Recovery(l),
		cors.New(corsConfig()),
	)
	r.NoRoute(mdw.NotFound())
	r.NoMethod(mdw.NotFound())
	return r
}

func corsConfig() cors.Config {
	c := cors.DefaultConfig()
	c.AllowAllOrigins = true
	c.AllowHeaders = append(c.AllowHeaders, "Authorization", mdw.KeyRequestID)
	c.ExposeHeaders = []string{mdw.KeyRequestID}
	c.MaxAge = 12 * time.Hour
	return c
}

func StartHTTP(srv *http.Server, l *zap.Logger) error {
	l.Info("http starting", zap.String("addr", srv.Addr))
	return srv.ListenAndServe()
}

// BuildServer errLog 为 nil 时用标准库默认 logger
func BuildServer(addr string, handler http.Handler, rt, wt, it time.Duration, errLog *log.Logger) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       rt,
		ReadHeaderTimeout: rt,
		WriteTimeout:      wt,
		IdleTimeout:       it,
		MaxHeaderBytes:    1 << 20, // 1MB
		ErrorLog:          errLog,
	}
}

func Addr(host string, port int) string { return fmt.Sprintf("%s:%d", host, port) }
