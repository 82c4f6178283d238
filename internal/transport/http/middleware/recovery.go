package middleware

import (
	"net/http"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	resp "rentkojo-api/internal/transport/http/response"
)

// Recovery panic 带堆栈写日志，客户端只拿到统一的 500
func Recovery(l *zap.Logger) gin.HandlerFunc {
	return ginzap.CustomRecoveryWithZap(l, true, func(c *gin.Context, _ any) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, resp.Error(resp.MsgInternal))
	})
}

// NotFound 未匹配的路由 / 方法
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusNotFound, resp.Error(resp.MsgRouteNotFound))
	}
}
