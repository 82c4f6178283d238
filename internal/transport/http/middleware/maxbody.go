package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resp "rentkojo-api/internal/transport/http/response"
)

// MaxBodyBytes 限制请求体大小；Content-Length 已超限直接拒绝，其余在读取时由 MaxBytesReader 截断
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, resp.Error(resp.MsgTooLarge))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
