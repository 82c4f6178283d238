package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	resp "rentkojo-api/internal/transport/http/response"
)

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.POST("/echo", func(c *gin.Context) {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			c.String(http.StatusBadRequest, err.Error())
			return
		}
		c.JSON(http.StatusOK, body)
	})
	return r
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) resp.Envelope {
	t.Helper()
	var env resp.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestRequestID(t *testing.T) {
	r := newEngine(RequestID())

	w := serve(r, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Len(t, w.Header().Get(KeyRequestID), 36)

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(KeyRequestID, "abc-123")
	w = serve(r, req)
	assert.Equal(t, "abc-123", w.Header().Get(KeyRequestID))
}

func TestRateLimit(t *testing.T) {
	r := newEngine(RateLimit(0.001, 1))

	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/ok", nil)).Code)
	w := serve(r, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	env := decode(t, w)
	assert.False(t, env.Success)
	assert.Equal(t, resp.MsgTooMany, env.Message)
}

func TestRateLimitPerIP(t *testing.T) {
	r := newEngine(RateLimitPerIP(0.001, 1, time.Minute))
	from := func(addr string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/ok", nil)
		req.RemoteAddr = addr
		return req
	}

	assert.Equal(t, http.StatusOK, serve(r, from("10.0.0.1:1000")).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, from("10.0.0.1:1001")).Code)
	assert.Equal(t, http.StatusOK, serve(r, from("10.0.0.2:1000")).Code)
}

func TestMaxBodyBytes(t *testing.T) {
	r := newEngine(MaxBodyBytes(16))

	w := serve(r, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"a":"b"}`)))
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(r, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"a":"`+strings.Repeat("x", 64)+`"}`)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, resp.MsgTooLarge, decode(t, w).Message)
}

func TestTimeout(t *testing.T) {
	r := newEngine(Timeout(20 * time.Millisecond))
	r.GET("/slow", func(c *gin.Context) {
		<-c.Request.Context().Done()
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/slow", nil))
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Equal(t, resp.MsgTimeout, decode(t, w).Message)
}

func TestConcurrencyLimitAbortsWhenContextDone(t *testing.T) {
	r := newEngine(ConcurrencyLimit(1))
	hold := make(chan struct{})
	entered := make(chan struct{})
	r.GET("/hold", func(c *gin.Context) {
		close(entered)
		<-hold
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		serve(r, httptest.NewRequest(http.MethodGet, "/hold", nil))
	}()
	<-entered

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	w := serve(r, httptest.NewRequest(http.MethodGet, "/ok", nil).WithContext(ctx))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	close(hold)
	<-done
}

func TestRecoveryAndNotFound(t *testing.T) {
	r := newEngine(Recovery(zap.NewNop()))
	r.NoRoute(NotFound())
	r.GET("/panic", func(*gin.Context) { panic("boom") })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, resp.MsgInternal, decode(t, w).Message)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, resp.MsgRouteNotFound, decode(t, w).Message)
}

func TestAccessLogMasksSecrets(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	r := newEngine(RequestID(), AccessLog(zap.New(core)))

	serve(r, httptest.NewRequest(http.MethodGet, "/ok?password=hunter2&page=1", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/missing", nil))

	entries := logs.All()
	require.Len(t, entries, 2)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "/ok", ctx["path"])
	assert.EqualValues(t, 200, ctx["status"])
	assert.NotEmpty(t, ctx["rid"])
	assert.Equal(t, map[string][]string{"password": {"****"}, "page": {"1"}}, ctx["query"])
	assert.Equal(t, zap.WarnLevel, entries[1].Level)
}

func TestMask(t *testing.T) {
	got := mask(map[string][]string{"Password": {"x"}, "q": {"tent"}})
	assert.Equal(t, []string{"****"}, got["Password"])
	assert.Equal(t, []string{"tent"}, got["q"])
}
