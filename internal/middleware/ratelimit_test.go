package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func newLimitedEngine(cfg RateLimiterConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(NewRateLimiter(cfg).RateLimit())
	engine.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return engine
}

func pingFrom(engine *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRateLimitPerClient(t *testing.T) {
	engine := newLimitedEngine(RateLimiterConfig{Rate: rate.Limit(1), Burst: 2})

	// Client A burns through its burst.
	require.Equal(t, http.StatusOK, pingFrom(engine, "10.0.0.1:1111").Code)
	require.Equal(t, http.StatusOK, pingFrom(engine, "10.0.0.1:1111").Code)
	require.Equal(t, http.StatusTooManyRequests, pingFrom(engine, "10.0.0.1:1111").Code)

	// Client B has its own bucket and is unaffected.
	assert.Equal(t, http.StatusOK, pingFrom(engine, "10.0.0.2:2222").Code)
}

func TestRateLimitRejectionBody(t *testing.T) {
	engine := newLimitedEngine(RateLimiterConfig{Rate: rate.Limit(1), Burst: 1})

	require.Equal(t, http.StatusOK, pingFrom(engine, "10.0.0.3:3333").Code)

	w := pingFrom(engine, "10.0.0.3:3333")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"rate limit exceeded"}`, w.Body.String())
}
