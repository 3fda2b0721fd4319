package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func do(r http.Handler, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_PerIP(t *testing.T) {
	r := gin.New()
	r.Use(NewRateLimiter(2, nil).Middleware())
	r.POST("/x", func(c *gin.Context) { c.Status(http.StatusCreated) })

	alice := map[string]string{"X-Forwarded-For": "10.0.0.1, 172.16.0.1"}
	bob := map[string]string{"X-Real-IP": "10.0.0.2"}

	assert.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/x", alice).Code)
	assert.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/x", alice).Code)

	w := do(r, http.MethodPost, "/x", alice)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "rate_limited")

	assert.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/x", bob).Code)
}

func (l *RateLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

func TestRateLimiter_DropsIdleClients(t *testing.T) {
	clock := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	l := NewRateLimiter(1, nil)
	l.now = func() time.Time { return clock }
	l.lastSweep = clock

	r := gin.New()
	r.Use(l.Middleware())
	r.POST("/x", func(c *gin.Context) { c.Status(http.StatusCreated) })

	for i := 1; i <= 50; i++ {
		ip := map[string]string{"X-Real-IP": fmt.Sprintf("10.0.1.%d", i)}
		assert.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/x", ip).Code)
	}
	assert.Equal(t, 50, l.size())

	clock = clock.Add(4 * time.Minute)
	regular := map[string]string{"X-Real-IP": "10.0.0.9"}
	assert.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/x", regular).Code)
	assert.Equal(t, 51, l.size())

	clock = clock.Add(time.Minute)
	assert.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/x", regular).Code)
	assert.Equal(t, 1, l.size())
}

func TestCORS_Preflight(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := do(r, http.MethodOptions, "/x", map[string]string{"Origin": "http://grid.local"})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://grid.local", w.Header().Get("Access-Control-Allow-Origin"))

	w = do(r, http.MethodGet, "/x", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	r := gin.New()
	r.Use(RequestLogger(zap.New(core)))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	do(r, http.MethodGet, "/ok", nil)
	do(r, http.MethodGet, "/missing", nil)

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, zap.InfoLevel, entries[0].Level)
		assert.Equal(t, zap.WarnLevel, entries[1].Level)
		assert.EqualValues(t, http.StatusNotFound, entries[1].ContextMap()["status"])
	}
}
