package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestIPRateLimiter_PerIP(t *testing.T) {
	l := NewIPRateLimiter(0.001, 2)
	assert.True(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.2"))
}

func TestIPRateLimiter_PeriodicReset(t *testing.T) {
	l := NewIPRateLimiter(0.001, 1)
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	l.lastReset = now

	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))

	now = now.Add(2 * time.Hour)
	assert.True(t, l.Allow("10.0.0.1"))
}

func TestIPRateLimiter_Middleware(t *testing.T) {
	e := echo.New()
	l := NewIPRateLimiter(0.001, 1)
	e.POST("/api/chat", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, l.Middleware())

	hit := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
		req.Header.Set(echo.HeaderXRealIP, ip)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}
	assert.Equal(t, http.StatusOK, hit("1.2.3.4"))
	assert.Equal(t, http.StatusTooManyRequests, hit("1.2.3.4"))
	assert.Equal(t, http.StatusOK, hit("5.6.7.8"))
}
