//go:build unit

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"hotel-booking/internal/handler/middleware"
	"hotel-booking/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowsOrigin(t *testing.T) {
	listed := config.CORSConfig{AllowOrigins: []string{"http://localhost:3000"}}
	wildcard := config.CORSConfig{AllowOrigins: []string{"*"}}

	tests := []struct {
		name   string
		cfg    config.CORSConfig
		origin string
		want   bool
	}{
		{name: "Originなし", cfg: listed, origin: "", want: true},
		{name: "許可リストにある", cfg: listed, origin: "http://localhost:3000", want: true},
		{name: "許可リストにない", cfg: listed, origin: "http://evil.example", want: false},
		{name: "ワイルドカード", cfg: wildcard, origin: "http://anything.example", want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, middleware.AllowsOrigin(tt.cfg, tt.origin))
		})
	}
}

func TestNewCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := config.NewTestConfig().CORS
	cfg.AllowOrigins = []string{"http://localhost:3000"}
	cfg.AllowMethods = []string{"GET"}
	cfg.AllowCredentials = true

	engine := gin.New()
	engine.Use(middleware.NewCORSMiddleware(cfg))
	engine.GET("/api/rooms", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("許可されたオリジンにはヘッダを返す", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/rooms", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("未知のオリジンは拒否", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/rooms", nil)
		req.Header.Set("Origin", "http://evil.example")
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestNewCORSMiddleware_EmptyOrigins(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := config.NewTestConfig().CORS
	cfg.AllowOrigins = nil

	var handler gin.HandlerFunc
	require.NotPanics(t, func() { handler = middleware.NewCORSMiddleware(cfg) })

	engine := gin.New()
	engine.Use(handler)
	engine.GET("/api/rooms", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("同一オリジンのリクエストは通す", func(t *testing.T) {
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/rooms", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("クロスオリジンは全て拒否", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/rooms", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})
}
