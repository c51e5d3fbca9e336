//go:build unit

package middleware_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"hotel-booking/internal/handler/middleware"
	"hotel-booking/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoggedEngine(buf *bytes.Buffer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	engine := gin.New()
	engine.Use(middleware.LoggingMiddleware(logger, config.NewTestConfig().Log))
	engine.GET("/api/rooms", func(c *gin.Context) {
		c.String(http.StatusOK, middleware.GetRequestID(c))
	})
	engine.GET("/api/stream/sse", func(c *gin.Context) { c.Status(http.StatusOK) })
	engine.GET("/fail", func(c *gin.Context) { c.Status(http.StatusServiceUnavailable) })
	return engine
}

func TestLoggingMiddleware_RequestID(t *testing.T) {
	tests := []struct {
		name     string
		inbound  string
		wantSame bool
	}{
		{name: "受け取ったIDを引き継ぐ", inbound: "abc-123", wantSame: true},
		{name: "IDなしは採番する", inbound: "", wantSame: false},
		{name: "不正なIDは採番し直す", inbound: "bad id\n", wantSame: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			engine := newLoggedEngine(&buf)

			req := httptest.NewRequest(http.MethodGet, "/api/rooms", nil)
			if tt.inbound != "" {
				req.Header.Set(middleware.RequestIDHeader, tt.inbound)
			}
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)

			got := rec.Header().Get(middleware.RequestIDHeader)
			require.NotEmpty(t, got)
			assert.Equal(t, got, rec.Body.String())
			if tt.wantSame {
				assert.Equal(t, tt.inbound, got)
			} else {
				assert.NotEqual(t, tt.inbound, got)
			}
			assert.Contains(t, buf.String(), "request_id="+got)
		})
	}
}

func TestLoggingMiddleware_Messages(t *testing.T) {
	t.Run("ストリームは開始と終了を記録する", func(t *testing.T) {
		var buf bytes.Buffer
		engine := newLoggedEngine(&buf)
		engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/stream/sse", nil))

		assert.Contains(t, buf.String(), `msg="Stream opened"`)
		assert.Contains(t, buf.String(), `msg="Stream closed"`)
	})

	t.Run("5xxはERRORで記録する", func(t *testing.T) {
		var buf bytes.Buffer
		engine := newLoggedEngine(&buf)
		engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fail", nil))

		assert.Contains(t, buf.String(), "level=ERROR")
		assert.Contains(t, buf.String(), "status_code=503")
	})
}
