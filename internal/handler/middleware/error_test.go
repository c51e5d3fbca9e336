//go:build unit

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"syscall"
	"testing"

	"hotel-booking/internal/handler/httperr"
	"hotel-booking/internal/handler/middleware"
	"hotel-booking/internal/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newErrorEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(middleware.CustomRecovery(), middleware.ErrorHandler())
	engine.GET("/panic", func(c *gin.Context) { panic("boom") })
	engine.GET("/pipe", func(c *gin.Context) { panic(error(syscall.EPIPE)) })
	engine.GET("/missing", func(c *gin.Context) {
		httperr.AbortWithUsecaseError(c, errs.ErrRoomNotFound)
	})
	engine.GET("/silent", func(c *gin.Context) {
		_ = c.Error(errs.New("dropped"))
	})
	return engine
}

func TestCustomRecovery(t *testing.T) {
	engine := newErrorEngine()

	t.Run("panicは500のJSON", func(t *testing.T) {
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":{"message":"Internal server error"}}`, rec.Body.String())
	})

	t.Run("切断されたクライアントには何も書かない", func(t *testing.T) {
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pipe", nil))

		assert.Empty(t, rec.Body.String())
	})
}

func TestErrorHandler(t *testing.T) {
	engine := newErrorEngine()

	t.Run("分類済みのエラーはそのまま返す", func(t *testing.T) {
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":{"message":"Room not found"}}`, rec.Body.String())
	})

	t.Run("未応答のエラーは500", func(t *testing.T) {
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/silent", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":{"message":"Internal server error"}}`, rec.Body.String())
	})
}
