package middleware

import (
	"errors"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"syscall"

	"hotel-booking/internal/handler/httperr"
	"hotel-booking/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

const maxStackLines = 12

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		logServerErrors(c)

		if c.Writer.Written() {
			return
		}
		// Search backward through the error stack
		for i := len(c.Errors) - 1; i >= 0; i-- {
			err := c.Errors[i]

			if err.IsType(gin.ErrorTypePublic) {
				// Public: Meta ⇒ Return as is
				if resp, ok := err.Meta.(httperr.Response); ok {
					c.JSON(resp.Status, resp)
					return
				}
			}
		}
		if status := c.Writer.Status(); status != http.StatusOK {
			c.Status(status)
			c.Writer.WriteHeaderNow()
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Internal server error"}})
	}
}

// 5xx responses hide the cause from the client, so the stack goes to the log
func logServerErrors(c *gin.Context) {
	for _, ge := range c.Errors {
		resp, ok := ge.Meta.(httperr.Response)
		if !ok || resp.Status < http.StatusInternalServerError {
			continue
		}
		slog.Error("request failed",
			"request_id", GetRequestID(c),
			"path", c.Request.URL.Path,
			"status", resp.Status,
			"error", ge.Err.Error(),
			"stack", errs.ExtractStackLines(ge.Err, maxStackLines),
		)
	}
}

// CustomRecovery turns a panic into a 500. A panic caused by a client that
// hung up mid-response (common on long-lived streams) is logged and dropped,
// as nothing can be written back anyway.
func CustomRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if isBrokenConnection(rec) {
				slog.Debug("client connection lost", "request_id", GetRequestID(c), "path", c.Request.URL.Path)
				c.Abort()
				return
			}

			slog.Error("recovered from panic",
				"request_id", GetRequestID(c),
				"path", c.Request.URL.Path,
				"error", rec,
				"stack", strings.Split(strings.TrimSpace(string(debug.Stack())), "\n"),
			)
			resp := httperr.Response{Status: http.StatusInternalServerError}
			resp.Error.Message = "Internal server error"
			c.AbortWithStatusJSON(http.StatusInternalServerError, resp)
		}()
		c.Next()
	}
}

func isBrokenConnection(rec any) bool {
	err, ok := rec.(error)
	if !ok {
		return false
	}
	if errors.Is(err, syscall.EPIPE) || errors.Is(err, syscall.ECONNRESET) || errors.Is(err, http.ErrAbortHandler) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}
