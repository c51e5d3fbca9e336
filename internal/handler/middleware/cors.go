package middleware

import (
	"log/slog"

	"hotel-booking/internal/pkg/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

const wildcardOrigin = "*"

func NewCORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowMethods:     cfg.AllowMethods,
		AllowHeaders:     cfg.AllowHeaders,
		ExposeHeaders:    cfg.ExposeHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
		// EventSource and WebSocket handshakes go through the same origin rule
		AllowWebSockets: true,
	}
	switch {
	case len(cfg.AllowOrigins) == 0:
		// no cross-origin access; cors.New panics on an empty list
		corsCfg.AllowOriginFunc = func(string) bool { return false }
	case lo.Contains(cfg.AllowOrigins, wildcardOrigin):
		// credentials cannot be combined with "*", so echo the request origin instead
		corsCfg.AllowOriginFunc = func(string) bool { return true }
	default:
		corsCfg.AllowOrigins = cfg.AllowOrigins
	}
	slog.Info("CORS middleware initialized", "AllowOrigins", cfg.AllowOrigins)
	return cors.New(corsCfg)
}

// AllowsOrigin applies the CORS origin list to a handshake that bypasses the
// CORS middleware. Requests without an Origin header are not cross-site.
func AllowsOrigin(cfg config.CORSConfig, origin string) bool {
	if origin == "" {
		return true
	}
	return lo.Contains(cfg.AllowOrigins, wildcardOrigin) || lo.Contains(cfg.AllowOrigins, origin)
}
