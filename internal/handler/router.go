package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"hotel-booking/internal/domain/event"
	"hotel-booking/internal/handler/api"
	reqdto "hotel-booking/internal/handler/dto/request"
	"hotel-booking/internal/handler/middleware"
	"hotel-booking/internal/handler/stream"
	"hotel-booking/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
}

type Handlers struct {
	Auth    *api.AuthHandler
	Room    *api.RoomHandler
	Booking *api.BookingHandler
	Health  *api.HealthHandler
	Stream  *stream.Handler
}

func NewHandlers(
	auth *api.AuthHandler,
	room *api.RoomHandler,
	booking *api.BookingHandler,
	health *api.HealthHandler,
	streamHandler *stream.Handler,
) Handlers {
	return Handlers{Auth: auth, Room: room, Booking: booking, Health: health, Stream: streamHandler}
}

func NewRouter(engine *gin.Engine, cfg config.Config, logger *slog.Logger, h Handlers, authMiddleware *middleware.AuthMiddleware) error {
	if err := reqdto.RegisterValidations(); err != nil {
		return err
	}
	setupMiddleware(engine, cfg, logger)
	setupRoutes(engine, h, authMiddleware)
	return nil
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *slog.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(logger, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", h.Health.Liveness)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		addRoutes(apiGroup, []route{
			{Method: http.MethodGet, Path: "/rooms", Handler: h.Room.List},
			{Method: http.MethodGet, Path: "/rooms/:id", Handler: h.Room.Get},
			{Method: http.MethodPost, Path: "/bookings", Handler: h.Booking.Reserve},
			{Method: http.MethodGet, Path: "/stream/ws", Handler: h.Stream.WebSocket(event.AudiencePublic)},
			{Method: http.MethodGet, Path: "/stream/sse", Handler: h.Stream.SSE(event.AudiencePublic)},
		})

		admin := apiGroup.Group("/admin")
		{
			addRoutes(admin, []route{
				{Method: http.MethodPost, Path: "/login", Handler: h.Auth.Login},
				{Method: http.MethodPost, Path: "/logout", Handler: h.Auth.Logout},
			})

			authRequired := admin.Group("")
			authRequired.Use(authMiddleware.RequireAdmin())
			addRoutes(authRequired, []route{
				{Method: http.MethodGet, Path: "/health", Handler: h.Health.Report},
				{Method: http.MethodGet, Path: "/rooms", Handler: h.Room.AdminList},
				{Method: http.MethodPost, Path: "/rooms", Handler: h.Room.Create},
				{Method: http.MethodPatch, Path: "/rooms/:id", Handler: h.Room.Update},
				{Method: http.MethodDelete, Path: "/rooms/:id", Handler: h.Room.Delete},
				{Method: http.MethodPatch, Path: "/rooms/:id/maintenance", Handler: h.Room.SetMaintenance},
				{Method: http.MethodPost, Path: "/rooms/:id/unbook", Handler: h.Room.Unbook},
				{Method: http.MethodGet, Path: "/bookings", Handler: h.Booking.List},
				{Method: http.MethodDelete, Path: "/bookings/:id", Handler: h.Booking.Cancel},
				{Method: http.MethodPost, Path: "/reset", Handler: h.Room.Reset},
				{Method: http.MethodGet, Path: "/stream/ws", Handler: h.Stream.WebSocket(event.AudienceAdmin)},
				{Method: http.MethodGet, Path: "/stream/sse", Handler: h.Stream.SSE(event.AudienceAdmin)},
			})
		}
	}
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}
