// Package stream pushes room events to browsers over WebSocket, with SSE as a fallback.
//
// Every connection starts with a snapshot of all rooms for its audience, tagged
// with the sequence number the subscription started at. Events with a higher seq
// follow in publication order. A subscriber that falls behind is closed with
// reason "lagging" and is expected to reconnect, which yields a fresh snapshot.
package stream

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"hotel-booking/internal/domain/event"
	resdto "hotel-booking/internal/handler/dto/response"
	"hotel-booking/internal/handler/httperr"
	"hotel-booking/internal/handler/middleware"
	"hotel-booking/internal/infra/broadcast"
	"hotel-booking/internal/pkg/config"
	"hotel-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	TypeSnapshot = "snapshot"
	TypeClose    = "close"
	TypePing     = "ping"

	maxInboundMessage = 512
)

type SnapshotMessage struct {
	Type  string                 `json:"type"`
	Seq   uint64                 `json:"seq"`
	Rooms []*resdto.RoomResponse `json:"rooms"`
}

type CloseMessage struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

type Handler struct {
	broadcaster *broadcast.Broadcaster
	rooms       queries.RoomQueries
	cfg         config.BroadcastConfig
	upgrader    websocket.Upgrader
	logger      *slog.Logger
}

func NewHandler(b *broadcast.Broadcaster, rooms queries.RoomQueries, cfg config.Config, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	corsCfg := cfg.CORS
	return &Handler{
		broadcaster: b,
		rooms:       rooms,
		cfg:         cfg.Broadcast,
		logger:      logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return middleware.AllowsOrigin(corsCfg, r.Header.Get("Origin"))
			},
		},
	}
}

// open subscribes before reading the snapshot, so nothing committed in between is missed.
func (h *Handler) open(ctx context.Context, audience event.Audience) (*broadcast.Subscription, *SnapshotMessage, error) {
	sub, err := h.broadcaster.Subscribe(audience)
	if err != nil {
		return nil, nil, err
	}
	views, err := h.rooms.ListRooms(ctx, audience)
	if err != nil {
		sub.Close()
		return nil, nil, err
	}
	list, err := resdto.FromRoomViews(views)
	if err != nil {
		sub.Close()
		return nil, nil, err
	}
	return sub, &SnapshotMessage{Type: TypeSnapshot, Seq: sub.StartSeq(), Rooms: list.Rooms}, nil
}

func (h *Handler) abortOpen(c *gin.Context, err error) {
	if errors.Is(err, broadcast.ErrClosed) {
		httperr.AbortWithError(c, http.StatusServiceUnavailable, err, "Stream unavailable", nil)
		return
	}
	httperr.AbortWithUsecaseError(c, err)
}

// @Summary Room event stream (WebSocket)
// @Description Snapshot message first, then one JSON message per room event
// @Tags stream
// @Router /api/stream/ws [get]
func (h *Handler) WebSocket(audience event.Audience) gin.HandlerFunc {
	return func(c *gin.Context) {
		sub, snapshot, err := h.open(c.Request.Context(), audience)
		if err != nil {
			h.abortOpen(c, err)
			return
		}
		conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// the upgrader has already replied
			sub.Close()
			h.logger.Warn("websocket upgrade failed", "error", err.Error())
			return
		}
		h.serveWebSocket(conn, sub, snapshot)
	}
}

func (h *Handler) serveWebSocket(conn *websocket.Conn, sub *broadcast.Subscription, snapshot *SnapshotMessage) {
	defer conn.Close()
	defer sub.Close()

	pongWait := 2 * h.cfg.PingInterval
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		conn.SetReadLimit(maxInboundMessage)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := h.writeJSON(conn, snapshot); err != nil {
		return
	}

	ticker := time.NewTicker(h.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case e, ok := <-sub.Events():
			if !ok {
				h.closeWebSocket(conn, sub.Reason())
				return
			}
			if err := h.writeJSON(conn, e); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-gone:
			return
		}
	}
}

func (h *Handler) writeJSON(conn *websocket.Conn, v any) error {
	_ = conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteTimeout))
	return conn.WriteJSON(v)
}

func (h *Handler) closeWebSocket(conn *websocket.Conn, reason broadcast.CloseReason) {
	_ = h.writeJSON(conn, CloseMessage{Type: TypeClose, Reason: string(reason)})

	code := websocket.CloseNormalClosure
	switch reason {
	case broadcast.ReasonLagging:
		code = websocket.CloseTryAgainLater
	case broadcast.ReasonShutdown:
		code = websocket.CloseGoingAway
	}
	msg := websocket.FormatCloseMessage(code, string(reason))
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(h.cfg.WriteTimeout))
}

// @Summary Room event stream (SSE)
// @Description Same messages as the WebSocket stream; the SSE event name is the message type
// @Tags stream
// @Produce text/event-stream
// @Router /api/stream/sse [get]
func (h *Handler) SSE(audience event.Audience) gin.HandlerFunc {
	return func(c *gin.Context) {
		sub, snapshot, err := h.open(c.Request.Context(), audience)
		if err != nil {
			h.abortOpen(c, err)
			return
		}
		defer sub.Close()

		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Header("X-Accel-Buffering", "no")

		c.SSEvent(TypeSnapshot, snapshot)
		c.Writer.Flush()

		ticker := time.NewTicker(h.cfg.PingInterval)
		defer ticker.Stop()
		ctx := c.Request.Context()

		for {
			select {
			case e, ok := <-sub.Events():
				if !ok {
					c.SSEvent(TypeClose, CloseMessage{Type: TypeClose, Reason: string(sub.Reason())})
					c.Writer.Flush()
					return
				}
				c.SSEvent(e.Kind.String(), e)
				c.Writer.Flush()
			case t := <-ticker.C:
				c.SSEvent(TypePing, gin.H{"type": TypePing, "at": t.UTC()})
				c.Writer.Flush()
			case <-ctx.Done():
				return
			}
		}
	}
}
