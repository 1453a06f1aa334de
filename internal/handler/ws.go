package handler

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"stockwatch/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// wsConn adapts a gorilla connection to the registry's Conn interface.
// gorilla allows only one concurrent writer, so writes are serialized here —
// broadcast and the per-connection echo loop may race otherwise.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) WriteJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// Close sends a policy-violation close frame before tearing the socket down.
// The only server-initiated closes are credential rejections and already-dead
// connections, so the code is accurate in the first case and moot in the
// second.
func (c *wsConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, ""),
		time.Now().Add(time.Second),
	)
	return c.conn.Close()
}

// WSHandler upgrades HTTP requests to websocket connections and hands them
// to the registry.
type WSHandler struct {
	registry *ws.Registry
	upgrader websocket.Upgrader
}

func NewWSHandler(registry *ws.Registry) *WSHandler {
	return &WSHandler{
		registry: registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Handle authenticates via the token query param, registers the connection,
// and echoes client text frames until the peer goes away.
func (h *WSHandler) Handle(c *gin.Context) {
	raw, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("ws: upgrade failed")
		return
	}
	conn := &wsConn{conn: raw}

	email, err := h.registry.Connect(c.Request.Context(), c.Query("token"), conn)
	if err != nil {
		// The registry already sent the error frame and closed the socket.
		log.Warn().Err(err).Msg("ws: connection rejected")
		return
	}
	defer h.registry.Disconnect(email)

	for {
		msgType, data, err := raw.ReadMessage()
		if err != nil {
			return
		}
		if msgType == websocket.TextMessage {
			_ = h.registry.SendTo(email, map[string]string{
				"message": fmt.Sprintf("You wrote: %s", data),
			})
		}
	}
}
