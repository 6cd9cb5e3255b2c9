package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/gridtalk/gridtalk/internal/middleware"
	"github.com/gridtalk/gridtalk/internal/ws"
	"github.com/gridtalk/gridtalk/pkg/logger"
)

type WSHandler struct {
	hub        *ws.Hub
	dispatcher *ws.Dispatcher
	jwtSecret  string
	upgrader   websocket.Upgrader
}

func NewWSHandler(hub *ws.Hub, dispatcher *ws.Dispatcher, jwtSecret string) *WSHandler {
	return &WSHandler{
		hub:        hub,
		dispatcher: dispatcher,
		jwtSecret:  jwtSecret,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins for now
			},
		},
	}
}

// HandleWebSocket performs the push-channel handshake. The bearer credential
// travels in the "token" query parameter; the connection is closed with 4001
// (missing) or 4002 (invalid) before any frame is processed when it doesn't
// validate.
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.S.Warnw("websocket upgrade failed", "err", err)
		return
	}

	token := c.Query("token")
	if token == "" {
		closeWithCode(conn, ws.CloseMissingCredentials, "missing credentials")
		return
	}

	userID, err := middleware.ParseUserID(token, h.jwtSecret)
	if err != nil {
		closeWithCode(conn, ws.CloseInvalidCredentials, "invalid credentials")
		return
	}

	h.hub.ServeSession(conn, userID, h.dispatcher)
}

func closeWithCode(conn *websocket.Conn, code int, reason string) {
	deadline := time.Now().Add(time.Second)
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), deadline)
	_ = conn.Close()
}
