package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gocomet/ride-booking/internal/api/middleware"
	apperrors "github.com/gocomet/ride-booking/pkg/errors"
	"github.com/gocomet/ride-booking/pkg/logger"
	ws "github.com/gocomet/ride-booking/pkg/websocket"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWebSocket handles GET /api/v1/ws and upgrades the connection for
// ride lifecycle notifications.
func (h *Handlers) HandleWebSocket(c *gin.Context) {
	callerID, callerRole, ok := middleware.Caller(c)
	if !ok {
		h.respondError(c, apperrors.Authorization("Caller identity missing", nil))
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Logger.Error("WebSocket upgrade failed", logger.Err(err))
		return
	}

	client := ws.NewClient(h.Hub, conn, callerID.String(), string(callerRole), h.Logger)
	h.Hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
