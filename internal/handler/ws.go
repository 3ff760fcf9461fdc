package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/Manh-Duc-NT/GoRide/internal/realtime"
)

// WSHandler upgrades subscription requests and registers them with the
// realtime hub.
type WSHandler struct {
	hub      *realtime.Hub
	upgrader websocket.Upgrader
	log      *logrus.Logger
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(hub *realtime.Hub, log *logrus.Logger) *WSHandler {
	return &WSHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		log: log,
	}
}

// Subscribe handles GET /v1/ws/:role/:id
//
// The connection is held open for pushes only; anything the client
// sends is discarded. The read loop exists to detect disconnects.
func (h *WSHandler) Subscribe(c *gin.Context) {
	role := c.Param("role")
	id := c.Param("id")
	if id == "" || (role != "customer" && role != "driver") {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid subscription target"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	if role == "customer" {
		h.hub.RegisterCustomer(id, conn)
	} else {
		h.hub.RegisterDriver(id, conn)
	}

	go func() {
		defer func() {
			if role == "customer" {
				h.hub.UnregisterCustomer(id, conn)
			} else {
				h.hub.UnregisterDriver(id, conn)
			}
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
