package http

import (
	"net/http"

	"springboard/internal/core/domain"
	"springboard/internal/infrastructure/groupwatch"

	"github.com/gin-gonic/gin"
)

type RoomHandler struct {
	hub *groupwatch.Hub
}

func NewRoomHandler(hub *groupwatch.Hub) *RoomHandler {
	return &RoomHandler{hub: hub}
}

func (h *RoomHandler) SetupRoutes(api *gin.RouterGroup) {
	api.GET("/rooms/:room/ws", h.JoinRoomSocket)
	api.GET("/rooms/:room/members", h.MemberCount)
}

// JoinRoomSocket upgrades to a websocket for a room the caller was already
// admitted to during session activation.
func (h *RoomHandler) JoinRoomSocket(c *gin.Context) {
	identity := identityFrom(c)
	if identity.UserID == "" || identity.UserID == domain.UnknownUser {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	room := domain.MediaID(c.Param("room"))
	h.hub.HandleWebSocket(c.Writer, c.Request, identity.UserID, room)
}

func (h *RoomHandler) MemberCount(c *gin.Context) {
	room := domain.MediaID(c.Param("room"))
	c.JSON(http.StatusOK, gin.H{
		"room":    room,
		"members": h.hub.MemberCount(room),
	})
}
