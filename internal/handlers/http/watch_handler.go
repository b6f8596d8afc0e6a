package http

import (
	"errors"
	"net/http"
	"time"

	"springboard/internal/core/domain"
	"springboard/internal/core/ports"
	"springboard/internal/core/services"
	"springboard/internal/infrastructure/monitoring"
	"springboard/pkg/validation"

	"github.com/gin-gonic/gin"
)

// RoomRegistry is the part of the room hub the handler needs: opening a
// room the first time a room key resolves.
type RoomRegistry interface {
	RegisterRoom(room domain.MediaID, auth string)
}

type WatchHandler struct {
	playback  ports.PlaybackService
	lifecycle *services.LifecycleController
	flags     *services.StreamingFlags
	rooms     RoomRegistry
	metrics   *monitoring.PrometheusCollector
}

func NewWatchHandler(
	playback ports.PlaybackService,
	lifecycle *services.LifecycleController,
	flags *services.StreamingFlags,
	rooms RoomRegistry,
	metrics *monitoring.PrometheusCollector,
) *WatchHandler {
	return &WatchHandler{
		playback:  playback,
		lifecycle: lifecycle,
		flags:     flags,
		rooms:     rooms,
		metrics:   metrics,
	}
}

func (h *WatchHandler) SetupRoutes(api *gin.RouterGroup) {
	api.GET("/watch", h.ResolveWatch)
	api.GET("/watch/streaming", h.AlreadyStreaming)
	api.POST("/watch/sessions", h.StartSession)
	api.GET("/watch/sessions/:id", h.GetSession)
	api.DELETE("/watch/sessions/:id", h.EndSession)
}

func identityFrom(c *gin.Context) domain.UserIdentity {
	if v, exists := c.Get("identity"); exists {
		if identity, ok := v.(domain.UserIdentity); ok {
			return identity
		}
	}
	return domain.UserIdentity{UserID: domain.UnknownUser}
}

func resolutionParams(c *gin.Context) map[string]string {
	params := make(map[string]string)
	for _, name := range []string{"mediaId", "shuffleId", "identifier", "episodeId", "playlistId", "roomKey", "auth", "frame"} {
		if v := c.Query(name); v != "" {
			params[name] = v
		}
	}
	return params
}

// ResolveWatch resolves the request's identifiers into watch page props. A
// request that carries no usable identifier, or one the media collaborator
// cannot start, is indistinguishable from a missing page.
func (h *WatchHandler) ResolveWatch(c *gin.Context) {
	identity := identityFrom(c)

	req, err := services.ResolveRequest(resolutionParams(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if err := validation.ValidateToken(req.Token); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start := time.Now()
	session, err := h.playback.StartPlayback(c.Request.Context(), *req, identity.UserID, true)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	h.metrics.RecordResolution(req.Key, time.Since(start))

	// Position is kept unless the caller explicitly asks for a restart.
	resetPosition := c.Query("resetPosition") == "true"
	props := h.playback.BuildProps(*req, session, resetPosition)
	c.JSON(http.StatusOK, props)
}

// AlreadyStreaming reports whether another session of this user is emitting
// streaming beacons right now.
func (h *WatchHandler) AlreadyStreaming(c *gin.Context) {
	identity := identityFrom(c)
	c.JSON(http.StatusOK, gin.H{
		"streaming": h.flags.For(identity.UserID).Raised(),
	})
}

// StartSession activates a watch session from resolved identifiers. When
// replaces names a still-active session its teardown completes before the
// new activation begins.
func (h *WatchHandler) StartSession(c *gin.Context) {
	var req struct {
		Params   map[string]string `json:"params" binding:"required"`
		Replaces domain.SessionID  `json:"replaces"`
	}

	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	identity := identityFrom(c)

	resolved, err := services.ResolveRequest(req.Params)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if err := validation.ValidateToken(resolved.Token); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start := time.Now()
	media, err := h.playback.StartPlayback(c.Request.Context(), *resolved, identity.UserID, false)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	h.metrics.RecordResolution(resolved.Key, time.Since(start))

	var room *domain.RoomRef
	if resolved.Key == domain.KeyRoom {
		room = &domain.RoomRef{ID: media.MediaID, Auth: resolved.Token}
		h.rooms.RegisterRoom(room.ID, room.Auth)
	}

	session, err := h.lifecycle.Start(c.Request.Context(), media, room, identity, req.Replaces)
	if err != nil {
		if errors.Is(err, domain.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.metrics.RecordSessionStarted()
	if session.User().IsGuest() && !identity.IsGuest() {
		h.metrics.RecordGuestSignIn()
	}

	c.JSON(http.StatusCreated, gin.H{
		"session_id":         session.ID,
		"state":              session.State().String(),
		"user_id":            session.User().UserID,
		"canonical_location": session.CanonicalLocation(),
	})
}

func (h *WatchHandler) GetSession(c *gin.Context) {
	id := domain.SessionID(c.Param("id"))

	session, ok := h.lifecycle.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id":         session.ID,
		"state":              session.State().String(),
		"user_id":            session.User().UserID,
		"canonical_location": session.CanonicalLocation(),
		"started_at":         session.StartedAt(),
		"alreadyStreaming":   h.flags.For(session.User().UserID).OtherThan(session.ID),
	})
}

// EndSession tears a session down. Ending an unknown or already ended
// session succeeds; teardown is idempotent.
func (h *WatchHandler) EndSession(c *gin.Context) {
	id := domain.SessionID(c.Param("id"))

	if session, ok := h.lifecycle.Get(id); ok {
		defer h.metrics.RecordSessionEnded(session.StartedAt())
	}
	h.lifecycle.CloseSession(c.Request.Context(), id)

	c.Status(http.StatusNoContent)
}
