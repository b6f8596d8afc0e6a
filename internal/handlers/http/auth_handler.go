package http

import (
	"net/http"

	"springboard/internal/core/domain"
	"springboard/internal/core/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth services.AuthService
}

func NewAuthHandler(auth services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) SetupRoutes(api *gin.RouterGroup) {
	api.POST("/auth/guest", h.SignInGuest)
	api.POST("/auth/refresh", h.Refresh)
	api.POST("/auth/signout", h.SignOut)
}

// SignInGuest mints an ephemeral guest identity, the same kind frame
// activation creates implicitly.
func (h *AuthHandler) SignInGuest(c *gin.Context) {
	identity, err := h.auth.SignAsGuest(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user_id": identity.UserID,
		"role":    identity.Role,
		"token":   identity.Session,
	})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	identity := identityFrom(c)
	if identity.UserID == "" || identity.UserID == domain.UnknownUser {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	token, err := h.auth.GenerateToken(identity.UserID, identity.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *AuthHandler) SignOut(c *gin.Context) {
	identity := identityFrom(c)
	if identity.UserID == "" || identity.UserID == domain.UnknownUser {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	if err := h.auth.SignOut(c.Request.Context(), identity); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}
