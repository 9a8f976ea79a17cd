package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"aarvi-backend/internal/push/repository"
)

// PushHandler handles device subscription HTTP requests
type PushHandler struct {
	subs repository.SubscriptionRepository
}

// NewPushHandler creates a new PushHandler
func NewPushHandler(subs repository.SubscriptionRepository) *PushHandler {
	return &PushHandler{
		subs: subs,
	}
}

// RegisterRequest represents the request body for registering a device
type RegisterRequest struct {
	Token      string `json:"token" binding:"required"`
	DeviceInfo string `json:"device_info"`
}

// Register stores a device subscription for the authenticated user
// POST /api/push/register
func (h *PushHandler) Register(c *gin.Context) {
	userID := c.GetString("userID")

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.subs.Save(userID, req.Token, req.DeviceInfo); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Unregister removes a device subscription
// DELETE /api/push/:token
func (h *PushHandler) Unregister(c *gin.Context) {
	token := c.Param("token")

	if err := h.subs.DeleteToken(token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
