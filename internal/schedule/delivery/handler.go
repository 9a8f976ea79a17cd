package delivery

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"aarvi-backend/internal/schedule/usecase"
)

// ScheduleHandler handles scheduling HTTP requests
type ScheduleHandler struct {
	scheduleUsecase usecase.ScheduleUsecase
}

// NewScheduleHandler creates a new ScheduleHandler
func NewScheduleHandler(scheduleUsecase usecase.ScheduleUsecase) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleUsecase: scheduleUsecase,
	}
}

// ScheduleRequest represents the request body for analyzing a message
type ScheduleRequest struct {
	Text string `json:"text" binding:"required"`
}

// Analyze runs the analyzer over a message and enqueues any implied action
// POST /api/schedule
func (h *ScheduleHandler) Analyze(c *gin.Context) {
	userID := c.GetString("userID")

	var req ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, scheduled, err := h.scheduleUsecase.AnalyzeAndSchedule(userID, req.Text, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	status := "ignored"
	if scheduled {
		status = "scheduled"
	}
	c.JSON(http.StatusOK, gin.H{"status": status, "analysis": res})
}

// List returns the user's scheduled messages
// GET /api/schedule
func (h *ScheduleHandler) List(c *gin.Context) {
	userID := c.GetString("userID")

	msgs, err := h.scheduleUsecase.GetUserMessages(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// Cancel cancels a pending scheduled message
// DELETE /api/schedule/:id
func (h *ScheduleHandler) Cancel(c *gin.Context) {
	userID := c.GetString("userID")
	id := c.Param("id")

	if err := h.scheduleUsecase.Cancel(userID, id); err != nil {
		if err.Error() == "scheduled message not found" {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		if err.Error() == "unauthorized" {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
