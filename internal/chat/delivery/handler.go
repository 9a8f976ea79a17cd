package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"aarvi-backend/internal/chat/usecase"
)

// ChatHandler handles chat-related HTTP requests
type ChatHandler struct {
	chatUsecase usecase.ChatUsecase
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(chatUsecase usecase.ChatUsecase) *ChatHandler {
	return &ChatHandler{
		chatUsecase: chatUsecase,
	}
}

// SendMessageRequest represents the request body for sending a chat message
type SendMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

// Send handles a live chat message
// POST /api/chat
func (h *ChatHandler) Send(c *gin.Context) {
	userID := c.GetString("userID")

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply, err := h.chatUsecase.Send(c.Request.Context(), userID, req.Message)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate reply"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

// Flush summarizes the session into long-term memory
// POST /api/chat/flush
func (h *ChatHandler) Flush(c *gin.Context) {
	userID := c.GetString("userID")

	if err := h.chatUsecase.Flush(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "chat summarized"})
}

// MarkSeen flags delivered proactive messages as observed
// POST /api/chat/seen
func (h *ChatHandler) MarkSeen(c *gin.Context) {
	userID := c.GetString("userID")

	if err := h.chatUsecase.MarkSeen(userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// History returns the user's conversation log
// GET /api/chat/history
func (h *ChatHandler) History(c *gin.Context) {
	userID := c.GetString("userID")

	msgs, err := h.chatUsecase.History(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// Context returns the assembled generation context (debug view)
// GET /api/chat/context
func (h *ChatHandler) Context(c *gin.Context) {
	userID := c.GetString("userID")

	mc, err := h.chatUsecase.BuildContext(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, mc)
}
