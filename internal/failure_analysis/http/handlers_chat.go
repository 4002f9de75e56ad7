package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/go-failure-analyzer/internal/logging"
)

// CreateSession opens a primed chat session
func (h *Handler) CreateSession(c *gin.Context) {
	if h.chat == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "chat is not configured"})
		return
	}
	id, err := h.chat.NewSession(c.Request.Context())
	if err != nil {
		logging.FromContext(c.Request.Context(), "chat_http").Error("create_session", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session_id": id})
}

// Chat answers one question within a session
func (h *Handler) Chat(c *gin.Context) {
	var body chatRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(body.Question) == "" || strings.TrimSpace(body.SessionID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing 'question' or 'session_id' in request"})
		return
	}
	if h.chat == nil || !h.chat.Configured() {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "LLM client not configured"})
		return
	}

	ctx := c.Request.Context()
	answer, err := h.chat.Ask(ctx, body.SessionID, body.Question)
	if err != nil {
		logging.FromContext(ctx, "chat_http").Error("chat", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"response": answer})
}
