package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"site-builder/internal/builder"
	"site-builder/internal/history"
)

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply       string      `json:"reply"`
	ChatHistory history.Log `json:"chatHistory"`
}

// Chat godoc: POST /chat/:userId
func (h *Handlers) Chat(c *gin.Context) {
	id, valid := userID(c)
	if !valid {
		return
	}
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		fail(c, http.StatusBadRequest, ErrCodeEmptyMessage, "message is required")
		return
	}

	reply, log, err := h.svc.AdvanceConversation(c.Request.Context(), id, req.Message)
	if errors.Is(err, builder.ErrEmptyMessage) {
		fail(c, http.StatusBadRequest, ErrCodeEmptyMessage, "message is required")
		return
	}
	if err != nil {
		serviceError(c, err, ErrCodeChatFailed, "failed to get a reply")
		return
	}
	ok(c, chatResponse{Reply: reply, ChatHistory: log})
}
