// README: Chat handler; POST /api/chat. Every parsed request gets a 200 with reply text.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"airchat/internal/modules/chat"
)

// ChatService answers one user message.
type ChatService interface {
	Handle(ctx context.Context, message string) chat.Reply
}

type ChatHandler struct {
	chat ChatService
}

func NewChatHandler(svc ChatService) *ChatHandler {
	return &ChatHandler{chat: svc}
}

type chatReq struct {
	Message string `json:"message"`
}

// Chat handles POST /api/chat.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req chatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	writeJSON(c, http.StatusOK, h.chat.Handle(c.Request.Context(), req.Message))
}
