package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lessons-api/internal/ws"
)

// MessageHandler mantiene dependencias para endpoints REST de mensajes.
// El envío pasa por el mismo Dispatcher que el websocket, así las sesiones
// vivas del receptor reciben el push también en este camino.
type MessageHandler struct {
	logger     *zap.Logger
	dispatcher *ws.Dispatcher
}

func NewMessageHandler(logger *zap.Logger, dispatcher *ws.Dispatcher) *MessageHandler {
	return &MessageHandler{
		logger:     logger,
		dispatcher: dispatcher,
	}
}

// Send maneja POST /messages. El emisor es siempre la identidad autenticada.
func (h *MessageHandler) Send(c *gin.Context) {
	var req struct {
		ReceiverID string `json:"receiver_id" binding:"required"`
		Content    string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid send message request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	msg, delivered, err := h.dispatcher.Dispatch(c.Request.Context(), claims.UserID, req.ReceiverID, req.Content)
	if err != nil {
		h.logger.Error("send message failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not send message"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": msg, "delivered": delivered})
}

// Inbox maneja GET /messages/inbox/:userId.
func (h *MessageHandler) Inbox(c *gin.Context) {
	messages, err := h.dispatcher.Inbox(c.Request.Context(), c.Param("userId"))
	if err != nil {
		h.logger.Error("inbox failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list messages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// MarkRead maneja PATCH /messages/read/:messageId.
func (h *MessageHandler) MarkRead(c *gin.Context) {
	msg, found, err := h.dispatcher.MarkRead(c.Request.Context(), c.Param("messageId"))
	if err != nil {
		h.logger.Error("mark read failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not mark message as read"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}
