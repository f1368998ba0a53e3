package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"lessons-api/internal/domain"
	"lessons-api/internal/repository"
)

// AuditLogHandler mantiene dependencias para endpoints del audit trail.
type AuditLogHandler struct {
	logger    *zap.Logger
	auditLogs repository.AuditLogRepository
}

func NewAuditLogHandler(logger *zap.Logger, auditLogs repository.AuditLogRepository) *AuditLogHandler {
	return &AuditLogHandler{
		logger:    logger,
		auditLogs: auditLogs,
	}
}

// Create maneja POST /audit-logs.
func (h *AuditLogHandler) Create(c *gin.Context) {
	var req struct {
		LessonID    string             `json:"lesson_id" binding:"required"`
		Action      domain.AuditAction `json:"action" binding:"required"`
		PerformedBy string             `json:"performed_by" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create audit log request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	entry := domain.AuditLog{
		ID:          uuid.NewString(),
		LessonID:    req.LessonID,
		Action:      req.Action,
		PerformedBy: req.PerformedBy,
		CreatedAt:   time.Now().UTC(),
	}

	if err := h.auditLogs.Create(c.Request.Context(), entry); err != nil {
		h.logger.Error("create audit log failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create audit log"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"audit_log": entry})
}

// List maneja GET /audit-logs.
func (h *AuditLogHandler) List(c *gin.Context) {
	logs, err := h.auditLogs.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list audit logs failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list audit logs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"audit_logs": logs})
}

// ListByLesson maneja GET /audit-logs/lesson/:lessonId.
func (h *AuditLogHandler) ListByLesson(c *gin.Context) {
	logs, err := h.auditLogs.ListByLesson(c.Request.Context(), c.Param("lessonId"))
	if err != nil {
		h.logger.Error("list audit logs by lesson failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list audit logs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"audit_logs": logs})
}
