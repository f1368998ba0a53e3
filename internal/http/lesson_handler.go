package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"lessons-api/internal/domain"
	"lessons-api/internal/repository"
)

// LessonHandler mantiene dependencias para endpoints de lecciones aprendidas.
type LessonHandler struct {
	logger    *zap.Logger
	lessons   repository.LessonRepository
	auditLogs repository.AuditLogRepository
}

// NewLessonHandler crea una instancia de LessonHandler con dependencias necesarias.
func NewLessonHandler(logger *zap.Logger, lessons repository.LessonRepository, auditLogs repository.AuditLogRepository) *LessonHandler {
	return &LessonHandler{
		logger:    logger,
		lessons:   lessons,
		auditLogs: auditLogs,
	}
}

// Create maneja POST /lessons.
func (h *LessonHandler) Create(c *gin.Context) {
	var req struct {
		ProjectName      string              `json:"project_name" binding:"required"`
		DateCaptured     string              `json:"date_captured"`
		CategoryMain     domain.Category     `json:"category_main" binding:"required"`
		CategorySub      string              `json:"category_sub" binding:"required"`
		Description      string              `json:"description" binding:"required"`
		RootCause        string              `json:"root_cause" binding:"required"`
		Outcomes         string              `json:"outcomes" binding:"required"`
		Impact           domain.Impact       `json:"impact" binding:"required"`
		SuggestedActions string              `json:"suggested_actions"`
		Tags             []string            `json:"tags"`
		Status           domain.LessonStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create lesson request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	var dateCaptured *time.Time
	if req.DateCaptured != "" {
		parsed, err := time.Parse(time.DateOnly, req.DateCaptured)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date_captured must be YYYY-MM-DD"})
			return
		}
		dateCaptured = &parsed
	}

	status := req.Status
	if status == "" {
		status = domain.StatusPending
	}

	now := time.Now().UTC()
	lesson := domain.LessonLearned{
		ID:               uuid.NewString(),
		ProjectName:      req.ProjectName,
		DateCaptured:     dateCaptured,
		CategoryMain:     req.CategoryMain,
		CategorySub:      req.CategorySub,
		Description:      req.Description,
		RootCause:        req.RootCause,
		Outcomes:         req.Outcomes,
		Impact:           req.Impact,
		SuggestedActions: req.SuggestedActions,
		Tags:             req.Tags,
		Status:           status,
		SubmittedBy:      claims.UserID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := h.lessons.Create(c.Request.Context(), lesson); err != nil {
		h.logger.Error("create lesson failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create lesson"})
		return
	}

	h.appendAudit(c, lesson.ID, domain.AuditCreated, claims.UserID)

	c.JSON(http.StatusCreated, gin.H{"lesson": lesson})
}

// Get maneja GET /lessons/:id.
func (h *LessonHandler) Get(c *gin.Context) {
	lesson, err := h.lessons.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "lesson not found"})
			return
		}
		h.logger.Error("get lesson failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not get lesson"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"lesson": lesson})
}

// List maneja GET /lessons.
func (h *LessonHandler) List(c *gin.Context) {
	lessons, err := h.lessons.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list lessons failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list lessons"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"lessons": lessons})
}

// Update maneja PUT /lessons/:id. Los campos ausentes se conservan. Un cambio
// de status deja rastro en el audit trail.
func (h *LessonHandler) Update(c *gin.Context) {
	var req struct {
		ProjectName      *string              `json:"project_name"`
		DateCaptured     *string              `json:"date_captured"`
		CategoryMain     *domain.Category     `json:"category_main"`
		CategorySub      *string              `json:"category_sub"`
		Description      *string              `json:"description"`
		RootCause        *string              `json:"root_cause"`
		Outcomes         *string              `json:"outcomes"`
		Impact           *domain.Impact       `json:"impact"`
		SuggestedActions *string              `json:"suggested_actions"`
		Tags             *[]string            `json:"tags"`
		Status           *domain.LessonStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid update lesson request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	lesson, err := h.lessons.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "lesson not found"})
			return
		}
		h.logger.Error("get lesson failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update lesson"})
		return
	}
	previousStatus := lesson.Status

	if req.ProjectName != nil {
		lesson.ProjectName = *req.ProjectName
	}
	if req.DateCaptured != nil {
		parsed, err := time.Parse(time.DateOnly, *req.DateCaptured)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date_captured must be YYYY-MM-DD"})
			return
		}
		lesson.DateCaptured = &parsed
	}
	if req.CategoryMain != nil {
		lesson.CategoryMain = *req.CategoryMain
	}
	if req.CategorySub != nil {
		lesson.CategorySub = *req.CategorySub
	}
	if req.Description != nil {
		lesson.Description = *req.Description
	}
	if req.RootCause != nil {
		lesson.RootCause = *req.RootCause
	}
	if req.Outcomes != nil {
		lesson.Outcomes = *req.Outcomes
	}
	if req.Impact != nil {
		lesson.Impact = *req.Impact
	}
	if req.SuggestedActions != nil {
		lesson.SuggestedActions = *req.SuggestedActions
	}
	if req.Tags != nil {
		lesson.Tags = *req.Tags
	}
	if req.Status != nil {
		lesson.Status = *req.Status
	}
	lesson.UpdatedAt = time.Now().UTC()

	action := domain.AuditUpdated
	if lesson.Status != previousStatus {
		switch lesson.Status {
		case domain.StatusApproved:
			action = domain.AuditApproved
			lesson.ApprovedBy = claims.UserID
		case domain.StatusRejected:
			action = domain.AuditRejected
		}
	}

	if err := h.lessons.Update(c.Request.Context(), lesson); err != nil {
		h.logger.Error("update lesson failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update lesson"})
		return
	}

	h.appendAudit(c, lesson.ID, action, claims.UserID)

	c.JSON(http.StatusOK, gin.H{"lesson": lesson})
}

// appendAudit registra la acción en el audit trail. Un fallo aquí no revierte
// la operación principal; solo se loggea.
func (h *LessonHandler) appendAudit(c *gin.Context, lessonID string, action domain.AuditAction, userID string) {
	entry := domain.AuditLog{
		ID:          uuid.NewString(),
		LessonID:    lessonID,
		Action:      action,
		PerformedBy: userID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := h.auditLogs.Create(c.Request.Context(), entry); err != nil {
		h.logger.Warn("audit log write failed",
			zap.String("lesson_id", lessonID),
			zap.String("action", string(action)),
			zap.Error(err),
		)
	}
}
