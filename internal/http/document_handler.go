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

// DocumentHandler mantiene dependencias para endpoints de documentos.
// Solo metadata; el almacenamiento del archivo vive fuera de este servicio.
type DocumentHandler struct {
	logger    *zap.Logger
	documents repository.DocumentRepository
}

func NewDocumentHandler(logger *zap.Logger, documents repository.DocumentRepository) *DocumentHandler {
	return &DocumentHandler{
		logger:    logger,
		documents: documents,
	}
}

// Create maneja POST /documents.
func (h *DocumentHandler) Create(c *gin.Context) {
	var req struct {
		LessonID string `json:"lesson_id" binding:"required"`
		Filename string `json:"filename" binding:"required"`
		FilePath string `json:"file_path" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create document request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	doc := domain.Document{
		ID:         uuid.NewString(),
		LessonID:   req.LessonID,
		Filename:   req.Filename,
		FilePath:   req.FilePath,
		UploadedAt: time.Now().UTC(),
	}

	if err := h.documents.Create(c.Request.Context(), doc); err != nil {
		h.logger.Error("create document failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create document"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"document": doc})
}

// Get maneja GET /documents/:id.
func (h *DocumentHandler) Get(c *gin.Context) {
	doc, err := h.documents.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
			return
		}
		h.logger.Error("get document failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not get document"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"document": doc})
}

// ListByLesson maneja GET /documents/lesson/:lessonId.
func (h *DocumentHandler) ListByLesson(c *gin.Context) {
	docs, err := h.documents.ListByLesson(c.Request.Context(), c.Param("lessonId"))
	if err != nil {
		h.logger.Error("list documents failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list documents"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": docs})
}

// Delete maneja DELETE /documents/:id.
func (h *DocumentHandler) Delete(c *gin.Context) {
	deleted, err := h.documents.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logger.Error("delete document failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete document"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
		return
	}
	c.Status(http.StatusNoContent)
}
