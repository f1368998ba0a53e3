package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"lessons-api/internal/domain"
	"lessons-api/internal/repository"
)

// SubCategoryHandler mantiene dependencias para endpoints de subcategorías.
type SubCategoryHandler struct {
	logger        *zap.Logger
	subCategories repository.SubCategoryRepository
}

func NewSubCategoryHandler(logger *zap.Logger, subCategories repository.SubCategoryRepository) *SubCategoryHandler {
	return &SubCategoryHandler{
		logger:        logger,
		subCategories: subCategories,
	}
}

// Create maneja POST /subcategories.
func (h *SubCategoryHandler) Create(c *gin.Context) {
	var req struct {
		MainCategory string `json:"main_category" binding:"required"`
		Name         string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create subcategory request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	sub := domain.SubCategory{
		ID:           uuid.NewString(),
		MainCategory: req.MainCategory,
		Name:         req.Name,
	}

	if err := h.subCategories.Create(c.Request.Context(), sub); err != nil {
		h.logger.Error("create subcategory failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create subcategory"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"subcategory": sub})
}

// List maneja GET /subcategories.
func (h *SubCategoryHandler) List(c *gin.Context) {
	subs, err := h.subCategories.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list subcategories failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list subcategories"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"subcategories": subs})
}

// ListByCategory maneja GET /subcategories/category/:main.
func (h *SubCategoryHandler) ListByCategory(c *gin.Context) {
	subs, err := h.subCategories.ListByMainCategory(c.Request.Context(), c.Param("main"))
	if err != nil {
		h.logger.Error("list subcategories by category failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list subcategories"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"subcategories": subs})
}
