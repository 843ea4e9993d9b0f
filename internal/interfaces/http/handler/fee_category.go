package handler

import (
	appschool "github.com/schoolfees/backend/internal/application/school"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FeeCategoryHandler manages fee categories
type FeeCategoryHandler struct {
	BaseHandler
	categoryService *appschool.FeeCategoryService
	logger          *zap.Logger
}

// NewFeeCategoryHandler creates a new fee category handler
func NewFeeCategoryHandler(categoryService *appschool.FeeCategoryService, logger *zap.Logger) *FeeCategoryHandler {
	return &FeeCategoryHandler{
		categoryService: categoryService,
		logger:          logger,
	}
}

// RegisterRoutes registers fee category routes
func (h *FeeCategoryHandler) RegisterRoutes(rg *gin.RouterGroup, writeMW ...gin.HandlerFunc) {
	categories := rg.Group("/fee-categories")
	{
		categories.GET("", h.List)
		categories.GET("/:id", h.Get)

		write := categories.Group("", writeMW...)
		write.POST("", h.Create)
		write.PUT("/:id", h.Update)
		write.DELETE("/:id", h.Delete)
	}
}

// List returns all fee categories
func (h *FeeCategoryHandler) List(c *gin.Context) {
	categories, err := h.categoryService.ListFeeCategories(c.Request.Context(), parseFilter(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, categories)
}

// Get returns one fee category
func (h *FeeCategoryHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid fee category ID")
		return
	}

	category, err := h.categoryService.GetFeeCategory(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, category)
}

// Create creates a new fee category
func (h *FeeCategoryHandler) Create(c *gin.Context) {
	var req appschool.FeeCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Name and default amount are required")
		return
	}

	category, err := h.categoryService.CreateFeeCategory(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, category)
}

// Update changes a fee category
func (h *FeeCategoryHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid fee category ID")
		return
	}

	var req appschool.FeeCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Name and default amount are required")
		return
	}

	category, err := h.categoryService.UpdateFeeCategory(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, category)
}

// Delete removes a fee category not referenced by any invoice
func (h *FeeCategoryHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid fee category ID")
		return
	}

	if err := h.categoryService.DeleteFeeCategory(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
