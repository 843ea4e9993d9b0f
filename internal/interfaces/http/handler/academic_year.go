package handler

import (
	appschool "github.com/schoolfees/backend/internal/application/school"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AcademicYearHandler manages academic years
type AcademicYearHandler struct {
	BaseHandler
	yearService *appschool.AcademicYearService
	logger      *zap.Logger
}

// NewAcademicYearHandler creates a new academic year handler
func NewAcademicYearHandler(yearService *appschool.AcademicYearService, logger *zap.Logger) *AcademicYearHandler {
	return &AcademicYearHandler{
		yearService: yearService,
		logger:      logger,
	}
}

// RegisterRoutes registers academic year routes. Reads are open to any
// authenticated user; writes require ledger access.
func (h *AcademicYearHandler) RegisterRoutes(rg *gin.RouterGroup, writeMW ...gin.HandlerFunc) {
	years := rg.Group("/academic-years")
	{
		years.GET("", h.List)
		years.GET("/active", h.GetActive)
		years.GET("/:id", h.Get)

		write := years.Group("", writeMW...)
		write.POST("", h.Create)
		write.PUT("/:id", h.Update)
		write.POST("/:id/activate", h.Activate)
		write.DELETE("/:id", h.Delete)
	}
}

// List returns all academic years
func (h *AcademicYearHandler) List(c *gin.Context) {
	years, err := h.yearService.ListAcademicYears(c.Request.Context(), parseFilter(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, years)
}

// GetActive returns the currently active academic year
func (h *AcademicYearHandler) GetActive(c *gin.Context) {
	year, err := h.yearService.GetActiveAcademicYear(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, year)
}

// Get returns one academic year
func (h *AcademicYearHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid academic year ID")
		return
	}

	year, err := h.yearService.GetAcademicYear(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, year)
}

// Create creates a new academic year
func (h *AcademicYearHandler) Create(c *gin.Context) {
	var req appschool.CreateAcademicYearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Academic year name is required")
		return
	}

	year, err := h.yearService.CreateAcademicYear(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, year)
}

// Update renames an academic year
func (h *AcademicYearHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid academic year ID")
		return
	}

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Academic year name is required")
		return
	}

	year, err := h.yearService.UpdateAcademicYear(c.Request.Context(), id, req.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, year)
}

// Activate makes an academic year the active one, deactivating the rest
func (h *AcademicYearHandler) Activate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid academic year ID")
		return
	}

	year, err := h.yearService.ActivateAcademicYear(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, year)
}

// Delete removes an academic year that has no class assignments
func (h *AcademicYearHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid academic year ID")
		return
	}

	if err := h.yearService.DeleteAcademicYear(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
