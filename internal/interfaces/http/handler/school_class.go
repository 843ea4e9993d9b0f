package handler

import (
	appschool "github.com/schoolfees/backend/internal/application/school"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ClassHandler manages school classes and their rosters
type ClassHandler struct {
	BaseHandler
	classService *appschool.ClassService
	logger       *zap.Logger
}

// NewClassHandler creates a new class handler
func NewClassHandler(classService *appschool.ClassService, logger *zap.Logger) *ClassHandler {
	return &ClassHandler{
		classService: classService,
		logger:       logger,
	}
}

// RegisterRoutes registers class routes
func (h *ClassHandler) RegisterRoutes(rg *gin.RouterGroup, writeMW ...gin.HandlerFunc) {
	classes := rg.Group("/classes")
	{
		classes.GET("", h.List)
		classes.GET("/:id", h.Get)
		classes.GET("/:id/roster", h.Roster)

		write := classes.Group("", writeMW...)
		write.POST("", h.Create)
		write.PUT("/:id", h.Update)
		write.DELETE("/:id", h.Delete)
	}
}

// List returns all classes
func (h *ClassHandler) List(c *gin.Context) {
	classes, err := h.classService.ListClasses(c.Request.Context(), parseFilter(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, classes)
}

// Get returns one class
func (h *ClassHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid class ID")
		return
	}

	class, err := h.classService.GetClass(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, class)
}

// Roster returns the student IDs assigned to the class for an academic year
func (h *ClassHandler) Roster(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid class ID")
		return
	}
	yearID, err := queryUUID(c, "academic_year_id")
	if err != nil || yearID == nil {
		h.BadRequest(c, "academic_year_id query parameter is required")
		return
	}

	studentIDs, err := h.classService.GetRoster(c.Request.Context(), id, *yearID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	roster := make([]appschool.ClassRosterEntry, 0, len(studentIDs))
	for _, sid := range studentIDs {
		roster = append(roster, appschool.ClassRosterEntry{StudentID: sid})
	}
	h.Success(c, roster)
}

// Create creates a new class
func (h *ClassHandler) Create(c *gin.Context) {
	var req appschool.ClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Class name is required")
		return
	}

	class, err := h.classService.CreateClass(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, class)
}

// Update renames a class or changes its level
func (h *ClassHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid class ID")
		return
	}

	var req appschool.ClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Class name is required")
		return
	}

	class, err := h.classService.UpdateClass(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, class)
}

// Delete removes a class without assignments
func (h *ClassHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid class ID")
		return
	}

	if err := h.classService.DeleteClass(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
