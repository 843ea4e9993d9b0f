package handler

import (
	appschool "github.com/schoolfees/backend/internal/application/school"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StudentHandler manages student master data
type StudentHandler struct {
	BaseHandler
	studentService *appschool.StudentService
	logger         *zap.Logger
}

// NewStudentHandler creates a new student handler
func NewStudentHandler(studentService *appschool.StudentService, logger *zap.Logger) *StudentHandler {
	return &StudentHandler{
		studentService: studentService,
		logger:         logger,
	}
}

// RegisterRoutes registers student routes. The whole group requires ledger
// access: students reach their own data through the /my endpoints instead.
func (h *StudentHandler) RegisterRoutes(rg *gin.RouterGroup, ledgerMW ...gin.HandlerFunc) {
	students := rg.Group("/students", ledgerMW...)
	{
		students.GET("", h.List)
		students.POST("", h.Create)
		students.GET("/:id", h.Get)
		students.PUT("/:id", h.Update)
		students.DELETE("/:id", h.Delete)
		students.POST("/:id/link-user", h.LinkUser)
	}
}

// LinkUserRequest links a login account to a student
type LinkUserRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
}

// LinkUser attaches a user account to a student so the student can sign in
func (h *StudentHandler) LinkUser(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid student ID")
		return
	}

	var req LinkUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid link payload: "+err.Error())
		return
	}

	if err := h.studentService.LinkUserAccount(c.Request.Context(), id, req.UserID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// List returns students filtered by search and status
func (h *StudentHandler) List(c *gin.Context) {
	filter := parseFilter(c)
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}

	students, err := h.studentService.ListStudents(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, students)
}

// Create enrolls a new student
func (h *StudentHandler) Create(c *gin.Context) {
	var req appschool.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "NIS and full name are required")
		return
	}

	student, err := h.studentService.CreateStudent(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, student)
}

// Get returns one student
func (h *StudentHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid student ID")
		return
	}

	student, err := h.studentService.GetStudent(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, student)
}

// Update changes a student's name, status or class assignment
func (h *StudentHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid student ID")
		return
	}

	var req appschool.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid student payload: "+err.Error())
		return
	}

	student, err := h.studentService.UpdateStudent(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, student)
}

// Delete removes a student without invoices
func (h *StudentHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid student ID")
		return
	}

	if err := h.studentService.DeleteStudent(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
