package handler

import (
	"strconv"
	"time"

	appreport "github.com/schoolfees/backend/internal/application/report"
	appschool "github.com/schoolfees/backend/internal/application/school"
	"github.com/schoolfees/backend/internal/domain/report"
	"github.com/schoolfees/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReportHandler exposes fee reports and the two dashboards
type ReportHandler struct {
	BaseHandler
	reportService  *appreport.ReportService
	studentService *appschool.StudentService
	logger         *zap.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(
	reportService *appreport.ReportService,
	studentService *appschool.StudentService,
	logger *zap.Logger,
) *ReportHandler {
	return &ReportHandler{
		reportService:  reportService,
		studentService: studentService,
		logger:         logger,
	}
}

// RegisterRoutes registers report and dashboard routes. Staff reports live
// behind ledger access; a student reaches their own data through the /my
// endpoints.
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup, ledgerMW ...gin.HandlerFunc) {
	reports := rg.Group("/reports", ledgerMW...)
	{
		reports.GET("/arrears", h.Arrears)
		reports.GET("/income", h.Income)
		reports.GET("/expected-income", h.ExpectedIncome)
		reports.GET("/classes/:id", h.ClassReport)
		reports.GET("/monthly-income", h.MonthlyIncome)
		reports.GET("/spp-card/:id", h.SppCard)
	}

	admin := make([]gin.HandlerFunc, 0, len(ledgerMW)+1)
	admin = append(admin, ledgerMW...)
	admin = append(admin, h.AdminDashboard)
	rg.GET("/dashboard/admin", admin...)
	rg.GET("/my/dashboard", h.MyDashboard)
	rg.GET("/my/spp-card", h.MySppCard)
}

// Arrears returns outstanding balances per student
func (h *ReportHandler) Arrears(c *gin.Context) {
	var filter report.ArrearsFilter

	yearID, err := queryUUID(c, "academic_year_id")
	if err != nil {
		h.BadRequest(c, "Invalid academic_year_id")
		return
	}
	filter.AcademicYearID = yearID

	classID, err := queryUUID(c, "class_id")
	if err != nil {
		h.BadRequest(c, "Invalid class_id")
		return
	}
	filter.ClassID = classID

	studentID, err := queryUUID(c, "student_id")
	if err != nil {
		h.BadRequest(c, "Invalid student_id")
		return
	}
	filter.StudentID = studentID
	filter.OverdueOnly = c.Query("overdue_only") == "true"

	asOf, err := queryDate(c, "as_of")
	if err != nil {
		h.BadRequest(c, "Invalid as_of date, expected YYYY-MM-DD")
		return
	}
	if asOf != nil {
		filter.AsOf = *asOf
	}

	result, err := h.reportService.GetArrearsReport(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Income returns realized income between two dates, grouped by category and
// method
func (h *ReportHandler) Income(c *gin.Context) {
	fromPtr, err := queryDate(c, "from")
	if err != nil || fromPtr == nil {
		h.BadRequest(c, "Query parameter 'from' is required, expected YYYY-MM-DD")
		return
	}
	toPtr, err := queryDate(c, "to")
	if err != nil || toPtr == nil {
		h.BadRequest(c, "Query parameter 'to' is required, expected YYYY-MM-DD")
		return
	}
	if toPtr.Before(*fromPtr) {
		h.BadRequest(c, "'to' must not be before 'from'")
		return
	}

	// make the range inclusive of the final day
	to := toPtr.Add(24*time.Hour - time.Nanosecond)
	result, err := h.reportService.GetIncomeReport(c.Request.Context(), *fromPtr, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ExpectedIncome returns billed versus collected totals per fee category
func (h *ReportHandler) ExpectedIncome(c *gin.Context) {
	yearID, err := queryUUID(c, "academic_year_id")
	if err != nil {
		h.BadRequest(c, "Invalid academic_year_id")
		return
	}

	result, err := h.reportService.GetExpectedIncome(c.Request.Context(), yearID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ClassReport returns per-student billing totals for one class
func (h *ReportHandler) ClassReport(c *gin.Context) {
	classID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid class ID")
		return
	}
	yearID, err := queryUUID(c, "academic_year_id")
	if err != nil {
		h.BadRequest(c, "Invalid academic_year_id")
		return
	}

	result, err := h.reportService.GetClassReport(c.Request.Context(), classID, yearID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// MonthlyIncome returns per-month income totals for a calendar year
func (h *ReportHandler) MonthlyIncome(c *gin.Context) {
	year := time.Now().Year()
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 2000 || parsed > 2200 {
			h.BadRequest(c, "Invalid year")
			return
		}
		year = parsed
	}

	rows, err := h.reportService.GetMonthlyIncome(c.Request.Context(), year)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}

// SppCard returns the month-by-month SPP card for a student
func (h *ReportHandler) SppCard(c *gin.Context) {
	studentID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid student ID")
		return
	}
	yearID, err := queryUUID(c, "academic_year_id")
	if err != nil {
		h.BadRequest(c, "Invalid academic_year_id")
		return
	}

	result, err := h.reportService.GetSppCard(c.Request.Context(), studentID, yearID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// MySppCard returns the authenticated student's own SPP card
func (h *ReportHandler) MySppCard(c *gin.Context) {
	student, err := h.studentService.GetStudentByUser(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	yearID, err := queryUUID(c, "academic_year_id")
	if err != nil {
		h.BadRequest(c, "Invalid academic_year_id")
		return
	}

	result, err := h.reportService.GetSppCard(c.Request.Context(), student.ID, yearID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// AdminDashboard returns the staff dashboard summary
func (h *ReportHandler) AdminDashboard(c *gin.Context) {
	result, err := h.reportService.GetAdminDashboard(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// MyDashboard returns the authenticated student's own dashboard
func (h *ReportHandler) MyDashboard(c *gin.Context) {
	student, err := h.studentService.GetStudentByUser(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	result, err := h.reportService.GetStudentDashboard(c.Request.Context(), student.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
