package handler

import (
	"strconv"

	appledger "github.com/schoolfees/backend/internal/application/ledger"
	appschool "github.com/schoolfees/backend/internal/application/school"
	"github.com/schoolfees/backend/internal/domain/ledger"
	"github.com/schoolfees/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// InvoiceHandler exposes invoice management and the student's own invoice
// views
type InvoiceHandler struct {
	BaseHandler
	invoiceService *appledger.InvoiceService
	studentService *appschool.StudentService
	logger         *zap.Logger
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(
	invoiceService *appledger.InvoiceService,
	studentService *appschool.StudentService,
	logger *zap.Logger,
) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		studentService: studentService,
		logger:         logger,
	}
}

// RegisterRoutes registers invoice routes. Management routes require ledger
// access; /my/invoices serves the authenticated student's own ledger.
func (h *InvoiceHandler) RegisterRoutes(rg *gin.RouterGroup, ledgerMW ...gin.HandlerFunc) {
	invoices := rg.Group("/invoices", ledgerMW...)
	{
		invoices.GET("", h.List)
		invoices.POST("", h.Create)
		invoices.POST("/generate-spp", h.GenerateMonthlySpp)
		invoices.POST("/generate-bulk", h.GenerateBulk)
		invoices.GET("/:id", h.Get)
		invoices.DELETE("/:id", h.Delete)
	}

	rg.GET("/my/invoices", h.ListMine)
}

// parseInvoiceFilter builds the invoice listing filter from query parameters
func (h *InvoiceHandler) parseInvoiceFilter(c *gin.Context) (ledger.InvoiceFilter, error) {
	filter := ledger.InvoiceFilter{Filter: parseFilter(c)}

	studentID, err := queryUUID(c, "student_id")
	if err != nil {
		return filter, err
	}
	filter.StudentID = studentID

	yearID, err := queryUUID(c, "academic_year_id")
	if err != nil {
		return filter, err
	}
	filter.AcademicYearID = yearID

	if raw := c.Query("status"); raw != "" {
		status := ledger.InvoiceStatus(raw)
		filter.Status = &status
	}
	if raw := c.Query("invoice_type"); raw != "" {
		invoiceType := ledger.InvoiceType(raw)
		filter.InvoiceType = &invoiceType
	}
	if raw := c.Query("period_month"); raw != "" {
		month, convErr := strconv.Atoi(raw)
		if convErr != nil {
			return filter, convErr
		}
		filter.PeriodMonth = &month
	}
	if raw := c.Query("period_year"); raw != "" {
		year, convErr := strconv.Atoi(raw)
		if convErr != nil {
			return filter, convErr
		}
		filter.PeriodYear = &year
	}
	filter.OverdueOnly = c.Query("overdue_only") == "true"

	dueBefore, err := queryDate(c, "due_before")
	if err != nil {
		return filter, err
	}
	filter.DueBefore = dueBefore

	return filter, nil
}

// List returns invoices, paginated and filtered
func (h *InvoiceHandler) List(c *gin.Context) {
	filter, err := h.parseInvoiceFilter(c)
	if err != nil {
		h.BadRequest(c, "Invalid filter parameters")
		return
	}

	page, err := h.invoiceService.ListInvoices(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ListMine returns the authenticated student's own invoices
func (h *InvoiceHandler) ListMine(c *gin.Context) {
	student, err := h.studentService.GetStudentByUser(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	filter, err := h.parseInvoiceFilter(c)
	if err != nil {
		h.BadRequest(c, "Invalid filter parameters")
		return
	}

	page, err := h.invoiceService.ListStudentInvoices(c.Request.Context(), student.ID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get returns one invoice with its items
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// Create creates one invoice for one student
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req appledger.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid invoice payload: "+err.Error())
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, invoice)
}

// GenerateMonthlySpp bills the monthly SPP fee to a set of students
func (h *InvoiceHandler) GenerateMonthlySpp(c *gin.Context) {
	var req appledger.GenerateMonthlySppRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid SPP generation payload: "+err.Error())
		return
	}

	result, err := h.invoiceService.GenerateMonthlySpp(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// GenerateBulk bills the same fee category set to many students at once
func (h *InvoiceHandler) GenerateBulk(c *gin.Context) {
	var req appledger.GenerateBulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid bulk generation payload: "+err.Error())
		return
	}

	result, err := h.invoiceService.GenerateBulk(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Delete voids an invoice that has no payments
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
