package handler

import (
	appledger "github.com/schoolfees/backend/internal/application/ledger"
	"github.com/schoolfees/backend/internal/domain/ledger"
	"github.com/schoolfees/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PaymentHandler exposes payment recording and reversal
type PaymentHandler struct {
	BaseHandler
	paymentService *appledger.PaymentService
	logger         *zap.Logger
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *appledger.PaymentService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		logger:         logger,
	}
}

// RegisterRoutes registers payment routes behind ledger access
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup, ledgerMW ...gin.HandlerFunc) {
	payments := rg.Group("/payments", ledgerMW...)
	{
		payments.GET("", h.List)
		payments.POST("", h.Record)
		payments.GET("/:id", h.Get)
		payments.POST("/:id/reverse", h.Reverse)
	}

	invoicePayments := rg.Group("/invoices/:id/payments", ledgerMW...)
	invoicePayments.GET("", h.ListForInvoice)
}

func (h *PaymentHandler) parsePaymentFilter(c *gin.Context) (ledger.PaymentFilter, error) {
	filter := ledger.PaymentFilter{Filter: parseFilter(c)}

	invoiceID, err := queryUUID(c, "invoice_id")
	if err != nil {
		return filter, err
	}
	filter.InvoiceID = invoiceID

	studentID, err := queryUUID(c, "student_id")
	if err != nil {
		return filter, err
	}
	filter.StudentID = studentID

	processedBy, err := queryUUID(c, "processed_by")
	if err != nil {
		return filter, err
	}
	filter.ProcessedBy = processedBy

	if raw := c.Query("method"); raw != "" {
		method := ledger.PaymentMethod(raw)
		filter.Method = &method
	}

	dateFrom, err := queryDate(c, "date_from")
	if err != nil {
		return filter, err
	}
	filter.DateFrom = dateFrom

	dateTo, err := queryDate(c, "date_to")
	if err != nil {
		return filter, err
	}
	filter.DateTo = dateTo

	return filter, nil
}

// List returns payments, paginated and filtered
func (h *PaymentHandler) List(c *gin.Context) {
	filter, err := h.parsePaymentFilter(c)
	if err != nil {
		h.BadRequest(c, "Invalid filter parameters")
		return
	}

	page, err := h.paymentService.ListPayments(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ListForInvoice returns all payments recorded against one invoice
func (h *PaymentHandler) ListForInvoice(c *gin.Context) {
	invoiceID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	payments, err := h.paymentService.ListInvoicePayments(c.Request.Context(), invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payments)
}

// Get returns one payment
func (h *PaymentHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	payment, err := h.paymentService.GetPayment(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payment)
}

// Record records a payment against an invoice. The processing user is taken
// from the access token, never from the request body.
func (h *PaymentHandler) Record(c *gin.Context) {
	var req appledger.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid payment payload: "+err.Error())
		return
	}
	req.ProcessedBy = middleware.GetUserID(c)

	payment, err := h.paymentService.RecordPayment(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, payment)
}

// Reverse reverses a recorded payment and returns the restored invoice
// balance so the caller does not need a second read.
func (h *PaymentHandler) Reverse(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	invoice, err := h.paymentService.ReversePayment(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}
