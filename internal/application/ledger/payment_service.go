package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/schoolfees/backend/internal/domain/ledger"
	"github.com/schoolfees/backend/internal/domain/shared"
	"github.com/schoolfees/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// conflictRetries bounds how often a payment is replayed when the invoice
// row was changed by a concurrent writer between read and write.
const conflictRetries = 3

// PaymentService provides application-level payment operations
type PaymentService struct {
	txScope     TransactionScope
	invoiceRepo ledger.InvoiceRepository
	paymentRepo ledger.PaymentRepository
	eventBus    shared.EventBus
	logger      *zap.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	txScope TransactionScope,
	invoiceRepo ledger.InvoiceRepository,
	paymentRepo ledger.PaymentRepository,
	eventBus shared.EventBus,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		txScope:     txScope,
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// RecordPaymentRequest records money received against an invoice
type RecordPaymentRequest struct {
	InvoiceID   uuid.UUID       `json:"invoice_id" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Method      string          `json:"method" binding:"required"`
	PaymentDate time.Time       `json:"payment_date"`
	Notes       string          `json:"notes"`
	ProcessedBy uuid.UUID       `json:"-"` // taken from the authenticated user
}

// InvoiceSummaryResponse is the invoice balance after a payment operation
type InvoiceSummaryResponse struct {
	InvoiceID       uuid.UUID       `json:"invoice_id"`
	InvoiceNumber   string          `json:"invoice_number"`
	Status          string          `json:"status"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
}

func toInvoiceSummary(inv *ledger.Invoice) *InvoiceSummaryResponse {
	return &InvoiceSummaryResponse{
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		Status:          inv.Status.String(),
		TotalAmount:     inv.TotalAmount,
		PaidAmount:      inv.PaidAmount,
		RemainingAmount: inv.RemainingAmount(),
	}
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID            uuid.UUID               `json:"id"`
	ReceiptNumber string                  `json:"receipt_number"`
	InvoiceID     uuid.UUID               `json:"invoice_id"`
	InvoiceNumber string                  `json:"invoice_number,omitempty"`
	Amount        decimal.Decimal         `json:"amount"`
	Method        string                  `json:"method"`
	PaymentDate   time.Time               `json:"payment_date"`
	Notes         string                  `json:"notes,omitempty"`
	ProcessedBy   uuid.UUID               `json:"processed_by"`
	InvoiceStatus string                  `json:"invoice_status,omitempty"`
	Invoice       *InvoiceSummaryResponse `json:"invoice,omitempty"`
	CreatedAt     time.Time               `json:"created_at"`
}

func toPaymentResponse(p *ledger.Payment) *PaymentResponse {
	return &PaymentResponse{
		ID:            p.ID,
		ReceiptNumber: p.ReceiptNumber,
		InvoiceID:     p.InvoiceID,
		Amount:        p.Amount,
		Method:        p.Method.String(),
		PaymentDate:   p.PaymentDate,
		Notes:         p.Notes,
		ProcessedBy:   p.ProcessedBy,
		CreatedAt:     p.CreatedAt,
	}
}

// RecordPayment applies a payment to an invoice and writes the payment
// record, atomically. The invoice write is guarded by its version; on a
// conflict the whole read-validate-write cycle is replayed so the amount is
// always validated against the freshest balance.
func (s *PaymentService) RecordPayment(ctx context.Context, req RecordPaymentRequest) (*PaymentResponse, error) {
	method := ledger.PaymentMethod(req.Method)
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method must be CASH or TRANSFER")
	}
	amount := valueobject.NewMoneyIDR(req.Amount)
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}

	var (
		payment *ledger.Payment
		invoice *ledger.Invoice
	)
	var err error
	for attempt := 0; attempt < conflictRetries; attempt++ {
		err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
			invoiceRepo := repos.InvoiceRepo()
			paymentRepo := repos.PaymentRepo()

			inv, err := invoiceRepo.FindByID(ctx, req.InvoiceID)
			if err != nil {
				return err
			}
			if inv == nil {
				return shared.NewDomainError("NOT_FOUND", "Invoice not found")
			}

			expectedVersion := inv.GetVersion()
			if err := inv.ApplyPayment(amount); err != nil {
				return err
			}

			receiptNumber, err := nextNumber(ctx, paymentRepo.FindMaxNumberWithPrefix, ledger.ReceiptNumberPrefix, time.Now())
			if err != nil {
				return err
			}

			p, err := ledger.NewPayment(receiptNumber, inv.ID, amount, method, req.PaymentDate, req.ProcessedBy)
			if err != nil {
				return err
			}
			p.SetNotes(req.Notes)

			if err := invoiceRepo.SaveWithVersion(ctx, inv, expectedVersion); err != nil {
				return err
			}
			if err := paymentRepo.Save(ctx, p); err != nil {
				return err
			}

			payment = p
			invoice = inv
			return nil
		})
		if err == nil || !isRetryable(err) {
			break
		}
		s.logger.Debug("payment write conflict, retrying",
			zap.Int("attempt", attempt+1),
			zap.String("invoice_id", req.InvoiceID.String()))
	}
	if err != nil {
		return nil, err
	}

	// notification happens after commit; a failing subscriber cannot undo
	// the recorded payment
	if s.eventBus != nil {
		event := ledger.NewPaymentRecordedEvent(invoice, payment)
		if pubErr := s.eventBus.Publish(ctx, event); pubErr != nil {
			s.logger.Warn("failed to publish payment recorded event",
				zap.Error(pubErr),
				zap.String("receipt_number", payment.ReceiptNumber))
		}
	}

	s.logger.Info("payment recorded",
		zap.String("receipt_number", payment.ReceiptNumber),
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("amount", payment.Amount.String()),
		zap.String("invoice_status", invoice.Status.String()))

	resp := toPaymentResponse(payment)
	resp.InvoiceNumber = invoice.InvoiceNumber
	resp.InvoiceStatus = invoice.Status.String()
	resp.Invoice = toInvoiceSummary(invoice)
	return resp, nil
}

// ReversePayment deletes a payment record and rolls its amount back off the
// invoice, atomically. It returns the invoice balance after the reversal.
func (s *PaymentService) ReversePayment(ctx context.Context, paymentID uuid.UUID) (*InvoiceSummaryResponse, error) {
	var (
		payment *ledger.Payment
		invoice *ledger.Invoice
	)
	var err error
	for attempt := 0; attempt < conflictRetries; attempt++ {
		err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
			invoiceRepo := repos.InvoiceRepo()
			paymentRepo := repos.PaymentRepo()

			p, err := paymentRepo.FindByID(ctx, paymentID)
			if err != nil {
				return err
			}
			if p == nil {
				return shared.NewDomainError("NOT_FOUND", "Payment not found")
			}

			inv, err := invoiceRepo.FindByID(ctx, p.InvoiceID)
			if err != nil {
				return err
			}
			if inv == nil {
				return shared.NewDomainError("NOT_FOUND", "Invoice for payment not found")
			}

			expectedVersion := inv.GetVersion()
			if err := inv.ReversePayment(p.GetAmountMoney()); err != nil {
				return err
			}
			if err := invoiceRepo.SaveWithVersion(ctx, inv, expectedVersion); err != nil {
				return err
			}
			if err := paymentRepo.Delete(ctx, p.ID); err != nil {
				return err
			}

			payment = p
			invoice = inv
			return nil
		})
		if err == nil || !isRetryable(err) {
			break
		}
		s.logger.Debug("reversal write conflict, retrying", zap.Int("attempt", attempt+1))
	}
	if err != nil {
		return nil, err
	}

	if s.eventBus != nil {
		event := ledger.NewPaymentReversedEvent(invoice, payment)
		if pubErr := s.eventBus.Publish(ctx, event); pubErr != nil {
			s.logger.Warn("failed to publish payment reversed event", zap.Error(pubErr))
		}
	}

	s.logger.Info("payment reversed",
		zap.String("receipt_number", payment.ReceiptNumber),
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("amount", payment.Amount.String()),
		zap.String("invoice_status", invoice.Status.String()))
	return toInvoiceSummary(invoice), nil
}

// GetPayment returns one payment
func (s *PaymentService) GetPayment(ctx context.Context, id uuid.UUID) (*PaymentResponse, error) {
	p, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Payment not found")
	}
	return toPaymentResponse(p), nil
}

// ListPayments returns a filtered page of payments
func (s *PaymentService) ListPayments(ctx context.Context, filter ledger.PaymentFilter) (*shared.Paginated[*PaymentResponse], error) {
	page, err := s.paymentRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]*PaymentResponse, 0, len(page.Items))
	for _, p := range page.Items {
		items = append(items, toPaymentResponse(p))
	}
	return &shared.Paginated[*PaymentResponse]{
		Items:      items,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}, nil
}

// ListInvoicePayments returns all payments recorded against one invoice
func (s *PaymentService) ListInvoicePayments(ctx context.Context, invoiceID uuid.UUID) ([]*PaymentResponse, error) {
	payments, err := s.paymentRepo.FindByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	items := make([]*PaymentResponse, 0, len(payments))
	for _, p := range payments {
		items = append(items, toPaymentResponse(p))
	}
	return items, nil
}

// isRetryable recognizes transient write conflicts: a lost optimistic lock or
// a receipt number claimed by a concurrent writer.
func isRetryable(err error) bool {
	if errors.Is(err, shared.ErrConcurrencyConflict) {
		return true
	}
	var de *shared.DomainError
	if errors.As(err, &de) {
		return de.Code == "CONCURRENCY_CONFLICT" || de.Code == "DUPLICATE_NUMBER"
	}
	return false
}
