package ledger

import (
	"github.com/google/uuid"
	"github.com/schoolfees/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const (
	EventInvoiceCreated  = "ledger.invoice.created"
	EventInvoiceVoided   = "ledger.invoice.voided"
	EventPaymentRecorded = "ledger.payment.recorded"
	EventPaymentReversed = "ledger.payment.reversed"
)

// InvoiceCreatedEvent is raised when a new invoice enters the ledger
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string          `json:"invoice_number"`
	StudentID     uuid.UUID       `json:"student_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	InvoiceType   InvoiceType     `json:"invoice_type"`
}

// NewInvoiceCreatedEvent creates an invoice created event
func NewInvoiceCreatedEvent(inv *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventInvoiceCreated, "Invoice", inv.ID),
		InvoiceNumber:   inv.InvoiceNumber,
		StudentID:       inv.StudentID,
		TotalAmount:     inv.TotalAmount,
		InvoiceType:     inv.InvoiceType,
	}
}

// InvoiceVoidedEvent is raised when an unpaid invoice is deleted
type InvoiceVoidedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string    `json:"invoice_number"`
	StudentID     uuid.UUID `json:"student_id"`
}

// NewInvoiceVoidedEvent creates an invoice voided event
func NewInvoiceVoidedEvent(inv *Invoice) *InvoiceVoidedEvent {
	return &InvoiceVoidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventInvoiceVoided, "Invoice", inv.ID),
		InvoiceNumber:   inv.InvoiceNumber,
		StudentID:       inv.StudentID,
	}
}

// PaymentRecordedEvent is raised after a payment is committed. Notification
// delivery subscribes to this event so a slow or failing notifier can never
// roll back the payment itself.
type PaymentRecordedEvent struct {
	shared.BaseDomainEvent
	PaymentID     uuid.UUID       `json:"payment_id"`
	ReceiptNumber string          `json:"receipt_number"`
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	StudentID     uuid.UUID       `json:"student_id"`
	Amount        decimal.Decimal `json:"amount"`
	InvoiceStatus InvoiceStatus   `json:"invoice_status"`
}

// NewPaymentRecordedEvent creates a payment recorded event
func NewPaymentRecordedEvent(inv *Invoice, p *Payment) *PaymentRecordedEvent {
	return &PaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventPaymentRecorded, "Invoice", inv.ID),
		PaymentID:       p.ID,
		ReceiptNumber:   p.ReceiptNumber,
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		StudentID:       inv.StudentID,
		Amount:          p.Amount,
		InvoiceStatus:   inv.Status,
	}
}

// PaymentReversedEvent is raised when a payment is rolled back
type PaymentReversedEvent struct {
	shared.BaseDomainEvent
	PaymentID     uuid.UUID       `json:"payment_id"`
	ReceiptNumber string          `json:"receipt_number"`
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	Amount        decimal.Decimal `json:"amount"`
	InvoiceStatus InvoiceStatus   `json:"invoice_status"`
}

// NewPaymentReversedEvent creates a payment reversed event
func NewPaymentReversedEvent(inv *Invoice, p *Payment) *PaymentReversedEvent {
	return &PaymentReversedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventPaymentReversed, "Invoice", inv.ID),
		PaymentID:       p.ID,
		ReceiptNumber:   p.ReceiptNumber,
		InvoiceID:       inv.ID,
		Amount:          p.Amount,
		InvoiceStatus:   inv.Status,
	}
}
