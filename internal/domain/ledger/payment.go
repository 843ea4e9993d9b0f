package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/schoolfees/backend/internal/domain/shared"
	"github.com/schoolfees/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PaymentMethod identifies how the money was received
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "CASH"
	PaymentMethodTransfer PaymentMethod = "TRANSFER"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	return m == PaymentMethodCash || m == PaymentMethodTransfer
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// Payment is an immutable record of money received against one invoice.
// Corrections are made by reversal (deleting the record and rolling the
// invoice back), never by editing a payment in place.
type Payment struct {
	shared.BaseEntity
	ReceiptNumber string          `json:"receipt_number"`
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	Amount        decimal.Decimal `json:"amount"`
	Method        PaymentMethod   `json:"method"`
	PaymentDate   time.Time       `json:"payment_date"`
	Notes         string          `json:"notes"`
	ProcessedBy   uuid.UUID       `json:"processed_by"`
}

// NewPayment creates a payment record. The amount here is already validated
// against the invoice's remaining balance by Invoice.ApplyPayment; this
// constructor only enforces record-level validity.
func NewPayment(
	receiptNumber string,
	invoiceID uuid.UUID,
	amount valueobject.Money,
	method PaymentMethod,
	paymentDate time.Time,
	processedBy uuid.UUID,
) (*Payment, error) {
	if receiptNumber == "" {
		return nil, shared.NewDomainError("INVALID_RECEIPT_NUMBER", "Receipt number cannot be empty")
	}
	if invoiceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INVOICE", "Invoice ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method must be CASH or TRANSFER")
	}
	if paymentDate.IsZero() {
		paymentDate = time.Now()
	}
	if processedBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROCESSOR", "Processed-by user is required")
	}

	return &Payment{
		BaseEntity:    shared.NewBaseEntity(),
		ReceiptNumber: receiptNumber,
		InvoiceID:     invoiceID,
		Amount:        amount.Amount(),
		Method:        method,
		PaymentDate:   paymentDate,
		Notes:         "",
		ProcessedBy:   processedBy,
	}, nil
}

// SetNotes attaches free-form notes to the payment
func (p *Payment) SetNotes(notes string) {
	p.Notes = notes
}

// GetAmountMoney returns the payment amount as Money
func (p *Payment) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyIDR(p.Amount)
}
