package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/schoolfees/backend/internal/domain/shared"
	"github.com/schoolfees/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// InvoiceStatus is derived from paid_amount vs total_amount; it is a cached
// projection and is never set independently of DeriveStatus.
type InvoiceStatus string

const (
	InvoiceStatusUnpaid  InvoiceStatus = "unpaid"  // paid_amount = 0
	InvoiceStatusPartial InvoiceStatus = "partial" // 0 < paid_amount < total_amount
	InvoiceStatusPaid    InvoiceStatus = "paid"    // paid_amount >= total_amount
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusUnpaid, InvoiceStatusPartial, InvoiceStatusPaid:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// IsOutstanding returns true while the invoice still owes money
func (s InvoiceStatus) IsOutstanding() bool {
	return s == InvoiceStatusUnpaid || s == InvoiceStatusPartial
}

// DeriveStatus computes the status from the paid/total comparison.
// This is the single authoritative rule; every mutation recomputes through it.
func DeriveStatus(paid, total decimal.Decimal) InvoiceStatus {
	switch {
	case paid.GreaterThanOrEqual(total):
		return InvoiceStatusPaid
	case paid.IsPositive():
		return InvoiceStatusPartial
	default:
		return InvoiceStatusUnpaid
	}
}

// InvoiceType classifies what kind of charge an invoice represents
type InvoiceType string

const (
	InvoiceTypeSppMonthly InvoiceType = "spp_monthly"
	InvoiceTypeSppYearly  InvoiceType = "spp_yearly"
	InvoiceTypeOtherFee   InvoiceType = "other_fee"
	InvoiceTypeOther      InvoiceType = "other"
)

// IsValid checks if the invoice type is valid
func (t InvoiceType) IsValid() bool {
	switch t {
	case InvoiceTypeSppMonthly, InvoiceTypeSppYearly, InvoiceTypeOtherFee, InvoiceTypeOther:
		return true
	}
	return false
}

// InvoiceItem is a single billed line within an invoice. Items are immutable
// once the invoice is created and are deleted in cascade with it.
type InvoiceItem struct {
	ID            uuid.UUID       `json:"id"`
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	FeeCategoryID uuid.UUID       `json:"fee_category_id"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
}

// GetAmountMoney returns the line amount as Money
func (i *InvoiceItem) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyIDR(i.Amount)
}

// NewInvoiceItem creates an invoice line. The amount is either the caller's
// override or the fee category default, resolved by the caller.
func NewInvoiceItem(feeCategoryID uuid.UUID, description string, amount valueobject.Money) (*InvoiceItem, error) {
	if feeCategoryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_FEE_CATEGORY", "Fee category ID cannot be empty")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Item amount cannot be negative")
	}
	return &InvoiceItem{
		ID:            uuid.New(),
		FeeCategoryID: feeCategoryID,
		Description:   description,
		Amount:        amount.Amount(),
	}, nil
}

// Invoice is the billing unit: a charge owed by one student for one period.
// Invariants held at all times:
//   - 0 <= PaidAmount <= TotalAmount
//   - Status == DeriveStatus(PaidAmount, TotalAmount)
//   - TotalAmount == sum of item amounts, fixed at creation
type Invoice struct {
	shared.BaseAggregateRoot
	InvoiceNumber  string          `json:"invoice_number"`
	Title          string          `json:"title"`
	StudentID      uuid.UUID       `json:"student_id"`
	AcademicYearID uuid.UUID       `json:"academic_year_id"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	PaidAmount     decimal.Decimal `json:"paid_amount"`
	Status         InvoiceStatus   `json:"status"`
	DueDate        time.Time       `json:"due_date"`
	InvoiceType    InvoiceType     `json:"invoice_type"`
	PeriodMonth    *int            `json:"period_month,omitempty"` // 1-12, set for periodic fees
	PeriodYear     *int            `json:"period_year,omitempty"`
	Items          []InvoiceItem   `json:"items"`
}

// DefaultInvoiceTitle is used when the caller does not name the invoice
const DefaultInvoiceTitle = "Invoice Tagihan SPP"

// NewInvoice creates an invoice with its items in one step. The total is the
// sum of item amounts and must be positive.
func NewInvoice(
	invoiceNumber string,
	title string,
	studentID uuid.UUID,
	academicYearID uuid.UUID,
	dueDate time.Time,
	invoiceType InvoiceType,
	items []*InvoiceItem,
) (*Invoice, error) {
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if studentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STUDENT", "Student ID cannot be empty")
	}
	if academicYearID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACADEMIC_YEAR", "Academic year ID cannot be empty")
	}
	if dueDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DUE_DATE", "Due date is required")
	}
	if !invoiceType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INVOICE_TYPE", "Invoice type is not valid")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("INVALID_ITEMS", "Invoice requires at least one item")
	}
	if title == "" {
		title = DefaultInvoiceTitle
	}

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Amount)
	}
	if !total.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Invoice total must be positive")
	}

	inv := &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceNumber:     invoiceNumber,
		Title:             title,
		StudentID:         studentID,
		AcademicYearID:    academicYearID,
		TotalAmount:       total,
		PaidAmount:        decimal.Zero,
		Status:            InvoiceStatusUnpaid,
		DueDate:           dueDate,
		InvoiceType:       invoiceType,
	}
	inv.Items = make([]InvoiceItem, len(items))
	for i, item := range items {
		item.InvoiceID = inv.ID
		inv.Items[i] = *item
	}

	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))

	return inv, nil
}

// SetPeriod assigns the billing period for periodic (SPP) invoices
func (inv *Invoice) SetPeriod(month, year int) error {
	if month < 1 || month > 12 {
		return shared.NewDomainError("INVALID_PERIOD", "Period month must be between 1 and 12")
	}
	if year < 2000 {
		return shared.NewDomainError("INVALID_PERIOD", "Period year is not valid")
	}
	inv.PeriodMonth = &month
	inv.PeriodYear = &year
	return nil
}

// RemainingAmount returns total - paid
func (inv *Invoice) RemainingAmount() decimal.Decimal {
	return inv.TotalAmount.Sub(inv.PaidAmount)
}

// GetTotalAmountMoney returns the total as Money
func (inv *Invoice) GetTotalAmountMoney() valueobject.Money {
	return valueobject.NewMoneyIDR(inv.TotalAmount)
}

// GetPaidAmountMoney returns the paid amount as Money
func (inv *Invoice) GetPaidAmountMoney() valueobject.Money {
	return valueobject.NewMoneyIDR(inv.PaidAmount)
}

// GetRemainingAmountMoney returns the remaining amount as Money
func (inv *Invoice) GetRemainingAmountMoney() valueobject.Money {
	return valueobject.NewMoneyIDR(inv.RemainingAmount())
}

// ApplyPayment records a payment amount against the invoice. Overpayment is
// rejected outright, never capped: the ledger must stay reconcilable with the
// sum of its payments.
func (inv *Invoice) ApplyPayment(amount valueobject.Money) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	remaining := inv.RemainingAmount()
	if amount.Amount().GreaterThan(remaining) {
		return shared.NewDomainError("INVALID_AMOUNT",
			fmt.Sprintf("Payment amount %s exceeds remaining balance %s",
				amount.StringFixed(2), remaining.StringFixed(2)))
	}

	inv.PaidAmount = inv.PaidAmount.Add(amount.Amount())
	inv.Status = DeriveStatus(inv.PaidAmount, inv.TotalAmount)
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()

	return nil
}

// ReversePayment rolls back a previously applied payment amount. The paid
// amount is clamped at zero to absorb pre-existing data inconsistencies; under
// correct operation the clamp never fires because payments are bounded by the
// remaining balance at recording time.
func (inv *Invoice) ReversePayment(amount valueobject.Money) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Reversal amount must be positive")
	}

	newPaid := inv.PaidAmount.Sub(amount.Amount())
	if newPaid.IsNegative() {
		newPaid = decimal.Zero
	}
	inv.PaidAmount = newPaid
	inv.Status = DeriveStatus(inv.PaidAmount, inv.TotalAmount)
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()

	return nil
}

// CanDelete reports whether the invoice may be voided. Invoices with any
// recorded payment must have those payments reversed first.
func (inv *Invoice) CanDelete() error {
	if inv.PaidAmount.IsPositive() {
		return shared.NewDomainError("HAS_PAYMENTS",
			"Cannot delete invoice with existing payments; reverse them first")
	}
	return nil
}

// IsOverdue returns true if the invoice is past due and not fully paid
func (inv *Invoice) IsOverdue(now time.Time) bool {
	if inv.Status == InvoiceStatusPaid {
		return false
	}
	return inv.DueDate.Before(truncateToDay(now))
}

// OverdueDays returns whole days past the due date (0 when not overdue)
func (inv *Invoice) OverdueDays(now time.Time) int {
	if !inv.IsOverdue(now) {
		return 0
	}
	return int(truncateToDay(now).Sub(truncateToDay(inv.DueDate)).Hours() / 24)
}

// PaidPercentage returns paid/total*100 rounded to two places
func (inv *Invoice) PaidPercentage() decimal.Decimal {
	if inv.TotalAmount.IsZero() {
		return decimal.Zero
	}
	return inv.PaidAmount.Div(inv.TotalAmount).Mul(decimal.NewFromInt(100)).Round(2)
}

// FeeCategoryIDs returns the set of fee categories billed by this invoice
func (inv *Invoice) FeeCategoryIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(inv.Items))
	ids := make([]uuid.UUID, 0, len(inv.Items))
	for _, item := range inv.Items {
		if _, ok := seen[item.FeeCategoryID]; ok {
			continue
		}
		seen[item.FeeCategoryID] = struct{}{}
		ids = append(ids, item.FeeCategoryID)
	}
	return ids
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
