package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ArrearsRow is one outstanding invoice in the arrears report
type ArrearsRow struct {
	StudentID     uuid.UUID       `json:"student_id"`
	StudentNIS    string          `json:"student_nis"`
	StudentName   string          `json:"student_name"`
	ClassName     string          `json:"class_name,omitempty"`
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	Title         string          `json:"title"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	Remaining     decimal.Decimal `json:"remaining"`
	DueDate       time.Time       `json:"due_date"`
	Status        string          `json:"status"`
}

// PaymentItemFact is one invoice line carried alongside a payment fact,
// used to distribute the payment across fee categories.
type PaymentItemFact struct {
	FeeCategoryID uuid.UUID       `json:"fee_category_id"`
	CategoryName  string          `json:"category_name"`
	Amount        decimal.Decimal `json:"amount"`
}

// PaymentFact is one received payment joined with its invoice breakdown
type PaymentFact struct {
	PaymentID     uuid.UUID         `json:"payment_id"`
	ReceiptNumber string            `json:"receipt_number"`
	PaymentDate   time.Time         `json:"payment_date"`
	Method        string            `json:"method"`
	Amount        decimal.Decimal   `json:"amount"`
	InvoiceID     uuid.UUID         `json:"invoice_id"`
	InvoiceNumber string            `json:"invoice_number"`
	InvoiceTotal  decimal.Decimal   `json:"invoice_total"`
	StudentID     uuid.UUID         `json:"student_id"`
	StudentName   string            `json:"student_name"`
	Items         []PaymentItemFact `json:"items"`
}

// ExpectedIncomeRow is billed-vs-collected per fee category. PaidAmount is
// the category's proportional share of payments on its invoices.
type ExpectedIncomeRow struct {
	FeeCategoryID uuid.UUID       `json:"fee_category_id"`
	CategoryName  string          `json:"category_name"`
	BilledAmount  decimal.Decimal `json:"billed_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	Outstanding   decimal.Decimal `json:"outstanding"`
	InvoiceCount  int64           `json:"invoice_count"`
}

// StatusBilledRow is the billed total of all invoices in one status
type StatusBilledRow struct {
	Status       string          `json:"status"`
	BilledAmount decimal.Decimal `json:"billed_amount"`
}

// ClassReportRow is per-student billing totals within one class
type ClassReportRow struct {
	StudentID    uuid.UUID       `json:"student_id"`
	StudentNIS   string          `json:"student_nis"`
	StudentName  string          `json:"student_name"`
	TotalBilled  decimal.Decimal `json:"total_billed"`
	TotalPaid    decimal.Decimal `json:"total_paid"`
	TotalArrears decimal.Decimal `json:"total_arrears"`
	InvoiceCount int64           `json:"invoice_count"`
}

// SppCardRow is one monthly SPP invoice on a student's payment card
type SppCardRow struct {
	InvoiceID   uuid.UUID       `json:"invoice_id"`
	PeriodMonth int             `json:"period_month"`
	PeriodYear  int             `json:"period_year"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	PaidAmount  decimal.Decimal `json:"paid_amount"`
	Status      string          `json:"status"`
	DueDate     time.Time       `json:"due_date"`
	LastPayment *time.Time      `json:"last_payment,omitempty"`
}

// MonthlyIncomeRow is received income aggregated per calendar month
type MonthlyIncomeRow struct {
	Year   int             `json:"year"`
	Month  int             `json:"month"`
	Amount decimal.Decimal `json:"amount"`
	Count  int64           `json:"count"`
}

// LedgerStats are the headline numbers for the admin dashboard
type LedgerStats struct {
	ActiveStudents     int64           `json:"active_students"`
	UnpaidInvoices     int64           `json:"unpaid_invoices"`
	PartialInvoices    int64           `json:"partial_invoices"`
	PaidInvoices       int64           `json:"paid_invoices"`
	OutstandingTotal   decimal.Decimal `json:"outstanding_total"`
	CollectedThisMonth decimal.Decimal `json:"collected_this_month"`
	OverdueInvoices    int64           `json:"overdue_invoices"`
}

// ArrearsFilter narrows the arrears report
type ArrearsFilter struct {
	AcademicYearID *uuid.UUID
	ClassID        *uuid.UUID
	StudentID      *uuid.UUID
	OverdueOnly    bool
	AsOf           time.Time
}

// FeeReportRepository provides the read-side queries behind fee reports.
// Implementations aggregate in SQL; the report service only shapes and
// distributes the rows.
type FeeReportRepository interface {
	GetArrears(ctx context.Context, filter ArrearsFilter) ([]ArrearsRow, error)
	GetPaymentFacts(ctx context.Context, from, to time.Time) ([]PaymentFact, error)
	GetExpectedIncome(ctx context.Context, academicYearID uuid.UUID) ([]ExpectedIncomeRow, error)
	GetBilledByStatus(ctx context.Context, academicYearID uuid.UUID) ([]StatusBilledRow, error)
	GetClassReport(ctx context.Context, classID, academicYearID uuid.UUID) ([]ClassReportRow, error)
	GetSppCard(ctx context.Context, studentID, academicYearID uuid.UUID) ([]SppCardRow, error)
	GetMonthlyIncome(ctx context.Context, year int) ([]MonthlyIncomeRow, error)
	GetLedgerStats(ctx context.Context, now time.Time) (*LedgerStats, error)
}
