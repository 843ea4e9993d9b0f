package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/schoolfees/backend/internal/domain/shared"
)

// InvoiceFilter narrows invoice listings
type InvoiceFilter struct {
	shared.Filter
	StudentID      *uuid.UUID
	AcademicYearID *uuid.UUID
	Status         *InvoiceStatus
	InvoiceType    *InvoiceType
	PeriodMonth    *int
	PeriodYear     *int
	OverdueOnly    bool
	DueBefore      *time.Time
}

// InvoiceRepository persists invoices together with their items.
// Single-row finders return (nil, nil) when no row matches; errors are
// reserved for storage failures.
type InvoiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	FindByNumber(ctx context.Context, number string) (*Invoice, error)
	FindAll(ctx context.Context, filter InvoiceFilter) (*shared.Paginated[*Invoice], error)
	FindByStudent(ctx context.Context, studentID uuid.UUID, filter InvoiceFilter) (*shared.Paginated[*Invoice], error)
	FindOutstandingByStudent(ctx context.Context, studentID uuid.UUID) ([]*Invoice, error)

	// FindMonthlySpp locates the SPP invoice for one student and one billing
	// period, used for duplicate detection during bulk generation. Absence
	// is (nil, nil), not an error.
	FindMonthlySpp(ctx context.Context, studentID, academicYearID uuid.UUID, month, year int) (*Invoice, error)

	// ExistsWithCategorySet reports whether the student already holds an
	// invoice in the academic year billing exactly the given fee categories.
	ExistsWithCategorySet(ctx context.Context, studentID, academicYearID uuid.UUID, categoryIDs []uuid.UUID) (bool, error)

	// FindMaxNumberWithPrefix returns the highest invoice number under a
	// PREFIX/YYYY/MM/ prefix, or "" when the month is empty.
	FindMaxNumberWithPrefix(ctx context.Context, prefix string) (string, error)

	Save(ctx context.Context, invoice *Invoice) error

	// SaveWithVersion persists the aggregate guarded by its pre-mutation
	// version and returns shared.ErrConcurrencyConflict when another writer
	// got there first.
	SaveWithVersion(ctx context.Context, invoice *Invoice, expectedVersion int) error

	Delete(ctx context.Context, id uuid.UUID) error
	CountByStatus(ctx context.Context, status InvoiceStatus) (int64, error)
}

// PaymentFilter narrows payment listings
type PaymentFilter struct {
	shared.Filter
	InvoiceID   *uuid.UUID
	StudentID   *uuid.UUID
	Method      *PaymentMethod
	ProcessedBy *uuid.UUID
	DateFrom    *time.Time
	DateTo      *time.Time
}

// PaymentRepository persists payment records
type PaymentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	FindByReceiptNumber(ctx context.Context, number string) (*Payment, error)
	FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]*Payment, error)
	FindAll(ctx context.Context, filter PaymentFilter) (*shared.Paginated[*Payment], error)

	// FindMaxNumberWithPrefix returns the highest receipt number under a
	// PREFIX/YYYY/MM/ prefix, or "" when the month is empty.
	FindMaxNumberWithPrefix(ctx context.Context, prefix string) (string, error)

	Save(ctx context.Context, payment *Payment) error
	Delete(ctx context.Context, id uuid.UUID) error
}
