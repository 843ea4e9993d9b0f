package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/schoolfees/backend/internal/domain/ledger"
	"github.com/schoolfees/backend/internal/domain/school"
	"github.com/schoolfees/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByNumber(ctx context.Context, number string) (*ledger.Invoice, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAll(ctx context.Context, filter ledger.InvoiceFilter) (*shared.Paginated[*ledger.Invoice], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*ledger.Invoice]), args.Error(1)
}

func (m *MockInvoiceRepository) FindByStudent(ctx context.Context, studentID uuid.UUID, filter ledger.InvoiceFilter) (*shared.Paginated[*ledger.Invoice], error) {
	args := m.Called(ctx, studentID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*ledger.Invoice]), args.Error(1)
}

func (m *MockInvoiceRepository) FindOutstandingByStudent(ctx context.Context, studentID uuid.UUID) ([]*ledger.Invoice, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindMonthlySpp(ctx context.Context, studentID, academicYearID uuid.UUID, month, year int) (*ledger.Invoice, error) {
	args := m.Called(ctx, studentID, academicYearID, month, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ExistsWithCategorySet(ctx context.Context, studentID, academicYearID uuid.UUID, categoryIDs []uuid.UUID) (bool, error) {
	args := m.Called(ctx, studentID, academicYearID, categoryIDs)
	return args.Bool(0), args.Error(1)
}

func (m *MockInvoiceRepository) FindMaxNumberWithPrefix(ctx context.Context, prefix string) (string, error) {
	args := m.Called(ctx, prefix)
	return args.String(0), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *ledger.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) SaveWithVersion(ctx context.Context, invoice *ledger.Invoice, expectedVersion int) error {
	args := m.Called(ctx, invoice, expectedVersion)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInvoiceRepository) CountByStatus(ctx context.Context, status ledger.InvoiceStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByReceiptNumber(ctx context.Context, number string) (*ledger.Payment, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]*ledger.Payment, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindAll(ctx context.Context, filter ledger.PaymentFilter) (*shared.Paginated[*ledger.Payment], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*ledger.Payment]), args.Error(1)
}

func (m *MockPaymentRepository) FindMaxNumberWithPrefix(ctx context.Context, prefix string) (string, error) {
	args := m.Called(ctx, prefix)
	return args.String(0), args.Error(1)
}

func (m *MockPaymentRepository) Save(ctx context.Context, payment *ledger.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockStudentRepository struct {
	mock.Mock
}

func (m *MockStudentRepository) FindByID(ctx context.Context, id uuid.UUID) (*school.Student, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*school.Student), args.Error(1)
}

func (m *MockStudentRepository) FindByNIS(ctx context.Context, nis string) (*school.Student, error) {
	args := m.Called(ctx, nis)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*school.Student), args.Error(1)
}

func (m *MockStudentRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*school.Student, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*school.Student), args.Error(1)
}

func (m *MockStudentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]school.Student, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]school.Student), args.Error(1)
}

func (m *MockStudentRepository) FindActiveIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockStudentRepository) CountByStatus(ctx context.Context, status school.StudentStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStudentRepository) Save(ctx context.Context, student *school.Student) error {
	args := m.Called(ctx, student)
	return args.Error(0)
}

func (m *MockStudentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockAcademicYearRepository struct {
	mock.Mock
}

func (m *MockAcademicYearRepository) FindByID(ctx context.Context, id uuid.UUID) (*school.AcademicYear, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*school.AcademicYear), args.Error(1)
}

func (m *MockAcademicYearRepository) FindActive(ctx context.Context) (*school.AcademicYear, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*school.AcademicYear), args.Error(1)
}

func (m *MockAcademicYearRepository) FindAll(ctx context.Context, filter shared.Filter) ([]school.AcademicYear, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]school.AcademicYear), args.Error(1)
}

func (m *MockAcademicYearRepository) Save(ctx context.Context, year *school.AcademicYear) error {
	args := m.Called(ctx, year)
	return args.Error(0)
}

func (m *MockAcademicYearRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAcademicYearRepository) DeactivateAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockAcademicYearRepository) CountClassHistoryReferences(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

type MockFeeCategoryRepository struct {
	mock.Mock
}

func (m *MockFeeCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*school.FeeCategory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*school.FeeCategory), args.Error(1)
}

func (m *MockFeeCategoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]school.FeeCategory, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]school.FeeCategory), args.Error(1)
}

func (m *MockFeeCategoryRepository) Save(ctx context.Context, category *school.FeeCategory) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockFeeCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFeeCategoryRepository) CountInvoiceItemReferences(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

type MockClassHistoryRepository struct {
	mock.Mock
}

func (m *MockClassHistoryRepository) FindByStudentAndYear(ctx context.Context, studentID, academicYearID uuid.UUID) (*school.ClassHistory, error) {
	args := m.Called(ctx, studentID, academicYearID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*school.ClassHistory), args.Error(1)
}

func (m *MockClassHistoryRepository) FindCurrentForStudent(ctx context.Context, studentID uuid.UUID) (*school.ClassHistory, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*school.ClassHistory), args.Error(1)
}

func (m *MockClassHistoryRepository) FindStudentIDs(ctx context.Context, classID, academicYearID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, classID, academicYearID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockClassHistoryRepository) Save(ctx context.Context, history *school.ClassHistory) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

func (m *MockClassHistoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockEventBus struct {
	mock.Mock
}

func (m *MockEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func (m *MockEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	m.Called(handler, eventTypes)
}

func (m *MockEventBus) Unsubscribe(handler shared.EventHandler) {
	m.Called(handler)
}

// stubScope runs the transactional function directly against the mock
// repositories, with no real transaction underneath.
type stubScope struct {
	invoiceRepo ledger.InvoiceRepository
	paymentRepo ledger.PaymentRepository
}

func (s *stubScope) InvoiceRepo() ledger.InvoiceRepository { return s.invoiceRepo }
func (s *stubScope) PaymentRepo() ledger.PaymentRepository { return s.paymentRepo }

func (s *stubScope) Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}
