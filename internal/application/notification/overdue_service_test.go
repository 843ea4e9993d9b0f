package notification

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/schoolfees/backend/internal/domain/ledger"
	"github.com/schoolfees/backend/internal/domain/notification"
	"github.com/schoolfees/backend/internal/domain/school"
	"github.com/schoolfees/backend/internal/domain/shared"
	"github.com/schoolfees/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
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

func overdueInvoice(t *testing.T, studentID uuid.UUID) *ledger.Invoice {
	t.Helper()
	item, err := ledger.NewInvoiceItem(uuid.New(), "SPP", valueobject.NewMoneyIDRFromFloat(150000))
	require.NoError(t, err)
	inv, err := ledger.NewInvoice("INV/2025/03/0001", "SPP Maret", studentID, uuid.New(),
		time.Now().AddDate(0, 0, -10), ledger.InvoiceTypeSppMonthly, []*ledger.InvoiceItem{item})
	require.NoError(t, err)
	inv.ClearDomainEvents()
	return inv
}

func singlePage(invoices ...*ledger.Invoice) *shared.Paginated[*ledger.Invoice] {
	return &shared.Paginated[*ledger.Invoice]{
		Items:    invoices,
		Total:    int64(len(invoices)),
		Page:     1,
		PageSize: overdueSweepPageSize,
	}
}

func linkedStudent(t *testing.T) *school.Student {
	t.Helper()
	s, err := school.NewStudent("2025-001", "Budi Santoso")
	require.NoError(t, err)
	userID := uuid.New()
	s.UserID = &userID
	return s
}

func TestOverdueSweepNotifies(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	studentRepo := new(MockStudentRepository)
	notificationRepo := new(MockNotificationRepository)
	notifier := NewOverdueNotifier(invoiceRepo, studentRepo, notificationRepo, zap.NewNop())

	studentID := uuid.New()
	inv := overdueInvoice(t, studentID)
	student := linkedStudent(t)

	invoiceRepo.On("FindAll", mock.Anything, mock.AnythingOfType("ledger.InvoiceFilter")).
		Return(singlePage(inv), nil).Once()
	studentRepo.On("FindByID", mock.Anything, studentID).Return(student, nil)
	notificationRepo.On("ExistsForReference", mock.Anything, *student.UserID, notification.TypeInvoiceOverdue, inv.ID).
		Return(false, nil)
	notificationRepo.On("Save", mock.Anything, mock.MatchedBy(func(n *notification.Notification) bool {
		return n.Type == notification.TypeInvoiceOverdue &&
			n.UserID == *student.UserID &&
			n.RefID != nil && *n.RefID == inv.ID
	})).Return(nil)

	result, err := notifier.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Scanned)
	assert.Equal(t, 1, result.Notified)
	assert.Equal(t, 0, result.Skipped)
	notificationRepo.AssertExpectations(t)
}

func TestOverdueSweepDeduplicates(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	studentRepo := new(MockStudentRepository)
	notificationRepo := new(MockNotificationRepository)
	notifier := NewOverdueNotifier(invoiceRepo, studentRepo, notificationRepo, zap.NewNop())

	studentID := uuid.New()
	inv := overdueInvoice(t, studentID)
	student := linkedStudent(t)

	invoiceRepo.On("FindAll", mock.Anything, mock.AnythingOfType("ledger.InvoiceFilter")).
		Return(singlePage(inv), nil).Once()
	studentRepo.On("FindByID", mock.Anything, studentID).Return(student, nil)
	notificationRepo.On("ExistsForReference", mock.Anything, *student.UserID, notification.TypeInvoiceOverdue, inv.ID).
		Return(true, nil)

	result, err := notifier.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Scanned)
	assert.Equal(t, 0, result.Notified)
	assert.Equal(t, 1, result.Skipped)
	notificationRepo.AssertNotCalled(t, "Save")
}

func TestOverdueSweepSkipsUnlinkedStudents(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	studentRepo := new(MockStudentRepository)
	notificationRepo := new(MockNotificationRepository)
	notifier := NewOverdueNotifier(invoiceRepo, studentRepo, notificationRepo, zap.NewNop())

	studentID := uuid.New()
	inv := overdueInvoice(t, studentID)
	unlinked := linkedStudent(t)
	unlinked.UserID = nil

	invoiceRepo.On("FindAll", mock.Anything, mock.AnythingOfType("ledger.InvoiceFilter")).
		Return(singlePage(inv), nil).Once()
	studentRepo.On("FindByID", mock.Anything, studentID).Return(unlinked, nil)

	result, err := notifier.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Notified)
	assert.Equal(t, 1, result.Skipped)
	notificationRepo.AssertNotCalled(t, "ExistsForReference")
	notificationRepo.AssertNotCalled(t, "Save")
}

func TestOverdueSweepEmptyLedger(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	studentRepo := new(MockStudentRepository)
	notificationRepo := new(MockNotificationRepository)
	notifier := NewOverdueNotifier(invoiceRepo, studentRepo, notificationRepo, zap.NewNop())

	invoiceRepo.On("FindAll", mock.Anything, mock.AnythingOfType("ledger.InvoiceFilter")).
		Return(&shared.Paginated[*ledger.Invoice]{Items: nil, Total: 0, Page: 1, PageSize: overdueSweepPageSize}, nil).Once()

	result, err := notifier.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Scanned)
}
