package report

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/schoolfees/backend/internal/domain/ledger"
	"github.com/schoolfees/backend/internal/domain/report"
	"github.com/schoolfees/backend/internal/domain/school"
	"github.com/schoolfees/backend/internal/domain/shared"
	"github.com/schoolfees/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockFeeReportRepository struct {
	mock.Mock
}

func (m *MockFeeReportRepository) GetArrears(ctx context.Context, filter report.ArrearsFilter) ([]report.ArrearsRow, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.ArrearsRow), args.Error(1)
}

func (m *MockFeeReportRepository) GetPaymentFacts(ctx context.Context, from, to time.Time) ([]report.PaymentFact, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.PaymentFact), args.Error(1)
}

func (m *MockFeeReportRepository) GetExpectedIncome(ctx context.Context, academicYearID uuid.UUID) ([]report.ExpectedIncomeRow, error) {
	args := m.Called(ctx, academicYearID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.ExpectedIncomeRow), args.Error(1)
}

func (m *MockFeeReportRepository) GetBilledByStatus(ctx context.Context, academicYearID uuid.UUID) ([]report.StatusBilledRow, error) {
	args := m.Called(ctx, academicYearID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.StatusBilledRow), args.Error(1)
}

func (m *MockFeeReportRepository) GetClassReport(ctx context.Context, classID, academicYearID uuid.UUID) ([]report.ClassReportRow, error) {
	args := m.Called(ctx, classID, academicYearID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.ClassReportRow), args.Error(1)
}

func (m *MockFeeReportRepository) GetSppCard(ctx context.Context, studentID, academicYearID uuid.UUID) ([]report.SppCardRow, error) {
	args := m.Called(ctx, studentID, academicYearID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.SppCardRow), args.Error(1)
}

func (m *MockFeeReportRepository) GetMonthlyIncome(ctx context.Context, year int) ([]report.MonthlyIncomeRow, error) {
	args := m.Called(ctx, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.MonthlyIncomeRow), args.Error(1)
}

func (m *MockFeeReportRepository) GetLedgerStats(ctx context.Context, now time.Time) (*report.LedgerStats, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.LedgerStats), args.Error(1)
}

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

type reportFixture struct {
	svc         *ReportService
	reportRepo  *MockFeeReportRepository
	invoiceRepo *MockInvoiceRepository
	studentRepo *MockStudentRepository
	yearRepo    *MockAcademicYearRepository
}

func newReportFixture() *reportFixture {
	f := &reportFixture{
		reportRepo:  new(MockFeeReportRepository),
		invoiceRepo: new(MockInvoiceRepository),
		studentRepo: new(MockStudentRepository),
		yearRepo:    new(MockAcademicYearRepository),
	}
	f.svc = NewReportService(f.reportRepo, f.invoiceRepo, f.studentRepo, f.yearRepo, zap.NewNop())
	return f
}

func TestGetIncomeReport(t *testing.T) {
	ctx := context.Background()
	from := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC)

	t.Run("distributes payment across categories proportionally", func(t *testing.T) {
		f := newReportFixture()
		sppCat := uuid.New()
		bookCat := uuid.New()

		facts := []report.PaymentFact{
			{
				PaymentID:    uuid.New(),
				PaymentDate:  from.AddDate(0, 0, 4),
				Method:       "CASH",
				Amount:       decimal.NewFromInt(60),
				InvoiceTotal: decimal.NewFromInt(150),
				Items: []report.PaymentItemFact{
					{FeeCategoryID: sppCat, CategoryName: "SPP Bulanan", Amount: decimal.NewFromInt(100)},
					{FeeCategoryID: bookCat, CategoryName: "Buku", Amount: decimal.NewFromInt(50)},
				},
			},
		}
		f.reportRepo.On("GetPaymentFacts", ctx, from, to).Return(facts, nil)

		resp, err := f.svc.GetIncomeReport(ctx, from, to)
		require.NoError(t, err)

		assert.True(t, resp.TotalIncome.Equal(decimal.NewFromInt(60)))
		assert.Equal(t, 1, resp.PaymentCount)
		require.Len(t, resp.ByCategory, 2)

		amounts := make(map[uuid.UUID]decimal.Decimal)
		for _, c := range resp.ByCategory {
			amounts[c.FeeCategoryID] = c.Amount
		}
		assert.Equal(t, "40.00", amounts[sppCat].StringFixed(2))
		assert.Equal(t, "20.00", amounts[bookCat].StringFixed(2))
		assert.True(t, resp.ByMethod["CASH"].Equal(decimal.NewFromInt(60)))
	})

	t.Run("sums multiple payments per category", func(t *testing.T) {
		f := newReportFixture()
		sppCat := uuid.New()

		facts := []report.PaymentFact{
			{
				Amount:       decimal.NewFromInt(100),
				Method:       "CASH",
				InvoiceTotal: decimal.NewFromInt(100),
				Items: []report.PaymentItemFact{
					{FeeCategoryID: sppCat, CategoryName: "SPP", Amount: decimal.NewFromInt(100)},
				},
			},
			{
				Amount:       decimal.NewFromInt(50),
				Method:       "TRANSFER",
				InvoiceTotal: decimal.NewFromInt(100),
				Items: []report.PaymentItemFact{
					{FeeCategoryID: sppCat, CategoryName: "SPP", Amount: decimal.NewFromInt(100)},
				},
			},
		}
		f.reportRepo.On("GetPaymentFacts", ctx, from, to).Return(facts, nil)

		resp, err := f.svc.GetIncomeReport(ctx, from, to)
		require.NoError(t, err)
		require.Len(t, resp.ByCategory, 1)
		assert.Equal(t, "150.00", resp.ByCategory[0].Amount.StringFixed(2))
		assert.True(t, resp.ByMethod["TRANSFER"].Equal(decimal.NewFromInt(50)))
	})

	t.Run("breaks income down per day in date order", func(t *testing.T) {
		f := newReportFixture()

		facts := []report.PaymentFact{
			{PaymentDate: from.AddDate(0, 0, 9), Amount: decimal.NewFromInt(75), Method: "CASH", InvoiceTotal: decimal.NewFromInt(75)},
			{PaymentDate: from.AddDate(0, 0, 2), Amount: decimal.NewFromInt(100), Method: "CASH", InvoiceTotal: decimal.NewFromInt(100)},
			{PaymentDate: from.AddDate(0, 0, 2), Amount: decimal.NewFromInt(25), Method: "CASH", InvoiceTotal: decimal.NewFromInt(25)},
		}
		f.reportRepo.On("GetPaymentFacts", ctx, from, to).Return(facts, nil)

		resp, err := f.svc.GetIncomeReport(ctx, from, to)
		require.NoError(t, err)

		require.Len(t, resp.ByDay, 2)
		assert.Equal(t, "2025-07-03", resp.ByDay[0].Date)
		assert.True(t, resp.ByDay[0].Amount.Equal(decimal.NewFromInt(125)))
		assert.Equal(t, 2, resp.ByDay[0].Count)
		assert.Equal(t, "2025-07-10", resp.ByDay[1].Date)
		assert.True(t, resp.ByDay[1].Amount.Equal(decimal.NewFromInt(75)))
		assert.Equal(t, 1, resp.ByDay[1].Count)
	})
}

func TestGetArrearsReport(t *testing.T) {
	ctx := context.Background()
	f := newReportFixture()
	lightDebtor := uuid.New()
	heavyDebtor := uuid.New()

	// repo rows arrive in due-date order; the light debtor comes first
	rows := []report.ArrearsRow{
		{StudentID: lightDebtor, StudentName: "Siti Aminah", Remaining: decimal.NewFromInt(50)},
		{StudentID: heavyDebtor, StudentName: "Budi Santoso", Remaining: decimal.NewFromInt(90)},
		{StudentID: heavyDebtor, StudentName: "Budi Santoso", Remaining: decimal.NewFromInt(150)},
	}
	f.reportRepo.On("GetArrears", ctx, mock.Anything).Return(rows, nil)

	resp, err := f.svc.GetArrearsReport(ctx, report.ArrearsFilter{})
	require.NoError(t, err)
	assert.True(t, resp.TotalOutstanding.Equal(decimal.NewFromInt(290)))
	assert.Equal(t, 3, resp.InvoiceCount)
	assert.Equal(t, 2, resp.StudentCount)

	// grouped per student, biggest summed balance first
	require.Len(t, resp.Students, 2)
	assert.Equal(t, heavyDebtor, resp.Students[0].StudentID)
	assert.True(t, resp.Students[0].TotalRemaining.Equal(decimal.NewFromInt(240)))
	assert.Equal(t, 2, resp.Students[0].InvoiceCount)
	require.Len(t, resp.Students[0].Invoices, 2)
	assert.True(t, resp.Students[0].Invoices[0].Remaining.Equal(decimal.NewFromInt(90)))

	assert.Equal(t, lightDebtor, resp.Students[1].StudentID)
	assert.True(t, resp.Students[1].TotalRemaining.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, 1, resp.Students[1].InvoiceCount)
}

func TestGetSppCard(t *testing.T) {
	ctx := context.Background()

	t.Run("lays out the school year with payment progress per slot", func(t *testing.T) {
		f := newReportFixture()
		student, err := school.NewStudent("2025001", "Budi Santoso")
		require.NoError(t, err)

		year, err := school.NewAcademicYear("2025/2026")
		require.NoError(t, err)
		year.Activate()

		augustDue := time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC)
		rows := []report.SppCardRow{
			{PeriodMonth: 7, PeriodYear: 2025, TotalAmount: decimal.NewFromInt(150), PaidAmount: decimal.NewFromInt(150), Status: "paid", DueDate: time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC)},
			{PeriodMonth: 8, PeriodYear: 2025, TotalAmount: decimal.NewFromInt(150), PaidAmount: decimal.Zero, Status: "unpaid", DueDate: augustDue},
			{PeriodMonth: 1, PeriodYear: 2026, TotalAmount: decimal.NewFromInt(150), PaidAmount: decimal.NewFromInt(50), Status: "partial", DueDate: time.Date(2099, 1, 10, 0, 0, 0, 0, time.UTC)},
		}
		f.studentRepo.On("FindByID", ctx, student.ID).Return(student, nil)
		f.yearRepo.On("FindActive", ctx).Return(year, nil)
		f.yearRepo.On("FindByID", ctx, year.ID).Return(year, nil)
		f.reportRepo.On("GetSppCard", ctx, student.ID, year.ID).Return(rows, nil)

		resp, err := f.svc.GetSppCard(ctx, student.ID, nil)
		require.NoError(t, err)
		require.Len(t, resp.Months, 12)

		// July of the start year opens the card, June of the end year closes it
		assert.Equal(t, 7, resp.Months[0].PeriodMonth)
		assert.Equal(t, 2025, resp.Months[0].PeriodYear)
		assert.Equal(t, 6, resp.Months[11].PeriodMonth)
		assert.Equal(t, 2026, resp.Months[11].PeriodYear)

		// july: fully paid, never overdue
		assert.True(t, resp.Months[0].Billed)
		assert.False(t, resp.Months[0].Overdue)
		assert.Equal(t, 0, resp.Months[0].OverdueDays)
		assert.Equal(t, "100.00", resp.Months[0].PaidPercentage.StringFixed(2))

		// august: unpaid and past due, counted in whole days
		assert.True(t, resp.Months[1].Billed)
		assert.True(t, resp.Months[1].Overdue)
		wantDays := int(dayFloor(time.Now()).Sub(dayFloor(augustDue)).Hours() / 24)
		assert.Equal(t, wantDays, resp.Months[1].OverdueDays)
		assert.True(t, resp.Months[1].PaidPercentage.IsZero())

		// september unbilled
		assert.False(t, resp.Months[2].Billed)
		assert.True(t, resp.Months[2].PaidPercentage.IsZero())

		// january: partial but due far in the future
		jan := resp.Months[6]
		assert.Equal(t, 1, jan.PeriodMonth)
		assert.True(t, jan.Billed)
		assert.False(t, jan.Overdue)
		assert.Equal(t, 0, jan.OverdueDays)
		assert.Equal(t, "33.33", jan.PaidPercentage.StringFixed(2))

		assert.True(t, resp.TotalBilled.Equal(decimal.NewFromInt(450)))
		assert.True(t, resp.TotalPaid.Equal(decimal.NewFromInt(200)))
	})

	t.Run("rejects an unknown student", func(t *testing.T) {
		f := newReportFixture()
		studentID := uuid.New()
		f.studentRepo.On("FindByID", ctx, studentID).Return(nil, nil)

		resp, err := f.svc.GetSppCard(ctx, studentID, nil)
		require.Error(t, err)
		assert.Nil(t, resp)
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "NOT_FOUND", de.Code)
		f.reportRepo.AssertNotCalled(t, "GetSppCard", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestGetExpectedIncome(t *testing.T) {
	ctx := context.Background()

	t.Run("totals billed, paid and the collection rate", func(t *testing.T) {
		f := newReportFixture()
		yearID := uuid.New()

		rows := []report.ExpectedIncomeRow{
			{CategoryName: "SPP Bulanan", BilledAmount: decimal.NewFromInt(600), PaidAmount: decimal.NewFromInt(450), Outstanding: decimal.NewFromInt(150)},
			{CategoryName: "Buku", BilledAmount: decimal.NewFromInt(200), PaidAmount: decimal.NewFromInt(30), Outstanding: decimal.NewFromInt(170)},
		}
		statuses := []report.StatusBilledRow{
			{Status: "paid", BilledAmount: decimal.NewFromInt(480)},
			{Status: "partial", BilledAmount: decimal.NewFromInt(220)},
			{Status: "unpaid", BilledAmount: decimal.NewFromInt(100)},
		}
		f.reportRepo.On("GetExpectedIncome", ctx, yearID).Return(rows, nil)
		f.reportRepo.On("GetBilledByStatus", ctx, yearID).Return(statuses, nil)

		resp, err := f.svc.GetExpectedIncome(ctx, &yearID)
		require.NoError(t, err)

		assert.True(t, resp.TotalBilled.Equal(decimal.NewFromInt(800)))
		assert.True(t, resp.TotalPaid.Equal(decimal.NewFromInt(480)))
		assert.True(t, resp.TotalOutstanding.Equal(decimal.NewFromInt(320)))
		assert.Equal(t, "60.00", resp.CollectionRate.StringFixed(2))
		assert.True(t, resp.ByStatus["paid"].Equal(decimal.NewFromInt(480)))
		assert.True(t, resp.ByStatus["partial"].Equal(decimal.NewFromInt(220)))
		assert.True(t, resp.ByStatus["unpaid"].Equal(decimal.NewFromInt(100)))
	})

	t.Run("reports a zero rate when nothing is billed", func(t *testing.T) {
		f := newReportFixture()
		yearID := uuid.New()
		f.reportRepo.On("GetExpectedIncome", ctx, yearID).Return([]report.ExpectedIncomeRow{}, nil)
		f.reportRepo.On("GetBilledByStatus", ctx, yearID).Return([]report.StatusBilledRow{}, nil)

		resp, err := f.svc.GetExpectedIncome(ctx, &yearID)
		require.NoError(t, err)
		assert.True(t, resp.CollectionRate.IsZero())
		assert.True(t, resp.TotalOutstanding.IsZero())
	})
}

func TestGetClassReport(t *testing.T) {
	ctx := context.Background()
	f := newReportFixture()
	classID := uuid.New()
	yearID := uuid.New()

	rows := []report.ClassReportRow{
		{StudentName: "Budi Santoso", TotalBilled: decimal.NewFromInt(300), TotalPaid: decimal.NewFromInt(300), TotalArrears: decimal.Zero},
		{StudentName: "Siti Aminah", TotalBilled: decimal.NewFromInt(300), TotalPaid: decimal.NewFromInt(100), TotalArrears: decimal.NewFromInt(200)},
	}
	f.reportRepo.On("GetClassReport", ctx, classID, yearID).Return(rows, nil)

	resp, err := f.svc.GetClassReport(ctx, classID, &yearID)
	require.NoError(t, err)
	assert.True(t, resp.TotalBilled.Equal(decimal.NewFromInt(600)))
	assert.True(t, resp.TotalPaid.Equal(decimal.NewFromInt(400)))
	assert.True(t, resp.TotalArrears.Equal(decimal.NewFromInt(200)))
	assert.Equal(t, "66.67", resp.CollectionRate.StringFixed(2))
}

func TestGetMonthlyIncomeFillsEmptyMonths(t *testing.T) {
	ctx := context.Background()
	f := newReportFixture()

	rows := []report.MonthlyIncomeRow{
		{Year: 2025, Month: 3, Amount: decimal.NewFromInt(500), Count: 4},
		{Year: 2025, Month: 7, Amount: decimal.NewFromInt(900), Count: 6},
	}
	f.reportRepo.On("GetMonthlyIncome", ctx, 2025).Return(rows, nil)

	series, err := f.svc.GetMonthlyIncome(ctx, 2025)
	require.NoError(t, err)
	require.Len(t, series, 12)
	assert.True(t, series[0].Amount.IsZero())
	assert.True(t, series[2].Amount.Equal(decimal.NewFromInt(500)))
	assert.True(t, series[6].Amount.Equal(decimal.NewFromInt(900)))
}

func TestGetStudentDashboard(t *testing.T) {
	ctx := context.Background()
	f := newReportFixture()
	studentID := uuid.New()

	mkInvoice := func(t *testing.T, amount float64, due time.Time, paid float64) *ledger.Invoice {
		item, err := ledger.NewInvoiceItem(uuid.New(), "SPP", valueobject.NewMoneyIDRFromFloat(amount))
		require.NoError(t, err)
		inv, err := ledger.NewInvoice("INV/2025/07/0001", "x", studentID, uuid.New(),
			due, ledger.InvoiceTypeSppMonthly, []*ledger.InvoiceItem{item})
		require.NoError(t, err)
		if paid > 0 {
			require.NoError(t, inv.ApplyPayment(valueobject.NewMoneyIDRFromFloat(paid)))
		}
		return inv
	}

	past := time.Now().AddDate(0, 0, -10)
	future := time.Now().AddDate(0, 0, 10)
	invoices := []*ledger.Invoice{
		mkInvoice(t, 150, past, 0),    // overdue, 150 open
		mkInvoice(t, 150, future, 50), // partial, 100 open
	}
	f.invoiceRepo.On("FindOutstandingByStudent", ctx, studentID).Return(invoices, nil)

	resp, err := f.svc.GetStudentDashboard(ctx, studentID)
	require.NoError(t, err)
	assert.True(t, resp.OutstandingTotal.Equal(decimal.NewFromInt(250)))
	assert.Equal(t, 2, resp.UnpaidCount)
	assert.Equal(t, 1, resp.OverdueCount)
	require.NotNil(t, resp.NextDueDate)
	assert.True(t, resp.NextDueDate.Equal(past))
}
