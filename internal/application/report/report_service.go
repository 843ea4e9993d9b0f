package report

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/schoolfees/backend/internal/domain/ledger"
	"github.com/schoolfees/backend/internal/domain/report"
	"github.com/schoolfees/backend/internal/domain/school"
	"github.com/schoolfees/backend/internal/domain/shared"
	"github.com/schoolfees/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReportService provides application-level fee report operations
type ReportService struct {
	reportRepo  report.FeeReportRepository
	invoiceRepo ledger.InvoiceRepository
	studentRepo school.StudentRepository
	yearRepo    school.AcademicYearRepository
	logger      *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(
	reportRepo report.FeeReportRepository,
	invoiceRepo ledger.InvoiceRepository,
	studentRepo school.StudentRepository,
	yearRepo school.AcademicYearRepository,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		reportRepo:  reportRepo,
		invoiceRepo: invoiceRepo,
		studentRepo: studentRepo,
		yearRepo:    yearRepo,
		logger:      logger,
	}
}

// ===================== Arrears =====================

// ArrearsStudentGroup is one student's open invoices with a summed balance
type ArrearsStudentGroup struct {
	StudentID      uuid.UUID           `json:"student_id"`
	StudentNIS     string              `json:"student_nis"`
	StudentName    string              `json:"student_name"`
	ClassName      string              `json:"class_name,omitempty"`
	TotalRemaining decimal.Decimal     `json:"total_remaining"`
	InvoiceCount   int                 `json:"invoice_count"`
	Invoices       []report.ArrearsRow `json:"invoices"`
}

// ArrearsReportResponse groups outstanding invoices per student
type ArrearsReportResponse struct {
	Students         []ArrearsStudentGroup `json:"students"`
	TotalOutstanding decimal.Decimal       `json:"total_outstanding"`
	InvoiceCount     int                   `json:"invoice_count"`
	StudentCount     int                   `json:"student_count"`
}

// GetArrearsReport returns everyone who still owes money, one group per
// student, heaviest debtor first. Invoices within a group keep the repo's
// due-date order.
func (s *ReportService) GetArrearsReport(ctx context.Context, filter report.ArrearsFilter) (*ArrearsReportResponse, error) {
	if filter.AsOf.IsZero() {
		filter.AsOf = time.Now()
	}
	rows, err := s.reportRepo.GetArrears(ctx, filter)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	groups := make([]ArrearsStudentGroup, 0)
	index := make(map[uuid.UUID]int)
	for _, row := range rows {
		total = total.Add(row.Remaining)
		i, ok := index[row.StudentID]
		if !ok {
			i = len(groups)
			index[row.StudentID] = i
			groups = append(groups, ArrearsStudentGroup{
				StudentID:      row.StudentID,
				StudentNIS:     row.StudentNIS,
				StudentName:    row.StudentName,
				ClassName:      row.ClassName,
				TotalRemaining: decimal.Zero,
			})
		}
		groups[i].TotalRemaining = groups[i].TotalRemaining.Add(row.Remaining)
		groups[i].InvoiceCount++
		groups[i].Invoices = append(groups[i].Invoices, row)
	}
	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].TotalRemaining.GreaterThan(groups[b].TotalRemaining)
	})

	return &ArrearsReportResponse{
		Students:         groups,
		TotalOutstanding: total,
		InvoiceCount:     len(rows),
		StudentCount:     len(groups),
	}, nil
}

// ===================== Income =====================

// CategoryIncomeResponse is realized income attributed to one fee category
type CategoryIncomeResponse struct {
	FeeCategoryID uuid.UUID       `json:"fee_category_id"`
	CategoryName  string          `json:"category_name"`
	Amount        decimal.Decimal `json:"amount"`
}

// DailyIncomeResponse is realized income received on one calendar day
type DailyIncomeResponse struct {
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
	Count  int             `json:"count"`
}

// IncomeReportResponse is realized income over a date range
type IncomeReportResponse struct {
	From         time.Time                  `json:"from"`
	To           time.Time                  `json:"to"`
	TotalIncome  decimal.Decimal            `json:"total_income"`
	PaymentCount int                        `json:"payment_count"`
	ByCategory   []CategoryIncomeResponse   `json:"by_category"`
	ByMethod     map[string]decimal.Decimal `json:"by_method"`
	ByDay        []DailyIncomeResponse      `json:"by_day"`
}

// GetIncomeReport returns money received in the range, distributed across
// fee categories. A payment covering a multi-line invoice is split across
// the lines in proportion to their share of the invoice total.
func (s *ReportService) GetIncomeReport(ctx context.Context, from, to time.Time) (*IncomeReportResponse, error) {
	facts, err := s.reportRepo.GetPaymentFacts(ctx, from, to)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	byMethod := make(map[string]decimal.Decimal)
	type bucket struct {
		name   string
		amount decimal.Decimal
	}
	byCategory := make(map[uuid.UUID]*bucket)
	byDay := make(map[string]*DailyIncomeResponse)

	for _, fact := range facts {
		total = total.Add(fact.Amount)
		byMethod[fact.Method] = byMethod[fact.Method].Add(fact.Amount)

		day := fact.PaymentDate.Format("2006-01-02")
		d, ok := byDay[day]
		if !ok {
			d = &DailyIncomeResponse{Date: day, Amount: decimal.Zero}
			byDay[day] = d
		}
		d.Amount = d.Amount.Add(fact.Amount)
		d.Count++

		payment := valueobject.NewMoneyIDR(fact.Amount)
		for _, item := range fact.Items {
			share := payment.ProportionOf(item.Amount, fact.InvoiceTotal)
			b, ok := byCategory[item.FeeCategoryID]
			if !ok {
				b = &bucket{name: item.CategoryName, amount: decimal.Zero}
				byCategory[item.FeeCategoryID] = b
			}
			b.amount = b.amount.Add(share.Amount())
		}
	}

	resp := &IncomeReportResponse{
		From:         from,
		To:           to,
		TotalIncome:  total,
		PaymentCount: len(facts),
		ByMethod:     byMethod,
	}
	for id, b := range byCategory {
		resp.ByCategory = append(resp.ByCategory, CategoryIncomeResponse{
			FeeCategoryID: id,
			CategoryName:  b.name,
			Amount:        b.amount,
		})
	}
	for _, d := range byDay {
		resp.ByDay = append(resp.ByDay, *d)
	}
	sort.Slice(resp.ByDay, func(a, b int) bool {
		return resp.ByDay[a].Date < resp.ByDay[b].Date
	})
	return resp, nil
}

// ===================== Expected income =====================

// ExpectedIncomeResponse is billed versus collected totals for a year.
// CollectionRate is total paid over total billed as a percentage, zero when
// nothing has been billed.
type ExpectedIncomeResponse struct {
	AcademicYearID   uuid.UUID                  `json:"academic_year_id"`
	Rows             []report.ExpectedIncomeRow `json:"rows"`
	ByStatus         map[string]decimal.Decimal `json:"by_status"`
	TotalBilled      decimal.Decimal            `json:"total_billed"`
	TotalPaid        decimal.Decimal            `json:"total_paid"`
	TotalOutstanding decimal.Decimal            `json:"total_outstanding"`
	CollectionRate   decimal.Decimal            `json:"collection_rate"`
}

// GetExpectedIncome returns how much has been billed per category in an
// academic year and how much of it was collected.
func (s *ReportService) GetExpectedIncome(ctx context.Context, academicYearID *uuid.UUID) (*ExpectedIncomeResponse, error) {
	yearID, err := s.resolveYearID(ctx, academicYearID)
	if err != nil {
		return nil, err
	}
	rows, err := s.reportRepo.GetExpectedIncome(ctx, yearID)
	if err != nil {
		return nil, err
	}
	statusRows, err := s.reportRepo.GetBilledByStatus(ctx, yearID)
	if err != nil {
		return nil, err
	}

	billed := decimal.Zero
	paid := decimal.Zero
	for _, row := range rows {
		billed = billed.Add(row.BilledAmount)
		paid = paid.Add(row.PaidAmount)
	}
	byStatus := make(map[string]decimal.Decimal, len(statusRows))
	for _, row := range statusRows {
		byStatus[row.Status] = row.BilledAmount
	}

	return &ExpectedIncomeResponse{
		AcademicYearID:   yearID,
		Rows:             rows,
		ByStatus:         byStatus,
		TotalBilled:      billed,
		TotalPaid:        paid,
		TotalOutstanding: billed.Sub(paid),
		CollectionRate:   collectionRate(paid, billed),
	}, nil
}

// ===================== Class report =====================

// ClassReportResponse is billing totals per student in one class
type ClassReportResponse struct {
	ClassID        uuid.UUID               `json:"class_id"`
	AcademicYearID uuid.UUID               `json:"academic_year_id"`
	Rows           []report.ClassReportRow `json:"rows"`
	TotalBilled    decimal.Decimal         `json:"total_billed"`
	TotalPaid      decimal.Decimal         `json:"total_paid"`
	TotalArrears   decimal.Decimal         `json:"total_arrears"`
	CollectionRate decimal.Decimal         `json:"collection_rate"`
}

// GetClassReport returns per-student billing totals for one class
func (s *ReportService) GetClassReport(ctx context.Context, classID uuid.UUID, academicYearID *uuid.UUID) (*ClassReportResponse, error) {
	yearID, err := s.resolveYearID(ctx, academicYearID)
	if err != nil {
		return nil, err
	}
	rows, err := s.reportRepo.GetClassReport(ctx, classID, yearID)
	if err != nil {
		return nil, err
	}
	resp := &ClassReportResponse{
		ClassID:        classID,
		AcademicYearID: yearID,
		Rows:           rows,
		TotalBilled:    decimal.Zero,
		TotalPaid:      decimal.Zero,
		TotalArrears:   decimal.Zero,
	}
	for _, row := range rows {
		resp.TotalBilled = resp.TotalBilled.Add(row.TotalBilled)
		resp.TotalPaid = resp.TotalPaid.Add(row.TotalPaid)
		resp.TotalArrears = resp.TotalArrears.Add(row.TotalArrears)
	}
	resp.CollectionRate = collectionRate(resp.TotalPaid, resp.TotalBilled)
	return resp, nil
}

// ===================== SPP card =====================

// SppCardMonth is one month slot on the SPP card
type SppCardMonth struct {
	PeriodMonth    int                `json:"period_month"`
	PeriodYear     int                `json:"period_year"`
	MonthName      string             `json:"month_name"`
	Billed         bool               `json:"billed"`
	Invoice        *report.SppCardRow `json:"invoice,omitempty"`
	Overdue        bool               `json:"overdue"`
	OverdueDays    int                `json:"overdue_days"`
	PaidPercentage decimal.Decimal    `json:"paid_percentage"`
}

// SppCardResponse is a student's monthly SPP card over a school year,
// laid out July through June.
type SppCardResponse struct {
	StudentID      uuid.UUID       `json:"student_id"`
	AcademicYearID uuid.UUID       `json:"academic_year_id"`
	Months         []SppCardMonth  `json:"months"`
	TotalBilled    decimal.Decimal `json:"total_billed"`
	TotalPaid      decimal.Decimal `json:"total_paid"`
}

var monthNamesID = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// GetSppCard returns the student's SPP card for an academic year. The school
// year runs July of the start year through June of the end year; months
// without an invoice appear as unbilled slots.
func (s *ReportService) GetSppCard(ctx context.Context, studentID uuid.UUID, academicYearID *uuid.UUID) (*SppCardResponse, error) {
	student, err := s.studentRepo.FindByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Student not found")
	}

	yearID, err := s.resolveYearID(ctx, academicYearID)
	if err != nil {
		return nil, err
	}
	year, err := s.yearRepo.FindByID(ctx, yearID)
	if err != nil {
		return nil, err
	}
	if year == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Academic year not found")
	}

	rows, err := s.reportRepo.GetSppCard(ctx, studentID, yearID)
	if err != nil {
		return nil, err
	}
	byPeriod := make(map[[2]int]report.SppCardRow, len(rows))
	for _, row := range rows {
		byPeriod[[2]int{row.PeriodYear, row.PeriodMonth}] = row
	}

	now := time.Now()
	resp := &SppCardResponse{
		StudentID:      studentID,
		AcademicYearID: yearID,
		TotalBilled:    decimal.Zero,
		TotalPaid:      decimal.Zero,
	}

	// July..December of the start year, then January..June of the end year
	startYear := year.StartYear()
	endYear := year.EndYear()
	for i := 0; i < 12; i++ {
		month := (6+i)%12 + 1
		calYear := startYear
		if month <= 6 {
			calYear = endYear
		}

		slot := SppCardMonth{
			PeriodMonth: month,
			PeriodYear:  calYear,
			MonthName:   monthNamesID[month-1],
		}
		if row, ok := byPeriod[[2]int{calYear, month}]; ok {
			r := row
			slot.Billed = true
			slot.Invoice = &r
			slot.Overdue = row.Status != string(ledger.InvoiceStatusPaid) && row.DueDate.Before(dayFloor(now))
			if slot.Overdue {
				slot.OverdueDays = int(dayFloor(now).Sub(dayFloor(row.DueDate)).Hours() / 24)
			}
			slot.PaidPercentage = collectionRate(row.PaidAmount, row.TotalAmount)
			resp.TotalBilled = resp.TotalBilled.Add(row.TotalAmount)
			resp.TotalPaid = resp.TotalPaid.Add(row.PaidAmount)
		}
		resp.Months = append(resp.Months, slot)
	}
	return resp, nil
}

// ===================== Income series and dashboards =====================

// GetMonthlyIncome returns received income per month of a calendar year
func (s *ReportService) GetMonthlyIncome(ctx context.Context, year int) ([]report.MonthlyIncomeRow, error) {
	rows, err := s.reportRepo.GetMonthlyIncome(ctx, year)
	if err != nil {
		return nil, err
	}

	// fill empty months so charts get a full series
	byMonth := make(map[int]report.MonthlyIncomeRow, len(rows))
	for _, row := range rows {
		byMonth[row.Month] = row
	}
	series := make([]report.MonthlyIncomeRow, 0, 12)
	for month := 1; month <= 12; month++ {
		if row, ok := byMonth[month]; ok {
			series = append(series, row)
			continue
		}
		series = append(series, report.MonthlyIncomeRow{
			Year:   year,
			Month:  month,
			Amount: decimal.Zero,
		})
	}
	return series, nil
}

// AdminDashboardResponse is the headline view for administrators
type AdminDashboardResponse struct {
	Stats         *report.LedgerStats       `json:"stats"`
	MonthlyIncome []report.MonthlyIncomeRow `json:"monthly_income"`
}

// GetAdminDashboard returns ledger stats plus the income series of the
// current calendar year
func (s *ReportService) GetAdminDashboard(ctx context.Context) (*AdminDashboardResponse, error) {
	now := time.Now()
	stats, err := s.reportRepo.GetLedgerStats(ctx, now)
	if err != nil {
		return nil, err
	}
	series, err := s.GetMonthlyIncome(ctx, now.Year())
	if err != nil {
		return nil, err
	}
	return &AdminDashboardResponse{Stats: stats, MonthlyIncome: series}, nil
}

// StudentDashboardResponse is the headline view for one student
type StudentDashboardResponse struct {
	StudentID        uuid.UUID       `json:"student_id"`
	OutstandingTotal decimal.Decimal `json:"outstanding_total"`
	UnpaidCount      int             `json:"unpaid_count"`
	OverdueCount     int             `json:"overdue_count"`
	NextDueDate      *time.Time      `json:"next_due_date,omitempty"`
}

// GetStudentDashboard summarizes a student's open invoices
func (s *ReportService) GetStudentDashboard(ctx context.Context, studentID uuid.UUID) (*StudentDashboardResponse, error) {
	invoices, err := s.invoiceRepo.FindOutstandingByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	resp := &StudentDashboardResponse{
		StudentID:        studentID,
		OutstandingTotal: decimal.Zero,
	}
	for _, inv := range invoices {
		resp.OutstandingTotal = resp.OutstandingTotal.Add(inv.RemainingAmount())
		resp.UnpaidCount++
		if inv.IsOverdue(now) {
			resp.OverdueCount++
		}
		if resp.NextDueDate == nil || inv.DueDate.Before(*resp.NextDueDate) {
			due := inv.DueDate
			resp.NextDueDate = &due
		}
	}
	return resp, nil
}

// collectionRate returns paid over billed as a percentage rounded to two
// places, zero when nothing has been billed
func collectionRate(paid, billed decimal.Decimal) decimal.Decimal {
	if billed.IsZero() {
		return decimal.Zero
	}
	return paid.Div(billed).Mul(decimal.NewFromInt(100)).Round(2)
}

func dayFloor(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func (s *ReportService) resolveYearID(ctx context.Context, id *uuid.UUID) (uuid.UUID, error) {
	if id != nil && *id != uuid.Nil {
		return *id, nil
	}
	year, err := s.yearRepo.FindActive(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	if year == nil {
		return uuid.Nil, shared.NewDomainError("NO_ACTIVE_YEAR", "No active academic year is configured")
	}
	return year.ID, nil
}
