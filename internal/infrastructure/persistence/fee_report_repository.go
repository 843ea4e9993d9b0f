package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/schoolfees/backend/internal/domain/report"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormFeeReportRepository implements report.FeeReportRepository using GORM.
// All aggregation happens in SQL; callers receive shaped rows.
type GormFeeReportRepository struct {
	db *gorm.DB
}

// NewGormFeeReportRepository creates a new GormFeeReportRepository
func NewGormFeeReportRepository(db *gorm.DB) *GormFeeReportRepository {
	return &GormFeeReportRepository{db: db}
}

// GetArrears returns outstanding invoices joined with student and class info
func (r *GormFeeReportRepository) GetArrears(ctx context.Context, filter report.ArrearsFilter) ([]report.ArrearsRow, error) {
	query := r.db.WithContext(ctx).Table("invoices i").
		Select(`i.student_id,
			s.nis AS student_nis,
			s.full_name AS student_name,
			COALESCE(c.name, '') AS class_name,
			i.id AS invoice_id,
			i.invoice_number,
			i.title,
			i.total_amount,
			i.paid_amount,
			i.total_amount - i.paid_amount AS remaining,
			i.due_date,
			i.status`).
		Joins("JOIN students s ON s.id = i.student_id").
		Joins("LEFT JOIN student_class_history ch ON ch.student_id = i.student_id AND ch.academic_year_id = i.academic_year_id").
		Joins("LEFT JOIN classes c ON c.id = ch.class_id").
		Where("i.status IN ?", []string{"unpaid", "partial"})

	if filter.AcademicYearID != nil {
		query = query.Where("i.academic_year_id = ?", *filter.AcademicYearID)
	}
	if filter.ClassID != nil {
		query = query.Where("ch.class_id = ?", *filter.ClassID)
	}
	if filter.StudentID != nil {
		query = query.Where("i.student_id = ?", *filter.StudentID)
	}
	if filter.OverdueOnly {
		asOf := filter.AsOf
		if asOf.IsZero() {
			asOf = time.Now()
		}
		query = query.Where("i.due_date < ?", asOf)
	}

	var rows []report.ArrearsRow
	if err := query.
		Order("i.due_date ASC").
		Order("s.full_name ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

type paymentFactRow struct {
	PaymentID     uuid.UUID
	ReceiptNumber string
	PaymentDate   time.Time
	Method        string
	Amount        decimal.Decimal
	InvoiceID     uuid.UUID
	InvoiceNumber string
	InvoiceTotal  decimal.Decimal
	StudentID     uuid.UUID
	StudentName   string
}

type paymentItemRow struct {
	InvoiceID     uuid.UUID
	FeeCategoryID uuid.UUID
	CategoryName  string
	Amount        decimal.Decimal
}

// GetPaymentFacts returns payments in the period joined with their invoice
// breakdown, so the report service can distribute each payment across fee
// categories.
func (r *GormFeeReportRepository) GetPaymentFacts(ctx context.Context, from, to time.Time) ([]report.PaymentFact, error) {
	var factRows []paymentFactRow
	if err := r.db.WithContext(ctx).Table("payments p").
		Select(`p.id AS payment_id,
			p.receipt_number,
			p.payment_date,
			p.method,
			p.amount,
			i.id AS invoice_id,
			i.invoice_number,
			i.total_amount AS invoice_total,
			i.student_id,
			s.full_name AS student_name`).
		Joins("JOIN invoices i ON i.id = p.invoice_id").
		Joins("JOIN students s ON s.id = i.student_id").
		Where("p.payment_date BETWEEN ? AND ?", from, to).
		Order("p.payment_date ASC").
		Scan(&factRows).Error; err != nil {
		return nil, err
	}
	if len(factRows) == 0 {
		return []report.PaymentFact{}, nil
	}

	invoiceIDs := make([]uuid.UUID, 0, len(factRows))
	seen := make(map[uuid.UUID]struct{}, len(factRows))
	for _, row := range factRows {
		if _, ok := seen[row.InvoiceID]; ok {
			continue
		}
		seen[row.InvoiceID] = struct{}{}
		invoiceIDs = append(invoiceIDs, row.InvoiceID)
	}

	var itemRows []paymentItemRow
	if err := r.db.WithContext(ctx).Table("invoice_items ii").
		Select(`ii.invoice_id,
			ii.fee_category_id,
			fc.name AS category_name,
			ii.amount`).
		Joins("JOIN fee_categories fc ON fc.id = ii.fee_category_id").
		Where("ii.invoice_id IN ?", invoiceIDs).
		Scan(&itemRows).Error; err != nil {
		return nil, err
	}

	itemsByInvoice := make(map[uuid.UUID][]report.PaymentItemFact, len(invoiceIDs))
	for _, row := range itemRows {
		itemsByInvoice[row.InvoiceID] = append(itemsByInvoice[row.InvoiceID], report.PaymentItemFact{
			FeeCategoryID: row.FeeCategoryID,
			CategoryName:  row.CategoryName,
			Amount:        row.Amount,
		})
	}

	facts := make([]report.PaymentFact, len(factRows))
	for i, row := range factRows {
		facts[i] = report.PaymentFact{
			PaymentID:     row.PaymentID,
			ReceiptNumber: row.ReceiptNumber,
			PaymentDate:   row.PaymentDate,
			Method:        row.Method,
			Amount:        row.Amount,
			InvoiceID:     row.InvoiceID,
			InvoiceNumber: row.InvoiceNumber,
			InvoiceTotal:  row.InvoiceTotal,
			StudentID:     row.StudentID,
			StudentName:   row.StudentName,
			Items:         itemsByInvoice[row.InvoiceID],
		}
	}
	return facts, nil
}

// GetExpectedIncome returns billed and collected totals per fee category for
// an academic year. Invoice-level payments are attributed to each line in
// proportion to its share of the invoice total.
func (r *GormFeeReportRepository) GetExpectedIncome(ctx context.Context, academicYearID uuid.UUID) ([]report.ExpectedIncomeRow, error) {
	var rows []report.ExpectedIncomeRow
	if err := r.db.WithContext(ctx).Table("invoice_items ii").
		Select(`ii.fee_category_id,
			fc.name AS category_name,
			COALESCE(SUM(ii.amount), 0) AS billed_amount,
			COALESCE(SUM(CASE WHEN i.total_amount > 0 THEN ii.amount * i.paid_amount / i.total_amount ELSE 0 END), 0) AS paid_amount,
			COUNT(DISTINCT i.id) AS invoice_count`).
		Joins("JOIN invoices i ON i.id = ii.invoice_id").
		Joins("JOIN fee_categories fc ON fc.id = ii.fee_category_id").
		Where("i.academic_year_id = ?", academicYearID).
		Group("ii.fee_category_id, fc.name").
		Order("fc.name ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Outstanding = rows[i].BilledAmount.Sub(rows[i].PaidAmount)
	}
	return rows, nil
}

// GetBilledByStatus returns billed totals per invoice status for an academic year
func (r *GormFeeReportRepository) GetBilledByStatus(ctx context.Context, academicYearID uuid.UUID) ([]report.StatusBilledRow, error) {
	var rows []report.StatusBilledRow
	if err := r.db.WithContext(ctx).Table("invoices").
		Select(`status, COALESCE(SUM(total_amount), 0) AS billed_amount`).
		Where("academic_year_id = ?", academicYearID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetClassReport returns per-student billing totals for one class and year
func (r *GormFeeReportRepository) GetClassReport(ctx context.Context, classID, academicYearID uuid.UUID) ([]report.ClassReportRow, error) {
	var rows []report.ClassReportRow
	if err := r.db.WithContext(ctx).Table("student_class_history ch").
		Select(`s.id AS student_id,
			s.nis AS student_nis,
			s.full_name AS student_name,
			COALESCE(SUM(i.total_amount), 0) AS total_billed,
			COALESCE(SUM(i.paid_amount), 0) AS total_paid,
			COALESCE(SUM(i.total_amount - i.paid_amount), 0) AS total_arrears,
			COUNT(i.id) AS invoice_count`).
		Joins("JOIN students s ON s.id = ch.student_id").
		Joins("LEFT JOIN invoices i ON i.student_id = ch.student_id AND i.academic_year_id = ch.academic_year_id").
		Where("ch.class_id = ? AND ch.academic_year_id = ?", classID, academicYearID).
		Group("s.id, s.nis, s.full_name").
		Order("s.full_name ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetSppCard returns the monthly SPP invoices of one student in one year,
// each with the date of its latest payment.
func (r *GormFeeReportRepository) GetSppCard(ctx context.Context, studentID, academicYearID uuid.UUID) ([]report.SppCardRow, error) {
	var rows []report.SppCardRow
	if err := r.db.WithContext(ctx).Table("invoices i").
		Select(`i.id AS invoice_id,
			i.period_month,
			i.period_year,
			i.total_amount,
			i.paid_amount,
			i.status,
			i.due_date,
			(SELECT MAX(p.payment_date) FROM payments p WHERE p.invoice_id = i.id) AS last_payment`).
		Where("i.student_id = ? AND i.academic_year_id = ? AND i.invoice_type = ?",
			studentID, academicYearID, "spp_monthly").
		Order("i.period_year ASC, i.period_month ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetMonthlyIncome returns received income per calendar month of one year
func (r *GormFeeReportRepository) GetMonthlyIncome(ctx context.Context, year int) ([]report.MonthlyIncomeRow, error) {
	var rows []report.MonthlyIncomeRow
	if err := r.db.WithContext(ctx).Table("payments").
		Select(`EXTRACT(YEAR FROM payment_date)::int AS year,
			EXTRACT(MONTH FROM payment_date)::int AS month,
			COALESCE(SUM(amount), 0) AS amount,
			COUNT(*) AS count`).
		Where("EXTRACT(YEAR FROM payment_date) = ?", year).
		Group("EXTRACT(YEAR FROM payment_date), EXTRACT(MONTH FROM payment_date)").
		Order("month ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetLedgerStats returns the headline dashboard numbers
func (r *GormFeeReportRepository) GetLedgerStats(ctx context.Context, now time.Time) (*report.LedgerStats, error) {
	stats := &report.LedgerStats{}

	if err := r.db.WithContext(ctx).Table("students").
		Select("COUNT(*)").
		Where("status = ?", "ACTIVE").
		Scan(&stats.ActiveStudents).Error; err != nil {
		return nil, err
	}

	var statusCounts []struct {
		Status string
		Count  int64
	}
	if err := r.db.WithContext(ctx).Table("invoices").
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&statusCounts).Error; err != nil {
		return nil, err
	}
	for _, sc := range statusCounts {
		switch sc.Status {
		case "unpaid":
			stats.UnpaidInvoices = sc.Count
		case "partial":
			stats.PartialInvoices = sc.Count
		case "paid":
			stats.PaidInvoices = sc.Count
		}
	}

	if err := r.db.WithContext(ctx).Table("invoices").
		Select("COALESCE(SUM(total_amount - paid_amount), 0)").
		Where("status IN ?", []string{"unpaid", "partial"}).
		Scan(&stats.OutstandingTotal).Error; err != nil {
		return nil, err
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)
	if err := r.db.WithContext(ctx).Table("payments").
		Select("COALESCE(SUM(amount), 0)").
		Where("payment_date >= ? AND payment_date < ?", monthStart, monthEnd).
		Scan(&stats.CollectedThisMonth).Error; err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Table("invoices").
		Select("COUNT(*)").
		Where("due_date < ? AND status IN ?", now, []string{"unpaid", "partial"}).
		Scan(&stats.OverdueInvoices).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

// Ensure GormFeeReportRepository implements FeeReportRepository
var _ report.FeeReportRepository = (*GormFeeReportRepository)(nil)
