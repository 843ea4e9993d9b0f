package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/schoolfees/backend/internal/domain/ledger"
	"github.com/schoolfees/backend/internal/domain/shared"
	"github.com/schoolfees/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements ledger.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID finds an invoice with its items by ID
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber finds an invoice by its invoice number
func (r *GormInvoiceRepository) FindByNumber(ctx context.Context, number string) (*ledger.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("invoice_number = ?", number).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds invoices matching the filter with pagination
func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter ledger.InvoiceFilter) (*shared.Paginated[*ledger.Invoice], error) {
	return r.findPage(ctx, r.db.WithContext(ctx).Model(&models.InvoiceModel{}), filter)
}

// FindByStudent finds invoices belonging to one student with pagination
func (r *GormInvoiceRepository) FindByStudent(ctx context.Context, studentID uuid.UUID, filter ledger.InvoiceFilter) (*shared.Paginated[*ledger.Invoice], error) {
	query := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
		Where("student_id = ?", studentID)
	return r.findPage(ctx, query, filter)
}

// FindOutstandingByStudent finds unpaid and partially paid invoices for a student
func (r *GormInvoiceRepository) FindOutstandingByStudent(ctx context.Context, studentID uuid.UUID) ([]*ledger.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("student_id = ? AND status IN ?", studentID,
			[]ledger.InvoiceStatus{ledger.InvoiceStatusUnpaid, ledger.InvoiceStatusPartial}).
		Order("due_date ASC").
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	invoices := make([]*ledger.Invoice, len(invoiceModels))
	for i := range invoiceModels {
		invoices[i] = invoiceModels[i].ToDomain()
	}
	return invoices, nil
}

// FindMonthlySpp finds the monthly SPP invoice for a student and billing period
func (r *GormInvoiceRepository) FindMonthlySpp(ctx context.Context, studentID, academicYearID uuid.UUID, month, year int) (*ledger.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("student_id = ? AND academic_year_id = ? AND invoice_type = ? AND period_month = ? AND period_year = ?",
			studentID, academicYearID, ledger.InvoiceTypeSppMonthly, month, year).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ExistsWithCategorySet reports whether the student already holds an invoice in
// the academic year billing exactly the given fee categories. Candidate rows
// are narrowed in SQL; the set comparison happens in memory because category
// sets per invoice are tiny.
func (r *GormInvoiceRepository) ExistsWithCategorySet(ctx context.Context, studentID, academicYearID uuid.UUID, categoryIDs []uuid.UUID) (bool, error) {
	if len(categoryIDs) == 0 {
		return false, nil
	}
	var invoiceModels []models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("student_id = ? AND academic_year_id = ?", studentID, academicYearID).
		Find(&invoiceModels).Error; err != nil {
		return false, err
	}

	want := make(map[uuid.UUID]struct{}, len(categoryIDs))
	for _, id := range categoryIDs {
		want[id] = struct{}{}
	}
	for i := range invoiceModels {
		if categorySetMatches(invoiceModels[i].Items, want) {
			return true, nil
		}
	}
	return false, nil
}

func categorySetMatches(items []models.InvoiceItemModel, want map[uuid.UUID]struct{}) bool {
	got := make(map[uuid.UUID]struct{}, len(items))
	for _, item := range items {
		got[item.FeeCategoryID] = struct{}{}
	}
	if len(got) != len(want) {
		return false
	}
	for id := range want {
		if _, ok := got[id]; !ok {
			return false
		}
	}
	return true
}

// FindMaxNumberWithPrefix returns the highest invoice number under the prefix
func (r *GormInvoiceRepository) FindMaxNumberWithPrefix(ctx context.Context, prefix string) (string, error) {
	var maxNumber string
	if err := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Select("COALESCE(MAX(invoice_number), '')").
		Where("invoice_number LIKE ?", prefix+"%").
		Scan(&maxNumber).Error; err != nil {
		return "", err
	}
	return maxNumber, nil
}

// Save creates or updates an invoice together with its items
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *ledger.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.NewDomainError("DUPLICATE_NUMBER", "Invoice number already exists")
		}
		return err
	}
	return nil
}

// SaveWithVersion persists the invoice guarded by its pre-mutation version.
// Items are fixed at creation and are not touched here.
func (r *GormInvoiceRepository) SaveWithVersion(ctx context.Context, invoice *ledger.Invoice, expectedVersion int) error {
	result := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("id = ? AND version = ?", invoice.ID, expectedVersion).
		Updates(map[string]interface{}{
			"paid_amount": invoice.PaidAmount,
			"status":      invoice.Status,
			"version":     invoice.Version,
			"updated_at":  invoice.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Delete removes an invoice; its items go with it via the cascade constraint
func (r *GormInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.InvoiceItemModel{}, "invoice_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.InvoiceModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// CountByStatus counts invoices in the given status
func (r *GormInvoiceRepository) CountByStatus(ctx context.Context, status ledger.InvoiceStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormInvoiceRepository) findPage(ctx context.Context, query *gorm.DB, filter ledger.InvoiceFilter) (*shared.Paginated[*ledger.Invoice], error) {
	normalizeFilter(&filter.Filter)
	query = r.applyInvoiceFilter(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var invoiceModels []models.InvoiceModel
	page := applyPagination(query.Preload("Items"), filter.Filter, InvoiceSortFields, "created_at")
	if err := page.Find(&invoiceModels).Error; err != nil {
		return nil, err
	}

	invoices := make([]*ledger.Invoice, len(invoiceModels))
	for i := range invoiceModels {
		invoices[i] = invoiceModels[i].ToDomain()
	}
	result := shared.NewPaginated(invoices, total, filter.Page, filter.PageSize)
	return &result, nil
}

// applyInvoiceFilter applies filter options without pagination
func (r *GormInvoiceRepository) applyInvoiceFilter(query *gorm.DB, filter ledger.InvoiceFilter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("invoice_number ILIKE ? OR title ILIKE ?", searchPattern, searchPattern)
	}
	if filter.StudentID != nil {
		query = query.Where("student_id = ?", *filter.StudentID)
	}
	if filter.AcademicYearID != nil {
		query = query.Where("academic_year_id = ?", *filter.AcademicYearID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.InvoiceType != nil {
		query = query.Where("invoice_type = ?", *filter.InvoiceType)
	}
	if filter.PeriodMonth != nil {
		query = query.Where("period_month = ?", *filter.PeriodMonth)
	}
	if filter.PeriodYear != nil {
		query = query.Where("period_year = ?", *filter.PeriodYear)
	}
	if filter.OverdueOnly {
		query = query.Where("due_date < ? AND status IN ?", time.Now(),
			[]ledger.InvoiceStatus{ledger.InvoiceStatusUnpaid, ledger.InvoiceStatusPartial})
	}
	if filter.DueBefore != nil {
		query = query.Where("due_date < ?", *filter.DueBefore)
	}
	return query
}

// normalizeFilter fills in page defaults so pagination math stays safe
func normalizeFilter(filter *shared.Filter) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = shared.DefaultFilter().PageSize
	}
}

// applyPagination applies whitelisted ordering and page bounds to a query
func applyPagination(query *gorm.DB, filter shared.Filter, sortFields map[string]bool, defaultField string) *gorm.DB {
	orderBy := ValidateSortField(filter.OrderBy, sortFields, defaultField)
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

// Ensure GormInvoiceRepository implements InvoiceRepository
var _ ledger.InvoiceRepository = (*GormInvoiceRepository)(nil)
