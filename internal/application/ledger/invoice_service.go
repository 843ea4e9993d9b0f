package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/schoolfees/backend/internal/domain/ledger"
	"github.com/schoolfees/backend/internal/domain/school"
	"github.com/schoolfees/backend/internal/domain/shared"
	"github.com/schoolfees/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// numberRetries bounds how often document number allocation is retried when
// a concurrent writer claims the same number first.
const numberRetries = 3

// InvoiceService provides application-level invoice operations
type InvoiceService struct {
	txScope      TransactionScope
	invoiceRepo  ledger.InvoiceRepository
	studentRepo  school.StudentRepository
	yearRepo     school.AcademicYearRepository
	categoryRepo school.FeeCategoryRepository
	historyRepo  school.ClassHistoryRepository
	eventBus     shared.EventBus
	logger       *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	txScope TransactionScope,
	invoiceRepo ledger.InvoiceRepository,
	studentRepo school.StudentRepository,
	yearRepo school.AcademicYearRepository,
	categoryRepo school.FeeCategoryRepository,
	historyRepo school.ClassHistoryRepository,
	eventBus shared.EventBus,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		txScope:      txScope,
		invoiceRepo:  invoiceRepo,
		studentRepo:  studentRepo,
		yearRepo:     yearRepo,
		categoryRepo: categoryRepo,
		historyRepo:  historyRepo,
		eventBus:     eventBus,
		logger:       logger,
	}
}

// InvoiceItemRequest is one line of an invoice to create. Amount overrides
// the fee category default when set.
type InvoiceItemRequest struct {
	FeeCategoryID uuid.UUID        `json:"fee_category_id" binding:"required"`
	Description   string           `json:"description"`
	Amount        *decimal.Decimal `json:"amount"`
}

// CreateInvoiceRequest creates one invoice for one student
type CreateInvoiceRequest struct {
	StudentID      uuid.UUID            `json:"student_id" binding:"required"`
	AcademicYearID *uuid.UUID           `json:"academic_year_id"`
	Title          string               `json:"title"`
	InvoiceType    string               `json:"invoice_type" binding:"required"`
	DueDate        time.Time            `json:"due_date" binding:"required"`
	PeriodMonth    *int                 `json:"period_month"`
	PeriodYear     *int                 `json:"period_year"`
	Items          []InvoiceItemRequest `json:"items" binding:"required,min=1"`
}

// InvoiceItemResponse represents an invoice line in API responses
type InvoiceItemResponse struct {
	ID              uuid.UUID       `json:"id"`
	FeeCategoryID   uuid.UUID       `json:"fee_category_id"`
	FeeCategoryName string          `json:"fee_category_name,omitempty"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID              uuid.UUID             `json:"id"`
	InvoiceNumber   string                `json:"invoice_number"`
	Title           string                `json:"title"`
	StudentID       uuid.UUID             `json:"student_id"`
	StudentName     string                `json:"student_name,omitempty"`
	StudentNIS      string                `json:"student_nis,omitempty"`
	AcademicYearID  uuid.UUID             `json:"academic_year_id"`
	TotalAmount     decimal.Decimal       `json:"total_amount"`
	PaidAmount      decimal.Decimal       `json:"paid_amount"`
	RemainingAmount decimal.Decimal       `json:"remaining_amount"`
	Status          string                `json:"status"`
	InvoiceType     string                `json:"invoice_type"`
	DueDate         time.Time             `json:"due_date"`
	PeriodMonth     *int                  `json:"period_month,omitempty"`
	PeriodYear      *int                  `json:"period_year,omitempty"`
	IsOverdue       bool                  `json:"is_overdue"`
	OverdueDays     int                   `json:"overdue_days"`
	Items           []InvoiceItemResponse `json:"items,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
	Version         int                   `json:"version"`
}

func toInvoiceResponse(inv *ledger.Invoice) *InvoiceResponse {
	now := time.Now()
	resp := &InvoiceResponse{
		ID:              inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		Title:           inv.Title,
		StudentID:       inv.StudentID,
		AcademicYearID:  inv.AcademicYearID,
		TotalAmount:     inv.TotalAmount,
		PaidAmount:      inv.PaidAmount,
		RemainingAmount: inv.RemainingAmount(),
		Status:          inv.Status.String(),
		InvoiceType:     string(inv.InvoiceType),
		DueDate:         inv.DueDate,
		PeriodMonth:     inv.PeriodMonth,
		PeriodYear:      inv.PeriodYear,
		IsOverdue:       inv.IsOverdue(now),
		OverdueDays:     inv.OverdueDays(now),
		CreatedAt:       inv.CreatedAt,
		UpdatedAt:       inv.UpdatedAt,
		Version:         inv.GetVersion(),
	}
	for _, item := range inv.Items {
		resp.Items = append(resp.Items, InvoiceItemResponse{
			ID:            item.ID,
			FeeCategoryID: item.FeeCategoryID,
			Description:   item.Description,
			Amount:        item.Amount,
		})
	}
	return resp
}

// resolveAcademicYear returns the requested year or falls back to the active one
func (s *InvoiceService) resolveAcademicYear(ctx context.Context, id *uuid.UUID) (*school.AcademicYear, error) {
	if id != nil && *id != uuid.Nil {
		year, err := s.yearRepo.FindByID(ctx, *id)
		if err != nil {
			return nil, err
		}
		if year == nil {
			return nil, shared.NewDomainError("NOT_FOUND", "Academic year not found")
		}
		return year, nil
	}
	year, err := s.yearRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	if year == nil {
		return nil, shared.NewDomainError("NO_ACTIVE_YEAR", "No active academic year is configured")
	}
	return year, nil
}

// buildItems resolves item requests against fee categories, falling back to
// the category default amount when no override is given.
func (s *InvoiceService) buildItems(ctx context.Context, reqs []InvoiceItemRequest) ([]*ledger.InvoiceItem, error) {
	items := make([]*ledger.InvoiceItem, 0, len(reqs))
	for _, r := range reqs {
		category, err := s.categoryRepo.FindByID(ctx, r.FeeCategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, shared.NewDomainError("NOT_FOUND", "Fee category not found")
		}

		amount := category.GetDefaultAmountMoney()
		if r.Amount != nil {
			amount = valueobject.NewMoneyIDR(*r.Amount)
		}
		description := r.Description
		if description == "" {
			description = category.Name
		}

		item, err := ledger.NewInvoiceItem(category.ID, description, amount)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// CreateInvoice creates a single invoice for a student
func (s *InvoiceService) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	student, err := s.studentRepo.FindByID(ctx, req.StudentID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Student not found")
	}

	year, err := s.resolveAcademicYear(ctx, req.AcademicYearID)
	if err != nil {
		return nil, err
	}

	invoiceType := ledger.InvoiceType(req.InvoiceType)
	if !invoiceType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INVOICE_TYPE", "Invoice type is not valid")
	}

	items, err := s.buildItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	var created *ledger.Invoice
	err = s.withNumberRetry(func() error {
		return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
			invoiceRepo := repos.InvoiceRepo()

			number, err := nextNumber(ctx, invoiceRepo.FindMaxNumberWithPrefix, ledger.InvoiceNumberPrefix, time.Now())
			if err != nil {
				return err
			}

			// items carry IDs; rebuild per attempt so a retry does not
			// reuse an aggregate that already holds events
			attemptItems := make([]*ledger.InvoiceItem, len(items))
			for i, item := range items {
				clone := *item
				clone.ID = uuid.New()
				attemptItems[i] = &clone
			}

			inv, err := ledger.NewInvoice(number, req.Title, student.ID, year.ID,
				req.DueDate, invoiceType, attemptItems)
			if err != nil {
				return err
			}
			if req.PeriodMonth != nil && req.PeriodYear != nil {
				if err := inv.SetPeriod(*req.PeriodMonth, *req.PeriodYear); err != nil {
					return err
				}
			}

			if invoiceType == ledger.InvoiceTypeSppMonthly && inv.PeriodMonth != nil {
				existing, err := invoiceRepo.FindMonthlySpp(ctx, student.ID, year.ID, *inv.PeriodMonth, *inv.PeriodYear)
				if err != nil {
					return err
				}
				if existing != nil {
					return shared.NewDomainError("ALREADY_EXISTS",
						"Student already has an SPP invoice for this period")
				}
			}

			if err := invoiceRepo.Save(ctx, inv); err != nil {
				return err
			}
			created = inv
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, created)

	s.logger.Info("invoice created",
		zap.String("invoice_number", created.InvoiceNumber),
		zap.String("student_id", created.StudentID.String()),
		zap.String("total", created.TotalAmount.String()))

	return toInvoiceResponse(created), nil
}

// GenerateMonthlySppRequest generates SPP invoices for a billing period
type GenerateMonthlySppRequest struct {
	FeeCategoryID  uuid.UUID        `json:"fee_category_id" binding:"required"`
	AcademicYearID *uuid.UUID       `json:"academic_year_id"`
	PeriodMonth    int              `json:"period_month" binding:"required,min=1,max=12"`
	PeriodYear     int              `json:"period_year" binding:"required"`
	DueDate        time.Time        `json:"due_date" binding:"required"`
	Amount         *decimal.Decimal `json:"amount"`
	ClassID        *uuid.UUID       `json:"class_id"`  // limit to one class roster
	StudentIDs     []uuid.UUID      `json:"student_ids"` // explicit target set
}

// BulkGenerateError describes why one student was not billed
type BulkGenerateError struct {
	StudentID uuid.UUID `json:"student_id"`
	Reason    string    `json:"reason"`
}

// BulkGenerateResponse summarizes a bulk generation run
type BulkGenerateResponse struct {
	GeneratedCount int                 `json:"generated_count"`
	SkippedCount   int                 `json:"skipped_count"`
	Errors         []BulkGenerateError `json:"errors,omitempty"`
}

// resolveTargetStudents picks the target set: explicit IDs, a class roster,
// or every active student.
func (s *InvoiceService) resolveTargetStudents(ctx context.Context, yearID uuid.UUID, classID *uuid.UUID, explicit []uuid.UUID) ([]uuid.UUID, error) {
	if len(explicit) > 0 {
		return explicit, nil
	}
	if classID != nil && *classID != uuid.Nil {
		return s.historyRepo.FindStudentIDs(ctx, *classID, yearID)
	}
	return s.studentRepo.FindActiveIDs(ctx)
}

// GenerateMonthlySpp creates one SPP invoice per target student for the given
// period. Students who already hold an invoice for the period are skipped;
// individual failures are collected instead of aborting the whole run, each
// student billed in its own transaction.
func (s *InvoiceService) GenerateMonthlySpp(ctx context.Context, req GenerateMonthlySppRequest) (*BulkGenerateResponse, error) {
	year, err := s.resolveAcademicYear(ctx, req.AcademicYearID)
	if err != nil {
		return nil, err
	}
	category, err := s.categoryRepo.FindByID(ctx, req.FeeCategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Fee category not found")
	}

	amount := category.GetDefaultAmountMoney()
	if req.Amount != nil {
		amount = valueobject.NewMoneyIDR(*req.Amount)
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "SPP amount must be positive")
	}

	studentIDs, err := s.resolveTargetStudents(ctx, year.ID, req.ClassID, req.StudentIDs)
	if err != nil {
		return nil, err
	}

	title := fmt.Sprintf("SPP %s %d", monthNameID(req.PeriodMonth), req.PeriodYear)
	result := &BulkGenerateResponse{}

	for _, studentID := range studentIDs {
		inv, genErr := s.generateSppForStudent(ctx, studentID, year.ID, category, amount, title, req)
		switch {
		case genErr == nil && inv == nil:
			result.SkippedCount++
		case genErr != nil:
			result.Errors = append(result.Errors, BulkGenerateError{
				StudentID: studentID,
				Reason:    genErr.Error(),
			})
		default:
			result.GeneratedCount++
			s.publishEvents(ctx, inv)
		}
	}

	s.logger.Info("monthly spp generation finished",
		zap.Int("generated", result.GeneratedCount),
		zap.Int("skipped", result.SkippedCount),
		zap.Int("failed", len(result.Errors)),
		zap.Int("period_month", req.PeriodMonth),
		zap.Int("period_year", req.PeriodYear))

	return result, nil
}

// generateSppForStudent bills one student, returning (nil, nil) when skipped
// as a duplicate.
func (s *InvoiceService) generateSppForStudent(
	ctx context.Context,
	studentID, yearID uuid.UUID,
	category *school.FeeCategory,
	amount valueobject.Money,
	title string,
	req GenerateMonthlySppRequest,
) (*ledger.Invoice, error) {
	student, err := s.studentRepo.FindByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Student not found")
	}
	if !student.IsActive() {
		return nil, shared.NewDomainError("INVALID_STATE", "Student is not active")
	}

	var created *ledger.Invoice
	skipped := false
	err = s.withNumberRetry(func() error {
		skipped = false
		return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
			invoiceRepo := repos.InvoiceRepo()

			existing, err := invoiceRepo.FindMonthlySpp(ctx, studentID, yearID, req.PeriodMonth, req.PeriodYear)
			if err != nil {
				return err
			}
			if existing != nil {
				skipped = true
				return nil
			}

			number, err := nextNumber(ctx, invoiceRepo.FindMaxNumberWithPrefix, ledger.InvoiceNumberPrefix, time.Now())
			if err != nil {
				return err
			}

			item, err := ledger.NewInvoiceItem(category.ID, category.Name, amount)
			if err != nil {
				return err
			}
			inv, err := ledger.NewInvoice(number, title, studentID, yearID,
				req.DueDate, ledger.InvoiceTypeSppMonthly, []*ledger.InvoiceItem{item})
			if err != nil {
				return err
			}
			if err := inv.SetPeriod(req.PeriodMonth, req.PeriodYear); err != nil {
				return err
			}

			if err := invoiceRepo.Save(ctx, inv); err != nil {
				return err
			}
			created = inv
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	if skipped {
		return nil, nil
	}
	return created, nil
}

// GenerateBulkRequest bills the same set of fee categories to many students
// at once (building funds, uniforms, exam fees)
type GenerateBulkRequest struct {
	AcademicYearID *uuid.UUID           `json:"academic_year_id"`
	Title          string               `json:"title"`
	InvoiceType    string               `json:"invoice_type" binding:"required"`
	DueDate        time.Time            `json:"due_date" binding:"required"`
	Items          []InvoiceItemRequest `json:"items" binding:"required,min=1"`
	ClassID        *uuid.UUID           `json:"class_id"`
	StudentIDs     []uuid.UUID          `json:"student_ids"`
}

// GenerateBulk creates one invoice per target student billing the same fee
// category set. Students already holding an invoice with exactly this
// category set in the academic year are skipped.
func (s *InvoiceService) GenerateBulk(ctx context.Context, req GenerateBulkRequest) (*BulkGenerateResponse, error) {
	year, err := s.resolveAcademicYear(ctx, req.AcademicYearID)
	if err != nil {
		return nil, err
	}
	invoiceType := ledger.InvoiceType(req.InvoiceType)
	if !invoiceType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INVOICE_TYPE", "Invoice type is not valid")
	}

	templateItems, err := s.buildItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}
	categoryIDs := make([]uuid.UUID, 0, len(templateItems))
	for _, item := range templateItems {
		categoryIDs = append(categoryIDs, item.FeeCategoryID)
	}

	studentIDs, err := s.resolveTargetStudents(ctx, year.ID, req.ClassID, req.StudentIDs)
	if err != nil {
		return nil, err
	}

	result := &BulkGenerateResponse{}
	for _, studentID := range studentIDs {
		inv, genErr := s.generateBulkForStudent(ctx, studentID, year.ID, invoiceType, categoryIDs, templateItems, req)
		switch {
		case genErr == nil && inv == nil:
			result.SkippedCount++
		case genErr != nil:
			result.Errors = append(result.Errors, BulkGenerateError{
				StudentID: studentID,
				Reason:    genErr.Error(),
			})
		default:
			result.GeneratedCount++
			s.publishEvents(ctx, inv)
		}
	}

	s.logger.Info("bulk invoice generation finished",
		zap.Int("generated", result.GeneratedCount),
		zap.Int("skipped", result.SkippedCount),
		zap.Int("failed", len(result.Errors)))

	return result, nil
}

func (s *InvoiceService) generateBulkForStudent(
	ctx context.Context,
	studentID, yearID uuid.UUID,
	invoiceType ledger.InvoiceType,
	categoryIDs []uuid.UUID,
	templateItems []*ledger.InvoiceItem,
	req GenerateBulkRequest,
) (*ledger.Invoice, error) {
	student, err := s.studentRepo.FindByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Student not found")
	}
	if !student.IsActive() {
		return nil, shared.NewDomainError("INVALID_STATE", "Student is not active")
	}

	var created *ledger.Invoice
	skipped := false
	err = s.withNumberRetry(func() error {
		skipped = false
		return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
			invoiceRepo := repos.InvoiceRepo()

			exists, err := invoiceRepo.ExistsWithCategorySet(ctx, studentID, yearID, categoryIDs)
			if err != nil {
				return err
			}
			if exists {
				skipped = true
				return nil
			}

			number, err := nextNumber(ctx, invoiceRepo.FindMaxNumberWithPrefix, ledger.InvoiceNumberPrefix, time.Now())
			if err != nil {
				return err
			}

			attemptItems := make([]*ledger.InvoiceItem, len(templateItems))
			for i, item := range templateItems {
				clone := *item
				clone.ID = uuid.New()
				attemptItems[i] = &clone
			}

			inv, err := ledger.NewInvoice(number, req.Title, studentID, yearID,
				req.DueDate, invoiceType, attemptItems)
			if err != nil {
				return err
			}
			if err := invoiceRepo.Save(ctx, inv); err != nil {
				return err
			}
			created = inv
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	if skipped {
		return nil, nil
	}
	return created, nil
}

// GetInvoice returns one invoice with its items
func (s *InvoiceService) GetInvoice(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Invoice not found")
	}
	return toInvoiceResponse(inv), nil
}

// ListInvoices returns a filtered page of invoices
func (s *InvoiceService) ListInvoices(ctx context.Context, filter ledger.InvoiceFilter) (*shared.Paginated[*InvoiceResponse], error) {
	page, err := s.invoiceRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return mapInvoicePage(page), nil
}

// ListStudentInvoices returns a student's invoices
func (s *InvoiceService) ListStudentInvoices(ctx context.Context, studentID uuid.UUID, filter ledger.InvoiceFilter) (*shared.Paginated[*InvoiceResponse], error) {
	page, err := s.invoiceRepo.FindByStudent(ctx, studentID, filter)
	if err != nil {
		return nil, err
	}
	return mapInvoicePage(page), nil
}

func mapInvoicePage(page *shared.Paginated[*ledger.Invoice]) *shared.Paginated[*InvoiceResponse] {
	items := make([]*InvoiceResponse, 0, len(page.Items))
	for _, inv := range page.Items {
		items = append(items, toInvoiceResponse(inv))
	}
	return &shared.Paginated[*InvoiceResponse]{
		Items:      items,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}
}

// DeleteInvoice voids an invoice. Invoices with recorded payments are
// refused; their items are removed in cascade by the storage layer.
func (s *InvoiceService) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	var voided *ledger.Invoice
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		invoiceRepo := repos.InvoiceRepo()

		inv, err := invoiceRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if inv == nil {
			return shared.NewDomainError("NOT_FOUND", "Invoice not found")
		}
		if err := inv.CanDelete(); err != nil {
			return err
		}
		if err := invoiceRepo.Delete(ctx, id); err != nil {
			return err
		}
		voided = inv
		return nil
	})
	if err != nil {
		return err
	}

	if s.eventBus != nil {
		if err := s.eventBus.Publish(ctx, ledger.NewInvoiceVoidedEvent(voided)); err != nil {
			s.logger.Warn("failed to publish invoice voided event", zap.Error(err))
		}
	}

	s.logger.Info("invoice voided",
		zap.String("invoice_number", voided.InvoiceNumber),
		zap.String("student_id", voided.StudentID.String()))
	return nil
}

// publishEvents drains and publishes an aggregate's pending events
func (s *InvoiceService) publishEvents(ctx context.Context, inv *ledger.Invoice) {
	if s.eventBus == nil {
		return
	}
	events := inv.GetDomainEvents()
	inv.ClearDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventBus.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish invoice events", zap.Error(err))
	}
}

// withNumberRetry reruns fn while it reports a document number collision
func (s *InvoiceService) withNumberRetry(fn func() error) error {
	var err error
	for attempt := 0; attempt < numberRetries; attempt++ {
		err = fn()
		if err == nil || !isNumberConflict(err) {
			return err
		}
		s.logger.Debug("document number conflict, retrying", zap.Int("attempt", attempt+1))
	}
	return err
}

// nextNumber allocates the next document number under the month prefix
func nextNumber(ctx context.Context, findMax func(context.Context, string) (string, error), prefix string, at time.Time) (string, error) {
	monthPrefix := ledger.BuildNumberPrefix(prefix, at)
	maxNumber, err := findMax(ctx, monthPrefix)
	if err != nil {
		return "", err
	}
	return ledger.FormatDocumentNumber(monthPrefix, ledger.NextSequence(monthPrefix, maxNumber)), nil
}

// isNumberConflict recognizes the duplicate-number error surfaced by the
// storage layer's unique index.
func isNumberConflict(err error) bool {
	var de *shared.DomainError
	if errors.As(err, &de) {
		return de.Code == "DUPLICATE_NUMBER"
	}
	return false
}

var monthNamesID = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

func monthNameID(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNamesID[month-1]
}
