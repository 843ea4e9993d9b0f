package notification

import (
	"context"
	"fmt"

	"github.com/schoolfees/backend/internal/domain/ledger"
	"github.com/schoolfees/backend/internal/domain/notification"
	"github.com/schoolfees/backend/internal/domain/school"
	"github.com/schoolfees/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const overdueSweepPageSize = 200

// OverdueSweepResult summarizes one sweep run
type OverdueSweepResult struct {
	Scanned  int
	Notified int
	Skipped  int
}

// OverdueNotifier scans for overdue invoices and notifies the linked student
// accounts. Each invoice produces at most one overdue notification; repeated
// sweeps are deduplicated against the notification's invoice reference.
type OverdueNotifier struct {
	invoiceRepo      ledger.InvoiceRepository
	studentRepo      school.StudentRepository
	notificationRepo notification.Repository
	logger           *zap.Logger
}

// NewOverdueNotifier creates a new OverdueNotifier
func NewOverdueNotifier(
	invoiceRepo ledger.InvoiceRepository,
	studentRepo school.StudentRepository,
	notificationRepo notification.Repository,
	logger *zap.Logger,
) *OverdueNotifier {
	return &OverdueNotifier{
		invoiceRepo:      invoiceRepo,
		studentRepo:      studentRepo,
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

// Sweep walks every overdue invoice and creates invoice_overdue notifications
// for students with a linked login account
func (s *OverdueNotifier) Sweep(ctx context.Context) (*OverdueSweepResult, error) {
	result := &OverdueSweepResult{}

	filter := ledger.InvoiceFilter{Filter: shared.DefaultFilter(), OverdueOnly: true}
	filter.PageSize = overdueSweepPageSize

	for page := 1; ; page++ {
		filter.Page = page
		invoices, err := s.invoiceRepo.FindAll(ctx, filter)
		if err != nil {
			return result, err
		}
		if len(invoices.Items) == 0 {
			break
		}

		for _, invoice := range invoices.Items {
			result.Scanned++
			notified, err := s.notifyInvoice(ctx, invoice)
			if err != nil {
				s.logger.Warn("overdue notification failed",
					zap.String("invoice_number", invoice.InvoiceNumber),
					zap.Error(err))
			}
			if notified {
				result.Notified++
			} else {
				result.Skipped++
			}
		}

		if int64(page*filter.PageSize) >= invoices.Total {
			break
		}
	}

	s.logger.Info("overdue sweep finished",
		zap.Int("scanned", result.Scanned),
		zap.Int("notified", result.Notified),
		zap.Int("skipped", result.Skipped))
	return result, nil
}

// notifyInvoice reports whether a notification was created. Students without
// a linked account and invoices already notified are skipped without error.
func (s *OverdueNotifier) notifyInvoice(ctx context.Context, invoice *ledger.Invoice) (bool, error) {
	student, err := s.studentRepo.FindByID(ctx, invoice.StudentID)
	if err != nil {
		return false, err
	}
	if student == nil || student.UserID == nil {
		return false, nil
	}

	exists, err := s.notificationRepo.ExistsForReference(ctx, *student.UserID, notification.TypeInvoiceOverdue, invoice.ID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	title := fmt.Sprintf("Invoice %s is overdue", invoice.InvoiceNumber)
	body := fmt.Sprintf("%s was due on %s. Outstanding amount: %s.",
		invoice.Title,
		invoice.DueDate.Format("2 January 2006"),
		invoice.RemainingAmount().StringFixed(2))

	n, err := notification.NewNotification(*student.UserID, notification.TypeInvoiceOverdue, title, body)
	if err != nil {
		return false, err
	}
	n.SetReference("invoice", invoice.ID)
	if err := s.notificationRepo.Save(ctx, n); err != nil {
		return false, err
	}
	return true, nil
}
