package event

import (
	"context"
	"fmt"

	"github.com/schoolfees/backend/internal/domain/ledger"
	"github.com/schoolfees/backend/internal/domain/notification"
	"github.com/schoolfees/backend/internal/domain/school"
	"github.com/schoolfees/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// NotificationHandler turns ledger events into in-app notifications for the
// student's linked login account. Students without a linked account are
// skipped silently.
type NotificationHandler struct {
	studentRepo      school.StudentRepository
	notificationRepo notification.Repository
	logger           *zap.Logger
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(
	studentRepo school.StudentRepository,
	notificationRepo notification.Repository,
	logger *zap.Logger,
) *NotificationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationHandler{
		studentRepo:      studentRepo,
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

// EventTypes returns the ledger events this handler subscribes to
func (h *NotificationHandler) EventTypes() []string {
	return []string{
		ledger.EventPaymentRecorded,
		ledger.EventInvoiceCreated,
	}
}

// Handle processes a single ledger event
func (h *NotificationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *ledger.PaymentRecordedEvent:
		return h.onPaymentRecorded(ctx, e)
	case *ledger.InvoiceCreatedEvent:
		return h.onInvoiceCreated(ctx, e)
	default:
		return nil
	}
}

func (h *NotificationHandler) onPaymentRecorded(ctx context.Context, e *ledger.PaymentRecordedEvent) error {
	student, err := h.studentRepo.FindByID(ctx, e.StudentID)
	if err != nil {
		return err
	}
	if student == nil || student.UserID == nil {
		return nil
	}

	title := "Pembayaran diterima"
	body := fmt.Sprintf("Pembayaran %s sebesar Rp %s untuk tagihan %s telah diterima.",
		e.ReceiptNumber, e.Amount.StringFixed(0), e.InvoiceNumber)
	if e.InvoiceStatus == ledger.InvoiceStatusPaid {
		body += " Tagihan sudah lunas."
	}

	n, err := notification.NewNotification(*student.UserID, notification.TypePaymentReceived, title, body)
	if err != nil {
		return err
	}
	n.SetReference("payment", e.PaymentID)

	if err := h.notificationRepo.Save(ctx, n); err != nil {
		return err
	}
	h.logger.Debug("payment notification created",
		zap.String("receipt_number", e.ReceiptNumber),
		zap.String("user_id", student.UserID.String()),
	)
	return nil
}

func (h *NotificationHandler) onInvoiceCreated(ctx context.Context, e *ledger.InvoiceCreatedEvent) error {
	student, err := h.studentRepo.FindByID(ctx, e.StudentID)
	if err != nil {
		return err
	}
	if student == nil || student.UserID == nil {
		return nil
	}

	title := "Tagihan baru"
	body := fmt.Sprintf("Tagihan %s sebesar Rp %s telah diterbitkan.",
		e.InvoiceNumber, e.TotalAmount.StringFixed(0))

	n, err := notification.NewNotification(*student.UserID, notification.TypeInvoiceIssued, title, body)
	if err != nil {
		return err
	}
	n.SetReference("invoice", e.AggregateID())

	if err := h.notificationRepo.Save(ctx, n); err != nil {
		return err
	}
	h.logger.Debug("invoice notification created",
		zap.String("invoice_number", e.InvoiceNumber),
		zap.String("user_id", student.UserID.String()),
	)
	return nil
}

// Ensure NotificationHandler implements EventHandler
var _ shared.EventHandler = (*NotificationHandler)(nil)
