package notification

import (
	"time"

	"github.com/google/uuid"
	"github.com/schoolfees/backend/internal/domain/shared"
)

// NotificationType classifies what the notification is about
type NotificationType string

const (
	TypePaymentReceived NotificationType = "payment_received"
	TypeInvoiceIssued   NotificationType = "invoice_issued"
	TypeInvoiceOverdue  NotificationType = "invoice_overdue"
	TypeGeneral         NotificationType = "general"
)

// IsValid checks if the notification type is valid
func (t NotificationType) IsValid() bool {
	switch t {
	case TypePaymentReceived, TypeInvoiceIssued, TypeInvoiceOverdue, TypeGeneral:
		return true
	}
	return false
}

// Notification is an in-app message addressed to one user
type Notification struct {
	shared.BaseEntity
	UserID  uuid.UUID        `json:"user_id"`
	Type    NotificationType `json:"type"`
	Title   string           `json:"title"`
	Body    string           `json:"body"`
	IsRead  bool             `json:"is_read"`
	ReadAt  *time.Time       `json:"read_at,omitempty"`
	RefID   *uuid.UUID       `json:"ref_id,omitempty"` // related invoice or payment
	RefType string           `json:"ref_type,omitempty"`
}

// NewNotification creates a notification for a user
func NewNotification(userID uuid.UUID, notifType NotificationType, title, body string) (*Notification, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if !notifType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Notification type is not valid")
	}
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Notification title cannot be empty")
	}
	return &Notification{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		Type:       notifType,
		Title:      title,
		Body:       body,
		IsRead:     false,
	}, nil
}

// SetReference links the notification to a source record
func (n *Notification) SetReference(refType string, refID uuid.UUID) {
	n.RefType = refType
	n.RefID = &refID
}

// MarkRead marks the notification as read. Marking twice is a no-op.
func (n *Notification) MarkRead() {
	if n.IsRead {
		return
	}
	now := time.Now()
	n.IsRead = true
	n.ReadAt = &now
	n.UpdatedAt = now
}
