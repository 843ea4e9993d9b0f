package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/schoolfees/backend/internal/domain/notification"
)

// NotificationModel is the persistence model for in-app notifications.
type NotificationModel struct {
	BaseModel
	UserID  uuid.UUID                     `gorm:"type:uuid;not null;index:idx_notifications_user_read,priority:1"`
	Type    notification.NotificationType `gorm:"type:varchar(30);not null"`
	Title   string                        `gorm:"type:varchar(200);not null"`
	Body    string                        `gorm:"type:text"`
	IsRead  bool                          `gorm:"not null;default:false;index:idx_notifications_user_read,priority:2"`
	ReadAt  *time.Time
	RefID   *uuid.UUID `gorm:"type:uuid"`
	RefType string     `gorm:"type:varchar(30)"`
}

// TableName returns the table name for GORM
func (NotificationModel) TableName() string {
	return "notifications"
}

// ToDomain converts the persistence model to a domain Notification entity.
func (m *NotificationModel) ToDomain() *notification.Notification {
	return &notification.Notification{
		BaseEntity: m.BaseModel.ToDomain(),
		UserID:     m.UserID,
		Type:       m.Type,
		Title:      m.Title,
		Body:       m.Body,
		IsRead:     m.IsRead,
		ReadAt:     m.ReadAt,
		RefID:      m.RefID,
		RefType:    m.RefType,
	}
}

// FromDomain populates the persistence model from a domain Notification entity.
func (m *NotificationModel) FromDomain(n *notification.Notification) {
	m.FromDomainBaseEntity(n.BaseEntity)
	m.UserID = n.UserID
	m.Type = n.Type
	m.Title = n.Title
	m.Body = n.Body
	m.IsRead = n.IsRead
	m.ReadAt = n.ReadAt
	m.RefID = n.RefID
	m.RefType = n.RefType
}

// NotificationModelFromDomain creates a new persistence model from a domain Notification.
func NotificationModelFromDomain(n *notification.Notification) *NotificationModel {
	m := &NotificationModel{}
	m.FromDomain(n)
	return m
}
