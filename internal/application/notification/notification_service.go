package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/schoolfees/backend/internal/domain/notification"
	"github.com/schoolfees/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// NotificationService serves a user's in-app notification feed
type NotificationService struct {
	notificationRepo notification.Repository
	logger           *zap.Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notificationRepo notification.Repository, logger *zap.Logger) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo, logger: logger}
}

// NotificationResponse represents a notification in API responses
type NotificationResponse struct {
	ID      uuid.UUID                     `json:"id"`
	Type    notification.NotificationType `json:"type"`
	Title   string                        `json:"title"`
	Body    string                        `json:"body"`
	IsRead  bool                          `json:"is_read"`
	ReadAt  *time.Time                    `json:"read_at,omitempty"`
	RefID   *uuid.UUID                    `json:"ref_id,omitempty"`
	RefType string                        `json:"ref_type,omitempty"`
	SentAt  time.Time                     `json:"sent_at"`
}

func toNotificationResponse(n *notification.Notification) *NotificationResponse {
	return &NotificationResponse{
		ID:      n.ID,
		Type:    n.Type,
		Title:   n.Title,
		Body:    n.Body,
		IsRead:  n.IsRead,
		ReadAt:  n.ReadAt,
		RefID:   n.RefID,
		RefType: n.RefType,
		SentAt:  n.CreatedAt,
	}
}

// AnnounceRequest sends a general notification to one user
type AnnounceRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
	Title  string    `json:"title" binding:"required"`
	Body   string    `json:"body"`
}

// Announce creates a general notification addressed to a user
func (s *NotificationService) Announce(ctx context.Context, req AnnounceRequest) (*NotificationResponse, error) {
	n, err := notification.NewNotification(req.UserID, notification.TypeGeneral, req.Title, req.Body)
	if err != nil {
		return nil, err
	}
	if err := s.notificationRepo.Save(ctx, n); err != nil {
		return nil, err
	}
	s.logger.Info("announcement sent",
		zap.String("user_id", req.UserID.String()),
		zap.String("title", req.Title))
	return toNotificationResponse(n), nil
}

// ListUserNotifications returns one user's notifications, newest first
func (s *NotificationService) ListUserNotifications(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[*NotificationResponse], error) {
	page, err := s.notificationRepo.FindByUser(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*NotificationResponse, 0, len(page.Items))
	for _, n := range page.Items {
		items = append(items, toNotificationResponse(n))
	}
	return &shared.Paginated[*NotificationResponse]{
		Items:    items,
		Total:    page.Total,
		Page:     page.Page,
		PageSize: page.PageSize,
	}, nil
}

// UnreadCount returns how many unread notifications a user has
func (s *NotificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.notificationRepo.CountUnread(ctx, userID)
}

// MarkRead marks one notification as read. The caller must own it.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) (*NotificationResponse, error) {
	n, err := s.notificationRepo.FindByID(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if n.UserID != userID {
		return nil, shared.NewDomainError("FORBIDDEN", "Notification belongs to another user")
	}
	if n.IsRead {
		return toNotificationResponse(n), nil
	}

	n.MarkRead()
	if err := s.notificationRepo.Save(ctx, n); err != nil {
		return nil, err
	}
	return toNotificationResponse(n), nil
}

// MarkAllRead marks every unread notification of a user as read
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	if err := s.notificationRepo.MarkAllRead(ctx, userID); err != nil {
		return err
	}
	s.logger.Info("notifications marked read", zap.String("user_id", userID.String()))
	return nil
}
