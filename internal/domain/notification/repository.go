package notification

import (
	"context"

	"github.com/google/uuid"
	"github.com/schoolfees/backend/internal/domain/shared"
)

// Repository persists notifications. FindByID returns (nil, nil) when no
// row matches.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Notification, error)
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[*Notification], error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)

	// ExistsForReference reports whether the user was already notified about
	// the referenced record with the given type, for sweep deduplication.
	ExistsForReference(ctx context.Context, userID uuid.UUID, notifType NotificationType, refID uuid.UUID) (bool, error)
	Save(ctx context.Context, n *Notification) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}
