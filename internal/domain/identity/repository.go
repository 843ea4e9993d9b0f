package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/schoolfees/backend/internal/domain/shared"
)

// UserRepository persists login accounts. FindByID and FindByUsername
// return (nil, nil) when no account matches.
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*User], error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Save(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uuid.UUID) error
}
