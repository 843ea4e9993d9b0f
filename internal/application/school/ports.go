package school

import (
	"context"

	"github.com/schoolfees/backend/internal/domain/school"
)

// TransactionalRepositories exposes the school repositories bound to one
// database transaction.
type TransactionalRepositories interface {
	AcademicYearRepo() school.AcademicYearRepository
	ClassHistoryRepo() school.ClassHistoryRepository
}

// TransactionScope runs a function atomically against the school repositories
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}
