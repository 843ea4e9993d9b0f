package persistence

import (
	"context"

	appschool "github.com/schoolfees/backend/internal/application/school"
	"github.com/schoolfees/backend/internal/domain/school"
	"gorm.io/gorm"
)

// GormSchoolTransactionScope implements the school TransactionScope using
// GORM transactions. Academic year activation deactivates every other year
// and activates the new one in a single transaction through this scope.
type GormSchoolTransactionScope struct {
	db *gorm.DB
}

// NewGormSchoolTransactionScope creates a new GormSchoolTransactionScope.
func NewGormSchoolTransactionScope(db *gorm.DB) *GormSchoolTransactionScope {
	return &GormSchoolTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormSchoolTransactionScope) Execute(ctx context.Context, fn func(repos appschool.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormSchoolTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormSchoolTransactionalRepositories provides school repositories bound to one transaction.
type gormSchoolTransactionalRepositories struct {
	tx *gorm.DB
}

// AcademicYearRepo returns the academic year repository scoped to the current transaction.
func (r *gormSchoolTransactionalRepositories) AcademicYearRepo() school.AcademicYearRepository {
	return NewGormAcademicYearRepository(r.tx)
}

// ClassHistoryRepo returns the class history repository scoped to the current transaction.
func (r *gormSchoolTransactionalRepositories) ClassHistoryRepo() school.ClassHistoryRepository {
	return NewGormClassHistoryRepository(r.tx)
}

// Ensure GormSchoolTransactionScope implements TransactionScope
var _ appschool.TransactionScope = (*GormSchoolTransactionScope)(nil)

// Ensure gormSchoolTransactionalRepositories implements TransactionalRepositories
var _ appschool.TransactionalRepositories = (*gormSchoolTransactionalRepositories)(nil)
