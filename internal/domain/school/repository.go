package school

import (
	"context"

	"github.com/google/uuid"
	"github.com/schoolfees/backend/internal/domain/shared"
)

// Single-row finders in these interfaces return (nil, nil) when no row
// matches; errors are reserved for storage failures.

// AcademicYearRepository provides persistence for academic years
type AcademicYearRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*AcademicYear, error)
	FindActive(ctx context.Context) (*AcademicYear, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]AcademicYear, error)
	Save(ctx context.Context, year *AcademicYear) error
	Delete(ctx context.Context, id uuid.UUID) error
	// DeactivateAll clears the active flag on every year. Callers run this
	// in the same transaction that activates the new year.
	DeactivateAll(ctx context.Context) error
	// CountClassHistoryReferences reports how many class-history rows
	// reference the year; deletion is refused while any exist.
	CountClassHistoryReferences(ctx context.Context, id uuid.UUID) (int64, error)
}

// SchoolClassRepository provides persistence for classes
type SchoolClassRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SchoolClass, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]SchoolClass, error)
	Save(ctx context.Context, class *SchoolClass) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ClassHistoryRepository provides persistence for student class assignments
type ClassHistoryRepository interface {
	FindByStudentAndYear(ctx context.Context, studentID, academicYearID uuid.UUID) (*ClassHistory, error)
	// FindCurrentForStudent returns the row for the student's most recent
	// academic year, or nil when the student has no assignment.
	FindCurrentForStudent(ctx context.Context, studentID uuid.UUID) (*ClassHistory, error)
	// FindStudentIDs resolves the roster of a class in an academic year.
	FindStudentIDs(ctx context.Context, classID, academicYearID uuid.UUID) ([]uuid.UUID, error)
	Save(ctx context.Context, history *ClassHistory) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// FeeCategoryRepository provides persistence for fee categories
type FeeCategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*FeeCategory, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]FeeCategory, error)
	Save(ctx context.Context, category *FeeCategory) error
	Delete(ctx context.Context, id uuid.UUID) error
	// CountInvoiceItemReferences reports how many invoice items bill this
	// category; deletion is refused while any exist.
	CountInvoiceItemReferences(ctx context.Context, id uuid.UUID) (int64, error)
}

// StudentRepository provides persistence for students
type StudentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Student, error)
	FindByNIS(ctx context.Context, nis string) (*Student, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Student, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Student, error)
	// FindActiveIDs returns the IDs of all currently enrolled students,
	// used as the default target set for bulk invoice generation.
	FindActiveIDs(ctx context.Context) ([]uuid.UUID, error)
	CountByStatus(ctx context.Context, status StudentStatus) (int64, error)
	Save(ctx context.Context, student *Student) error
	Delete(ctx context.Context, id uuid.UUID) error
}
