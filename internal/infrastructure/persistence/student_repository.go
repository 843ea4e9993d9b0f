package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/schoolfees/backend/internal/domain/school"
	"github.com/schoolfees/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormStudentRepository implements school.StudentRepository using GORM
type GormStudentRepository struct {
	db *gorm.DB
}

// NewGormStudentRepository creates a new GormStudentRepository
func NewGormStudentRepository(db *gorm.DB) *GormStudentRepository {
	return &GormStudentRepository{db: db}
}

// FindByID finds a student by their ID
func (r *GormStudentRepository) FindByID(ctx context.Context, id uuid.UUID) (*school.Student, error) {
	var student school.Student
	if err := r.db.WithContext(ctx).
		First(&student, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &student, nil
}

// FindByNIS finds a student by their registration number
func (r *GormStudentRepository) FindByNIS(ctx context.Context, nis string) (*school.Student, error) {
	var student school.Student
	if err := r.db.WithContext(ctx).
		Where("nis = ?", nis).
		First(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &student, nil
}

// FindByUserID finds the student linked to a login account
func (r *GormStudentRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*school.Student, error) {
	var student school.Student
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &student, nil
}

// FindAll lists students matching the filter
func (r *GormStudentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]school.Student, error) {
	query := r.db.WithContext(ctx).Model(&school.Student{})
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("nis ILIKE ? OR full_name ILIKE ?", searchPattern, searchPattern)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}

	var students []school.Student
	query = applyPagination(query, filter, StudentSortFields, "full_name")
	if err := query.Find(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}

// FindActiveIDs returns the IDs of all currently enrolled students
func (r *GormStudentRepository) FindActiveIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&school.Student{}).
		Where("status = ?", school.StudentStatusActive).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// CountByStatus counts students in the given enrollment status
func (r *GormStudentRepository) CountByStatus(ctx context.Context, status school.StudentStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&school.Student{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a student
func (r *GormStudentRepository) Save(ctx context.Context, student *school.Student) error {
	if err := r.db.WithContext(ctx).Save(student).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.NewDomainError("ALREADY_EXISTS", "Student with this NIS already exists")
		}
		return err
	}
	return nil
}

// Delete removes a student
func (r *GormStudentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&school.Student{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormStudentRepository implements StudentRepository
var _ school.StudentRepository = (*GormStudentRepository)(nil)
