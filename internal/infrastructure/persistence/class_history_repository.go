package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/schoolfees/backend/internal/domain/school"
	"github.com/schoolfees/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormClassHistoryRepository implements school.ClassHistoryRepository using GORM
type GormClassHistoryRepository struct {
	db *gorm.DB
}

// NewGormClassHistoryRepository creates a new GormClassHistoryRepository
func NewGormClassHistoryRepository(db *gorm.DB) *GormClassHistoryRepository {
	return &GormClassHistoryRepository{db: db}
}

// FindByStudentAndYear finds the class assignment for a student in one academic year
func (r *GormClassHistoryRepository) FindByStudentAndYear(ctx context.Context, studentID, academicYearID uuid.UUID) (*school.ClassHistory, error) {
	var history school.ClassHistory
	if err := r.db.WithContext(ctx).
		Where("student_id = ? AND academic_year_id = ?", studentID, academicYearID).
		First(&history).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &history, nil
}

// FindCurrentForStudent returns the student's assignment in the most recent
// academic year. The year name sorts chronologically (YYYY/YYYY), so a join
// ordered by name descending yields the latest assignment.
func (r *GormClassHistoryRepository) FindCurrentForStudent(ctx context.Context, studentID uuid.UUID) (*school.ClassHistory, error) {
	var history school.ClassHistory
	if err := r.db.WithContext(ctx).
		Joins("JOIN academic_years ON academic_years.id = student_class_history.academic_year_id").
		Where("student_class_history.student_id = ?", studentID).
		Order("academic_years.name DESC").
		First(&history).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &history, nil
}

// FindStudentIDs resolves the roster of a class in an academic year
func (r *GormClassHistoryRepository) FindStudentIDs(ctx context.Context, classID, academicYearID uuid.UUID) ([]uuid.UUID, error) {
	var studentIDs []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&school.ClassHistory{}).
		Where("class_id = ? AND academic_year_id = ?", classID, academicYearID).
		Pluck("student_id", &studentIDs).Error; err != nil {
		return nil, err
	}
	return studentIDs, nil
}

// Save creates or updates a class assignment
func (r *GormClassHistoryRepository) Save(ctx context.Context, history *school.ClassHistory) error {
	if err := r.db.WithContext(ctx).Save(history).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.NewDomainError("ALREADY_EXISTS", "Student already has a class assignment for this academic year")
		}
		return err
	}
	return nil
}

// Delete removes a class assignment
func (r *GormClassHistoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&school.ClassHistory{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormClassHistoryRepository implements ClassHistoryRepository
var _ school.ClassHistoryRepository = (*GormClassHistoryRepository)(nil)
