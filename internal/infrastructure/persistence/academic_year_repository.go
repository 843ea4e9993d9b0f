package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/schoolfees/backend/internal/domain/school"
	"github.com/schoolfees/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormAcademicYearRepository implements school.AcademicYearRepository using GORM
type GormAcademicYearRepository struct {
	db *gorm.DB
}

// NewGormAcademicYearRepository creates a new GormAcademicYearRepository
func NewGormAcademicYearRepository(db *gorm.DB) *GormAcademicYearRepository {
	return &GormAcademicYearRepository{db: db}
}

// FindByID finds an academic year by its ID
func (r *GormAcademicYearRepository) FindByID(ctx context.Context, id uuid.UUID) (*school.AcademicYear, error) {
	var year school.AcademicYear
	if err := r.db.WithContext(ctx).
		First(&year, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &year, nil
}

// FindActive finds the single currently active academic year
func (r *GormAcademicYearRepository) FindActive(ctx context.Context) (*school.AcademicYear, error) {
	var year school.AcademicYear
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		First(&year).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &year, nil
}

// FindAll lists academic years, newest name first by default
func (r *GormAcademicYearRepository) FindAll(ctx context.Context, filter shared.Filter) ([]school.AcademicYear, error) {
	query := r.db.WithContext(ctx).Model(&school.AcademicYear{})
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}

	var years []school.AcademicYear
	query = applyPagination(query, filter, AcademicYearSortFields, "name")
	if err := query.Find(&years).Error; err != nil {
		return nil, err
	}
	return years, nil
}

// Save creates or updates an academic year
func (r *GormAcademicYearRepository) Save(ctx context.Context, year *school.AcademicYear) error {
	if err := r.db.WithContext(ctx).Save(year).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.NewDomainError("ALREADY_EXISTS", "Academic year with this name already exists")
		}
		return err
	}
	return nil
}

// Delete removes an academic year
func (r *GormAcademicYearRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&school.AcademicYear{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeactivateAll clears the active flag on every academic year
func (r *GormAcademicYearRepository) DeactivateAll(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Model(&school.AcademicYear{}).
		Where("is_active = ?", true).
		Update("is_active", false).Error
}

// CountClassHistoryReferences counts class-history rows referencing the year
func (r *GormAcademicYearRepository) CountClassHistoryReferences(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&school.ClassHistory{}).
		Where("academic_year_id = ?", id).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormAcademicYearRepository implements AcademicYearRepository
var _ school.AcademicYearRepository = (*GormAcademicYearRepository)(nil)
