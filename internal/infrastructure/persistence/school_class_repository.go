package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/schoolfees/backend/internal/domain/school"
	"github.com/schoolfees/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormSchoolClassRepository implements school.SchoolClassRepository using GORM
type GormSchoolClassRepository struct {
	db *gorm.DB
}

// NewGormSchoolClassRepository creates a new GormSchoolClassRepository
func NewGormSchoolClassRepository(db *gorm.DB) *GormSchoolClassRepository {
	return &GormSchoolClassRepository{db: db}
}

// FindByID finds a class by its ID
func (r *GormSchoolClassRepository) FindByID(ctx context.Context, id uuid.UUID) (*school.SchoolClass, error) {
	var class school.SchoolClass
	if err := r.db.WithContext(ctx).
		First(&class, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &class, nil
}

// FindAll lists classes ordered by level then name by default
func (r *GormSchoolClassRepository) FindAll(ctx context.Context, filter shared.Filter) ([]school.SchoolClass, error) {
	query := r.db.WithContext(ctx).Model(&school.SchoolClass{})
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}

	var classes []school.SchoolClass
	if filter.OrderBy == "" {
		query = query.Order("level ASC").Order("name ASC")
		if filter.Page > 0 && filter.PageSize > 0 {
			query = query.Offset(filter.Offset()).Limit(filter.PageSize)
		}
	} else {
		query = applyPagination(query, filter, SchoolClassSortFields, "name")
	}
	if err := query.Find(&classes).Error; err != nil {
		return nil, err
	}
	return classes, nil
}

// Save creates or updates a class
func (r *GormSchoolClassRepository) Save(ctx context.Context, class *school.SchoolClass) error {
	if err := r.db.WithContext(ctx).Save(class).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.NewDomainError("ALREADY_EXISTS", "Class with this name already exists")
		}
		return err
	}
	return nil
}

// Delete removes a class
func (r *GormSchoolClassRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&school.SchoolClass{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormSchoolClassRepository implements SchoolClassRepository
var _ school.SchoolClassRepository = (*GormSchoolClassRepository)(nil)
