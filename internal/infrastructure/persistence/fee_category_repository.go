package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/schoolfees/backend/internal/domain/school"
	"github.com/schoolfees/backend/internal/domain/shared"
	"github.com/schoolfees/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormFeeCategoryRepository implements school.FeeCategoryRepository using GORM
type GormFeeCategoryRepository struct {
	db *gorm.DB
}

// NewGormFeeCategoryRepository creates a new GormFeeCategoryRepository
func NewGormFeeCategoryRepository(db *gorm.DB) *GormFeeCategoryRepository {
	return &GormFeeCategoryRepository{db: db}
}

// FindByID finds a fee category by its ID
func (r *GormFeeCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*school.FeeCategory, error) {
	var category school.FeeCategory
	if err := r.db.WithContext(ctx).
		First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

// FindAll lists fee categories
func (r *GormFeeCategoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]school.FeeCategory, error) {
	query := r.db.WithContext(ctx).Model(&school.FeeCategory{})
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", searchPattern, searchPattern)
	}

	var categories []school.FeeCategory
	query = applyPagination(query, filter, FeeCategorySortFields, "name")
	if err := query.Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// Save creates or updates a fee category
func (r *GormFeeCategoryRepository) Save(ctx context.Context, category *school.FeeCategory) error {
	if err := r.db.WithContext(ctx).Save(category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.NewDomainError("ALREADY_EXISTS", "Fee category with this name already exists")
		}
		return err
	}
	return nil
}

// Delete removes a fee category
func (r *GormFeeCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&school.FeeCategory{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountInvoiceItemReferences counts invoice items billing this category
func (r *GormFeeCategoryRepository) CountInvoiceItemReferences(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.InvoiceItemModel{}).
		Where("fee_category_id = ?", id).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormFeeCategoryRepository implements FeeCategoryRepository
var _ school.FeeCategoryRepository = (*GormFeeCategoryRepository)(nil)
