package school

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/schoolfees/backend/internal/domain/school"
	"github.com/schoolfees/backend/internal/domain/shared"
	"github.com/schoolfees/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// FeeCategoryService manages the fee category catalog
type FeeCategoryService struct {
	categoryRepo school.FeeCategoryRepository
	logger       *zap.Logger
}

// NewFeeCategoryService creates a new FeeCategoryService
func NewFeeCategoryService(categoryRepo school.FeeCategoryRepository, logger *zap.Logger) *FeeCategoryService {
	return &FeeCategoryService{categoryRepo: categoryRepo, logger: logger}
}

// FeeCategoryResponse represents a fee category in API responses
type FeeCategoryResponse struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	DefaultAmount decimal.Decimal `json:"default_amount"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func toCategoryResponse(c *school.FeeCategory) *FeeCategoryResponse {
	return &FeeCategoryResponse{
		ID:            c.ID,
		Name:          c.Name,
		Description:   c.Description,
		DefaultAmount: c.DefaultAmount,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

// FeeCategoryRequest creates or updates a fee category
type FeeCategoryRequest struct {
	Name          string          `json:"name" binding:"required"`
	Description   string          `json:"description"`
	DefaultAmount decimal.Decimal `json:"default_amount" binding:"required"`
}

// CreateFeeCategory creates a new fee category
func (s *FeeCategoryService) CreateFeeCategory(ctx context.Context, req FeeCategoryRequest) (*FeeCategoryResponse, error) {
	category, err := school.NewFeeCategory(req.Name, req.Description, valueobject.NewMoneyIDR(req.DefaultAmount))
	if err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	s.logger.Info("fee category created", zap.String("name", category.Name))
	return toCategoryResponse(category), nil
}

// UpdateFeeCategory updates an existing fee category. Changing the default
// amount never touches already issued invoices.
func (s *FeeCategoryService) UpdateFeeCategory(ctx context.Context, id uuid.UUID, req FeeCategoryRequest) (*FeeCategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Fee category not found")
	}
	if err := category.Update(req.Name, req.Description, valueobject.NewMoneyIDR(req.DefaultAmount)); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	return toCategoryResponse(category), nil
}

// DeleteFeeCategory removes a category. Categories referenced by invoice
// items are refused.
func (s *FeeCategoryService) DeleteFeeCategory(ctx context.Context, id uuid.UUID) error {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if category == nil {
		return shared.NewDomainError("NOT_FOUND", "Fee category not found")
	}
	refs, err := s.categoryRepo.CountInvoiceItemReferences(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return shared.NewDomainError("HAS_REFERENCES", "Fee category is used by existing invoices")
	}
	return s.categoryRepo.Delete(ctx, id)
}

// GetFeeCategory returns one fee category
func (s *FeeCategoryService) GetFeeCategory(ctx context.Context, id uuid.UUID) (*FeeCategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Fee category not found")
	}
	return toCategoryResponse(category), nil
}

// ListFeeCategories returns all fee categories
func (s *FeeCategoryService) ListFeeCategories(ctx context.Context, filter shared.Filter) ([]*FeeCategoryResponse, error) {
	categories, err := s.categoryRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]*FeeCategoryResponse, 0, len(categories))
	for i := range categories {
		items = append(items, toCategoryResponse(&categories[i]))
	}
	return items, nil
}
