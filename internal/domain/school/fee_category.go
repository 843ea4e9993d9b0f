package school

import (
	"strings"
	"time"

	"github.com/schoolfees/backend/internal/domain/shared"
	"github.com/schoolfees/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// FeeCategory is a billable fee type (SPP, building fund, uniforms, ...)
// carrying the default amount used when an invoice line has no override.
type FeeCategory struct {
	shared.BaseAggregateRoot
	Name          string          `gorm:"type:varchar(100);not null;uniqueIndex"`
	Description   string          `gorm:"type:text"`
	DefaultAmount decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (FeeCategory) TableName() string {
	return "fee_categories"
}

// NewFeeCategory creates a new fee category
func NewFeeCategory(name, description string, defaultAmount valueobject.Money) (*FeeCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Fee category name cannot be empty")
	}
	if defaultAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Default amount cannot be negative")
	}
	return &FeeCategory{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Description:       description,
		DefaultAmount:     defaultAmount.Amount(),
	}, nil
}

// Update changes the category's name, description and default amount
func (f *FeeCategory) Update(name, description string, defaultAmount valueobject.Money) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Fee category name cannot be empty")
	}
	if defaultAmount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Default amount cannot be negative")
	}
	f.Name = name
	f.Description = description
	f.DefaultAmount = defaultAmount.Amount()
	f.UpdatedAt = time.Now()
	f.IncrementVersion()
	return nil
}

// GetDefaultAmountMoney returns the default amount as Money
func (f *FeeCategory) GetDefaultAmountMoney() valueobject.Money {
	return valueobject.NewMoneyIDR(f.DefaultAmount)
}
