package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/schoolfees/backend/internal/domain/ledger"
	"github.com/schoolfees/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the persistence model for the Invoice aggregate root.
type InvoiceModel struct {
	AggregateModel
	InvoiceNumber  string               `gorm:"type:varchar(50);not null;uniqueIndex:idx_invoices_number"`
	Title          string               `gorm:"type:varchar(200);not null"`
	StudentID      uuid.UUID            `gorm:"type:uuid;not null;index"`
	AcademicYearID uuid.UUID            `gorm:"type:uuid;not null;index"`
	TotalAmount    decimal.Decimal      `gorm:"type:decimal(18,2);not null"`
	PaidAmount     decimal.Decimal      `gorm:"type:decimal(18,2);not null"`
	Status         ledger.InvoiceStatus `gorm:"type:varchar(20);not null;default:'unpaid';index"`
	DueDate        time.Time            `gorm:"not null;index"`
	InvoiceType    ledger.InvoiceType   `gorm:"type:varchar(20);not null;index"`
	PeriodMonth    *int                 `gorm:"index:idx_invoices_period"`
	PeriodYear     *int                 `gorm:"index:idx_invoices_period"`
	Items          []InvoiceItemModel   `gorm:"foreignKey:InvoiceID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice entity.
func (m *InvoiceModel) ToDomain() *ledger.Invoice {
	inv := &ledger.Invoice{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		InvoiceNumber:  m.InvoiceNumber,
		Title:          m.Title,
		StudentID:      m.StudentID,
		AcademicYearID: m.AcademicYearID,
		TotalAmount:    m.TotalAmount,
		PaidAmount:     m.PaidAmount,
		Status:         m.Status,
		DueDate:        m.DueDate,
		InvoiceType:    m.InvoiceType,
		PeriodMonth:    m.PeriodMonth,
		PeriodYear:     m.PeriodYear,
		Items:          make([]ledger.InvoiceItem, len(m.Items)),
	}
	for i, item := range m.Items {
		inv.Items[i] = *item.ToDomain()
	}
	return inv
}

// FromDomain populates the persistence model from a domain Invoice entity.
func (m *InvoiceModel) FromDomain(inv *ledger.Invoice) {
	m.FromDomainAggregateRoot(inv.BaseAggregateRoot)
	m.InvoiceNumber = inv.InvoiceNumber
	m.Title = inv.Title
	m.StudentID = inv.StudentID
	m.AcademicYearID = inv.AcademicYearID
	m.TotalAmount = inv.TotalAmount
	m.PaidAmount = inv.PaidAmount
	m.Status = inv.Status
	m.DueDate = inv.DueDate
	m.InvoiceType = inv.InvoiceType
	m.PeriodMonth = inv.PeriodMonth
	m.PeriodYear = inv.PeriodYear
	m.Items = make([]InvoiceItemModel, len(inv.Items))
	for i, item := range inv.Items {
		m.Items[i].FromDomain(&item)
	}
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice.
func InvoiceModelFromDomain(inv *ledger.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}

// InvoiceItemModel is the persistence model for invoice line items.
type InvoiceItemModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key"`
	InvoiceID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	FeeCategoryID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description   string          `gorm:"type:varchar(200)"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (InvoiceItemModel) TableName() string {
	return "invoice_items"
}

// ToDomain converts the persistence model to a domain InvoiceItem.
func (m *InvoiceItemModel) ToDomain() *ledger.InvoiceItem {
	return &ledger.InvoiceItem{
		ID:            m.ID,
		InvoiceID:     m.InvoiceID,
		FeeCategoryID: m.FeeCategoryID,
		Description:   m.Description,
		Amount:        m.Amount,
	}
}

// FromDomain populates the persistence model from a domain InvoiceItem.
func (m *InvoiceItemModel) FromDomain(item *ledger.InvoiceItem) {
	m.ID = item.ID
	m.InvoiceID = item.InvoiceID
	m.FeeCategoryID = item.FeeCategoryID
	m.Description = item.Description
	m.Amount = item.Amount
}

// PaymentModel is the persistence model for payment records.
type PaymentModel struct {
	BaseModel
	ReceiptNumber string               `gorm:"type:varchar(50);not null;uniqueIndex:idx_payments_receipt"`
	InvoiceID     uuid.UUID            `gorm:"type:uuid;not null;index"`
	Amount        decimal.Decimal      `gorm:"type:decimal(18,2);not null"`
	Method        ledger.PaymentMethod `gorm:"type:varchar(20);not null"`
	PaymentDate   time.Time            `gorm:"not null;index"`
	Notes         string               `gorm:"type:text"`
	ProcessedBy   uuid.UUID            `gorm:"type:uuid;not null;index"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment entity.
func (m *PaymentModel) ToDomain() *ledger.Payment {
	return &ledger.Payment{
		BaseEntity:    m.BaseModel.ToDomain(),
		ReceiptNumber: m.ReceiptNumber,
		InvoiceID:     m.InvoiceID,
		Amount:        m.Amount,
		Method:        m.Method,
		PaymentDate:   m.PaymentDate,
		Notes:         m.Notes,
		ProcessedBy:   m.ProcessedBy,
	}
}

// FromDomain populates the persistence model from a domain Payment entity.
func (m *PaymentModel) FromDomain(p *ledger.Payment) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.ReceiptNumber = p.ReceiptNumber
	m.InvoiceID = p.InvoiceID
	m.Amount = p.Amount
	m.Method = p.Method
	m.PaymentDate = p.PaymentDate
	m.Notes = p.Notes
	m.ProcessedBy = p.ProcessedBy
}

// PaymentModelFromDomain creates a new persistence model from a domain Payment.
func PaymentModelFromDomain(p *ledger.Payment) *PaymentModel {
	m := &PaymentModel{}
	m.FromDomain(p)
	return m
}
