package ledger

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/schoolfees/backend/internal/domain/shared"
	"github.com/schoolfees/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPayment(t *testing.T) {
	invoiceID := uuid.New()
	processor := uuid.New()
	when := time.Date(2025, 7, 5, 10, 30, 0, 0, time.UTC)

	t.Run("creates valid payment", func(t *testing.T) {
		p, err := NewPayment("RCP/2025/07/0001", invoiceID,
			valueobject.NewMoneyIDRFromFloat(60), PaymentMethodCash, when, processor)
		require.NoError(t, err)

		assert.Equal(t, "RCP/2025/07/0001", p.ReceiptNumber)
		assert.Equal(t, invoiceID, p.InvoiceID)
		assert.True(t, p.Amount.Equal(decimal.NewFromInt(60)))
		assert.Equal(t, PaymentMethodCash, p.Method)
		assert.Equal(t, when, p.PaymentDate)
		assert.Equal(t, processor, p.ProcessedBy)
	})

	t.Run("defaults zero payment date to now", func(t *testing.T) {
		p, err := NewPayment("RCP/2025/07/0002", invoiceID,
			valueobject.NewMoneyIDRFromFloat(10), PaymentMethodTransfer, time.Time{}, processor)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now(), p.PaymentDate, time.Second)
	})

	t.Run("rejects invalid inputs", func(t *testing.T) {
		tests := []struct {
			name    string
			receipt string
			invoice uuid.UUID
			amount  valueobject.Money
			method  PaymentMethod
			by      uuid.UUID
			code    string
		}{
			{"empty receipt", "", invoiceID, valueobject.NewMoneyIDRFromFloat(10), PaymentMethodCash, processor, "INVALID_RECEIPT_NUMBER"},
			{"nil invoice", "RCP/2025/07/0003", uuid.Nil, valueobject.NewMoneyIDRFromFloat(10), PaymentMethodCash, processor, "INVALID_INVOICE"},
			{"zero amount", "RCP/2025/07/0004", invoiceID, valueobject.ZeroIDR(), PaymentMethodCash, processor, "INVALID_AMOUNT"},
			{"negative amount", "RCP/2025/07/0005", invoiceID, valueobject.NewMoneyIDRFromFloat(-5), PaymentMethodCash, processor, "INVALID_AMOUNT"},
			{"bad method", "RCP/2025/07/0006", invoiceID, valueobject.NewMoneyIDRFromFloat(10), PaymentMethod("CHECK"), processor, "INVALID_PAYMENT_METHOD"},
			{"nil processor", "RCP/2025/07/0007", invoiceID, valueobject.NewMoneyIDRFromFloat(10), PaymentMethodCash, uuid.Nil, "INVALID_PROCESSOR"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := NewPayment(tt.receipt, tt.invoice, tt.amount, tt.method, when, tt.by)
				require.Error(t, err)
				var de *shared.DomainError
				require.ErrorAs(t, err, &de)
				assert.Equal(t, tt.code, de.Code)
			})
		}
	})
}

func TestPaymentMethodIsValid(t *testing.T) {
	assert.True(t, PaymentMethodCash.IsValid())
	assert.True(t, PaymentMethodTransfer.IsValid())
	assert.False(t, PaymentMethod("cash").IsValid())
	assert.False(t, PaymentMethod("").IsValid())
}
