package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildNumberPrefix(t *testing.T) {
	at := time.Date(2025, 7, 3, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, "INV/2025/07/", BuildNumberPrefix(InvoiceNumberPrefix, at))
	assert.Equal(t, "RCP/2025/07/", BuildNumberPrefix(ReceiptNumberPrefix, at))

	dec := time.Date(2025, 12, 31, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "INV/2025/12/", BuildNumberPrefix(InvoiceNumberPrefix, dec))
}

func TestNextSequence(t *testing.T) {
	prefix := "INV/2025/07/"

	tests := []struct {
		name string
		max  string
		want int
	}{
		{"empty month starts at one", "", 1},
		{"increments highest", "INV/2025/07/0004", 5},
		{"crosses padding width", "INV/2025/07/9999", 10000},
		{"malformed tail restarts", "INV/2025/07/xyz", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextSequence(prefix, tt.max))
		})
	}
}

func TestFormatDocumentNumber(t *testing.T) {
	prefix := "RCP/2025/07/"
	assert.Equal(t, "RCP/2025/07/0001", FormatDocumentNumber(prefix, 1))
	assert.Equal(t, "RCP/2025/07/0042", FormatDocumentNumber(prefix, 42))
	assert.Equal(t, "RCP/2025/07/10000", FormatDocumentNumber(prefix, 10000))
}
