package ledger

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Document number prefixes. Numbers look like INV/2025/07/0001 and reset
// per calendar month.
const (
	InvoiceNumberPrefix = "INV"
	ReceiptNumberPrefix = "RCP"
)

// BuildNumberPrefix returns the PREFIX/YYYY/MM/ part of a document number
// for the given point in time.
func BuildNumberPrefix(prefix string, at time.Time) string {
	return fmt.Sprintf("%s/%04d/%02d/", prefix, at.Year(), int(at.Month()))
}

// FormatDocumentNumber renders a full document number from a prefix and
// a sequence value.
func FormatDocumentNumber(monthPrefix string, sequence int) string {
	return fmt.Sprintf("%s%04d", monthPrefix, sequence)
}

// NextSequence parses the sequence out of the highest existing number under a
// month prefix and returns the next value. An empty maxNumber means the month
// has no documents yet and the sequence starts at 1. Malformed numbers also
// restart at 1 rather than failing document creation.
func NextSequence(monthPrefix, maxNumber string) int {
	if maxNumber == "" {
		return 1
	}
	tail := strings.TrimPrefix(maxNumber, monthPrefix)
	seq, err := strconv.Atoi(tail)
	if err != nil || seq < 0 {
		return 1
	}
	return seq + 1
}

// NumberGenerator allocates gapless-per-month document numbers. The storage
// layer backs it with a max-under-prefix query; a unique index on the number
// column catches concurrent allocations, which callers resolve by retrying.
type NumberGenerator interface {
	NextInvoiceNumber(ctx context.Context, at time.Time) (string, error)
	NextReceiptNumber(ctx context.Context, at time.Time) (string, error)
}
