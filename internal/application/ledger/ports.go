package ledger

import (
	"context"

	"github.com/schoolfees/backend/internal/domain/ledger"
)

// TransactionalRepositories exposes the ledger repositories bound to one
// database transaction.
type TransactionalRepositories interface {
	InvoiceRepo() ledger.InvoiceRepository
	PaymentRepo() ledger.PaymentRepository
}

// TransactionScope runs a function atomically. The storage layer backs it
// with a database transaction; everything done through the passed
// repositories commits or rolls back as one.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}
