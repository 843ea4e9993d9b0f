package cache

import (
	"context"

	"github.com/schoolfees/backend/internal/domain/ledger"
	"github.com/schoolfees/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ReportInvalidator drops cached report results
type ReportInvalidator interface {
	Invalidate(ctx context.Context) error
}

// LedgerCacheInvalidator subscribes to ledger events and flushes the report
// cache whenever an invoice or payment changes, so dashboards never serve
// numbers older than the configured TTL after a write.
type LedgerCacheInvalidator struct {
	invalidator ReportInvalidator
	logger      *zap.Logger
}

// NewLedgerCacheInvalidator creates an invalidation handler for the event bus
func NewLedgerCacheInvalidator(invalidator ReportInvalidator, logger *zap.Logger) *LedgerCacheInvalidator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerCacheInvalidator{
		invalidator: invalidator,
		logger:      logger,
	}
}

// EventTypes lists the events that mutate reportable balances
func (h *LedgerCacheInvalidator) EventTypes() []string {
	return []string{
		ledger.EventInvoiceCreated,
		ledger.EventInvoiceVoided,
		ledger.EventPaymentRecorded,
		ledger.EventPaymentReversed,
	}
}

// Handle flushes the report cache
func (h *LedgerCacheInvalidator) Handle(ctx context.Context, event shared.DomainEvent) error {
	if err := h.invalidator.Invalidate(ctx); err != nil {
		h.logger.Error("failed to invalidate report cache",
			zap.String("event_type", event.EventType()),
			zap.Error(err))
		return err
	}

	h.logger.Debug("report cache invalidated", zap.String("event_type", event.EventType()))
	return nil
}

var _ shared.EventHandler = (*LedgerCacheInvalidator)(nil)
