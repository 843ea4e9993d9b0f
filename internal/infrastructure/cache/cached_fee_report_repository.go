package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/schoolfees/backend/internal/domain/report"
	"github.com/schoolfees/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// CachedFeeReportRepository decorates a FeeReportRepository with read-through
// caching for the queries that back dashboards and per-year reports. Arrears,
// payment facts and SPP cards are served straight from the database: their
// filters vary per request and stale balances there would be visible to
// parents.
type CachedFeeReportRepository struct {
	inner  report.FeeReportRepository
	cache  ReportCache
	config config.CacheConfig
	logger *zap.Logger
}

// NewCachedFeeReportRepository wraps inner with the given cache. When caching
// is disabled in config, or cache is nil, every call passes through.
func NewCachedFeeReportRepository(inner report.FeeReportRepository, cache ReportCache, cfg config.CacheConfig, logger *zap.Logger) *CachedFeeReportRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedFeeReportRepository{
		inner:  inner,
		cache:  cache,
		config: cfg,
		logger: logger,
	}
}

func (r *CachedFeeReportRepository) enabled() bool {
	return r.config.Enabled && r.cache != nil
}

// GetArrears always queries the database
func (r *CachedFeeReportRepository) GetArrears(ctx context.Context, filter report.ArrearsFilter) ([]report.ArrearsRow, error) {
	return r.inner.GetArrears(ctx, filter)
}

// GetPaymentFacts always queries the database
func (r *CachedFeeReportRepository) GetPaymentFacts(ctx context.Context, from, to time.Time) ([]report.PaymentFact, error) {
	return r.inner.GetPaymentFacts(ctx, from, to)
}

// GetExpectedIncome caches the per-category billing totals for one year
func (r *CachedFeeReportRepository) GetExpectedIncome(ctx context.Context, academicYearID uuid.UUID) ([]report.ExpectedIncomeRow, error) {
	if !r.enabled() {
		return r.inner.GetExpectedIncome(ctx, academicYearID)
	}

	key := fmt.Sprintf("expected:%s", academicYearID)
	var cached []report.ExpectedIncomeRow
	if hit, err := r.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	rows, err := r.inner.GetExpectedIncome(ctx, academicYearID)
	if err != nil {
		return nil, err
	}
	r.store(ctx, key, rows, r.config.ReportTTL)
	return rows, nil
}

// GetBilledByStatus caches the per-status billed totals for one year
func (r *CachedFeeReportRepository) GetBilledByStatus(ctx context.Context, academicYearID uuid.UUID) ([]report.StatusBilledRow, error) {
	if !r.enabled() {
		return r.inner.GetBilledByStatus(ctx, academicYearID)
	}

	key := fmt.Sprintf("bystatus:%s", academicYearID)
	var cached []report.StatusBilledRow
	if hit, err := r.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	rows, err := r.inner.GetBilledByStatus(ctx, academicYearID)
	if err != nil {
		return nil, err
	}
	r.store(ctx, key, rows, r.config.ReportTTL)
	return rows, nil
}

// GetClassReport caches the per-student totals for one class and year
func (r *CachedFeeReportRepository) GetClassReport(ctx context.Context, classID, academicYearID uuid.UUID) ([]report.ClassReportRow, error) {
	if !r.enabled() {
		return r.inner.GetClassReport(ctx, classID, academicYearID)
	}

	key := fmt.Sprintf("class:%s:%s", classID, academicYearID)
	var cached []report.ClassReportRow
	if hit, err := r.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	rows, err := r.inner.GetClassReport(ctx, classID, academicYearID)
	if err != nil {
		return nil, err
	}
	r.store(ctx, key, rows, r.config.ReportTTL)
	return rows, nil
}

// GetSppCard always queries the database
func (r *CachedFeeReportRepository) GetSppCard(ctx context.Context, studentID, academicYearID uuid.UUID) ([]report.SppCardRow, error) {
	return r.inner.GetSppCard(ctx, studentID, academicYearID)
}

// GetMonthlyIncome caches the monthly income series for one calendar year
func (r *CachedFeeReportRepository) GetMonthlyIncome(ctx context.Context, year int) ([]report.MonthlyIncomeRow, error) {
	if !r.enabled() {
		return r.inner.GetMonthlyIncome(ctx, year)
	}

	key := fmt.Sprintf("monthly:%d", year)
	var cached []report.MonthlyIncomeRow
	if hit, err := r.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	rows, err := r.inner.GetMonthlyIncome(ctx, year)
	if err != nil {
		return nil, err
	}
	r.store(ctx, key, rows, r.config.DashboardTTL)
	return rows, nil
}

// GetLedgerStats caches the dashboard headline numbers. The key carries the
// calendar date because the overdue count depends on it.
func (r *CachedFeeReportRepository) GetLedgerStats(ctx context.Context, now time.Time) (*report.LedgerStats, error) {
	if !r.enabled() {
		return r.inner.GetLedgerStats(ctx, now)
	}

	key := fmt.Sprintf("stats:%s", now.Format("2006-01-02"))
	var cached report.LedgerStats
	if hit, err := r.cache.Get(ctx, key, &cached); err == nil && hit {
		return &cached, nil
	}

	stats, err := r.inner.GetLedgerStats(ctx, now)
	if err != nil {
		return nil, err
	}
	r.store(ctx, key, stats, r.config.DashboardTTL)
	return stats, nil
}

// Invalidate drops every cached report so the next read hits the database
func (r *CachedFeeReportRepository) Invalidate(ctx context.Context) error {
	if !r.enabled() {
		return nil
	}
	return r.cache.DeletePrefix(ctx, "")
}

// store writes a cache entry, logging instead of failing the read on error
func (r *CachedFeeReportRepository) store(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	if err := r.cache.Set(ctx, key, value, ttl); err != nil {
		r.logger.Warn("failed to cache report", zap.String("key", key), zap.Error(err))
	}
}

var _ report.FeeReportRepository = (*CachedFeeReportRepository)(nil)
