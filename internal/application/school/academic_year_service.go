package school

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/schoolfees/backend/internal/domain/school"
	"github.com/schoolfees/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AcademicYearService manages academic years and the single-active-year rule
type AcademicYearService struct {
	yearRepo school.AcademicYearRepository
	txScope  TransactionScope
	logger   *zap.Logger
}

// NewAcademicYearService creates a new AcademicYearService
func NewAcademicYearService(yearRepo school.AcademicYearRepository, txScope TransactionScope, logger *zap.Logger) *AcademicYearService {
	return &AcademicYearService{
		yearRepo: yearRepo,
		txScope:  txScope,
		logger:   logger,
	}
}

// AcademicYearResponse represents an academic year in API responses
type AcademicYearResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toYearResponse(y *school.AcademicYear) *AcademicYearResponse {
	return &AcademicYearResponse{
		ID:        y.ID,
		Name:      y.Name,
		IsActive:  y.IsActive,
		CreatedAt: y.CreatedAt,
		UpdatedAt: y.UpdatedAt,
	}
}

// CreateAcademicYearRequest creates a new academic year
type CreateAcademicYearRequest struct {
	Name     string `json:"name" binding:"required"`
	Activate bool   `json:"activate"`
}

// CreateAcademicYear creates a new academic year, optionally activating it
func (s *AcademicYearService) CreateAcademicYear(ctx context.Context, req CreateAcademicYearRequest) (*AcademicYearResponse, error) {
	year, err := school.NewAcademicYear(req.Name)
	if err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		yearRepo := repos.AcademicYearRepo()
		if req.Activate {
			if err := yearRepo.DeactivateAll(ctx); err != nil {
				return err
			}
			year.Activate()
		}
		return yearRepo.Save(ctx, year)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("academic year created",
		zap.String("name", year.Name),
		zap.Bool("active", year.IsActive))
	return toYearResponse(year), nil
}

// ActivateAcademicYear makes the given year the single active one. The
// deactivate-all and activate steps run in one transaction so a failure
// never leaves zero or two active years visible.
func (s *AcademicYearService) ActivateAcademicYear(ctx context.Context, id uuid.UUID) (*AcademicYearResponse, error) {
	var activated *school.AcademicYear
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		yearRepo := repos.AcademicYearRepo()

		year, err := yearRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if year == nil {
			return shared.NewDomainError("NOT_FOUND", "Academic year not found")
		}
		if err := yearRepo.DeactivateAll(ctx); err != nil {
			return err
		}
		year.Activate()
		if err := yearRepo.Save(ctx, year); err != nil {
			return err
		}
		activated = year
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("academic year activated", zap.String("name", activated.Name))
	return toYearResponse(activated), nil
}

// UpdateAcademicYear renames a year
func (s *AcademicYearService) UpdateAcademicYear(ctx context.Context, id uuid.UUID, name string) (*AcademicYearResponse, error) {
	year, err := s.yearRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if year == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Academic year not found")
	}
	if err := year.Rename(name); err != nil {
		return nil, err
	}
	if err := s.yearRepo.Save(ctx, year); err != nil {
		return nil, err
	}
	return toYearResponse(year), nil
}

// DeleteAcademicYear removes a year. Years that are active or referenced by
// class history are refused.
func (s *AcademicYearService) DeleteAcademicYear(ctx context.Context, id uuid.UUID) error {
	year, err := s.yearRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if year == nil {
		return shared.NewDomainError("NOT_FOUND", "Academic year not found")
	}
	if year.IsActive {
		return shared.NewDomainError("INVALID_STATE", "Cannot delete the active academic year")
	}
	refs, err := s.yearRepo.CountClassHistoryReferences(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return shared.NewDomainError("HAS_REFERENCES", "Academic year is referenced by class history")
	}
	return s.yearRepo.Delete(ctx, id)
}

// GetAcademicYear returns one year
func (s *AcademicYearService) GetAcademicYear(ctx context.Context, id uuid.UUID) (*AcademicYearResponse, error) {
	year, err := s.yearRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if year == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Academic year not found")
	}
	return toYearResponse(year), nil
}

// GetActiveAcademicYear returns the active year
func (s *AcademicYearService) GetActiveAcademicYear(ctx context.Context) (*AcademicYearResponse, error) {
	year, err := s.yearRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	if year == nil {
		return nil, shared.NewDomainError("NO_ACTIVE_YEAR", "No active academic year is configured")
	}
	return toYearResponse(year), nil
}

// ListAcademicYears returns all years
func (s *AcademicYearService) ListAcademicYears(ctx context.Context, filter shared.Filter) ([]*AcademicYearResponse, error) {
	years, err := s.yearRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]*AcademicYearResponse, 0, len(years))
	for i := range years {
		items = append(items, toYearResponse(&years[i]))
	}
	return items, nil
}
