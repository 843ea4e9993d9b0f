package school

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/schoolfees/backend/internal/domain/school"
	"github.com/schoolfees/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ClassService manages the class catalog
type ClassService struct {
	classRepo   school.SchoolClassRepository
	historyRepo school.ClassHistoryRepository
	logger      *zap.Logger
}

// NewClassService creates a new ClassService
func NewClassService(classRepo school.SchoolClassRepository, historyRepo school.ClassHistoryRepository, logger *zap.Logger) *ClassService {
	return &ClassService{classRepo: classRepo, historyRepo: historyRepo, logger: logger}
}

// ClassResponse represents a class in API responses
type ClassResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Level     int       `json:"level"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toClassResponse(c *school.SchoolClass) *ClassResponse {
	return &ClassResponse{
		ID:        c.ID,
		Name:      c.Name,
		Level:     c.Level,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ClassRequest creates or updates a class
type ClassRequest struct {
	Name  string `json:"name" binding:"required"`
	Level int    `json:"level"`
}

// CreateClass creates a new class
func (s *ClassService) CreateClass(ctx context.Context, req ClassRequest) (*ClassResponse, error) {
	class, err := school.NewSchoolClass(req.Name, req.Level)
	if err != nil {
		return nil, err
	}
	if err := s.classRepo.Save(ctx, class); err != nil {
		return nil, err
	}
	s.logger.Info("class created", zap.String("name", class.Name))
	return toClassResponse(class), nil
}

// UpdateClass renames a class or changes its level
func (s *ClassService) UpdateClass(ctx context.Context, id uuid.UUID, req ClassRequest) (*ClassResponse, error) {
	class, err := s.classRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if class == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Class not found")
	}
	if req.Name != "" {
		class.Name = req.Name
	}
	if req.Level > 0 {
		class.Level = req.Level
	}
	class.IncrementVersion()
	if err := s.classRepo.Save(ctx, class); err != nil {
		return nil, err
	}
	return toClassResponse(class), nil
}

// DeleteClass removes a class
func (s *ClassService) DeleteClass(ctx context.Context, id uuid.UUID) error {
	class, err := s.classRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if class == nil {
		return shared.NewDomainError("NOT_FOUND", "Class not found")
	}
	return s.classRepo.Delete(ctx, id)
}

// GetClass returns one class
func (s *ClassService) GetClass(ctx context.Context, id uuid.UUID) (*ClassResponse, error) {
	class, err := s.classRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if class == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Class not found")
	}
	return toClassResponse(class), nil
}

// ListClasses returns all classes
func (s *ClassService) ListClasses(ctx context.Context, filter shared.Filter) ([]*ClassResponse, error) {
	classes, err := s.classRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]*ClassResponse, 0, len(classes))
	for i := range classes {
		items = append(items, toClassResponse(&classes[i]))
	}
	return items, nil
}

// ClassRosterEntry is one student on a class roster
type ClassRosterEntry struct {
	StudentID uuid.UUID `json:"student_id"`
}

// GetRoster returns student IDs assigned to the class in an academic year
func (s *ClassService) GetRoster(ctx context.Context, classID, academicYearID uuid.UUID) ([]uuid.UUID, error) {
	return s.historyRepo.FindStudentIDs(ctx, classID, academicYearID)
}
