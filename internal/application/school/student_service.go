package school

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/schoolfees/backend/internal/domain/ledger"
	"github.com/schoolfees/backend/internal/domain/school"
	"github.com/schoolfees/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// StudentService manages students and their class assignments
type StudentService struct {
	studentRepo school.StudentRepository
	historyRepo school.ClassHistoryRepository
	classRepo   school.SchoolClassRepository
	yearRepo    school.AcademicYearRepository
	invoiceRepo ledger.InvoiceRepository
	txScope     TransactionScope
	logger      *zap.Logger
}

// NewStudentService creates a new StudentService
func NewStudentService(
	studentRepo school.StudentRepository,
	historyRepo school.ClassHistoryRepository,
	classRepo school.SchoolClassRepository,
	yearRepo school.AcademicYearRepository,
	invoiceRepo ledger.InvoiceRepository,
	txScope TransactionScope,
	logger *zap.Logger,
) *StudentService {
	return &StudentService{
		studentRepo: studentRepo,
		historyRepo: historyRepo,
		classRepo:   classRepo,
		yearRepo:    yearRepo,
		invoiceRepo: invoiceRepo,
		txScope:     txScope,
		logger:      logger,
	}
}

// StudentResponse represents a student in API responses
type StudentResponse struct {
	ID        uuid.UUID  `json:"id"`
	NIS       string     `json:"nis"`
	FullName  string     `json:"full_name"`
	Status    string     `json:"status"`
	UserID    *uuid.UUID `json:"user_id,omitempty"`
	ClassID   *uuid.UUID `json:"class_id,omitempty"`
	ClassName string     `json:"class_name,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func toStudentResponse(st *school.Student) *StudentResponse {
	return &StudentResponse{
		ID:        st.ID,
		NIS:       st.NIS,
		FullName:  st.FullName,
		Status:    st.Status.String(),
		UserID:    st.UserID,
		CreatedAt: st.CreatedAt,
		UpdatedAt: st.UpdatedAt,
	}
}

// CreateStudentRequest enrolls a new student
type CreateStudentRequest struct {
	NIS      string     `json:"nis" binding:"required"`
	FullName string     `json:"full_name" binding:"required"`
	ClassID  *uuid.UUID `json:"class_id"`
}

// CreateStudent enrolls a student, optionally assigning a class for the
// active academic year
func (s *StudentService) CreateStudent(ctx context.Context, req CreateStudentRequest) (*StudentResponse, error) {
	existing, err := s.studentRepo.FindByNIS(ctx, req.NIS)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A student with this NIS already exists")
	}

	student, err := school.NewStudent(req.NIS, req.FullName)
	if err != nil {
		return nil, err
	}

	if err := s.studentRepo.Save(ctx, student); err != nil {
		return nil, err
	}

	if req.ClassID != nil && *req.ClassID != uuid.Nil {
		if err := s.assignClass(ctx, student.ID, *req.ClassID); err != nil {
			s.logger.Warn("student created but class assignment failed",
				zap.String("nis", student.NIS), zap.Error(err))
			return toStudentResponse(student), err
		}
	}

	s.logger.Info("student enrolled", zap.String("nis", student.NIS))
	return toStudentResponse(student), nil
}

func (s *StudentService) assignClass(ctx context.Context, studentID, classID uuid.UUID) error {
	class, err := s.classRepo.FindByID(ctx, classID)
	if err != nil {
		return err
	}
	if class == nil {
		return shared.NewDomainError("NOT_FOUND", "Class not found")
	}
	year, err := s.yearRepo.FindActive(ctx)
	if err != nil {
		return err
	}
	if year == nil {
		return shared.NewDomainError("NO_ACTIVE_YEAR", "No active academic year is configured")
	}

	existing, err := s.historyRepo.FindByStudentAndYear(ctx, studentID, year.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return existing.Reassign(classID)
	}

	history, err := school.NewClassHistory(studentID, classID, year.ID)
	if err != nil {
		return err
	}
	return s.historyRepo.Save(ctx, history)
}

// UpdateStudentRequest updates student master data
type UpdateStudentRequest struct {
	FullName string     `json:"full_name"`
	Status   string     `json:"status"`
	ClassID  *uuid.UUID `json:"class_id"`
}

// UpdateStudent updates a student's name, status and class assignment
func (s *StudentService) UpdateStudent(ctx context.Context, id uuid.UUID, req UpdateStudentRequest) (*StudentResponse, error) {
	student, err := s.studentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Student not found")
	}

	if req.FullName != "" {
		student.FullName = req.FullName
	}
	if req.Status != "" {
		if err := student.SetStatus(school.StudentStatus(req.Status)); err != nil {
			return nil, err
		}
	}
	if err := s.studentRepo.Save(ctx, student); err != nil {
		return nil, err
	}

	if req.ClassID != nil && *req.ClassID != uuid.Nil {
		if err := s.assignClass(ctx, student.ID, *req.ClassID); err != nil {
			return nil, err
		}
	}
	return toStudentResponse(student), nil
}

// LinkUserAccount associates a login account with a student
func (s *StudentService) LinkUserAccount(ctx context.Context, studentID, userID uuid.UUID) error {
	student, err := s.studentRepo.FindByID(ctx, studentID)
	if err != nil {
		return err
	}
	if student == nil {
		return shared.NewDomainError("NOT_FOUND", "Student not found")
	}
	student.LinkUser(userID)
	return s.studentRepo.Save(ctx, student)
}

// DeleteStudent removes a student. Students holding any invoice are refused;
// deactivate them instead.
func (s *StudentService) DeleteStudent(ctx context.Context, id uuid.UUID) error {
	student, err := s.studentRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if student == nil {
		return shared.NewDomainError("NOT_FOUND", "Student not found")
	}

	filter := ledger.InvoiceFilter{Filter: shared.Filter{Page: 1, PageSize: 1}}
	invoices, err := s.invoiceRepo.FindByStudent(ctx, id, filter)
	if err != nil {
		return err
	}
	if invoices.Total > 0 {
		return shared.NewDomainError("HAS_REFERENCES",
			"Student has invoices on record; set the student inactive instead")
	}
	return s.studentRepo.Delete(ctx, id)
}

// GetStudent returns one student with the current class resolved
func (s *StudentService) GetStudent(ctx context.Context, id uuid.UUID) (*StudentResponse, error) {
	student, err := s.studentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Student not found")
	}
	resp := toStudentResponse(student)

	history, err := s.historyRepo.FindCurrentForStudent(ctx, id)
	if err == nil && history != nil {
		resp.ClassID = &history.ClassID
		if class, err := s.classRepo.FindByID(ctx, history.ClassID); err == nil && class != nil {
			resp.ClassName = class.Name
		}
	}
	return resp, nil
}

// GetStudentByUser resolves the student linked to a login account
func (s *StudentService) GetStudentByUser(ctx context.Context, userID uuid.UUID) (*StudentResponse, error) {
	student, err := s.studentRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "No student is linked to this account")
	}
	return s.GetStudent(ctx, student.ID)
}

// ListStudents returns a page of students
func (s *StudentService) ListStudents(ctx context.Context, filter shared.Filter) ([]*StudentResponse, error) {
	students, err := s.studentRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]*StudentResponse, 0, len(students))
	for i := range students {
		items = append(items, toStudentResponse(&students[i]))
	}
	return items, nil
}
