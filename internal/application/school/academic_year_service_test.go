package school

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/schoolfees/backend/internal/domain/school"
	"github.com/schoolfees/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockAcademicYearRepository struct {
	mock.Mock
}

func (m *MockAcademicYearRepository) FindByID(ctx context.Context, id uuid.UUID) (*school.AcademicYear, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*school.AcademicYear), args.Error(1)
}

func (m *MockAcademicYearRepository) FindActive(ctx context.Context) (*school.AcademicYear, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*school.AcademicYear), args.Error(1)
}

func (m *MockAcademicYearRepository) FindAll(ctx context.Context, filter shared.Filter) ([]school.AcademicYear, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]school.AcademicYear), args.Error(1)
}

func (m *MockAcademicYearRepository) Save(ctx context.Context, year *school.AcademicYear) error {
	args := m.Called(ctx, year)
	return args.Error(0)
}

func (m *MockAcademicYearRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAcademicYearRepository) DeactivateAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockAcademicYearRepository) CountClassHistoryReferences(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

type MockClassHistoryRepository struct {
	mock.Mock
}

func (m *MockClassHistoryRepository) FindByStudentAndYear(ctx context.Context, studentID, academicYearID uuid.UUID) (*school.ClassHistory, error) {
	args := m.Called(ctx, studentID, academicYearID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*school.ClassHistory), args.Error(1)
}

func (m *MockClassHistoryRepository) FindCurrentForStudent(ctx context.Context, studentID uuid.UUID) (*school.ClassHistory, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*school.ClassHistory), args.Error(1)
}

func (m *MockClassHistoryRepository) FindStudentIDs(ctx context.Context, classID, academicYearID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, classID, academicYearID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockClassHistoryRepository) Save(ctx context.Context, history *school.ClassHistory) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

func (m *MockClassHistoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// stubScope runs the transactional function directly against the mocks
type stubScope struct {
	yearRepo    school.AcademicYearRepository
	historyRepo school.ClassHistoryRepository
}

func (s *stubScope) AcademicYearRepo() school.AcademicYearRepository { return s.yearRepo }
func (s *stubScope) ClassHistoryRepo() school.ClassHistoryRepository { return s.historyRepo }

func (s *stubScope) Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func newYearService(yearRepo *MockAcademicYearRepository) *AcademicYearService {
	scope := &stubScope{yearRepo: yearRepo, historyRepo: new(MockClassHistoryRepository)}
	return NewAcademicYearService(yearRepo, scope, zap.NewNop())
}

func TestActivateAcademicYear(t *testing.T) {
	ctx := context.Background()

	t.Run("deactivates all before activating target", func(t *testing.T) {
		repo := new(MockAcademicYearRepository)
		svc := newYearService(repo)

		year, err := school.NewAcademicYear("2025/2026")
		require.NoError(t, err)

		repo.On("FindByID", ctx, year.ID).Return(year, nil)
		repo.On("DeactivateAll", ctx).Return(nil)
		repo.On("Save", ctx, year).Return(nil)

		resp, err := svc.ActivateAcademicYear(ctx, year.ID)
		require.NoError(t, err)
		assert.True(t, resp.IsActive)
		repo.AssertExpectations(t)
	})

	t.Run("unknown year", func(t *testing.T) {
		repo := new(MockAcademicYearRepository)
		svc := newYearService(repo)
		id := uuid.New()

		repo.On("FindByID", ctx, id).Return(nil, nil)

		_, err := svc.ActivateAcademicYear(ctx, id)
		require.Error(t, err)
		repo.AssertNotCalled(t, "DeactivateAll", ctx)
	})

	t.Run("failed deactivation aborts activation", func(t *testing.T) {
		repo := new(MockAcademicYearRepository)
		svc := newYearService(repo)

		year, err := school.NewAcademicYear("2025/2026")
		require.NoError(t, err)

		repo.On("FindByID", ctx, year.ID).Return(year, nil)
		repo.On("DeactivateAll", ctx).Return(assert.AnError)

		_, err = svc.ActivateAcademicYear(ctx, year.ID)
		require.Error(t, err)
		repo.AssertNotCalled(t, "Save", ctx, year)
	})
}

func TestDeleteAcademicYear(t *testing.T) {
	ctx := context.Background()

	t.Run("refuses active year", func(t *testing.T) {
		repo := new(MockAcademicYearRepository)
		svc := newYearService(repo)

		year, err := school.NewAcademicYear("2025/2026")
		require.NoError(t, err)
		year.Activate()
		repo.On("FindByID", ctx, year.ID).Return(year, nil)

		err = svc.DeleteAcademicYear(ctx, year.ID)
		require.Error(t, err)
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "INVALID_STATE", de.Code)
	})

	t.Run("refuses referenced year", func(t *testing.T) {
		repo := new(MockAcademicYearRepository)
		svc := newYearService(repo)

		year, err := school.NewAcademicYear("2024/2025")
		require.NoError(t, err)
		repo.On("FindByID", ctx, year.ID).Return(year, nil)
		repo.On("CountClassHistoryReferences", ctx, year.ID).Return(int64(3), nil)

		err = svc.DeleteAcademicYear(ctx, year.ID)
		require.Error(t, err)
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "HAS_REFERENCES", de.Code)
		repo.AssertNotCalled(t, "Delete", ctx, year.ID)
	})

	t.Run("deletes unreferenced inactive year", func(t *testing.T) {
		repo := new(MockAcademicYearRepository)
		svc := newYearService(repo)

		year, err := school.NewAcademicYear("2023/2024")
		require.NoError(t, err)
		repo.On("FindByID", ctx, year.ID).Return(year, nil)
		repo.On("CountClassHistoryReferences", ctx, year.ID).Return(int64(0), nil)
		repo.On("Delete", ctx, year.ID).Return(nil)

		require.NoError(t, svc.DeleteAcademicYear(ctx, year.ID))
		repo.AssertExpectations(t)
	})
}

func TestCreateAcademicYear(t *testing.T) {
	ctx := context.Background()

	t.Run("create without activation leaves flag unset", func(t *testing.T) {
		repo := new(MockAcademicYearRepository)
		svc := newYearService(repo)
		repo.On("Save", ctx, mock.AnythingOfType("*school.AcademicYear")).Return(nil)

		resp, err := svc.CreateAcademicYear(ctx, CreateAcademicYearRequest{Name: "2026/2027"})
		require.NoError(t, err)
		assert.False(t, resp.IsActive)
		repo.AssertNotCalled(t, "DeactivateAll", ctx)
	})

	t.Run("create with activation deactivates others", func(t *testing.T) {
		repo := new(MockAcademicYearRepository)
		svc := newYearService(repo)
		repo.On("DeactivateAll", ctx).Return(nil)
		repo.On("Save", ctx, mock.Anything).Return(nil)

		resp, err := svc.CreateAcademicYear(ctx, CreateAcademicYearRequest{Name: "2026/2027", Activate: true})
		require.NoError(t, err)
		assert.True(t, resp.IsActive)
		repo.AssertExpectations(t)
	})

	t.Run("invalid name", func(t *testing.T) {
		repo := new(MockAcademicYearRepository)
		svc := newYearService(repo)

		_, err := svc.CreateAcademicYear(ctx, CreateAcademicYearRequest{Name: "next-year"})
		require.Error(t, err)
	})
}
