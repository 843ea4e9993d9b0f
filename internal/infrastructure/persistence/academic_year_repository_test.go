package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/schoolfees/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockAcademicYearRepository creates a GormAcademicYearRepository with a mocked SQL connection
func newMockAcademicYearRepository(t *testing.T) (*GormAcademicYearRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormAcademicYearRepository(gormDB), mock, mockDB
}

func academicYearRows(yearID uuid.UUID, name string, active bool) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "created_at", "updated_at", "version", "name", "is_active",
	}).AddRow(yearID, now, now, 1, name, active)
}

func TestGormAcademicYearRepository_FindActive(t *testing.T) {
	t.Run("finds the active year", func(t *testing.T) {
		repo, mock, mockDB := newMockAcademicYearRepository(t)
		defer mockDB.Close()

		yearID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "academic_years" WHERE is_active = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(true, 1).
			WillReturnRows(academicYearRows(yearID, "2026/2027", true))

		year, err := repo.FindActive(context.Background())

		assert.NoError(t, err)
		require.NotNil(t, year)
		assert.Equal(t, "2026/2027", year.Name)
		assert.True(t, year.IsActive)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns nil when no year is active", func(t *testing.T) {
		repo, mock, mockDB := newMockAcademicYearRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "academic_years" WHERE is_active = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(true, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		year, err := repo.FindActive(context.Background())

		assert.NoError(t, err)
		assert.Nil(t, year)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormAcademicYearRepository_DeactivateAll(t *testing.T) {
	t.Run("clears the active flag on active years", func(t *testing.T) {
		repo, mock, mockDB := newMockAcademicYearRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "academic_years" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.DeactivateAll(context.Background())

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormAcademicYearRepository_CountClassHistoryReferences(t *testing.T) {
	t.Run("counts referencing class history rows", func(t *testing.T) {
		repo, mock, mockDB := newMockAcademicYearRepository(t)
		defer mockDB.Close()

		yearID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "student_class_history" WHERE academic_year_id = \$1`).
			WithArgs(yearID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(34))

		count, err := repo.CountClassHistoryReferences(context.Background(), yearID)

		assert.NoError(t, err)
		assert.Equal(t, int64(34), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormAcademicYearRepository_Delete(t *testing.T) {
	t.Run("returns ErrNotFound when nothing deleted", func(t *testing.T) {
		repo, mock, mockDB := newMockAcademicYearRepository(t)
		defer mockDB.Close()

		yearID := uuid.New()

		mock.ExpectExec(`DELETE FROM "academic_years" WHERE id = \$1`).
			WithArgs(yearID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), yearID)

		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
