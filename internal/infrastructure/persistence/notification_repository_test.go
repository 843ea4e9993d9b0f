package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/schoolfees/backend/internal/domain/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockNotificationRepository creates a GormNotificationRepository with a mocked SQL connection
func newMockNotificationRepository(t *testing.T) (*GormNotificationRepository, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormNotificationRepository(gormDB), mock, mockDB
}

func TestGormNotificationRepository_FindByID(t *testing.T) {
	t.Run("finds existing notification", func(t *testing.T) {
		repo, mock, mockDB := newMockNotificationRepository(t)
		defer mockDB.Close()

		notificationID := uuid.New()
		userID := uuid.New()
		now := time.Now()

		rows := sqlmock.NewRows([]string{
			"id", "created_at", "updated_at", "user_id", "type", "title", "body", "is_read", "read_at", "ref_id", "ref_type",
		}).AddRow(notificationID, now, now, userID, "payment_received", "Pembayaran diterima", "Pembayaran SPP Januari diterima", false, nil, nil, "")

		mock.ExpectQuery(`SELECT \* FROM "notifications" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(notificationID, 1).
			WillReturnRows(rows)

		n, err := repo.FindByID(context.Background(), notificationID)

		assert.NoError(t, err)
		require.NotNil(t, n)
		assert.Equal(t, notificationID, n.ID)
		assert.Equal(t, notification.TypePaymentReceived, n.Type)
		assert.False(t, n.IsRead)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns nil for missing notification", func(t *testing.T) {
		repo, mock, mockDB := newMockNotificationRepository(t)
		defer mockDB.Close()

		notificationID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "notifications" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(notificationID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		n, err := repo.FindByID(context.Background(), notificationID)

		assert.NoError(t, err)
		assert.Nil(t, n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormNotificationRepository_CountUnread(t *testing.T) {
	t.Run("counts unread notifications for user", func(t *testing.T) {
		repo, mock, mockDB := newMockNotificationRepository(t)
		defer mockDB.Close()

		userID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "notifications" WHERE user_id = \$1 AND is_read = \$2`).
			WithArgs(userID, false).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

		count, err := repo.CountUnread(context.Background(), userID)

		assert.NoError(t, err)
		assert.Equal(t, int64(3), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormNotificationRepository_MarkAllRead(t *testing.T) {
	t.Run("marks every unread notification as read", func(t *testing.T) {
		repo, mock, mockDB := newMockNotificationRepository(t)
		defer mockDB.Close()

		userID := uuid.New()

		mock.ExpectExec(`UPDATE "notifications" SET`).
			WillReturnResult(sqlmock.NewResult(0, 5))

		err := repo.MarkAllRead(context.Background(), userID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
