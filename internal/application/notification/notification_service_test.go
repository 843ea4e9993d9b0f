package notification

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/schoolfees/backend/internal/domain/notification"
	"github.com/schoolfees/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.Notification), args.Error(1)
}

func (m *MockNotificationRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[*notification.Notification], error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*notification.Notification]), args.Error(1)
}

func (m *MockNotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) ExistsForReference(ctx context.Context, userID uuid.UUID, notifType notification.NotificationType, refID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, notifType, refID)
	return args.Bool(0), args.Error(1)
}

func (m *MockNotificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockNotificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestNotificationService(repo *MockNotificationRepository) *NotificationService {
	return NewNotificationService(repo, zap.NewNop())
}

func TestAnnounce(t *testing.T) {
	repo := new(MockNotificationRepository)
	svc := newTestNotificationService(repo)
	userID := uuid.New()

	repo.On("Save", mock.Anything, mock.AnythingOfType("*notification.Notification")).Return(nil)

	resp, err := svc.Announce(context.Background(), AnnounceRequest{
		UserID: userID,
		Title:  "Semester break",
		Body:   "School closes next Friday",
	})
	require.NoError(t, err)
	assert.Equal(t, notification.TypeGeneral, resp.Type)
	assert.Equal(t, "Semester break", resp.Title)
	assert.False(t, resp.IsRead)
	repo.AssertExpectations(t)
}

func TestAnnounceValidation(t *testing.T) {
	repo := new(MockNotificationRepository)
	svc := newTestNotificationService(repo)

	_, err := svc.Announce(context.Background(), AnnounceRequest{
		UserID: uuid.New(),
		Title:  "",
	})
	require.Error(t, err)
	repo.AssertNotCalled(t, "Save")
}

func TestListUserNotifications(t *testing.T) {
	repo := new(MockNotificationRepository)
	svc := newTestNotificationService(repo)
	userID := uuid.New()

	n, err := notification.NewNotification(userID, notification.TypeInvoiceIssued, "New invoice", "SPP March")
	require.NoError(t, err)

	filter := shared.DefaultFilter()
	repo.On("FindByUser", mock.Anything, userID, filter).Return(&shared.Paginated[*notification.Notification]{
		Items:    []*notification.Notification{n},
		Total:    1,
		Page:     1,
		PageSize: 20,
	}, nil)

	page, err := svc.ListUserNotifications(context.Background(), userID, filter)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "New invoice", page.Items[0].Title)
	assert.Equal(t, int64(1), page.Total)
}

func TestUnreadCount(t *testing.T) {
	repo := new(MockNotificationRepository)
	svc := newTestNotificationService(repo)
	userID := uuid.New()

	repo.On("CountUnread", mock.Anything, userID).Return(int64(3), nil)

	count, err := svc.UnreadCount(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestMarkRead(t *testing.T) {
	repo := new(MockNotificationRepository)
	svc := newTestNotificationService(repo)
	userID := uuid.New()

	n, err := notification.NewNotification(userID, notification.TypePaymentReceived, "Payment received", "")
	require.NoError(t, err)

	repo.On("FindByID", mock.Anything, n.ID).Return(n, nil)
	repo.On("Save", mock.Anything, n).Return(nil)

	resp, err := svc.MarkRead(context.Background(), userID, n.ID)
	require.NoError(t, err)
	assert.True(t, resp.IsRead)
	require.NotNil(t, resp.ReadAt)
	repo.AssertExpectations(t)
}

func TestMarkReadOtherUsersNotification(t *testing.T) {
	repo := new(MockNotificationRepository)
	svc := newTestNotificationService(repo)

	owner := uuid.New()
	n, err := notification.NewNotification(owner, notification.TypeGeneral, "Hello", "")
	require.NoError(t, err)

	repo.On("FindByID", mock.Anything, n.ID).Return(n, nil)

	_, err = svc.MarkRead(context.Background(), uuid.New(), n.ID)
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "FORBIDDEN", domainErr.Code)
	repo.AssertNotCalled(t, "Save")
}

func TestMarkReadAlreadyRead(t *testing.T) {
	repo := new(MockNotificationRepository)
	svc := newTestNotificationService(repo)
	userID := uuid.New()

	n, err := notification.NewNotification(userID, notification.TypeGeneral, "Hello", "")
	require.NoError(t, err)
	n.MarkRead()

	repo.On("FindByID", mock.Anything, n.ID).Return(n, nil)

	resp, err := svc.MarkRead(context.Background(), userID, n.ID)
	require.NoError(t, err)
	assert.True(t, resp.IsRead)
	repo.AssertNotCalled(t, "Save")
}

func TestMarkAllRead(t *testing.T) {
	repo := new(MockNotificationRepository)
	svc := newTestNotificationService(repo)
	userID := uuid.New()

	repo.On("MarkAllRead", mock.Anything, userID).Return(nil)

	require.NoError(t, svc.MarkAllRead(context.Background(), userID))
	repo.AssertExpectations(t)
}
