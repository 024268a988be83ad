package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"testing"

	"messaging-service/ddd/application/app"
	"messaging-service/ddd/application/cqe"
	"messaging-service/ddd/domain/repo/mocks"
	"messaging-service/ddd/infrastructure/database/persistence"
	"messaging-service/internal/testutil"
	"messaging-service/pkg/config"
	"messaging-service/pkg/errno"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type notificationFixture struct {
	db  *gorm.DB
	app app.NotificationApp
	x   uint64
	y   uint64
}

func newNotificationFixture(t *testing.T, strict bool) *notificationFixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	cfg := config.Default().Notification
	cfg.StrictOwnership = strict
	return &notificationFixture{
		db:  db,
		app: app.NewNotificationApp(persistence.NewNotificationRepository(db), persistence.NewUserDirectory(db, nil), cfg),
		x:   testutil.SeedUser(t, db, "x", "user", true),
		y:   testutil.SeedUser(t, db, "y", "user", true),
	}
}

func (f *notificationFixture) notify(t *testing.T, userID uint64, title string) uint64 {
	t.Helper()
	n, err := f.app.Notify(context.Background(), &cqe.NotifyReq{UserID: userID, Title: title, Message: "body", Type: "success"})
	require.NoError(t, err)
	return n.ID
}

func sendReq(t *testing.T, raw string) *cqe.SendNotificationReq {
	t.Helper()
	var req cqe.SendNotificationReq
	require.NoError(t, json.Unmarshal([]byte(raw), &req))
	return &req
}

func jsonID(id uint64) string {
	return strconv.FormatUint(id, 10)
}

func TestNotificationApp_ListNewestFirstWithUnreadCount(t *testing.T) {
	f := newNotificationFixture(t, true)
	ctx := context.Background()

	f.notify(t, f.x, "first")
	second := f.notify(t, f.x, "second")
	f.notify(t, f.x, "third")
	f.notify(t, f.y, "other")

	_, err := f.app.MarkRead(ctx, f.x, second)
	require.NoError(t, err)

	resp, err := f.app.ListNotifications(ctx, f.x, &cqe.ListNotificationsReq{PageReq: cqe.PageReq{Page: 1, Limit: 2}})
	require.NoError(t, err)
	require.Len(t, resp.Notifications, 2)
	assert.Equal(t, "third", resp.Notifications[0].Title)
	assert.Equal(t, "second", resp.Notifications[1].Title)
	assert.EqualValues(t, 3, resp.Total)
	assert.EqualValues(t, 2, resp.UnreadCount)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 2, resp.Pages)
}

func TestNotificationApp_MarkReadSetsReadAtAndIsIdempotent(t *testing.T) {
	f := newNotificationFixture(t, true)
	ctx := context.Background()
	id := f.notify(t, f.x, "hello")

	n, err := f.app.MarkRead(ctx, f.x, id)
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.True(t, n.IsRead)
	require.NotNil(t, n.ReadAt)

	again, err := f.app.MarkRead(ctx, f.x, id)
	require.NoError(t, err)
	require.NotNil(t, again)
	assert.True(t, again.ReadAt.Equal(*n.ReadAt))
}

func TestNotificationApp_ScopingLenient(t *testing.T) {
	f := newNotificationFixture(t, false)
	ctx := context.Background()
	id := f.notify(t, f.y, "for y")

	n, err := f.app.MarkRead(ctx, f.x, id)
	require.NoError(t, err)
	assert.Nil(t, n)
	require.NoError(t, f.app.Delete(ctx, f.x, id))

	resp, err := f.app.ListNotifications(ctx, f.y, nil)
	require.NoError(t, err)
	require.Len(t, resp.Notifications, 1)
	assert.False(t, resp.Notifications[0].IsRead)
	assert.EqualValues(t, 1, resp.UnreadCount)
}

func TestNotificationApp_ScopingStrict(t *testing.T) {
	f := newNotificationFixture(t, true)
	ctx := context.Background()
	id := f.notify(t, f.y, "for y")

	_, err := f.app.MarkRead(ctx, f.x, id)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errno.ErrNotFound))
	status, msg := errno.StatusOf(err)
	assert.Equal(t, 404, status)
	assert.Equal(t, "notification not found", msg)

	err = f.app.Delete(ctx, f.x, id)
	assert.True(t, errors.Is(err, errno.ErrNotFound))

	// a missing id reads exactly like someone else's
	_, missingErr := f.app.MarkRead(ctx, f.x, 123456)
	_, missingMsg := errno.StatusOf(missingErr)
	assert.Equal(t, msg, missingMsg)

	resp, err := f.app.ListNotifications(ctx, f.y, nil)
	require.NoError(t, err)
	require.Len(t, resp.Notifications, 1)
	assert.False(t, resp.Notifications[0].IsRead)
}

func TestNotificationApp_MarkAllReadAndDeleteAll(t *testing.T) {
	f := newNotificationFixture(t, true)
	ctx := context.Background()
	f.notify(t, f.x, "a")
	f.notify(t, f.x, "b")
	f.notify(t, f.y, "c")

	updated, err := f.app.MarkAllRead(ctx, f.x)
	require.NoError(t, err)
	assert.EqualValues(t, 2, updated)

	deleted, err := f.app.DeleteAll(ctx, f.x)
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)

	resp, err := f.app.ListNotifications(ctx, f.y, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, resp.Total)
	assert.EqualValues(t, 1, resp.UnreadCount)
}

func TestNotificationApp_FanoutToAllActiveUsers(t *testing.T) {
	f := newNotificationFixture(t, true)
	ctx := context.Background()
	z := testutil.SeedUser(t, f.db, "z", "admin", true)
	testutil.SeedUser(t, f.db, "disabled", "user", false)

	res, err := f.app.SendFanout(ctx, sendReq(t, `{"userId":"all","title":"Eid","message":"Closed on Friday","type":"info"}`))
	require.NoError(t, err)
	assert.EqualValues(t, 3, res.RecipientCount)
	assert.EqualValues(t, 3, res.Created)

	for _, uid := range []uint64{f.x, f.y, z} {
		resp, err := f.app.ListNotifications(ctx, uid, nil)
		require.NoError(t, err)
		require.Len(t, resp.Notifications, 1, "user %d", uid)
		n := resp.Notifications[0]
		assert.Equal(t, uid, n.UserID)
		assert.Equal(t, "Eid", n.Title)
		assert.Equal(t, "Closed on Friday", n.Message)
		assert.Equal(t, "info", n.Type)
		assert.False(t, n.IsRead)
	}
}

func TestNotificationApp_FanoutSingleUser(t *testing.T) {
	f := newNotificationFixture(t, true)
	ctx := context.Background()

	res, err := f.app.SendFanout(ctx, sendReq(t, `{"userId":"`+jsonID(f.y)+`","title":"Ad approved","message":"Your ad is live"}`))
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.Created)

	resp, err := f.app.ListNotifications(ctx, f.y, nil)
	require.NoError(t, err)
	require.Len(t, resp.Notifications, 1)
	assert.Equal(t, "info", resp.Notifications[0].Type)

	_, err = f.app.SendFanout(ctx, sendReq(t, `{"userId":987654,"title":"t","message":"m"}`))
	assert.True(t, errors.Is(err, errno.ErrNotFound))
}

func TestNotificationApp_FanoutValidation(t *testing.T) {
	f := newNotificationFixture(t, true)
	ctx := context.Background()

	for _, raw := range []string{
		`{"title":"t","message":"m"}`,
		`{"userId":"all","title":"","message":"m"}`,
		`{"userId":"all","title":"t","message":"   "}`,
		`{"userId":"all","title":"t","message":"m","type":"urgent"}`,
	} {
		_, err := f.app.SendFanout(ctx, sendReq(t, raw))
		assert.True(t, errors.Is(err, errno.ErrParameterInvalid), raw)
	}
}

func TestNotificationApp_FanoutPartialFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockNotificationRepository(ctrl)
	users := mocks.NewMockUserDirectory(ctrl)
	cfg := config.Default().Notification
	cfg.FanoutChunkSize = 2
	a := app.NewNotificationApp(repo, users, cfg)

	users.EXPECT().ListActiveUserIDs(gomock.Any()).Return([]uint64{1, 2, 3}, nil)
	gomock.InOrder(
		repo.EXPECT().BulkCreate(gomock.Any(), gomock.Any()).Return(int64(2), nil),
		repo.EXPECT().BulkCreate(gomock.Any(), gomock.Any()).Return(int64(0), errors.New("lock wait timeout")),
	)

	res, err := a.SendFanout(context.Background(), sendReq(t, `{"userId":"all","title":"t","message":"m"}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errno.ErrFanoutIncomplete))
	require.NotNil(t, res)
	assert.EqualValues(t, 3, res.RecipientCount)
	assert.EqualValues(t, 2, res.Created)
}

func TestNotificationApp_RequiresCaller(t *testing.T) {
	f := newNotificationFixture(t, true)

	_, err := f.app.ListNotifications(context.Background(), 0, nil)
	assert.True(t, errors.Is(err, errno.ErrUnauthorized))
}

func TestNotificationApp_NotifyRejectsBadType(t *testing.T) {
	f := newNotificationFixture(t, true)

	_, err := f.app.Notify(context.Background(), &cqe.NotifyReq{UserID: f.x, Title: "t", Message: "m", Type: "loud"})
	assert.True(t, errors.Is(err, errno.ErrParameterInvalid))
}
