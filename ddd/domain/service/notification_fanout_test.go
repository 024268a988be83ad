package service_test

import (
	"context"
	"errors"
	"testing"

	"messaging-service/ddd/domain/entity"
	"messaging-service/ddd/domain/repo/mocks"
	"messaging-service/ddd/domain/service"
	"messaging-service/pkg/errno"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustContent(t *testing.T) entity.NotificationContent {
	t.Helper()
	c, err := entity.NewNotificationContent("Maintenance", "Back at noon", "warning")
	require.NoError(t, err)
	return c
}

func TestNotificationFanout_SingleUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifications := mocks.NewMockNotificationRepository(ctrl)
	users := mocks.NewMockUserDirectory(ctrl)
	fanout := service.NewNotificationFanout(notifications, users, 0)
	ctx := context.Background()

	users.EXPECT().GetIdentity(ctx, uint64(7)).Return(&entity.UserIdentity{ID: 7}, nil)
	notifications.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, n *entity.Notification) error {
		assert.Equal(t, uint64(7), n.UserID)
		assert.Equal(t, entity.NotificationWarning, n.Type)
		assert.False(t, n.IsRead)
		return nil
	})

	res, err := fanout.Send(ctx, entity.Audience{UserID: 7}, mustContent(t))
	require.NoError(t, err)
	assert.Equal(t, entity.FanoutResult{Recipients: 1, Created: 1}, res)
}

func TestNotificationFanout_SingleUnknownUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserDirectory(ctrl)
	fanout := service.NewNotificationFanout(mocks.NewMockNotificationRepository(ctrl), users, 0)

	users.EXPECT().GetIdentity(gomock.Any(), uint64(404)).Return(nil, nil)

	_, err := fanout.Send(context.Background(), entity.Audience{UserID: 404}, mustContent(t))
	assert.True(t, errors.Is(err, errno.ErrNotFound))
}

func TestNotificationFanout_AllWritesOneRowPerActiveUserInChunks(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifications := mocks.NewMockNotificationRepository(ctrl)
	users := mocks.NewMockUserDirectory(ctrl)
	fanout := service.NewNotificationFanout(notifications, users, 2)

	users.EXPECT().ListActiveUserIDs(gomock.Any()).Return([]uint64{1, 2, 3, 4, 5}, nil)

	seen := map[uint64]bool{}
	notifications.EXPECT().BulkCreate(gomock.Any(), gomock.Any()).Times(3).
		DoAndReturn(func(_ context.Context, ns []*entity.Notification) (int64, error) {
			assert.LessOrEqual(t, len(ns), 2)
			for _, n := range ns {
				assert.False(t, seen[n.UserID], "duplicate recipient %d", n.UserID)
				seen[n.UserID] = true
				assert.Equal(t, "Maintenance", n.Title)
				assert.Equal(t, "Back at noon", n.Message)
			}
			return int64(len(ns)), nil
		})

	res, err := fanout.Send(context.Background(), entity.Audience{All: true}, mustContent(t))
	require.NoError(t, err)
	assert.Equal(t, entity.FanoutResult{Recipients: 5, Created: 5}, res)
	assert.Len(t, seen, 5)
}

func TestNotificationFanout_AllWithNoActiveUsersSucceeds(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserDirectory(ctrl)
	fanout := service.NewNotificationFanout(mocks.NewMockNotificationRepository(ctrl), users, 0)

	users.EXPECT().ListActiveUserIDs(gomock.Any()).Return(nil, nil)

	res, err := fanout.Send(context.Background(), entity.Audience{All: true}, mustContent(t))
	require.NoError(t, err)
	assert.Zero(t, res.Recipients)
	assert.True(t, res.Complete())
}

func TestNotificationFanout_ChunkFailureReportsPartialCount(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifications := mocks.NewMockNotificationRepository(ctrl)
	users := mocks.NewMockUserDirectory(ctrl)
	fanout := service.NewNotificationFanout(notifications, users, 2)

	users.EXPECT().ListActiveUserIDs(gomock.Any()).Return([]uint64{1, 2, 3, 4, 5}, nil)
	dbErr := errors.New("deadlock")
	gomock.InOrder(
		notifications.EXPECT().BulkCreate(gomock.Any(), gomock.Len(2)).Return(int64(2), nil),
		notifications.EXPECT().BulkCreate(gomock.Any(), gomock.Len(2)).Return(int64(0), dbErr),
	)

	res, err := fanout.Send(context.Background(), entity.Audience{All: true}, mustContent(t))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errno.ErrFanoutIncomplete))
	assert.True(t, errors.Is(err, dbErr))
	assert.Equal(t, entity.FanoutResult{Recipients: 5, Created: 2}, res)
	assert.False(t, res.Complete())

	status, msg := errno.StatusOf(err)
	assert.Equal(t, 500, status)
	assert.Contains(t, msg, "2 of 5")
}
