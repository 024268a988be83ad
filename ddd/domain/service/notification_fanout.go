package service

import (
	"context"
	"fmt"

	"messaging-service/ddd/domain/entity"
	"messaging-service/ddd/domain/repo"
	"messaging-service/pkg/errno"
	"messaging-service/pkg/logger"

	"github.com/sirupsen/logrus"
)

const DefaultFanoutChunkSize = 500

// NotificationFanout expands one notification content into one row per
// recipient.
type NotificationFanout struct {
	notifications repo.NotificationRepository
	users         repo.UserDirectory
	chunkSize     int
}

// NewNotificationFanout builds a fan-out writing "all" audiences in chunks of
// chunkSize rows; a non-positive chunkSize falls back to DefaultFanoutChunkSize.
func NewNotificationFanout(notifications repo.NotificationRepository, users repo.UserDirectory, chunkSize int) *NotificationFanout {
	if chunkSize <= 0 {
		chunkSize = DefaultFanoutChunkSize
	}
	return &NotificationFanout{notifications: notifications, users: users, chunkSize: chunkSize}
}

// Send delivers content to the audience. When a chunk fails the returned
// result still reports what was written, alongside an ErrFanoutIncomplete error.
func (f *NotificationFanout) Send(ctx context.Context, audience entity.Audience, content entity.NotificationContent) (entity.FanoutResult, error) {
	if !audience.All {
		return f.sendOne(ctx, audience.UserID, content)
	}
	return f.sendAll(ctx, content)
}

func (f *NotificationFanout) sendOne(ctx context.Context, userID uint64, content entity.NotificationContent) (entity.FanoutResult, error) {
	if userID == 0 {
		return entity.FanoutResult{}, errno.Validation("userId")
	}
	u, err := f.users.GetIdentity(ctx, userID)
	if err != nil {
		return entity.FanoutResult{}, err
	}
	if u == nil {
		return entity.FanoutResult{}, errno.NotFound("user not found")
	}
	if err := f.notifications.Create(ctx, content.For(userID)); err != nil {
		return entity.FanoutResult{Recipients: 1}, err
	}
	return entity.FanoutResult{Recipients: 1, Created: 1}, nil
}

func (f *NotificationFanout) sendAll(ctx context.Context, content entity.NotificationContent) (entity.FanoutResult, error) {
	ids, err := f.users.ListActiveUserIDs(ctx)
	if err != nil {
		return entity.FanoutResult{}, err
	}
	res := entity.FanoutResult{Recipients: int64(len(ids))}
	if len(ids) == 0 {
		return res, nil
	}

	for start := 0; start < len(ids); start += f.chunkSize {
		end := start + f.chunkSize
		if end > len(ids) {
			end = len(ids)
		}
		batch := make([]*entity.Notification, 0, end-start)
		for _, id := range ids[start:end] {
			batch = append(batch, content.For(id))
		}

		written, err := f.notifications.BulkCreate(ctx, batch)
		if err != nil {
			logger.WithContext(ctx).WithError(err).WithFields(logrus.Fields{
				"recipients":  res.Recipients,
				"created":     res.Created,
				"chunk_start": start,
				"chunk_size":  len(batch),
			}).Error("notification fan-out stopped after chunk failure")
			detail := fmt.Sprintf("%d of %d", res.Created, res.Recipients)
			return res, errno.NewSimpleBizError(errno.ErrFanoutIncomplete, err, detail)
		}
		res.Created += written
	}

	logger.WithContext(ctx).WithFields(logrus.Fields{
		"recipients": res.Recipients,
		"created":    res.Created,
	}).Info("notification fan-out finished")
	return res, nil
}
