package persistence

import (
	"context"
	"time"

	"messaging-service/ddd/domain/entity"
	drepo "messaging-service/ddd/domain/repo"
	"messaging-service/ddd/infrastructure/database/dao"
	"messaging-service/ddd/infrastructure/database/po"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const defaultInsertBatchSize = 500

type notificationRepositoryImpl struct {
	dao *dao.NotificationDao
	now func() time.Time
}

func NewNotificationRepository(db *gorm.DB) drepo.NotificationRepository {
	return &notificationRepositoryImpl{dao: dao.NewNotificationDao(db), now: time.Now}
}

func toNotificationPO(n *entity.Notification) *po.Notification {
	return &po.Notification{
		ID:      n.ID,
		UserID:  n.UserID,
		Type:    string(n.Type),
		Title:   n.Title,
		Message: n.Message,
		IsRead:  n.IsRead,
		ReadAt:  n.ReadAt,
	}
}

func toNotificationEntity(p *po.Notification) *entity.Notification {
	return &entity.Notification{
		ID:        p.ID,
		UserID:    p.UserID,
		Type:      entity.NotificationType(p.Type),
		Title:     p.Title,
		Message:   p.Message,
		IsRead:    p.IsRead,
		CreatedAt: p.CreatedAt,
		ReadAt:    p.ReadAt,
	}
}

func (r *notificationRepositoryImpl) Create(ctx context.Context, n *entity.Notification) error {
	p := toNotificationPO(n)
	if err := r.dao.Create(ctx, p); err != nil {
		return errors.Wrap(err, "create notification")
	}
	n.ID = p.ID
	n.CreatedAt = p.CreatedAt
	return nil
}

func (r *notificationRepositoryImpl) BulkCreate(ctx context.Context, ns []*entity.Notification) (int64, error) {
	pos := make([]*po.Notification, 0, len(ns))
	for _, n := range ns {
		pos = append(pos, toNotificationPO(n))
	}
	written, err := r.dao.BulkCreate(ctx, pos, defaultInsertBatchSize)
	if err != nil {
		return 0, errors.Wrapf(err, "bulk create %d notifications", len(ns))
	}
	for i, p := range pos {
		ns[i].ID = p.ID
		ns[i].CreatedAt = p.CreatedAt
	}
	return written, nil
}

func (r *notificationRepositoryImpl) ListByUser(ctx context.Context, userID uint64, offset, limit int) ([]*entity.Notification, error) {
	pos, err := r.dao.ListByUser(ctx, userID, offset, limit)
	if err != nil {
		return nil, errors.Wrap(err, "list notifications")
	}
	res := make([]*entity.Notification, 0, len(pos))
	for i := range pos {
		res = append(res, toNotificationEntity(&pos[i]))
	}
	return res, nil
}

func (r *notificationRepositoryImpl) CountByUser(ctx context.Context, userID uint64) (int64, error) {
	n, err := r.dao.CountByUser(ctx, userID)
	return n, errors.Wrap(err, "count notifications")
}

func (r *notificationRepositoryImpl) CountUnread(ctx context.Context, userID uint64) (int64, error) {
	n, err := r.dao.CountUnread(ctx, userID)
	return n, errors.Wrap(err, "count unread notifications")
}

func (r *notificationRepositoryImpl) Get(ctx context.Context, userID, id uint64) (*entity.Notification, error) {
	p, err := r.dao.Get(ctx, userID, id)
	if err != nil {
		return nil, errors.Wrap(err, "get notification")
	}
	if p == nil {
		return nil, nil
	}
	return toNotificationEntity(p), nil
}

func (r *notificationRepositoryImpl) MarkRead(ctx context.Context, userID, id uint64) (int64, error) {
	n, err := r.dao.MarkRead(ctx, userID, id, r.now())
	return n, errors.Wrap(err, "mark notification read")
}

func (r *notificationRepositoryImpl) MarkAllRead(ctx context.Context, userID uint64) (int64, error) {
	n, err := r.dao.MarkAllRead(ctx, userID, r.now())
	return n, errors.Wrap(err, "mark all notifications read")
}

func (r *notificationRepositoryImpl) Delete(ctx context.Context, userID, id uint64) (int64, error) {
	n, err := r.dao.Delete(ctx, userID, id)
	return n, errors.Wrap(err, "delete notification")
}

func (r *notificationRepositoryImpl) DeleteAll(ctx context.Context, userID uint64) (int64, error) {
	n, err := r.dao.DeleteAll(ctx, userID)
	return n, errors.Wrap(err, "delete all notifications")
}
