package repo

import (
	"context"

	"messaging-service/ddd/domain/entity"
)

//go:generate mockgen -destination=mocks/mock_notification_repo.go -package=mocks messaging-service/ddd/domain/repo NotificationRepository

// NotificationRepository 通知仓储接口，隐藏具体持久化实现。
// Every method is scoped by userID; methods acting on an id owned by another
// user affect zero rows.
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	// BulkCreate inserts all rows in one transaction and returns the number written.
	BulkCreate(ctx context.Context, ns []*entity.Notification) (int64, error)
	ListByUser(ctx context.Context, userID uint64, offset, limit int) ([]*entity.Notification, error)
	CountByUser(ctx context.Context, userID uint64) (int64, error)
	CountUnread(ctx context.Context, userID uint64) (int64, error)
	// Get returns nil, nil when no notification with id belongs to userID.
	Get(ctx context.Context, userID, id uint64) (*entity.Notification, error)
	MarkRead(ctx context.Context, userID, id uint64) (int64, error)
	MarkAllRead(ctx context.Context, userID uint64) (int64, error)
	Delete(ctx context.Context, userID, id uint64) (int64, error)
	DeleteAll(ctx context.Context, userID uint64) (int64, error)
}
