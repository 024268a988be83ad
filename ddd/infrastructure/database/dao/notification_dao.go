package dao

import (
	"context"
	"time"

	"messaging-service/ddd/infrastructure/database/po"

	"gorm.io/gorm"
)

type NotificationDao struct {
	db *gorm.DB
}

func NewNotificationDao(db *gorm.DB) *NotificationDao {
	return &NotificationDao{db: db}
}

func (d *NotificationDao) Create(ctx context.Context, p *po.Notification) error {
	return d.db.WithContext(ctx).Create(p).Error
}

// BulkCreate inserts pos inside a single transaction.
func (d *NotificationDao) BulkCreate(ctx context.Context, pos []*po.Notification, batchSize int) (int64, error) {
	if len(pos) == 0 {
		return 0, nil
	}
	var written int64
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.CreateInBatches(pos, batchSize)
		if res.Error != nil {
			return res.Error
		}
		written = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return written, nil
}

func (d *NotificationDao) ListByUser(ctx context.Context, userID uint64, offset, limit int) ([]po.Notification, error) {
	var pos []po.Notification
	err := d.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&pos).Error
	if err != nil {
		return nil, err
	}
	return pos, nil
}

func (d *NotificationDao) CountByUser(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).
		Model(&po.Notification{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (d *NotificationDao) CountUnread(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).
		Model(&po.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// Get returns nil, nil when the row does not exist for userID.
func (d *NotificationDao) Get(ctx context.Context, userID, id uint64) (*po.Notification, error) {
	var pos []po.Notification
	err := d.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Limit(1).
		Find(&pos).Error
	if err != nil {
		return nil, err
	}
	if len(pos) == 0 {
		return nil, nil
	}
	return &pos[0], nil
}

// MarkRead matches regardless of the current read state, so a repeated call on
// an owned notification still reports one row.
func (d *NotificationDao) MarkRead(ctx context.Context, userID, id uint64, now time.Time) (int64, error) {
	var p po.Notification
	res := d.db.WithContext(ctx).
		Model(&p).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": gorm.Expr("COALESCE(read_at, ?)", now),
		})
	return res.RowsAffected, res.Error
}

func (d *NotificationDao) MarkAllRead(ctx context.Context, userID uint64, now time.Time) (int64, error) {
	res := d.db.WithContext(ctx).
		Model(&po.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": now,
		})
	return res.RowsAffected, res.Error
}

func (d *NotificationDao) Delete(ctx context.Context, userID, id uint64) (int64, error) {
	res := d.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&po.Notification{})
	return res.RowsAffected, res.Error
}

func (d *NotificationDao) DeleteAll(ctx context.Context, userID uint64) (int64, error) {
	res := d.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&po.Notification{})
	return res.RowsAffected, res.Error
}
