package dao

import (
	"context"
	"time"

	"messaging-service/ddd/infrastructure/database/po"

	"gorm.io/gorm"
)

type MessageDao struct {
	db *gorm.DB
}

func NewMessageDao(db *gorm.DB) *MessageDao {
	return &MessageDao{db: db}
}

func (d *MessageDao) Create(ctx context.Context, p *po.Message) error {
	return d.db.WithContext(ctx).Create(p).Error
}

// pair restricts a query to messages exchanged between a and b in either direction.
func pair(db *gorm.DB, a, b uint64) *gorm.DB {
	return db.Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a)
}

// ListBetween returns one page of the pair's messages, newest first.
func (d *MessageDao) ListBetween(ctx context.Context, a, b uint64, offset, limit int) ([]po.Message, error) {
	var pos []po.Message
	err := pair(d.db.WithContext(ctx), a, b).
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&pos).Error
	if err != nil {
		return nil, err
	}
	return pos, nil
}

func (d *MessageDao) CountBetween(ctx context.Context, a, b uint64) (int64, error) {
	var count int64
	err := pair(d.db.WithContext(ctx).Model(&po.Message{}), a, b).
		Count(&count).Error
	return count, err
}

func (d *MessageDao) MarkReadFromSender(ctx context.Context, receiverID, senderID uint64) (int64, error) {
	res := d.db.WithContext(ctx).
		Model(&po.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND is_read = ?", senderID, receiverID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

// ListCounterparts groups every message touching userID by the other
// participant and counts the ones still unread by userID.
func (d *MessageDao) ListCounterparts(ctx context.Context, userID uint64) ([]po.Counterpart, error) {
	var rows []po.Counterpart
	err := d.db.WithContext(ctx).
		Model(&po.Message{}).
		Select(`CASE WHEN sender_id = ? THEN receiver_id ELSE sender_id END AS partner_id,
			SUM(CASE WHEN receiver_id = ? AND is_read = ? THEN 1 ELSE 0 END) AS unread_count`,
			userID, userID, false).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Group("partner_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// LatestBetween returns nil, nil when the pair has exchanged nothing.
func (d *MessageDao) LatestBetween(ctx context.Context, a, b uint64) (*po.Message, error) {
	pos, err := d.ListBetween(ctx, a, b, 0, 1)
	if err != nil {
		return nil, err
	}
	if len(pos) == 0 {
		return nil, nil
	}
	return &pos[0], nil
}

func (d *MessageDao) Count(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	q := d.db.WithContext(ctx).Model(&po.Message{})
	if !since.IsZero() {
		q = q.Where("created_at >= ?", since)
	}
	err := q.Count(&count).Error
	return count, err
}
