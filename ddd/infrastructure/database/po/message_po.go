package po

import "time"

// Message 持久化对象，对应 chats 表。
type Message struct {
	ID         uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	SenderID   uint64    `gorm:"column:sender_id;not null;index:idx_chats_pair,priority:1"`
	ReceiverID uint64    `gorm:"column:receiver_id;not null;index:idx_chats_pair,priority:2"`
	Body       string    `gorm:"column:message;type:text;not null"`
	IsRead     bool      `gorm:"column:is_read;not null;default:false"`
	CreatedAt  time.Time `gorm:"column:created_at;index"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (Message) TableName() string {
	return "chats"
}

// Counterpart is the scan target of the per-counterpart aggregation.
type Counterpart struct {
	PartnerID   uint64 `gorm:"column:partner_id"`
	UnreadCount int64  `gorm:"column:unread_count"`
}
