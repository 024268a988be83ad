package dto

import (
	"time"

	"messaging-service/ddd/domain/entity"
)

// NotificationDto 向上层暴露的通知视图模型。
type NotificationDto struct {
	ID        uint64     `json:"id"`
	UserID    uint64     `json:"userId"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	IsRead    bool       `json:"isRead"`
	CreatedAt time.Time  `json:"createdAt"`
	ReadAt    *time.Time `json:"readAt,omitempty"`
}

func NewNotificationDto(n *entity.Notification) NotificationDto {
	return NotificationDto{
		ID:        n.ID,
		UserID:    n.UserID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
		ReadAt:    n.ReadAt,
	}
}

// ListNotificationsResponse 列表响应结构，包含未读数与分页信息。
type ListNotificationsResponse struct {
	Notifications []NotificationDto
	Total         int64
	UnreadCount   int64
	Page          int
	Pages         int
}

// FanoutDto 通知群发结果。RecipientCount 为目标人数，Created 为实际写入条数。
type FanoutDto struct {
	RecipientCount int64 `json:"recipientCount"`
	Created        int64 `json:"created"`
}

// CountDto reports how many rows a bulk operation touched.
type CountDto struct {
	Count int64 `json:"count"`
}
