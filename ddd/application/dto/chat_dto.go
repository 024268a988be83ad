package dto

import (
	"time"

	"messaging-service/ddd/domain/entity"
)

type MessageDto struct {
	ID         uint64    `json:"id"`
	SenderID   uint64    `json:"senderId"`
	ReceiverID uint64    `json:"receiverId"`
	Message    string    `json:"message"`
	IsRead     bool      `json:"isRead"`
	CreatedAt  time.Time `json:"createdAt"`
}

func NewMessageDto(m *entity.Message) MessageDto {
	return MessageDto{
		ID:         m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Message:    m.Body,
		IsRead:     m.IsRead,
		CreatedAt:  m.CreatedAt,
	}
}

// PartnerDto is the public part of a counterpart's identity.
type PartnerDto struct {
	ID           uint64 `json:"id"`
	Name         string `json:"name,omitempty"`
	Phone        string `json:"phone,omitempty"`
	ProfileImage string `json:"profileImage,omitempty"`
}

type ConversationDto struct {
	Partner     PartnerDto  `json:"partner"`
	LastMessage *MessageDto `json:"lastMessage"`
	UnreadCount int64       `json:"unreadCount"`
}

func NewConversationDto(c *entity.Conversation) ConversationDto {
	out := ConversationDto{
		Partner: PartnerDto{
			ID:           c.Partner.ID,
			Name:         c.Partner.Name,
			Phone:        c.Partner.Phone,
			ProfileImage: c.Partner.ProfileImage,
		},
		UnreadCount: c.UnreadCount,
	}
	if c.LastMessage != nil {
		m := NewMessageDto(c.LastMessage)
		out.LastMessage = &m
	}
	return out
}

// MessagePage 会话消息分页结果，消息按时间正序排列。
type MessagePage struct {
	Messages []MessageDto
	Total    int64
	Page     int
	Pages    int
}

type ChatStatsDto struct {
	TotalMessages int64 `json:"totalMessages"`
	TodayMessages int64 `json:"todayMessages"`
}
