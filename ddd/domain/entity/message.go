package entity

import (
	"strings"
	"time"
	"unicode/utf8"

	"messaging-service/pkg/errno"
)

// Message is a directed chat message. Only IsRead ever changes after creation,
// and only from false to true on behalf of the receiver.
type Message struct {
	ID         uint64
	SenderID   uint64
	ReceiverID uint64
	Body       string
	IsRead     bool
	CreatedAt  time.Time
}

// MessagePolicy holds the configurable validation rules for new messages.
type MessagePolicy struct {
	AllowSelfMessages bool
	MaxBodyLength     int
}

// NewMessage validates and builds an unread message.
func NewMessage(senderID, receiverID uint64, body string, policy MessagePolicy) (*Message, error) {
	if senderID == 0 {
		return nil, errno.ErrUnauthorized
	}
	if receiverID == 0 {
		return nil, errno.Validation("receiverId")
	}
	if senderID == receiverID && !policy.AllowSelfMessages {
		return nil, errno.Validation("receiverId: cannot message yourself")
	}
	if strings.TrimSpace(body) == "" {
		return nil, errno.Validation("message")
	}
	if policy.MaxBodyLength > 0 && utf8.RuneCountInString(body) > policy.MaxBodyLength {
		return nil, errno.Validation("message: too long")
	}
	return &Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Body:       body,
		IsRead:     false,
	}, nil
}

// PartnerOf returns the other participant relative to userID.
func (m *Message) PartnerOf(userID uint64) uint64 {
	if m.SenderID == userID {
		return m.ReceiverID
	}
	return m.SenderID
}
