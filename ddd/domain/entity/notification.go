package entity

import (
	"strings"
	"time"
	"unicode/utf8"

	"messaging-service/pkg/errno"
)

// MaxTitleLength matches the width of the title column.
const MaxTitleLength = 255

// NotificationType 通知类型。
type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationSuccess NotificationType = "success"
	NotificationWarning NotificationType = "warning"
	NotificationError   NotificationType = "error"
)

// ParseNotificationType accepts one of the four known types; empty means info.
func ParseNotificationType(s string) (NotificationType, error) {
	switch t := NotificationType(strings.ToLower(strings.TrimSpace(s))); t {
	case "":
		return NotificationInfo, nil
	case NotificationInfo, NotificationSuccess, NotificationWarning, NotificationError:
		return t, nil
	default:
		return "", errno.Validation("type")
	}
}

// Notification 聚合根，表示一条站内通知，只属于一个接收用户。
type Notification struct {
	ID        uint64
	UserID    uint64
	Type      NotificationType
	Title     string
	Message   string
	IsRead    bool
	CreatedAt time.Time
	ReadAt    *time.Time
}

// NotificationContent is the shared part of a notification, independent of
// its recipient.
type NotificationContent struct {
	Title   string
	Message string
	Type    NotificationType
}

// NewNotificationContent validates title, message and type.
func NewNotificationContent(title, message, typ string) (NotificationContent, error) {
	title = strings.TrimSpace(title)
	message = strings.TrimSpace(message)
	if title == "" {
		return NotificationContent{}, errno.Validation("title")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return NotificationContent{}, errno.Validation("title: too long")
	}
	if message == "" {
		return NotificationContent{}, errno.Validation("message")
	}
	t, err := ParseNotificationType(typ)
	if err != nil {
		return NotificationContent{}, err
	}
	return NotificationContent{Title: title, Message: message, Type: t}, nil
}

// For creates a new unread notification of this content for userID.
func (c NotificationContent) For(userID uint64) *Notification {
	return &Notification{
		UserID:  userID,
		Type:    c.Type,
		Title:   c.Title,
		Message: c.Message,
		IsRead:  false,
	}
}
