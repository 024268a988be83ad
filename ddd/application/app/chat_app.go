package app

import (
	"context"
	"time"

	"messaging-service/ddd/application/cqe"
	"messaging-service/ddd/application/dto"
	"messaging-service/ddd/domain/entity"
	drepo "messaging-service/ddd/domain/repo"
	"messaging-service/ddd/domain/service"
	"messaging-service/ddd/infrastructure/database/persistence"
	"messaging-service/internal/resource"
	"messaging-service/pkg/config"
	"messaging-service/pkg/errno"
	"messaging-service/pkg/logger"
	"messaging-service/pkg/metrics"
)

// ChatApp 应用服务接口，编排私信相关用例。
type ChatApp interface {
	SendMessage(ctx context.Context, callerID uint64, req *cqe.SendMessageReq) (*dto.MessageDto, error)
	GetConversations(ctx context.Context, callerID uint64) ([]dto.ConversationDto, error)
	GetMessages(ctx context.Context, callerID, partnerID uint64, req *cqe.ListMessagesReq) (*dto.MessagePage, error)
	Stats(ctx context.Context, now time.Time) (*dto.ChatStatsDto, error)
}

type chatAppImpl struct {
	messages        drepo.MessageRepository
	users           drepo.UserDirectory
	index           *service.ConversationIndex
	policy          entity.MessagePolicy
	defaultPageSize int
}

// DefaultChatApp 返回基于全局资源的默认实现。
func DefaultChatApp() ChatApp {
	db := resource.MainDB()
	return NewChatApp(
		persistence.NewMessageRepository(db),
		persistence.NewUserDirectory(db, resource.IdentityCache()),
		config.GetGlobalConfig().Chat,
	)
}

func NewChatApp(messages drepo.MessageRepository, users drepo.UserDirectory, cfg config.ChatConfig) ChatApp {
	pageSize := cfg.DefaultPageSize
	if pageSize <= 0 {
		pageSize = 50
	}
	return &chatAppImpl{
		messages:        messages,
		users:           users,
		index:           service.NewConversationIndex(messages, users),
		policy:          entity.MessagePolicy{AllowSelfMessages: cfg.AllowSelfMessages, MaxBodyLength: cfg.MaxBodyLength},
		defaultPageSize: pageSize,
	}
}

func (a *chatAppImpl) SendMessage(ctx context.Context, callerID uint64, req *cqe.SendMessageReq) (*dto.MessageDto, error) {
	if callerID == 0 {
		return nil, errno.ErrUnauthorized
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	m, err := entity.NewMessage(callerID, req.ReceiverID, req.Message, a.policy)
	if err != nil {
		return nil, err
	}

	receiver, err := a.users.GetIdentity(ctx, req.ReceiverID)
	if err != nil {
		return nil, toBizError(err)
	}
	if receiver == nil {
		return nil, errno.NotFound("receiver not found")
	}

	if err := a.messages.Append(ctx, m); err != nil {
		return nil, toBizError(err)
	}
	metrics.MessagesSent.Inc()
	logger.WithContext(ctx).Debugf("message sent id=%d sender=%d receiver=%d", m.ID, m.SenderID, m.ReceiverID)

	out := dto.NewMessageDto(m)
	return &out, nil
}

func (a *chatAppImpl) GetConversations(ctx context.Context, callerID uint64) ([]dto.ConversationDto, error) {
	if callerID == 0 {
		return nil, errno.ErrUnauthorized
	}
	convs, err := a.index.ListConversations(ctx, callerID)
	if err != nil {
		return nil, toBizError(err)
	}
	out := make([]dto.ConversationDto, 0, len(convs))
	for _, c := range convs {
		out = append(out, dto.NewConversationDto(c))
	}
	return out, nil
}

// GetMessages returns one page of history with partnerID and then marks
// everything partnerID sent to the caller as read, whichever page was asked for.
func (a *chatAppImpl) GetMessages(ctx context.Context, callerID, partnerID uint64, req *cqe.ListMessagesReq) (*dto.MessagePage, error) {
	if callerID == 0 {
		return nil, errno.ErrUnauthorized
	}
	if partnerID == 0 {
		return nil, errno.Validation("partnerId")
	}
	if req == nil {
		req = &cqe.ListMessagesReq{}
	}
	req.Normalize(a.defaultPageSize)

	msgs, total, err := a.messages.ListBetween(ctx, callerID, partnerID, req.Offset(), req.Limit)
	if err != nil {
		return nil, toBizError(err)
	}
	marked, err := a.messages.MarkReadFromSender(ctx, callerID, partnerID)
	if err != nil {
		return nil, toBizError(err)
	}
	if marked > 0 {
		logger.WithContext(ctx).Debugf("marked %d messages read receiver=%d sender=%d", marked, callerID, partnerID)
	}

	items := make([]dto.MessageDto, 0, len(msgs))
	for _, m := range msgs {
		items = append(items, dto.NewMessageDto(m))
	}
	return &dto.MessagePage{
		Messages: items,
		Total:    total,
		Page:     req.Page,
		Pages:    req.Pages(total),
	}, nil
}

// Stats counts all messages and those created since local midnight of now.
func (a *chatAppImpl) Stats(ctx context.Context, now time.Time) (*dto.ChatStatsDto, error) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	total, today, err := a.messages.Stats(ctx, midnight)
	if err != nil {
		return nil, toBizError(err)
	}
	return &dto.ChatStatsDto{TotalMessages: total, TodayMessages: today}, nil
}
