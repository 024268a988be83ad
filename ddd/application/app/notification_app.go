package app

import (
	"context"
	"errors"

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

const notificationNotFound = "notification not found"

// NotificationApp 应用服务接口，编排通知相关用例。
type NotificationApp interface {
	ListNotifications(ctx context.Context, userID uint64, req *cqe.ListNotificationsReq) (*dto.ListNotificationsResponse, error)
	// MarkRead returns the notification after the update. In lenient mode a
	// notification the caller does not own yields nil without an error.
	MarkRead(ctx context.Context, userID, id uint64) (*dto.NotificationDto, error)
	MarkAllRead(ctx context.Context, userID uint64) (int64, error)
	Delete(ctx context.Context, userID, id uint64) error
	DeleteAll(ctx context.Context, userID uint64) (int64, error)
	// Notify creates a single notification on behalf of another in-process
	// component, e.g. a listing approval.
	Notify(ctx context.Context, req *cqe.NotifyReq) (*dto.NotificationDto, error)
	// SendFanout delivers an admin notification. On partial failure the
	// returned result holds what was written, alongside the error.
	SendFanout(ctx context.Context, req *cqe.SendNotificationReq) (*dto.FanoutDto, error)
}

type notificationAppImpl struct {
	repo            drepo.NotificationRepository
	fanout          *service.NotificationFanout
	strict          bool
	defaultPageSize int
}

// DefaultNotificationApp 返回默认的应用服务实现。
func DefaultNotificationApp() NotificationApp {
	db := resource.MainDB()
	return NewNotificationApp(
		persistence.NewNotificationRepository(db),
		persistence.NewUserDirectory(db, resource.IdentityCache()),
		config.GetGlobalConfig().Notification,
	)
}

func NewNotificationApp(repo drepo.NotificationRepository, users drepo.UserDirectory, cfg config.NotificationConfig) NotificationApp {
	pageSize := cfg.DefaultPageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	return &notificationAppImpl{
		repo:            repo,
		fanout:          service.NewNotificationFanout(repo, users, cfg.FanoutChunkSize),
		strict:          cfg.StrictOwnership,
		defaultPageSize: pageSize,
	}
}

func (a *notificationAppImpl) ListNotifications(ctx context.Context, userID uint64, req *cqe.ListNotificationsReq) (*dto.ListNotificationsResponse, error) {
	if userID == 0 {
		return nil, errno.ErrUnauthorized
	}
	if req == nil {
		req = &cqe.ListNotificationsReq{}
	}
	req.Normalize(a.defaultPageSize)

	list, err := a.repo.ListByUser(ctx, userID, req.Offset(), req.Limit)
	if err != nil {
		return nil, toBizError(err)
	}
	total, err := a.repo.CountByUser(ctx, userID)
	if err != nil {
		return nil, toBizError(err)
	}
	unread, err := a.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, toBizError(err)
	}

	items := make([]dto.NotificationDto, 0, len(list))
	for _, n := range list {
		items = append(items, dto.NewNotificationDto(n))
	}
	return &dto.ListNotificationsResponse{
		Notifications: items,
		Total:         total,
		UnreadCount:   unread,
		Page:          req.Page,
		Pages:         req.Pages(total),
	}, nil
}

func (a *notificationAppImpl) MarkRead(ctx context.Context, userID, id uint64) (*dto.NotificationDto, error) {
	if userID == 0 {
		return nil, errno.ErrUnauthorized
	}
	if id == 0 {
		return nil, errno.Validation("id")
	}
	if _, err := a.repo.MarkRead(ctx, userID, id); err != nil {
		return nil, toBizError(err)
	}
	// some drivers report zero affected rows for an already-read row, so
	// ownership is decided by reading it back
	n, err := a.repo.Get(ctx, userID, id)
	if err != nil {
		return nil, toBizError(err)
	}
	if n == nil {
		if a.strict {
			return nil, errno.NotFound(notificationNotFound)
		}
		return nil, nil
	}
	out := dto.NewNotificationDto(n)
	return &out, nil
}

func (a *notificationAppImpl) MarkAllRead(ctx context.Context, userID uint64) (int64, error) {
	if userID == 0 {
		return 0, errno.ErrUnauthorized
	}
	n, err := a.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, toBizError(err)
	}
	return n, nil
}

func (a *notificationAppImpl) Delete(ctx context.Context, userID, id uint64) error {
	if userID == 0 {
		return errno.ErrUnauthorized
	}
	if id == 0 {
		return errno.Validation("id")
	}
	rows, err := a.repo.Delete(ctx, userID, id)
	if err != nil {
		return toBizError(err)
	}
	if rows == 0 && a.strict {
		return errno.NotFound(notificationNotFound)
	}
	return nil
}

func (a *notificationAppImpl) DeleteAll(ctx context.Context, userID uint64) (int64, error) {
	if userID == 0 {
		return 0, errno.ErrUnauthorized
	}
	n, err := a.repo.DeleteAll(ctx, userID)
	if err != nil {
		return 0, toBizError(err)
	}
	return n, nil
}

func (a *notificationAppImpl) Notify(ctx context.Context, req *cqe.NotifyReq) (*dto.NotificationDto, error) {
	if req == nil || req.UserID == 0 {
		return nil, errno.Validation("userId")
	}
	content, err := entity.NewNotificationContent(req.Title, req.Message, req.Type)
	if err != nil {
		return nil, err
	}
	n := content.For(req.UserID)
	if err := a.repo.Create(ctx, n); err != nil {
		return nil, toBizError(err)
	}
	metrics.NotificationsCreated.WithLabelValues(metrics.SourceSystem).Inc()
	out := dto.NewNotificationDto(n)
	return &out, nil
}

func (a *notificationAppImpl) SendFanout(ctx context.Context, req *cqe.SendNotificationReq) (*dto.FanoutDto, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	content, err := entity.NewNotificationContent(req.Title, req.Message, req.Type)
	if err != nil {
		return nil, err
	}

	audience := req.UserID.Audience
	res, err := a.fanout.Send(ctx, audience, content)
	source := metrics.SourceAdmin
	if audience.All {
		source = metrics.SourceFanout
	}
	if res.Created > 0 {
		metrics.NotificationsCreated.WithLabelValues(source).Add(float64(res.Created))
	}
	out := &dto.FanoutDto{RecipientCount: res.Recipients, Created: res.Created}
	if err != nil {
		if errors.Is(err, errno.ErrFanoutIncomplete) {
			metrics.FanoutIncomplete.Inc()
			logger.WithContext(ctx).Errorf("fan-out incomplete created=%d recipients=%d", res.Created, res.Recipients)
			return out, err
		}
		return nil, toBizError(err)
	}
	return out, nil
}
