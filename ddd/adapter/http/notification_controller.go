package http

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin"

	"messaging-service/ddd/application/app"
	"messaging-service/ddd/application/cqe"
	"messaging-service/ddd/application/dto"
	"messaging-service/pkg/manager"
	"messaging-service/pkg/middleware"
	"messaging-service/pkg/restapi"
)

var (
	notificationControllerOnce sync.Once
	singletonNotificationCtrl  NotificationController
)

func init() {
	manager.RegisterControllerPlugin(&NotificationControllerPlugin{})
}

// NotificationControllerPlugin 将通知控制器注册到共享的 manager 中。
type NotificationControllerPlugin struct{}

func (p *NotificationControllerPlugin) Name() string {
	return "notificationController"
}

func (p *NotificationControllerPlugin) MustCreateController() manager.Controller {
	notificationControllerOnce.Do(func() {
		singletonNotificationCtrl = NewNotificationController(app.DefaultNotificationApp())
	})
	return singletonNotificationCtrl
}

// NotificationController 控制器接口。
type NotificationController interface {
	manager.Controller
	List(ctx *gin.Context)
	MarkRead(ctx *gin.Context)
	MarkAllRead(ctx *gin.Context)
	Delete(ctx *gin.Context)
	DeleteAll(ctx *gin.Context)
	Send(ctx *gin.Context)
	Create(ctx *gin.Context)
}

type notificationControllerImpl struct {
	app app.NotificationApp
}

func NewNotificationController(notificationApp app.NotificationApp) NotificationController {
	return &notificationControllerImpl{app: notificationApp}
}

func (c *notificationControllerImpl) RegisterOpenApi(group *gin.RouterGroup) {
	n := group.Group("/notifications")
	{
		n.GET("", c.List)
		n.PUT("/read-all", c.MarkAllRead)
		n.PUT("/:id/read", c.MarkRead)
		n.DELETE("/:id", c.Delete)
		n.DELETE("", c.DeleteAll)
	}
}

func (c *notificationControllerImpl) RegisterAdminApi(group *gin.RouterGroup) {
	group.POST("/notifications/send", c.Send)
}

// RegisterInnerApi 注册内部服务调用的接口，例如审核流程创建通知。
func (c *notificationControllerImpl) RegisterInnerApi(group *gin.RouterGroup) {
	group.POST("/notifications", c.Create)
}

func (c *notificationControllerImpl) RegisterOpsApi(group *gin.RouterGroup) {}

// List 列出当前用户的通知以及未读数量。
func (c *notificationControllerImpl) List(ctx *gin.Context) {
	var req cqe.ListNotificationsReq
	if err := ctx.ShouldBindQuery(&req); err != nil {
		restapi.Failed(ctx, bindError(err, "query"))
		return
	}
	resp, err := c.app.ListNotifications(ctx.Request.Context(), middleware.CallerID(ctx), &req)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.SuccessPage(ctx, resp.Notifications, restapi.PageMeta{
		Total:       resp.Total,
		Page:        resp.Page,
		Pages:       resp.Pages,
		UnreadCount: &resp.UnreadCount,
	})
}

// MarkRead 将指定通知标记为已读。
func (c *notificationControllerImpl) MarkRead(ctx *gin.Context) {
	id, err := uintParam(ctx, "id")
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	n, err := c.app.MarkRead(ctx.Request.Context(), middleware.CallerID(ctx), id)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	if n == nil {
		restapi.Success(ctx, nil)
		return
	}
	restapi.Success(ctx, n)
}

func (c *notificationControllerImpl) MarkAllRead(ctx *gin.Context) {
	updated, err := c.app.MarkAllRead(ctx.Request.Context(), middleware.CallerID(ctx))
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.SuccessWithMessage(ctx, "All notifications marked as read", dto.CountDto{Count: updated})
}

func (c *notificationControllerImpl) Delete(ctx *gin.Context) {
	id, err := uintParam(ctx, "id")
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	if err := c.app.Delete(ctx.Request.Context(), middleware.CallerID(ctx), id); err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.SuccessWithMessage(ctx, "Notification deleted", nil)
}

func (c *notificationControllerImpl) DeleteAll(ctx *gin.Context) {
	deleted, err := c.app.DeleteAll(ctx.Request.Context(), middleware.CallerID(ctx))
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.SuccessWithMessage(ctx, "All notifications deleted", dto.CountDto{Count: deleted})
}

// Send 管理员向单个用户或全部活跃用户发送通知。
func (c *notificationControllerImpl) Send(ctx *gin.Context) {
	var req cqe.SendNotificationReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		restapi.Failed(ctx, bindError(err, "body"))
		return
	}
	res, err := c.app.SendFanout(ctx.Request.Context(), &req)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	if req.UserID.All {
		restapi.SuccessWithMessage(ctx, fmt.Sprintf("Notification sent to %d users", res.Created), res)
		return
	}
	restapi.SuccessWithMessage(ctx, "Notification sent", res)
}

// Create 内部服务为单个用户创建一条通知。
func (c *notificationControllerImpl) Create(ctx *gin.Context) {
	var req cqe.NotifyReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		restapi.Failed(ctx, bindError(err, "body"))
		return
	}
	n, err := c.app.Notify(ctx.Request.Context(), &req)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Created(ctx, n)
}
