package http

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"messaging-service/ddd/application/app"
	"messaging-service/ddd/application/cqe"
	"messaging-service/pkg/manager"
	"messaging-service/pkg/middleware"
	"messaging-service/pkg/restapi"
)

var (
	chatControllerOnce sync.Once
	singletonChatCtrl  ChatController
)

func init() {
	manager.RegisterControllerPlugin(&ChatControllerPlugin{})
}

// ChatControllerPlugin 将私信控制器注册到共享的 manager 中。
type ChatControllerPlugin struct{}

func (p *ChatControllerPlugin) Name() string {
	return "chatController"
}

func (p *ChatControllerPlugin) MustCreateController() manager.Controller {
	chatControllerOnce.Do(func() {
		singletonChatCtrl = NewChatController(app.DefaultChatApp())
	})
	return singletonChatCtrl
}

// ChatController 私信控制器接口。
type ChatController interface {
	manager.Controller
	Conversations(ctx *gin.Context)
	Messages(ctx *gin.Context)
	Send(ctx *gin.Context)
	Stats(ctx *gin.Context)
}

type chatControllerImpl struct {
	app app.ChatApp
}

func NewChatController(chatApp app.ChatApp) ChatController {
	return &chatControllerImpl{app: chatApp}
}

func (c *chatControllerImpl) RegisterOpenApi(group *gin.RouterGroup) {
	chat := group.Group("/chat")
	{
		chat.GET("/conversations", c.Conversations)
		chat.GET("/messages/:partnerId", c.Messages)
		chat.POST("/send", c.Send)
	}
}

func (c *chatControllerImpl) RegisterAdminApi(group *gin.RouterGroup) {
	group.GET("/chat/stats", c.Stats)
}

func (c *chatControllerImpl) RegisterInnerApi(group *gin.RouterGroup) {}
func (c *chatControllerImpl) RegisterOpsApi(group *gin.RouterGroup)   {}

// Conversations 列出当前用户的全部会话，最近活跃的在前。
func (c *chatControllerImpl) Conversations(ctx *gin.Context) {
	convs, err := c.app.GetConversations(ctx.Request.Context(), middleware.CallerID(ctx))
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, convs)
}

// Messages 分页返回与某个用户的聊天记录，并把对方发来的未读消息全部标记为已读。
func (c *chatControllerImpl) Messages(ctx *gin.Context) {
	partnerID, err := uintParam(ctx, "partnerId")
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	var req cqe.ListMessagesReq
	if err := ctx.ShouldBindQuery(&req); err != nil {
		restapi.Failed(ctx, bindError(err, "query"))
		return
	}
	page, err := c.app.GetMessages(ctx.Request.Context(), middleware.CallerID(ctx), partnerID, &req)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.SuccessPage(ctx, page.Messages, restapi.PageMeta{
		Total: page.Total,
		Page:  page.Page,
		Pages: page.Pages,
	})
}

// Send 发送一条私信。
func (c *chatControllerImpl) Send(ctx *gin.Context) {
	var req cqe.SendMessageReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		restapi.Failed(ctx, bindError(err, "body"))
		return
	}
	msg, err := c.app.SendMessage(ctx.Request.Context(), middleware.CallerID(ctx), &req)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Created(ctx, msg)
}

// Stats 管理后台的消息统计。
func (c *chatControllerImpl) Stats(ctx *gin.Context) {
	stats, err := c.app.Stats(ctx.Request.Context(), time.Now())
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, stats)
}
