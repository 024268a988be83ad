package restapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"messaging-service/pkg/errno"
	"messaging-service/pkg/logger"
)

// Response is the uniform JSON envelope of every API reply.
type Response struct {
	Success     bool        `json:"success"`
	Data        interface{} `json:"data,omitempty"`
	Message     string      `json:"message,omitempty"`
	Total       *int64      `json:"total,omitempty"`
	Page        *int        `json:"page,omitempty"`
	Pages       *int        `json:"pages,omitempty"`
	UnreadCount *int64      `json:"unreadCount,omitempty"`
}

// PageMeta holds the optional paging fields of a list reply.
type PageMeta struct {
	Total       int64
	Page        int
	Pages       int
	UnreadCount *int64
}

func Success(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func Created(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

func SuccessWithMessage(ctx *gin.Context, message string, data interface{}) {
	ctx.JSON(http.StatusOK, Response{Success: true, Message: message, Data: data})
}

// SuccessPage replies with a list and its paging metadata. A zero Page leaves
// page and pages out of the envelope.
func SuccessPage(ctx *gin.Context, data interface{}, meta PageMeta) {
	resp := Response{Success: true, Data: data, Total: &meta.Total, UnreadCount: meta.UnreadCount}
	if meta.Page > 0 {
		resp.Page = &meta.Page
		resp.Pages = &meta.Pages
	}
	ctx.JSON(http.StatusOK, resp)
}

// Failed maps err to its status and client-safe message. Server side causes
// are logged, never returned.
func Failed(ctx *gin.Context, err error) {
	status, message := errno.StatusOf(err)
	if status >= http.StatusInternalServerError {
		logger.WithContext(ctx.Request.Context()).
			WithError(err).
			WithField("path", ctx.FullPath()).
			Error("request failed")
	}
	ctx.AbortWithStatusJSON(status, Response{Success: false, Message: message})
}

// FailedWithStatus replies with e's message under an explicit status.
func FailedWithStatus(ctx *gin.Context, e *errno.Errno, status int) {
	_, message := errno.StatusOf(e)
	ctx.AbortWithStatusJSON(status, Response{Success: false, Message: message})
}
