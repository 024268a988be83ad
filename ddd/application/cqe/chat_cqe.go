package cqe

import (
	"strings"

	"messaging-service/pkg/errno"
)

// SendMessageReq 发送私信请求。
type SendMessageReq struct {
	ReceiverID uint64 `json:"receiverId"`
	Message    string `json:"message"`
}

// Validate 校验必填字段，长度与自发消息规则由领域实体负责。
func (r *SendMessageReq) Validate() error {
	if r == nil || r.ReceiverID == 0 {
		return errno.Validation("receiverId")
	}
	if strings.TrimSpace(r.Message) == "" {
		return errno.Validation("message")
	}
	return nil
}

// ListMessagesReq 会话消息分页请求。
type ListMessagesReq struct {
	PageReq
}
