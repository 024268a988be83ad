package cqe

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"messaging-service/ddd/domain/entity"
	"messaging-service/pkg/errno"
)

// ListNotificationsReq 列表查询请求。
type ListNotificationsReq struct {
	PageReq
}

// AudienceParam is the "userId" field of a send request: a user id given as a
// JSON number or numeric string, or the literal "all".
type AudienceParam struct {
	entity.Audience
	set bool
}

func (a *AudienceParam) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*a = AudienceParam{}
		return nil
	}
	raw := string(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if strings.EqualFold(raw, "all") {
			*a = AudienceParam{Audience: entity.Audience{All: true}, set: true}
			return nil
		}
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return errno.Validation("userId")
	}
	*a = AudienceParam{Audience: entity.Audience{UserID: id}, set: true}
	return nil
}

// SendNotificationReq 管理员发送通知请求。
type SendNotificationReq struct {
	UserID  AudienceParam `json:"userId"`
	Title   string        `json:"title"`
	Message string        `json:"message"`
	Type    string        `json:"type"`
}

// Validate checks the audience; content is validated by entity.NewNotificationContent.
func (r *SendNotificationReq) Validate() error {
	if r == nil || !r.UserID.set {
		return errno.Validation("userId")
	}
	return nil
}

// NotifyReq 进程内协作方（例如审核流程）创建单条通知的请求。
type NotifyReq struct {
	UserID  uint64 `json:"userId"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type"`
}
