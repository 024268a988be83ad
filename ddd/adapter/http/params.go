package http

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"messaging-service/pkg/errno"
)

// uintParam parses a positive numeric path parameter.
func uintParam(ctx *gin.Context, name string) (uint64, error) {
	v, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || v == 0 {
		return 0, errno.Validation(name)
	}
	return v, nil
}

// bindError keeps typed errors raised while decoding and reports anything
// else as an invalid request body or query.
func bindError(err error, what string) error {
	var bizErr errno.BizError
	if errors.As(err, &bizErr) {
		return bizErr
	}
	return errno.NewSimpleBizError(errno.ErrParameterInvalid, err, what)
}
