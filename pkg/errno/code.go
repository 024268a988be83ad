package errno

import "net/http"

// Errno 定义业务错误码。
type Errno struct {
	Code       int
	HTTPStatus int
	Message    string
}

// Error 实现 error 接口。
func (e *Errno) Error() string {
	return e.Message
}

var (
	OK = &Errno{Code: 200, HTTPStatus: http.StatusOK, Message: "Success"}

	ErrParameterInvalid = &Errno{Code: 400, HTTPStatus: http.StatusBadRequest, Message: "Invalid parameter %s"}
	ErrUnauthorized     = &Errno{Code: 401, HTTPStatus: http.StatusUnauthorized, Message: "Unauthorized"}
	ErrForbidden        = &Errno{Code: 403, HTTPStatus: http.StatusForbidden, Message: "Forbidden"}
	ErrNotFound         = &Errno{Code: 404, HTTPStatus: http.StatusNotFound, Message: "Not found"}

	ErrInternalServer   = &Errno{Code: 500, HTTPStatus: http.StatusInternalServerError, Message: "Internal server error"}
	ErrDatabase         = &Errno{Code: 501, HTTPStatus: http.StatusInternalServerError, Message: "Database error"}
	ErrFanoutIncomplete = &Errno{Code: 502, HTTPStatus: http.StatusInternalServerError, Message: "Notification delivered to %s users"}
	ErrUnknown          = &Errno{Code: 510, HTTPStatus: http.StatusInternalServerError, Message: "Unknown error"}
)
