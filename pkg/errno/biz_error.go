package errno

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// BizError is an Errno bound to a concrete cause and an optional detail that
// fills the Errno message template.
type BizError interface {
	error
	Code() int
	Status() int
	Message() string
}

type simpleBizError struct {
	errno   *Errno
	cause   error
	detail  string
	message string
}

// NewSimpleBizError wraps cause under errno. detail replaces the %s verb of
// the errno message, if any.
func NewSimpleBizError(e *Errno, cause error, detail string) BizError {
	if e == nil {
		e = ErrUnknown
	}
	return &simpleBizError{errno: e, cause: cause, detail: detail}
}

func (e *simpleBizError) Code() int   { return e.errno.Code }
func (e *simpleBizError) Status() int { return e.errno.HTTPStatus }

func (e *simpleBizError) Message() string {
	if e.message != "" {
		return e.message
	}
	return render(e.errno.Message, e.detail)
}

func (e *simpleBizError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message(), e.cause)
	}
	return e.Message()
}

func (e *simpleBizError) Unwrap() error { return e.cause }

// Is lets errors.Is(err, errno.ErrNotFound) match wrapped biz errors.
func (e *simpleBizError) Is(target error) bool {
	t, ok := target.(*Errno)
	return ok && t == e.errno
}

// Validation returns a 400 error describing which input was rejected.
func Validation(detail string) BizError {
	return NewSimpleBizError(ErrParameterInvalid, nil, detail)
}

// NotFound returns a 404 error with a caller supplied message. The message
// should stay generic so it does not reveal whether another user's record exists.
func NotFound(message string) BizError {
	return &simpleBizError{errno: ErrNotFound, message: message}
}

// Storage wraps a persistence failure.
func Storage(cause error) BizError {
	return NewSimpleBizError(ErrDatabase, cause, "")
}

// StatusOf reports the HTTP status and client-safe message for err.
func StatusOf(err error) (int, string) {
	var bizErr BizError
	if errors.As(err, &bizErr) {
		return bizErr.Status(), bizErr.Message()
	}
	var e *Errno
	if errors.As(err, &e) {
		status := e.HTTPStatus
		if status == 0 {
			status = http.StatusInternalServerError
		}
		return status, render(e.Message, "")
	}
	return http.StatusInternalServerError, ErrInternalServer.Message
}

func render(template, detail string) string {
	if !strings.Contains(template, "%s") {
		return template
	}
	if detail == "" {
		return strings.TrimSpace(strings.ReplaceAll(template, "%s", ""))
	}
	return fmt.Sprintf(template, detail)
}
