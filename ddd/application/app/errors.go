package app

import (
	"errors"

	"messaging-service/pkg/errno"
)

// toBizError keeps typed errors as they are and turns anything else, which
// can only come from persistence, into a storage error.
func toBizError(err error) error {
	if err == nil {
		return nil
	}
	var bizErr errno.BizError
	if errors.As(err, &bizErr) {
		return err
	}
	var e *errno.Errno
	if errors.As(err, &e) {
		return err
	}
	return errno.Storage(err)
}
