package async

import "errors"

var (
	ErrTimeout = errors.New("async: operation timed out")
	ErrPanic   = errors.New("async: function panicked")
)
