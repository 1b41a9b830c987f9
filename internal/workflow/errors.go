package workflow

import "errors"

var (
	ErrThreadNotFound = errors.New("workflow thread not found")
	ErrNotSuspended   = errors.New("workflow thread is not awaiting review")
	ErrAuthorFailed   = errors.New("author stage failed")
	ErrCriticFailed   = errors.New("critic stage failed")
)
