package sync

import "errors"

var (
	ErrConcurrencyRollback = errors.New("sync: remote mutation failed, optimistic state rolled back")
	ErrInvalidMutation     = errors.New("sync: invalid mutation")
	ErrClosed              = errors.New("sync: reconciler closed")
)
