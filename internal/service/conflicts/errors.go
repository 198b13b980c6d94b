package conflicts

import "errors"

var (
	ErrInvalidInput = errors.New("conflicts: invalid input")
	ErrInternal     = errors.New("conflicts: internal error")
)
