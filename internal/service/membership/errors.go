package membership

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("membership: invalid input data")

	// ErrWindowOverlap возвращается при открытии окна поверх существующего
	ErrWindowOverlap = errors.New("membership: window overlaps an existing window")

	// ErrWindowNotFound возвращается, когда открытого окна нет
	ErrWindowNotFound = errors.New("membership: window not found")

	// ErrWindowAlreadyClosed возвращается при повторном закрытии окна
	ErrWindowAlreadyClosed = errors.New("membership: window already closed")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("membership: internal error")
)
