package transition_status

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("transition_status: booking not found")

	// ErrUnknownStatus возвращается при неизвестном целевом статусе
	ErrUnknownStatus = errors.New("transition_status: unknown status")

	// ErrInvalidTransition возвращается при запрещённом переходе
	ErrInvalidTransition = errors.New("transition_status: invalid transition")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("transition_status: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("transition_status: internal error")
)
