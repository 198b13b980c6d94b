package create_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInvalidInterval возвращается при некорректном интервале времени
	ErrInvalidInterval = errors.New("create_booking: invalid time interval")

	// ErrInvalidDate возвращается при дате бронирования в прошлом
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrAmbiguousAssignment возвращается, когда указаны и мастер, и команда
	ErrAmbiguousAssignment = errors.New("create_booking: booking cannot be assigned to both staff and team")

	// ErrConflictConfirmationRequired возвращается, когда найдены пересечения,
	// а подтверждение не передано. Пересечения не блокируют создание,
	// но требуют явного согласия
	ErrConflictConfirmationRequired = errors.New("create_booking: overlapping bookings require confirmation")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
