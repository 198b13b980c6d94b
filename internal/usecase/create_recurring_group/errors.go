package create_recurring_group

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_recurring_group: invalid input data")

	// ErrInvalidPattern возвращается при неизвестном шаблоне повторения
	ErrInvalidPattern = errors.New("create_recurring_group: invalid recurrence pattern")

	// ErrOccurrenceCountMismatch возвращается, когда число дат не совпадает
	// с заявленным числом повторений
	ErrOccurrenceCountMismatch = errors.New("create_recurring_group: occurrence count mismatch")

	// ErrConflictConfirmationRequired возвращается, когда на каких-то датах
	// найдены пересечения, а подтверждение не передано
	ErrConflictConfirmationRequired = errors.New("create_recurring_group: overlapping bookings require confirmation")

	// ErrGroupCreation возвращается, когда группу не удалось создать целиком.
	// Частично созданных групп не бывает, транзакция откатывается
	ErrGroupCreation = errors.New("create_recurring_group: group creation failed")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_recurring_group: internal error")
)
