package transition_status

// Request модель запроса на перевод статуса бронирования
type Request struct {
	BookingID    int64  // ID бронирования
	TargetStatus string // Целевой статус
}

// Response модель ответа
type Response struct {
	BookingID int64
	OldStatus string
	NewStatus string

	// Завершение с неоплаченным счётом допустимо, но о нём предупреждаем
	PaymentWarning bool

	// Допустимые следующие статусы после перехода
	AvailableStatuses []string
}
