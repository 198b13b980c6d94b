package domain

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Business validation constants
const (
	MinRecurringOccurrences = 2
	MaxRecurringOccurrences = 52
	MaxNotesLength          = 500
)

// InactiveStatuses список статусов, при которых бронирование не занимает слот
// Используется при фильтрации для поиска конфликтов
var InactiveStatuses = []BookingStatus{
	StatusCancelled,
	StatusNoShow,
}

// ActiveStatuses список статусов активных бронирований
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
}
