package get_day_schedule

import "github.com/dmrtv/BSC-SchedulingService/internal/domain"

// Request модель запроса дневного расписания ресурса
type Request struct {
	ResourceKind string // staff или team
	ResourceID   int64
	Date         string // "2026-09-01"
}

// ScheduleEntry бронирование с позицией в колоночной раскладке
type ScheduleEntry struct {
	Booking      *domain.Booking
	Column       int
	TotalColumns int
}

// Response модель ответа с расписанием дня
type Response struct {
	Resource domain.Resource
	Date     string
	Entries  []ScheduleEntry
}
