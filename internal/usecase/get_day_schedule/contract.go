package get_day_schedule

import (
	"context"

	"github.com/dmrtv/BSC-SchedulingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
}

// LayoutService раскладка бронирований дня по колонкам
type LayoutService interface {
	LayoutDay(bookings []*domain.Booking) []domain.LayoutEntry
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
