package create_recurring_group

import (
	"context"
	"time"

	"github.com/dmrtv/BSC-SchedulingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	CreateBatch(ctx context.Context, bookings []*domain.Booking) ([]*domain.Booking, error)
}

// GroupRepository интерфейс репозитория повторяющихся групп
type GroupRepository interface {
	Create(ctx context.Context, group *domain.RecurringGroup) (*domain.RecurringGroup, error)
	UpdateBookingIDs(ctx context.Context, id string, bookingIDs []int64) error
}

// ConflictService сервис обнаружения пересечений
type ConflictService interface {
	DetectBatch(ctx context.Context, resource domain.Resource, dates []string, candidate domain.Interval) ([]domain.ConflictRecord, error)
}

// TeamServiceClient интерфейс клиента TeamService
type TeamServiceClient interface {
	GetMemberCountWithGracefulDegradation(ctx context.Context, teamID int64) (*int, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
