package create_booking

import (
	"context"
	"time"

	"github.com/dmrtv/BSC-SchedulingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// ConflictService сервис обнаружения пересечений
type ConflictService interface {
	DetectConflicts(ctx context.Context, resource domain.Resource, date string, candidate domain.Interval, candidateID int64) (domain.ConflictRecord, error)
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
