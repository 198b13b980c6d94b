package bookings

import (
	"context"

	"github.com/dmrtv/BSC-SchedulingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
	GetByGroupID(ctx context.Context, groupID string) ([]*domain.Booking, error)
	UpdatePaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) error
	UpdateNotes(ctx context.Context, id int64, notes *string) error
	Archive(ctx context.Context, id int64) error
}

// GroupRepository интерфейс репозитория повторяющихся групп
type GroupRepository interface {
	GetByID(ctx context.Context, id string) (*domain.RecurringGroup, error)
}

// BookingMutator координатор оптимистичных мутаций: снимает снимок
// клиентских выборок бронирования, выполняет серверную операцию и на
// развязке инвалидирует выборки
type BookingMutator interface {
	MutateBooking(ctx context.Context, booking *domain.Booking, remote func(ctx context.Context) error) error
}

// MembershipService сервис атрибуции по окнам членства
type MembershipService interface {
	IsAttributable(ctx context.Context, booking *domain.Booking, staffID int64) (bool, error)
	WindowsByStaff(ctx context.Context, staffID int64) ([]*domain.MembershipWindow, error)
	FilterAttributable(ctx context.Context, bookings []*domain.Booking, staffID int64) ([]*domain.Booking, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
