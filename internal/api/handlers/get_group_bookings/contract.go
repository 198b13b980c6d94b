package get_group_bookings

import (
	"context"

	"github.com/dmrtv/BSC-SchedulingService/internal/service/bookings/models"
)

type BookingService interface {
	GetGroupBookings(ctx context.Context, groupID string) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
