package update_notes

import (
	"context"

	"github.com/dmrtv/BSC-SchedulingService/internal/service/bookings/models"
)

type BookingService interface {
	UpdateNotes(ctx context.Context, bookingID int64, req *models.UpdateNotesRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
