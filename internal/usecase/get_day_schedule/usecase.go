package get_day_schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/dmrtv/BSC-SchedulingService/internal/domain"
	"github.com/dmrtv/BSC-SchedulingService/pkg/ptr"
)

// UseCase use case дневного расписания ресурса с колоночной раскладкой
type UseCase struct {
	bookingRepo BookingRepository
	layoutSvc   LayoutService
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(bookingRepo BookingRepository, layoutSvc LayoutService, logger Logger) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		layoutSvc:   layoutSvc,
		logger:      logger,
	}
}

// Execute возвращает активные бронирования ресурса на дату, каждое с
// колонкой и числом колонок для параллельного отображения
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	kind := domain.ResourceKind(req.ResourceKind)
	if kind != domain.ResourceStaff && kind != domain.ResourceTeam {
		return nil, fmt.Errorf("%w: unknown resource kind %q", ErrInvalidInput, req.ResourceKind)
	}
	if req.ResourceID <= 0 {
		return nil, fmt.Errorf("%w: resource id must be positive", ErrInvalidInput)
	}
	if _, err := time.Parse(domain.DateFormat, req.Date); err != nil {
		return nil, fmt.Errorf("%w: invalid date: %v", ErrInvalidInput, err)
	}

	resource := domain.Resource{Kind: kind, ID: req.ResourceID}

	bookings, err := uc.bookingRepo.GetWithFilter(ctx, domain.BookingsFilter{
		Resource:  &resource,
		StartDate: ptr.Ptr(req.Date),
		EndDate:   ptr.Ptr(req.Date),
	})
	if err != nil {
		uc.logger.Error("GetDaySchedule: repository error for %s=%d date=%s: %v", kind, req.ResourceID, req.Date, err)
		return nil, fmt.Errorf("%w: repository error: %v", ErrInternal, err)
	}

	layout := uc.layoutSvc.LayoutDay(bookings)
	position := make(map[int64]domain.LayoutEntry, len(layout))
	for _, entry := range layout {
		position[entry.BookingID] = entry
	}

	resp := &Response{
		Resource: resource,
		Date:     req.Date,
	}
	for _, b := range bookings {
		entry, ok := position[b.ID]
		if !ok {
			// неактивные бронирования в раскладку не входят
			continue
		}
		resp.Entries = append(resp.Entries, ScheduleEntry{
			Booking:      b,
			Column:       entry.Column,
			TotalColumns: entry.TotalColumns,
		})
	}

	uc.logger.Info("GetDaySchedule: %s=%d date=%s entries=%d", kind, req.ResourceID, req.Date, len(resp.Entries))
	return resp, nil
}
