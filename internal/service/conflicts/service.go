package conflicts

import (
	"context"
	"fmt"

	"github.com/dmrtv/BSC-SchedulingService/internal/domain"
	"github.com/dmrtv/BSC-SchedulingService/pkg/ptr"
)

// Service сервис обнаружения пересечений бронирований
type Service struct {
	bookingRepo BookingRepository
	logger      Logger
}

func New(bookingRepo BookingRepository, logger Logger) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// FindConflicts возвращает идентификаторы активных бронирований, интервалы
// которых пересекаются с кандидатом. Совпадение границ пересечением не
// считается. Кандидат с тем же ID (редактирование) пропускается.
func (s *Service) FindConflicts(candidate domain.Interval, candidateID int64, existing []*domain.Booking) []int64 {
	var conflicting []int64
	for _, b := range existing {
		if b.ID == candidateID && candidateID != 0 {
			continue
		}
		if !b.IsActive() {
			continue
		}
		if candidate.Overlaps(b.Interval()) {
			conflicting = append(conflicting, b.ID)
		}
	}
	return conflicting
}

// DetectConflicts загружает бронирования ресурса на дату и проверяет
// кандидата на пересечения. Внутри транзакции выборка идёт с блокировкой
// строк, поэтому параллельное создание на ту же дату сериализуется.
func (s *Service) DetectConflicts(ctx context.Context, resource domain.Resource, date string, candidate domain.Interval, candidateID int64) (domain.ConflictRecord, error) {
	record := domain.ConflictRecord{
		Resource:  resource,
		Date:      date,
		Candidate: candidate,
	}

	existing, err := s.bookingRepo.GetWithFilter(ctx, domain.BookingsFilter{
		Resource:  &resource,
		StartDate: ptr.Ptr(date),
		EndDate:   ptr.Ptr(date),
	})
	if err != nil {
		s.logger.Error("[conflicts] DetectConflicts - failed to fetch bookings: resource=%s/%d date=%s err=%v", resource.Kind, resource.ID, date, err)
		return record, fmt.Errorf("%w: DetectConflicts - fetch bookings: %v", ErrInternal, err)
	}

	record.OverlappingBookingIDs = s.FindConflicts(candidate, candidateID, existing)
	if record.HasConflicts() {
		s.logger.Info("[conflicts] DetectConflicts - found %d conflicts: resource=%s/%d date=%s interval=%s",
			len(record.OverlappingBookingIDs), resource.Kind, resource.ID, date, candidate.String())
	}
	return record, nil
}

// DetectBatch проверяет несколько дат с одним и тем же интервалом.
// Возвращает записи по каждой дате в порядке входного списка.
func (s *Service) DetectBatch(ctx context.Context, resource domain.Resource, dates []string, candidate domain.Interval) ([]domain.ConflictRecord, error) {
	records := make([]domain.ConflictRecord, 0, len(dates))
	for _, date := range dates {
		record, err := s.DetectConflicts(ctx, resource, date, candidate, 0)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}
