package create_recurring_group

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/dmrtv/BSC-SchedulingService/internal/domain"
)

// UseCase use case для атомарного создания повторяющейся группы бронирований
type UseCase struct {
	bookingRepo  BookingRepository
	groupRepo    GroupRepository
	conflictSvc  ConflictService
	teamClient   TeamServiceClient
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	groupRepo GroupRepository,
	conflictSvc ConflictService,
	teamClient TeamServiceClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		groupRepo:    groupRepo,
		conflictSvc:  conflictSvc,
		teamClient:   teamClient,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute создает группу бронирований целиком или не создает ничего.
// Группа, бронирования и обратные ссылки пишутся в одной сериализуемой
// транзакции: ошибка на любом повторении откатывает всё
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateRecurringGroup: customer=%d, pattern=%s, occurrences=%d",
		req.CustomerID, req.Pattern, req.TotalOccurrences)

	if err := uc.validate(req); err != nil {
		uc.logger.Warn("CreateRecurringGroup: validation failed: %v", err)
		return nil, err
	}

	interval, err := domain.NewInterval(req.StartTime, req.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var memberCount *int
	if req.TeamID != nil {
		memberCount, err = uc.teamClient.GetMemberCountWithGracefulDegradation(ctx, *req.TeamID)
		if err != nil {
			uc.logger.Error("CreateRecurringGroup: failed to get member count for team=%d: %v", *req.TeamID, err)
			return nil, fmt.Errorf("%w: failed to get team member count: %v", ErrInternal, err)
		}
	}

	prices := splitPrice(req.TotalPrice, req.TotalOccurrences)
	groupID := uuid.NewString()

	var group *domain.RecurringGroup
	var created []*domain.Booking
	var conflicts []Conflict

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		template := &domain.Booking{
			CustomerID:       req.CustomerID,
			ServicePackageID: req.ServicePackageID,
			StaffID:          req.StaffID,
			TeamID:           req.TeamID,
		}

		if resource, ok := template.Resource(); ok {
			records, err := uc.conflictSvc.DetectBatch(txCtx, resource, req.Dates, interval)
			if err != nil {
				return fmt.Errorf("%w: conflict detection: %v", ErrInternal, err)
			}
			for _, record := range records {
				for _, id := range record.OverlappingBookingIDs {
					conflicts = append(conflicts, Conflict{BookingID: id, Date: record.Date})
				}
			}
			if len(conflicts) > 0 && !req.ConfirmConflicts {
				uc.logger.Warn("CreateRecurringGroup: %d conflicts across %d dates, confirmation required",
					len(conflicts), len(req.Dates))
				return ErrConflictConfirmationRequired
			}
		}

		group, err = uc.groupRepo.Create(txCtx, &domain.RecurringGroup{
			ID:                 groupID,
			Pattern:            domain.RecurrencePattern(req.Pattern),
			TotalOccurrences:   req.TotalOccurrences,
			CustomerID:         req.CustomerID,
			ServicePackageID:   req.ServicePackageID,
			StaffID:            req.StaffID,
			TeamID:             req.TeamID,
			OriginalTotalPrice: req.TotalPrice,
		})
		if err != nil {
			uc.logger.Error("CreateRecurringGroup: failed to create group: %v", err)
			return fmt.Errorf("%w: create group: %v", ErrGroupCreation, err)
		}

		bookings := make([]*domain.Booking, 0, len(req.Dates))
		for i, date := range req.Dates {
			seq := i + 1
			total := req.TotalOccurrences
			bookings = append(bookings, &domain.Booking{
				CustomerID:               req.CustomerID,
				ServicePackageID:         req.ServicePackageID,
				StaffID:                  req.StaffID,
				TeamID:                   req.TeamID,
				BookingDate:              date,
				StartTime:                interval.Start,
				EndTime:                  interval.End,
				TotalPrice:               prices[i],
				Status:                   domain.StatusPending,
				PaymentStatus:            domain.PaymentUnpaid,
				RecurringGroupID:         &group.ID,
				RecurringSequence:        &seq,
				RecurringTotal:           &total,
				TeamMemberCountAtBooking: memberCount,
				Notes:                    req.Notes,
			})
		}

		created, err = uc.bookingRepo.CreateBatch(txCtx, bookings)
		if err != nil {
			uc.logger.Error("CreateRecurringGroup: batch insert failed, rolling back group %s: %v", group.ID, err)
			return fmt.Errorf("%w: batch insert: %v", ErrGroupCreation, err)
		}

		ids := make([]int64, len(created))
		for i, b := range created {
			ids[i] = b.ID
		}
		if err := uc.groupRepo.UpdateBookingIDs(txCtx, group.ID, ids); err != nil {
			uc.logger.Error("CreateRecurringGroup: failed to link bookings to group %s: %v", group.ID, err)
			return fmt.Errorf("%w: link bookings: %v", ErrGroupCreation, err)
		}
		group.BookingIDs = ids

		return nil
	})

	if err != nil {
		if conflicts != nil {
			return &Response{Conflicts: conflicts}, err
		}
		return nil, err
	}

	uc.logger.Info("CreateRecurringGroup: created group %s with %d bookings", group.ID, len(created))

	resp := &Response{
		GroupID:          group.ID,
		Pattern:          string(group.Pattern),
		TotalOccurrences: group.TotalOccurrences,
		OriginalPrice:    group.OriginalTotalPrice,
		Conflicts:        conflicts,
		CreatedAt:        group.CreatedAt,
	}
	for i, b := range created {
		resp.Occurrences = append(resp.Occurrences, OccurrenceResponse{
			BookingID: b.ID,
			Sequence:  i + 1,
			Date:      b.BookingDate,
			Price:     b.TotalPrice,
		})
	}
	return resp, nil
}

func (uc *UseCase) validate(req *Request) error {
	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}
	if req.ServicePackageID <= 0 {
		return fmt.Errorf("%w: servicePackageID must be positive", ErrInvalidInput)
	}
	if req.StaffID != nil && req.TeamID != nil {
		return fmt.Errorf("%w: booking cannot be assigned to both staff and team", ErrInvalidInput)
	}

	if !domain.ValidPattern(domain.RecurrencePattern(req.Pattern)) {
		return fmt.Errorf("%w: %q", ErrInvalidPattern, req.Pattern)
	}

	if req.TotalOccurrences < domain.MinRecurringOccurrences || req.TotalOccurrences > domain.MaxRecurringOccurrences {
		return fmt.Errorf("%w: totalOccurrences must be between %d and %d",
			ErrInvalidInput, domain.MinRecurringOccurrences, domain.MaxRecurringOccurrences)
	}

	if len(req.Dates) != req.TotalOccurrences {
		return fmt.Errorf("%w: got %d dates, want %d", ErrOccurrenceCountMismatch, len(req.Dates), req.TotalOccurrences)
	}

	now := uc.timeProvider.Now()
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	seen := make(map[string]bool, len(req.Dates))
	for _, date := range req.Dates {
		parsed, err := time.Parse(domain.DateFormat, date)
		if err != nil {
			return fmt.Errorf("%w: invalid date %q: %v", ErrInvalidInput, date, err)
		}
		if parsed.Before(nowOnly) {
			return fmt.Errorf("%w: date %s is in the past", ErrInvalidInput, date)
		}
		if seen[date] {
			return fmt.Errorf("%w: duplicate date %s", ErrInvalidInput, date)
		}
		seen[date] = true
	}

	if req.TotalPrice < 0 {
		return fmt.Errorf("%w: totalPrice must not be negative", ErrInvalidInput)
	}

	return nil
}

// splitPrice делит цену группы на повторения в целых копейках.
// Деление выполняется один раз, остаток целиком уходит первому повторению,
// так что сумма долей всегда равна исходной цене
func splitPrice(total float64, n int) []float64 {
	cents := int64(math.Round(total * 100))
	base := cents / int64(n)
	rem := cents % int64(n)

	prices := make([]float64, n)
	for i := range prices {
		share := base
		if i == 0 {
			share += rem
		}
		prices[i] = float64(share) / 100
	}
	return prices
}
