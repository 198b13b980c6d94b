package create_booking

import (
	"context"
	"fmt"

	"github.com/dmrtv/BSC-SchedulingService/internal/domain"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	conflictSvc  ConflictService
	teamClient   TeamServiceClient
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	conflictSvc ConflictService,
	teamClient TeamServiceClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		conflictSvc:  conflictSvc,
		teamClient:   teamClient,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования.
// Пересечения с существующими бронированиями допускаются, но требуют явного
// подтверждения: без req.ConfirmConflicts при найденных пересечениях ничего
// не создаётся. Проверка пересечений и вставка идут в одной сериализуемой
// транзакции, чтобы два параллельных создания не проскочили проверку
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: customer=%d, package=%d, date=%s, time=%s-%s",
		req.CustomerID, req.ServicePackageID, req.Date, req.StartTime, req.EndTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	interval, err := validateInterval(req)
	if err != nil {
		uc.logger.Warn("CreateBooking: interval validation failed: %v", err)
		return nil, err
	}

	if err := validateDate(req.Date, uc.timeProvider.Now()); err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: %v", err)
		return nil, err
	}

	// 2. Для командного бронирования фиксируем число участников на момент
	// создания. Недоступность TeamService не блокирует создание, поле
	// остаётся пустым
	var memberCount *int
	if req.TeamID != nil {
		memberCount, err = uc.teamClient.GetMemberCountWithGracefulDegradation(ctx, *req.TeamID)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get member count for team=%d: %v", *req.TeamID, err)
			return nil, fmt.Errorf("%w: failed to get team member count: %v", ErrInternal, err)
		}
		if memberCount == nil {
			uc.logger.Warn("CreateBooking: TeamService degraded, member count not captured for team=%d", *req.TeamID)
		}
	}

	var result *domain.Booking
	var conflicts []Conflict

	// 3. Проверка пересечений и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking := &domain.Booking{
			CustomerID:               req.CustomerID,
			ServicePackageID:         req.ServicePackageID,
			StaffID:                  req.StaffID,
			TeamID:                   req.TeamID,
			BookingDate:              req.Date,
			StartTime:                interval.Start,
			EndTime:                  interval.End,
			TotalPrice:               req.TotalPrice,
			Status:                   domain.StatusPending,
			PaymentStatus:            domain.PaymentUnpaid,
			TeamMemberCountAtBooking: memberCount,
			Notes:                    req.Notes,
		}

		// Неназначенное бронирование не занимает ничей календарь,
		// пересечения для него не считаются
		if resource, ok := booking.Resource(); ok {
			record, err := uc.conflictSvc.DetectConflicts(txCtx, resource, req.Date, interval, 0)
			if err != nil {
				return fmt.Errorf("%w: conflict detection: %v", ErrInternal, err)
			}

			for _, id := range record.OverlappingBookingIDs {
				conflicts = append(conflicts, Conflict{BookingID: id, Date: req.Date})
			}

			if record.HasConflicts() && !req.ConfirmConflicts {
				uc.logger.Warn("CreateBooking: %d conflicts found, confirmation required", len(conflicts))
				return ErrConflictConfirmationRequired
			}
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		// Пересечения доносим до вызывающего даже при отказе
		if conflicts != nil {
			return &Response{Conflicts: conflicts}, err
		}
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d", result.ID)

	return &Response{
		ID:                       result.ID,
		CustomerID:               result.CustomerID,
		ServicePackageID:         result.ServicePackageID,
		StaffID:                  result.StaffID,
		TeamID:                   result.TeamID,
		BookingDate:              result.BookingDate,
		StartTime:                result.StartTime,
		EndTime:                  result.EndTime,
		TotalPrice:               result.TotalPrice,
		Status:                   string(result.Status),
		PaymentStatus:            string(result.PaymentStatus),
		TeamMemberCountAtBooking: result.TeamMemberCountAtBooking,
		Conflicts:                conflicts,
		Notes:                    result.Notes,
		CreatedAt:                result.CreatedAt,
		UpdatedAt:                result.UpdatedAt,
	}, nil
}
