package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmrtv/BSC-SchedulingService/internal/domain"
	bookingRepo "github.com/dmrtv/BSC-SchedulingService/internal/infra/storage/booking"
	groupRepo "github.com/dmrtv/BSC-SchedulingService/internal/infra/storage/recurringgroup"
	"github.com/dmrtv/BSC-SchedulingService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo   BookingRepository
	groupRepo     GroupRepository
	membershipSvc MembershipService
	mutator       BookingMutator
	logger        Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	groupRepo GroupRepository,
	membershipSvc MembershipService,
	mutator BookingMutator,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:   bookingRepo,
		groupRepo:     groupRepo,
		membershipSvc: membershipSvc,
		mutator:       mutator,
		logger:        logger,
	}
}

// GetByID получает бронирование по ID
// Клиент видит только своё бронирование, мастер - прямые назначения и
// командные бронирования, попадающие в его окна членства
func (s *Service) GetByID(ctx context.Context, id int64, requesterCustomerID, requesterStaffID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d customer=%d staff=%d", id, requesterCustomerID, requesterStaffID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if err := s.checkAccess(ctx, booking, requesterCustomerID, requesterStaffID); err != nil {
		s.logger.Warn("GetByID: access denied to booking id=%d customer=%d staff=%d", id, requesterCustomerID, requesterStaffID)
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// GetCustomerBookings получает историю бронирований клиента
// Опционально фильтрует по статусу и периоду
func (s *Service) GetCustomerBookings(ctx context.Context, req *models.GetCustomerBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetCustomerBookings: fetching bookings for customer=%d, status=%v", req.CustomerID, req.Status)

	if req.CustomerID <= 0 {
		return nil, fmt.Errorf("%w: customerId must be positive", ErrInvalidInput)
	}

	filter := domain.BookingsFilter{
		CustomerID: &req.CustomerID,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
	}
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetCustomerBookings: invalid status=%s for customer=%d", *req.Status, req.CustomerID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		filter.Status = &status
	}

	bookings, err := s.bookingRepo.GetWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetCustomerBookings: repository error for customer=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: GetCustomerBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetCustomerBookings: fetched %d bookings for customer=%d", len(bookings), req.CustomerID)
	return models.FromDomainBookingList(bookings), nil
}

// GetStaffBookings получает расписание мастера: прямые назначения плюс
// командные бронирования, атрибутированные через окна членства.
// Окна перечитываются на каждый вызов.
func (s *Service) GetStaffBookings(ctx context.Context, req *models.GetStaffBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetStaffBookings: fetching bookings for staff=%d", req.StaffID)

	if req.StaffID <= 0 {
		return nil, fmt.Errorf("%w: staffId must be positive", ErrInvalidInput)
	}

	direct, err := s.bookingRepo.GetWithFilter(ctx, domain.BookingsFilter{
		Resource:        &domain.Resource{Kind: domain.ResourceStaff, ID: req.StaffID},
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		IncludeInactive: req.IncludeInactive,
	})
	if err != nil {
		s.logger.Error("GetStaffBookings: repository error for staff=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: GetStaffBookings - repository error: %v", ErrInternal, err)
	}

	teamBookings, err := s.collectTeamBookings(ctx, req)
	if err != nil {
		return nil, err
	}

	attributed, err := s.membershipSvc.FilterAttributable(ctx, teamBookings, req.StaffID)
	if err != nil {
		s.logger.Error("GetStaffBookings: attribution failed for staff=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: GetStaffBookings - attribution: %v", ErrInternal, err)
	}

	all := append(direct, attributed...)
	s.logger.Info("GetStaffBookings: fetched %d bookings for staff=%d (%d direct, %d team)",
		len(all), req.StaffID, len(direct), len(attributed))
	return models.FromDomainBookingList(all), nil
}

// collectTeamBookings собирает бронирования всех команд, где у мастера
// когда-либо было окно членства. Точная атрибуция делается дальше.
func (s *Service) collectTeamBookings(ctx context.Context, req *models.GetStaffBookingsRequest) ([]*domain.Booking, error) {
	windows, err := s.membershipSvc.WindowsByStaff(ctx, req.StaffID)
	if err != nil {
		s.logger.Error("collectTeamBookings: failed to resolve windows for staff=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: collectTeamBookings - resolve windows: %v", ErrInternal, err)
	}

	teamIDs := make(map[int64]struct{})
	for _, w := range windows {
		teamIDs[w.TeamID] = struct{}{}
	}

	var result []*domain.Booking
	for teamID := range teamIDs {
		bookings, err := s.bookingRepo.GetWithFilter(ctx, domain.BookingsFilter{
			Resource:        &domain.Resource{Kind: domain.ResourceTeam, ID: teamID},
			StartDate:       req.StartDate,
			EndDate:         req.EndDate,
			IncludeInactive: req.IncludeInactive,
		})
		if err != nil {
			s.logger.Error("collectTeamBookings: repository error for team=%d: %v", teamID, err)
			return nil, fmt.Errorf("%w: collectTeamBookings - repository error: %v", ErrInternal, err)
		}
		result = append(result, bookings...)
	}
	return result, nil
}

// GetGroupBookings получает бронирования повторяющейся группы
// в порядке номера повторения
func (s *Service) GetGroupBookings(ctx context.Context, groupID string) (*models.BookingListResponse, error) {
	s.logger.Info("GetGroupBookings: fetching bookings for group=%s", groupID)

	if _, err := s.groupRepo.GetByID(ctx, groupID); err != nil {
		if errors.Is(err, groupRepo.ErrGroupNotFound) {
			s.logger.Warn("GetGroupBookings: group=%s not found", groupID)
			return nil, ErrGroupNotFound
		}
		s.logger.Error("GetGroupBookings: repository error for group=%s: %v", groupID, err)
		return nil, fmt.Errorf("%w: GetGroupBookings - repository error: %v", ErrInternal, err)
	}

	bookings, err := s.bookingRepo.GetByGroupID(ctx, groupID)
	if err != nil {
		s.logger.Error("GetGroupBookings: repository error for group=%s: %v", groupID, err)
		return nil, fmt.Errorf("%w: GetGroupBookings - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBookingList(bookings), nil
}

// UpdatePaymentStatus переводит платёжный статус бронирования.
// Переход проверяется по платёжному автомату, произвольные скачки запрещены
func (s *Service) UpdatePaymentStatus(ctx context.Context, bookingID int64, req *models.UpdatePaymentStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdatePaymentStatus: booking id=%d -> %s", bookingID, req.PaymentStatus)

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("UpdatePaymentStatus: booking id=%d not found", bookingID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("UpdatePaymentStatus: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: UpdatePaymentStatus - repository error: %v", ErrInternal, err)
	}

	target, err := models.ToDomainPaymentStatus(req.PaymentStatus)
	if err != nil {
		s.logger.Warn("UpdatePaymentStatus: unknown payment status=%s for booking id=%d", req.PaymentStatus, bookingID)
		return nil, fmt.Errorf("%w: unknown payment status %q", ErrInvalidInput, req.PaymentStatus)
	}

	if err := domain.TransitionPayment(booking.PaymentStatus, target); err != nil {
		s.logger.Warn("UpdatePaymentStatus: transition %s -> %s rejected for booking id=%d", booking.PaymentStatus, target, bookingID)
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.PaymentStatus, target)
	}

	err = s.mutator.MutateBooking(ctx, booking, func(mCtx context.Context) error {
		return s.bookingRepo.UpdatePaymentStatus(mCtx, bookingID, target)
	})
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		s.logger.Error("UpdatePaymentStatus: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: UpdatePaymentStatus - repository error: %v", ErrInternal, err)
	}

	booking.PaymentStatus = target
	s.logger.Info("UpdatePaymentStatus: booking id=%d now %s", bookingID, target)
	return models.FromDomainBooking(booking), nil
}

// UpdateNotes обновляет заметки бронирования
func (s *Service) UpdateNotes(ctx context.Context, bookingID int64, req *models.UpdateNotesRequest) error {
	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes longer than %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("UpdateNotes: booking id=%d not found", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("UpdateNotes: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: UpdateNotes - repository error: %v", ErrInternal, err)
	}

	err = s.mutator.MutateBooking(ctx, booking, func(mCtx context.Context) error {
		return s.bookingRepo.UpdateNotes(mCtx, bookingID, req.Notes)
	})
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("UpdateNotes: booking id=%d not found", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("UpdateNotes: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: UpdateNotes - repository error: %v", ErrInternal, err)
	}
	return nil
}

// Archive мягко скрывает бронирование. Запись остаётся в хранилище:
// на неё могут ссылаться повторяющиеся группы и история платежей
func (s *Service) Archive(ctx context.Context, bookingID int64) error {
	s.logger.Info("Archive: archiving booking id=%d", bookingID)

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Archive: booking id=%d not found", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("Archive: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Archive - repository error: %v", ErrInternal, err)
	}

	if booking.IsArchived() {
		s.logger.Warn("Archive: booking id=%d already archived", bookingID)
		return ErrAlreadyArchived
	}

	err = s.mutator.MutateBooking(ctx, booking, func(mCtx context.Context) error {
		return s.bookingRepo.Archive(mCtx, bookingID)
	})
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return ErrBookingNotFound
		}
		s.logger.Error("Archive: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Archive - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Archive: booking id=%d archived", bookingID)
	return nil
}

// checkAccess проверяет доступ к бронированию
func (s *Service) checkAccess(ctx context.Context, booking *domain.Booking, customerID, staffID int64) error {
	if customerID > 0 && booking.CustomerID == customerID {
		return nil
	}

	if staffID > 0 {
		ok, err := s.membershipSvc.IsAttributable(ctx, booking, staffID)
		if err != nil {
			s.logger.Error("checkAccess: attribution failed for staff=%d booking=%d: %v", staffID, booking.ID, err)
			return fmt.Errorf("%w: checkAccess - attribution: %v", ErrInternal, err)
		}
		if ok {
			return nil
		}
	}

	return ErrAccessDenied
}
