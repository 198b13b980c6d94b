package transition_status

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmrtv/BSC-SchedulingService/internal/domain"
	bookingRepo "github.com/dmrtv/BSC-SchedulingService/internal/infra/storage/booking"
)

// UseCase use case для перевода статуса бронирования
type UseCase struct {
	bookingRepo BookingRepository
	txManager   TransactionManager
	mutator     BookingMutator
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(bookingRepo BookingRepository, txManager TransactionManager, mutator BookingMutator, logger Logger) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		txManager:   txManager,
		mutator:     mutator,
		logger:      logger,
	}
}

// Execute переводит бронирование в целевой статус.
// Переходы проверяются по статусному автомату: терминальные статусы не
// покидаются, произвольные скачки запрещены. Завершение с неоплаченным
// счётом допускается, но помечается предупреждением в ответе.
// Чтение и запись идут в одной транзакции: перевод проверяется против
// статуса, который реально перезаписывается. Транзакция выполняется как
// серверная операция координатора мутаций, чтобы клиентские выборки
// бронирования были инвалидированы на развязке
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("TransitionStatus: booking id=%d -> %s", req.BookingID, req.TargetStatus)

	if req.BookingID <= 0 {
		return nil, fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}

	target := domain.BookingStatus(req.TargetStatus)
	if !domain.ValidStatus(target) {
		uc.logger.Warn("TransitionStatus: unknown status %q for booking id=%d", req.TargetStatus, req.BookingID)
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, req.TargetStatus)
	}

	// Предварительное чтение даёт координатору ключи выборок; проверка
	// перехода всё равно идёт против строки, перечитанной в транзакции
	current, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("TransitionStatus: booking id=%d not found", req.BookingID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("TransitionStatus: repository error for booking id=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: repository error: %v", ErrInternal, err)
	}

	var resp *Response

	remote := func(rCtx context.Context) error {
		return uc.txManager.Do(rCtx, func(txCtx context.Context) error {
			booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
			if err != nil {
				if errors.Is(err, bookingRepo.ErrBookingNotFound) {
					uc.logger.Warn("TransitionStatus: booking id=%d not found", req.BookingID)
					return ErrBookingNotFound
				}
				uc.logger.Error("TransitionStatus: repository error for booking id=%d: %v", req.BookingID, err)
				return fmt.Errorf("%w: repository error: %v", ErrInternal, err)
			}

			if err := domain.TransitionStatus(booking.Status, target); err != nil {
				uc.logger.Warn("TransitionStatus: %s -> %s rejected for booking id=%d", booking.Status, target, req.BookingID)
				return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, target)
			}

			warning := false
			if target == domain.StatusCompleted && domain.CompletionPaymentWarning(booking.PaymentStatus, booking.TotalPrice) {
				warning = true
				uc.logger.Warn("TransitionStatus: booking id=%d completed with outstanding payment (status=%s, price=%.2f)",
					req.BookingID, booking.PaymentStatus, booking.TotalPrice)
			}

			if err := uc.bookingRepo.UpdateStatus(txCtx, req.BookingID, target); err != nil {
				if errors.Is(err, bookingRepo.ErrBookingNotFound) {
					return ErrBookingNotFound
				}
				uc.logger.Error("TransitionStatus: repository error for booking id=%d: %v", req.BookingID, err)
				return fmt.Errorf("%w: repository error: %v", ErrInternal, err)
			}

			next := domain.AvailableStatuses(target)
			available := make([]string, 0, len(next))
			for _, s := range next {
				available = append(available, string(s))
			}

			resp = &Response{
				BookingID:         req.BookingID,
				OldStatus:         string(booking.Status),
				NewStatus:         string(target),
				PaymentWarning:    warning,
				AvailableStatuses: available,
			}
			return nil
		})
	}

	if err := uc.mutator.MutateBooking(ctx, current, remote); err != nil {
		return nil, err
	}

	uc.logger.Info("TransitionStatus: booking id=%d now %s", req.BookingID, resp.NewStatus)
	return resp, nil
}
