package create_booking

import (
	"errors"
	"net/http"

	"github.com/dmrtv/BSC-SchedulingService/internal/api/handlers"
	createBooking "github.com/dmrtv/BSC-SchedulingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidTime          = "некорректный формат времени, ожидается HH:MM"
	msgInvalidInterval      = "некорректный интервал времени"
	msgInvalidBookingDate   = "некорректная дата бронирования"
	msgAmbiguousAssignment  = "бронирование назначается либо мастеру, либо команде"
	msgConfirmationRequired = "найдены пересечения, требуется подтверждение"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrConflictConfirmationRequired):
			h.logger.Warn("POST /bookings - Conflicts require confirmation: customer_id=%d", req.CustomerID)
			handlers.RespondConflict(w, &ConflictsResponse{
				Message:   msgConfirmationRequired,
				Conflicts: toConflictItems(result.Conflicts),
			})

		case errors.Is(err, createBooking.ErrAmbiguousAssignment):
			h.logger.Warn("POST /bookings - Ambiguous assignment: customer_id=%d", req.CustomerID)
			handlers.RespondBadRequest(w, msgAmbiguousAssignment)

		case errors.Is(err, createBooking.ErrInvalidInterval):
			h.logger.Warn("POST /bookings - Invalid interval: customer_id=%d", req.CustomerID)
			handlers.RespondBadRequest(w, msgInvalidInterval)

		case errors.Is(err, createBooking.ErrInvalidDate):
			h.logger.Warn("POST /bookings - Invalid booking date: customer_id=%d", req.CustomerID)
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: customer_id=%d, error=%v", req.CustomerID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /bookings - Failed to create booking: customer_id=%d, error=%v", req.CustomerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, customer_id=%d", result.ID, req.CustomerID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
