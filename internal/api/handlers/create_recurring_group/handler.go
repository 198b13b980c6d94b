package create_recurring_group

import (
	"errors"
	"net/http"

	"github.com/dmrtv/BSC-SchedulingService/internal/api/handlers"
	createRecurringGroup "github.com/dmrtv/BSC-SchedulingService/internal/usecase/create_recurring_group"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidTime          = "некорректный формат времени, ожидается HH:MM"
	msgInvalidPattern       = "неизвестный шаблон повторения"
	msgOccurrenceMismatch   = "число дат не совпадает с числом повторений"
	msgConfirmationRequired = "найдены пересечения, требуется подтверждение"
	msgGroupCreationFailed  = "не удалось создать группу бронирований"
)

type Handler struct {
	useCase CreateRecurringGroupUseCase
	logger  Logger
}

func NewHandler(useCase CreateRecurringGroupUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/recurring
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateRecurringGroupRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/recurring - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /bookings/recurring - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createRecurringGroup.ErrConflictConfirmationRequired):
			h.logger.Warn("POST /bookings/recurring - Conflicts require confirmation: customer_id=%d", req.CustomerID)
			handlers.RespondConflict(w, &ConflictsResponse{
				Message:   msgConfirmationRequired,
				Conflicts: toConflictItems(result.Conflicts),
			})

		case errors.Is(err, createRecurringGroup.ErrOccurrenceCountMismatch):
			h.logger.Warn("POST /bookings/recurring - Occurrence count mismatch: customer_id=%d, error=%v", req.CustomerID, err)
			handlers.RespondBadRequest(w, msgOccurrenceMismatch)

		case errors.Is(err, createRecurringGroup.ErrInvalidPattern):
			h.logger.Warn("POST /bookings/recurring - Invalid pattern %q: customer_id=%d", req.Pattern, req.CustomerID)
			handlers.RespondBadRequest(w, msgInvalidPattern)

		case errors.Is(err, createRecurringGroup.ErrInvalidInput):
			h.logger.Warn("POST /bookings/recurring - Invalid input: customer_id=%d, error=%v", req.CustomerID, err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, createRecurringGroup.ErrGroupCreation):
			h.logger.Error("POST /bookings/recurring - Group creation failed: customer_id=%d, error=%v", req.CustomerID, err)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgGroupCreationFailed)

		default:
			h.logger.Error("POST /bookings/recurring - Failed: customer_id=%d, error=%v", req.CustomerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/recurring - Group created: group_id=%s, bookings=%d, customer_id=%d",
		result.GroupID, len(result.Occurrences), req.CustomerID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
