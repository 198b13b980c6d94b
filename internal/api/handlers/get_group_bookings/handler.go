package get_group_bookings

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/dmrtv/BSC-SchedulingService/internal/api/handlers"
	"github.com/dmrtv/BSC-SchedulingService/internal/service/bookings"
)

const (
	msgInvalidGroupID = "некорректный ID группы"
	msgGroupNotFound  = "повторяющаяся группа не найдена"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/recurring-groups/{groupId}/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	groupID := vars["groupId"]

	if _, err := uuid.Parse(groupID); err != nil {
		h.logger.Warn("GET /recurring-groups/{groupId}/bookings - Invalid group ID %q: %v", groupID, err)
		handlers.RespondBadRequest(w, msgInvalidGroupID)
		return
	}

	result, err := h.service.GetGroupBookings(r.Context(), groupID)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrGroupNotFound):
			h.logger.Warn("GET /recurring-groups/{groupId}/bookings - Group not found: group_id=%s", groupID)
			handlers.RespondNotFound(w, msgGroupNotFound)

		default:
			h.logger.Error("GET /recurring-groups/{groupId}/bookings - Failed: group_id=%s, error=%v", groupID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /recurring-groups/{groupId}/bookings - Bookings retrieved: group_id=%s, count=%d",
		groupID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
