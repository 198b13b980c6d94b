package close_membership

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/dmrtv/BSC-SchedulingService/internal/api/handlers"
	"github.com/dmrtv/BSC-SchedulingService/internal/service/membership"
)

const (
	msgInvalidTeamID      = "некорректный ID команды"
	msgInvalidStaffID     = "некорректный ID сотрудника"
	msgInvalidLeftAt      = "некорректный момент выхода"
	msgWindowNotFound     = "активное членство не найдено"
	msgWindowAlreadyDone  = "окно членства уже закрыто"
	msgInvalidWindowOrder = "момент выхода раньше момента вступления"
)

type Handler struct {
	service MembershipService
	logger  Logger
}

func NewHandler(service MembershipService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/teams/{teamId}/members/{staffId}
// Query: leftAt (RFC 3339, опционально - по умолчанию текущий момент)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	teamID, err := strconv.ParseInt(vars["teamId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /teams/{teamId}/members/{staffId} - Invalid team ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTeamID)
		return
	}

	staffID, err := strconv.ParseInt(vars["staffId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /teams/{teamId}/members/{staffId} - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	leftAt := time.Now().UTC()
	if raw := r.URL.Query().Get("leftAt"); raw != "" {
		leftAt, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			h.logger.Warn("DELETE /teams/{teamId}/members/{staffId} - Invalid leftAt %q: %v", raw, err)
			handlers.RespondBadRequest(w, msgInvalidLeftAt)
			return
		}
	}

	if err := h.service.CloseWindow(r.Context(), staffID, teamID, leftAt); err != nil {
		switch {
		case errors.Is(err, membership.ErrWindowNotFound):
			h.logger.Warn("DELETE /teams/{teamId}/members/{staffId} - Window not found: staff_id=%d, team_id=%d",
				staffID, teamID)
			handlers.RespondNotFound(w, msgWindowNotFound)

		case errors.Is(err, membership.ErrWindowAlreadyClosed):
			h.logger.Warn("DELETE /teams/{teamId}/members/{staffId} - Already closed: staff_id=%d, team_id=%d",
				staffID, teamID)
			handlers.RespondError(w, http.StatusConflict, msgWindowAlreadyDone)

		case errors.Is(err, membership.ErrInvalidInput):
			h.logger.Warn("DELETE /teams/{teamId}/members/{staffId} - Invalid input: staff_id=%d, team_id=%d, error=%v",
				staffID, teamID, err)
			handlers.RespondBadRequest(w, msgInvalidWindowOrder)

		default:
			h.logger.Error("DELETE /teams/{teamId}/members/{staffId} - Failed: staff_id=%d, team_id=%d, error=%v",
				staffID, teamID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /teams/{teamId}/members/{staffId} - Window closed: staff_id=%d, team_id=%d",
		staffID, teamID)
	w.WriteHeader(http.StatusNoContent)
}
