package open_membership

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
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidJoinedAt    = "некорректный момент вступления"
	msgWindowOverlap      = "у сотрудника уже есть активное членство в этой команде"
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

// Handle POST /api/v1/teams/{teamId}/members/{staffId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	teamID, err := strconv.ParseInt(vars["teamId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /teams/{teamId}/members/{staffId} - Invalid team ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTeamID)
		return
	}

	staffID, err := strconv.ParseInt(vars["staffId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /teams/{teamId}/members/{staffId} - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	var req OpenMembershipRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /teams/{teamId}/members/{staffId} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	joinedAt := time.Now().UTC()
	if req.JoinedAt != "" {
		joinedAt, err = time.Parse(time.RFC3339, req.JoinedAt)
		if err != nil {
			h.logger.Warn("POST /teams/{teamId}/members/{staffId} - Invalid joinedAt %q: %v", req.JoinedAt, err)
			handlers.RespondBadRequest(w, msgInvalidJoinedAt)
			return
		}
	}

	window, err := h.service.OpenWindow(r.Context(), staffID, teamID, joinedAt)
	if err != nil {
		switch {
		case errors.Is(err, membership.ErrWindowOverlap):
			h.logger.Warn("POST /teams/{teamId}/members/{staffId} - Window overlap: staff_id=%d, team_id=%d",
				staffID, teamID)
			handlers.RespondError(w, http.StatusConflict, msgWindowOverlap)

		case errors.Is(err, membership.ErrInvalidInput):
			h.logger.Warn("POST /teams/{teamId}/members/{staffId} - Invalid input: staff_id=%d, team_id=%d, error=%v",
				staffID, teamID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /teams/{teamId}/members/{staffId} - Failed: staff_id=%d, team_id=%d, error=%v",
				staffID, teamID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /teams/{teamId}/members/{staffId} - Window opened: staff_id=%d, team_id=%d, window_id=%d",
		staffID, teamID, window.ID)
	handlers.RespondJSON(w, http.StatusCreated, FromDomainWindow(window))
}
