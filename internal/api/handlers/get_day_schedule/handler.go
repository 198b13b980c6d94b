package get_day_schedule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/dmrtv/BSC-SchedulingService/internal/api/handlers"
	getDaySchedule "github.com/dmrtv/BSC-SchedulingService/internal/usecase/get_day_schedule"
)

const (
	msgInvalidResourceID = "некорректный ID ресурса"
	msgInvalidRequest    = "некорректные параметры запроса"
)

type Handler struct {
	useCase GetDayScheduleUseCase
	logger  Logger
}

func NewHandler(useCase GetDayScheduleUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/schedule/{resourceKind}/{resourceId}/{date}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	resourceID, err := strconv.ParseInt(vars["resourceId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /schedule - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getDaySchedule.Request{
		ResourceKind: vars["resourceKind"],
		ResourceID:   resourceID,
		Date:         vars["date"],
	})
	if err != nil {
		switch {
		case errors.Is(err, getDaySchedule.ErrInvalidInput):
			h.logger.Warn("GET /schedule - Invalid request: kind=%s, id=%d, date=%s, error=%v",
				vars["resourceKind"], resourceID, vars["date"], err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		default:
			h.logger.Error("GET /schedule - Failed: kind=%s, id=%d, date=%s, error=%v",
				vars["resourceKind"], resourceID, vars["date"], err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /schedule - Day schedule built: kind=%s, id=%d, date=%s, entries=%d",
		vars["resourceKind"], resourceID, vars["date"], len(result.Entries))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
