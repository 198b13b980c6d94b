package get_staff_bookings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/dmrtv/BSC-SchedulingService/internal/api/handlers"
	"github.com/dmrtv/BSC-SchedulingService/internal/service/bookings"
	"github.com/dmrtv/BSC-SchedulingService/internal/service/bookings/models"
)

const (
	msgInvalidStaffID = "некорректный ID сотрудника"
	msgInvalidFilter  = "некорректный фильтр"
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

// Handle GET /api/v1/staff/{staffId}/bookings
// Возвращает прямые назначения и командные бронирования,
// попадающие в окна членства сотрудника
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	staffID, err := strconv.ParseInt(vars["staffId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /staff/{staffId}/bookings - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	query := r.URL.Query()
	serviceReq := &models.GetStaffBookingsRequest{
		StaffID:         staffID,
		StartDate:       optionalString(query.Get("startDate")),
		EndDate:         optionalString(query.Get("endDate")),
		IncludeInactive: query.Get("includeInactive") == "true",
	}

	result, err := h.service.GetStaffBookings(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /staff/{staffId}/bookings - Invalid filter: staff_id=%d, error=%v", staffID, err)
			handlers.RespondBadRequest(w, msgInvalidFilter)

		default:
			h.logger.Error("GET /staff/{staffId}/bookings - Failed to get bookings: staff_id=%d, error=%v",
				staffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /staff/{staffId}/bookings - Bookings retrieved successfully: staff_id=%d, count=%d",
		staffID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}

func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
