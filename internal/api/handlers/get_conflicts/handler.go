package get_conflicts

import (
	"net/http"
	"strconv"

	"github.com/dmrtv/BSC-SchedulingService/internal/api/handlers"
	"github.com/dmrtv/BSC-SchedulingService/internal/domain"
	"github.com/dmrtv/BSC-SchedulingService/pkg/types"
)

const (
	msgInvalidResourceKind = "некорректный вид ресурса"
	msgInvalidResourceID   = "некорректный ID ресурса"
	msgInvalidInterval     = "некорректный интервал времени"
	msgInvalidBookingID    = "некорректный ID бронирования"
	msgMissingDate         = "не указана дата"
)

type Handler struct {
	service ConflictService
	logger  Logger
}

func NewHandler(service ConflictService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// ConflictsResponse результат проверки интервала на пересечения
type ConflictsResponse struct {
	ResourceKind          string  `json:"resourceKind"`
	ResourceID            int64   `json:"resourceId"`
	Date                  string  `json:"date"`
	StartTime             string  `json:"startTime"`
	EndTime               string  `json:"endTime"`
	HasConflicts          bool    `json:"hasConflicts"`
	OverlappingBookingIDs []int64 `json:"overlappingBookingIds"`
}

// Handle GET /api/v1/conflicts
// Query: resourceKind, resourceId, date, startTime, endTime, excludeBookingId
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	kind := domain.ResourceKind(query.Get("resourceKind"))
	if kind != domain.ResourceStaff && kind != domain.ResourceTeam {
		h.logger.Warn("GET /conflicts - Invalid resource kind: %q", query.Get("resourceKind"))
		handlers.RespondBadRequest(w, msgInvalidResourceKind)
		return
	}

	resourceID, err := strconv.ParseInt(query.Get("resourceId"), 10, 64)
	if err != nil || resourceID <= 0 {
		h.logger.Warn("GET /conflicts - Invalid resource ID: %q", query.Get("resourceId"))
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	date := query.Get("date")
	if date == "" {
		h.logger.Warn("GET /conflicts - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	candidate, err := domain.NewInterval(
		types.TimeString(query.Get("startTime")),
		types.TimeString(query.Get("endTime")),
	)
	if err != nil {
		h.logger.Warn("GET /conflicts - Invalid interval: %v", err)
		handlers.RespondBadRequest(w, msgInvalidInterval)
		return
	}

	var excludeID int64
	if raw := query.Get("excludeBookingId"); raw != "" {
		excludeID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.logger.Warn("GET /conflicts - Invalid exclude booking ID: %q", raw)
			handlers.RespondBadRequest(w, msgInvalidBookingID)
			return
		}
	}

	record, err := h.service.DetectConflicts(
		r.Context(),
		domain.Resource{Kind: kind, ID: resourceID},
		date,
		candidate,
		excludeID,
	)
	if err != nil {
		h.logger.Error("GET /conflicts - Detection failed: kind=%s, id=%d, date=%s, error=%v",
			kind, resourceID, date, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /conflicts - Detection complete: kind=%s, id=%d, date=%s, conflicts=%d",
		kind, resourceID, date, len(record.OverlappingBookingIDs))
	handlers.RespondJSON(w, http.StatusOK, ConflictsResponse{
		ResourceKind:          string(record.Resource.Kind),
		ResourceID:            record.Resource.ID,
		Date:                  record.Date,
		StartTime:             record.Candidate.Start.String(),
		EndTime:               record.Candidate.End.String(),
		HasConflicts:          record.HasConflicts(),
		OverlappingBookingIDs: record.OverlappingBookingIDs,
	})
}
