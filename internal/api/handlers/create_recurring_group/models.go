package create_recurring_group

import (
	"time"

	createRecurringGroup "github.com/dmrtv/BSC-SchedulingService/internal/usecase/create_recurring_group"
	"github.com/dmrtv/BSC-SchedulingService/pkg/types"
)

// CreateRecurringGroupRequest HTTP request model
type CreateRecurringGroupRequest struct {
	CustomerID       int64    `json:"customerId"`
	ServicePackageID int64    `json:"servicePackageId"`
	StaffID          *int64   `json:"staffId,omitempty"`
	TeamID           *int64   `json:"teamId,omitempty"`
	Pattern          string   `json:"pattern"`
	Dates            []string `json:"dates"`
	TotalOccurrences int      `json:"totalOccurrences"`
	StartTime        string   `json:"startTime"`
	EndTime          string   `json:"endTime"`
	TotalPrice       float64  `json:"totalPrice"`
	Notes            *string  `json:"notes,omitempty"`
	ConfirmConflicts bool     `json:"confirmConflicts,omitempty"`
}

// ConflictItem пересечение на одной из дат группы
type ConflictItem struct {
	BookingID int64  `json:"bookingId"`
	Date      string `json:"date"`
}

// ConflictsResponse HTTP response при требуемом подтверждении
type ConflictsResponse struct {
	Message   string         `json:"message"`
	Conflicts []ConflictItem `json:"conflicts"`
}

// OccurrenceItem одно повторение созданной группы
type OccurrenceItem struct {
	BookingID int64   `json:"bookingId"`
	Sequence  int     `json:"sequence"`
	Date      string  `json:"date"`
	Price     float64 `json:"price"`
}

// GroupResponse HTTP response model
type GroupResponse struct {
	GroupID          string           `json:"groupId"`
	Pattern          string           `json:"pattern"`
	TotalOccurrences int              `json:"totalOccurrences"`
	OriginalPrice    float64          `json:"originalPrice"`
	Occurrences      []OccurrenceItem `json:"occurrences"`
	Conflicts        []ConflictItem   `json:"conflicts,omitempty"`
	CreatedAt        string           `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateRecurringGroupRequest) ToUseCaseRequest() (*createRecurringGroup.Request, error) {
	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}
	endTime, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, err
	}

	return &createRecurringGroup.Request{
		CustomerID:       r.CustomerID,
		ServicePackageID: r.ServicePackageID,
		StaffID:          r.StaffID,
		TeamID:           r.TeamID,
		Pattern:          r.Pattern,
		Dates:            r.Dates,
		TotalOccurrences: r.TotalOccurrences,
		StartTime:        startTime,
		EndTime:          endTime,
		TotalPrice:       r.TotalPrice,
		Notes:            r.Notes,
		ConfirmConflicts: r.ConfirmConflicts,
	}, nil
}

func toConflictItems(conflicts []createRecurringGroup.Conflict) []ConflictItem {
	items := make([]ConflictItem, 0, len(conflicts))
	for _, c := range conflicts {
		items = append(items, ConflictItem{BookingID: c.BookingID, Date: c.Date})
	}
	return items
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createRecurringGroup.Response) *GroupResponse {
	out := &GroupResponse{
		GroupID:          resp.GroupID,
		Pattern:          resp.Pattern,
		TotalOccurrences: resp.TotalOccurrences,
		OriginalPrice:    resp.OriginalPrice,
		Conflicts:        toConflictItems(resp.Conflicts),
		CreatedAt:        resp.CreatedAt.Format(time.RFC3339),
	}
	for _, occ := range resp.Occurrences {
		out.Occurrences = append(out.Occurrences, OccurrenceItem{
			BookingID: occ.BookingID,
			Sequence:  occ.Sequence,
			Date:      occ.Date,
			Price:     occ.Price,
		})
	}
	return out
}
