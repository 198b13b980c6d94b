package create_booking

import (
	"time"

	createBooking "github.com/dmrtv/BSC-SchedulingService/internal/usecase/create_booking"
	"github.com/dmrtv/BSC-SchedulingService/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	CustomerID       int64   `json:"customerId"`
	ServicePackageID int64   `json:"servicePackageId"`
	StaffID          *int64  `json:"staffId,omitempty"`
	TeamID           *int64  `json:"teamId,omitempty"`
	BookingDate      string  `json:"bookingDate"` // "2026-09-01"
	StartTime        string  `json:"startTime"`   // "10:00"
	EndTime          string  `json:"endTime"`     // "11:00"
	TotalPrice       float64 `json:"totalPrice"`
	Notes            *string `json:"notes,omitempty"`
	ConfirmConflicts bool    `json:"confirmConflicts,omitempty"`
}

// ConflictItem пересечение с существующим бронированием
type ConflictItem struct {
	BookingID int64  `json:"bookingId"`
	Date      string `json:"date"`
}

// ConflictsResponse HTTP response при требуемом подтверждении
type ConflictsResponse struct {
	Message   string         `json:"message"`
	Conflicts []ConflictItem `json:"conflicts"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID                       int64          `json:"id"`
	CustomerID               int64          `json:"customerId"`
	ServicePackageID         int64          `json:"servicePackageId"`
	StaffID                  *int64         `json:"staffId,omitempty"`
	TeamID                   *int64         `json:"teamId,omitempty"`
	BookingDate              string         `json:"bookingDate"`
	StartTime                string         `json:"startTime"`
	EndTime                  string         `json:"endTime"`
	TotalPrice               float64        `json:"totalPrice"`
	Status                   string         `json:"status"`
	PaymentStatus            string         `json:"paymentStatus"`
	TeamMemberCountAtBooking *int           `json:"teamMemberCountAtBooking,omitempty"`
	Conflicts                []ConflictItem `json:"conflicts,omitempty"`
	Notes                    *string        `json:"notes,omitempty"`
	CreatedAt                string         `json:"createdAt"`
	UpdatedAt                string         `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() (*createBooking.Request, error) {
	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}
	endTime, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		CustomerID:       r.CustomerID,
		ServicePackageID: r.ServicePackageID,
		StaffID:          r.StaffID,
		TeamID:           r.TeamID,
		Date:             r.BookingDate,
		StartTime:        startTime,
		EndTime:          endTime,
		TotalPrice:       r.TotalPrice,
		Notes:            r.Notes,
		ConfirmConflicts: r.ConfirmConflicts,
	}, nil
}

func toConflictItems(conflicts []createBooking.Conflict) []ConflictItem {
	items := make([]ConflictItem, 0, len(conflicts))
	for _, c := range conflicts {
		items = append(items, ConflictItem{BookingID: c.BookingID, Date: c.Date})
	}
	return items
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:                       resp.ID,
		CustomerID:               resp.CustomerID,
		ServicePackageID:         resp.ServicePackageID,
		StaffID:                  resp.StaffID,
		TeamID:                   resp.TeamID,
		BookingDate:              resp.BookingDate,
		StartTime:                resp.StartTime.String(),
		EndTime:                  resp.EndTime.String(),
		TotalPrice:               resp.TotalPrice,
		Status:                   resp.Status,
		PaymentStatus:            resp.PaymentStatus,
		TeamMemberCountAtBooking: resp.TeamMemberCountAtBooking,
		Conflicts:                toConflictItems(resp.Conflicts),
		Notes:                    resp.Notes,
		CreatedAt:                resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:                resp.UpdatedAt.Format(time.RFC3339),
	}
}
