package transition_status

import transitionStatus "github.com/dmrtv/BSC-SchedulingService/internal/usecase/transition_status"

// TransitionStatusRequest HTTP request model
type TransitionStatusRequest struct {
	Status string `json:"status"`
}

// TransitionStatusResponse HTTP response model
type TransitionStatusResponse struct {
	BookingID         int64    `json:"bookingId"`
	OldStatus         string   `json:"oldStatus"`
	NewStatus         string   `json:"newStatus"`
	PaymentWarning    bool     `json:"paymentWarning,omitempty"`
	AvailableStatuses []string `json:"availableStatuses"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *transitionStatus.Response) *TransitionStatusResponse {
	return &TransitionStatusResponse{
		BookingID:         resp.BookingID,
		OldStatus:         resp.OldStatus,
		NewStatus:         resp.NewStatus,
		PaymentWarning:    resp.PaymentWarning,
		AvailableStatuses: resp.AvailableStatuses,
	}
}
