package models

import (
	"time"

	"github.com/dmrtv/BSC-SchedulingService/internal/domain"
)

// Request модели

// GetCustomerBookingsRequest запрос на получение бронирований клиента
type GetCustomerBookingsRequest struct {
	CustomerID int64   `json:"customerId"`
	Status     *string `json:"status,omitempty"`
	StartDate  *string `json:"startDate,omitempty"`
	EndDate    *string `json:"endDate,omitempty"`
}

// GetStaffBookingsRequest запрос на получение бронирований сотрудника.
// Возвращаются прямые назначения и командные бронирования, попадающие
// в окна членства сотрудника.
type GetStaffBookingsRequest struct {
	StaffID         int64   `json:"staffId"`
	StartDate       *string `json:"startDate,omitempty"`
	EndDate         *string `json:"endDate,omitempty"`
	IncludeInactive bool    `json:"includeInactive,omitempty"`
}

// UpdatePaymentStatusRequest запрос на смену платёжного статуса
type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"paymentStatus"`
}

// UpdateNotesRequest запрос на обновление заметок
type UpdateNotesRequest struct {
	Notes *string `json:"notes"`
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID               int64   `json:"id"`
	CustomerID       int64   `json:"customerId"`
	ServicePackageID int64   `json:"servicePackageId"`
	StaffID          *int64  `json:"staffId,omitempty"`
	TeamID           *int64  `json:"teamId,omitempty"`
	BookingDate      string  `json:"bookingDate"` // "2026-09-01"
	StartTime        string  `json:"startTime"`   // "10:00"
	EndTime          string  `json:"endTime"`     // "11:00"
	TotalPrice       float64 `json:"totalPrice"`
	Status           string  `json:"status"`
	StatusLabel      string  `json:"statusLabel"`
	PaymentStatus    string  `json:"paymentStatus"`

	RecurringGroupID  *string `json:"recurringGroupId,omitempty"`
	RecurringSequence *int    `json:"recurringSequence,omitempty"`
	RecurringTotal    *int    `json:"recurringTotal,omitempty"`

	TeamMemberCountAtBooking *int    `json:"teamMemberCountAtBooking,omitempty"`
	Notes                    *string `json:"notes,omitempty"`
	ArchivedAt               *string `json:"archivedAt,omitempty"` // ISO 8601

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                       b.ID,
		CustomerID:               b.CustomerID,
		ServicePackageID:         b.ServicePackageID,
		StaffID:                  b.StaffID,
		TeamID:                   b.TeamID,
		BookingDate:              b.BookingDate,
		StartTime:                b.StartTime.String(),
		EndTime:                  b.EndTime.String(),
		TotalPrice:               b.TotalPrice,
		Status:                   string(b.Status),
		StatusLabel:              domain.StatusLabel(b.Status),
		PaymentStatus:            string(b.PaymentStatus),
		RecurringGroupID:         b.RecurringGroupID,
		RecurringSequence:        b.RecurringSequence,
		RecurringTotal:           b.RecurringTotal,
		TeamMemberCountAtBooking: b.TeamMemberCountAtBooking,
		Notes:                    b.Notes,
		CreatedAt:                b.CreatedAt,
		UpdatedAt:                b.UpdatedAt,
	}

	if b.ArchivedAt != nil {
		archivedStr := b.ArchivedAt.Format(time.RFC3339)
		resp.ArchivedAt = &archivedStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}
	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, *FromDomainBooking(b))
	}
	return resp
}

// ToDomainBookingStatus валидирует и конвертирует строковый статус
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !domain.ValidStatus(s) {
		return "", domain.ErrUnknownStatus
	}
	return s, nil
}

// ToDomainPaymentStatus валидирует и конвертирует платёжный статус
func ToDomainPaymentStatus(status string) (domain.PaymentStatus, error) {
	s := domain.PaymentStatus(status)
	if !domain.ValidPaymentStatus(s) {
		return "", domain.ErrUnknownStatus
	}
	return s, nil
}
