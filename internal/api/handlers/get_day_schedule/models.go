package get_day_schedule

import (
	bookingModels "github.com/dmrtv/BSC-SchedulingService/internal/service/bookings/models"
	getDaySchedule "github.com/dmrtv/BSC-SchedulingService/internal/usecase/get_day_schedule"
)

// ScheduleEntryResponse бронирование с позицией в колоночной раскладке
type ScheduleEntryResponse struct {
	Booking      *bookingModels.BookingResponse `json:"booking"`
	Column       int                            `json:"column"`
	TotalColumns int                            `json:"totalColumns"`
}

// DayScheduleResponse расписание дня одного ресурса
type DayScheduleResponse struct {
	ResourceKind string                  `json:"resourceKind"`
	ResourceID   int64                   `json:"resourceId"`
	Date         string                  `json:"date"`
	Entries      []ScheduleEntryResponse `json:"entries"`
}

// FromUseCaseResponse конвертирует ответ usecase в HTTP DTO
func FromUseCaseResponse(resp *getDaySchedule.Response) *DayScheduleResponse {
	result := &DayScheduleResponse{
		ResourceKind: string(resp.Resource.Kind),
		ResourceID:   resp.Resource.ID,
		Date:         resp.Date,
		Entries:      make([]ScheduleEntryResponse, 0, len(resp.Entries)),
	}
	for _, e := range resp.Entries {
		result.Entries = append(result.Entries, ScheduleEntryResponse{
			Booking:      bookingModels.FromDomainBooking(e.Booking),
			Column:       e.Column,
			TotalColumns: e.TotalColumns,
		})
	}
	return result
}
