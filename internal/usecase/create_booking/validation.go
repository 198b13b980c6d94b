package create_booking

import (
	"fmt"
	"time"

	"github.com/dmrtv/BSC-SchedulingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}

	if req.ServicePackageID <= 0 {
		return fmt.Errorf("%w: servicePackageID must be positive", ErrInvalidInput)
	}

	// Назначение либо мастеру, либо команде, либо никому
	if req.StaffID != nil && req.TeamID != nil {
		return ErrAmbiguousAssignment
	}
	if req.StaffID != nil && *req.StaffID <= 0 {
		return fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}
	if req.TeamID != nil && *req.TeamID <= 0 {
		return fmt.Errorf("%w: teamID must be positive", ErrInvalidInput)
	}

	if req.Date == "" {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if _, err := time.Parse(domain.DateFormat, req.Date); err != nil {
		return fmt.Errorf("%w: invalid date format: %v", ErrInvalidInput, err)
	}

	if req.TotalPrice < 0 {
		return fmt.Errorf("%w: totalPrice must not be negative", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes longer than %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateInterval строит и проверяет интервал бронирования
func validateInterval(req *Request) (domain.Interval, error) {
	interval, err := domain.NewInterval(req.StartTime, req.EndTime)
	if err != nil {
		return domain.Interval{}, fmt.Errorf("%w: %v", ErrInvalidInterval, err)
	}
	return interval, nil
}

// validateDate проверяет, что дата бронирования не в прошлом
func validateDate(date string, now time.Time) error {
	parsed, err := time.Parse(domain.DateFormat, date)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}

	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if parsed.Before(nowOnly) {
		return ErrInvalidDate
	}
	return nil
}
