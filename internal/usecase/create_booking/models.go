package create_booking

import (
	"time"

	"github.com/dmrtv/BSC-SchedulingService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	CustomerID       int64            // ID клиента
	ServicePackageID int64            // ID пакета услуг
	StaffID          *int64           // Назначенный мастер (опционально)
	TeamID           *int64           // Назначенная команда (опционально)
	Date             string           // Дата бронирования "2026-09-01"
	StartTime        types.TimeString // Время начала слота (например, "10:00")
	EndTime          types.TimeString // Время конца слота, исключается из интервала
	TotalPrice       float64          // Полная цена
	Notes            *string          // Дополнительные заметки (опционально)

	// Явное подтверждение создания поверх найденных пересечений
	ConfirmConflicts bool
}

// Conflict пересечение с существующим бронированием
type Conflict struct {
	BookingID int64  // ID пересекающегося бронирования
	Date      string // Дата пересечения
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID               int64
	CustomerID       int64
	ServicePackageID int64
	StaffID          *int64
	TeamID           *int64
	BookingDate      string
	StartTime        types.TimeString
	EndTime          types.TimeString
	TotalPrice       float64
	Status           string
	PaymentStatus    string

	// Число участников команды на момент создания, nil при недоступном
	// TeamService или прямом назначении
	TeamMemberCountAtBooking *int

	// Пересечения: при ErrConflictConfirmationRequired заполняются без
	// создания бронирования, при подтверждённом создании отражают, поверх
	// чего оно создано
	Conflicts []Conflict

	Notes *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
