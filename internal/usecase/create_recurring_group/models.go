package create_recurring_group

import (
	"time"

	"github.com/dmrtv/BSC-SchedulingService/pkg/types"
)

// Request модель запроса на создание повторяющейся группы бронирований
type Request struct {
	CustomerID       int64            // ID клиента
	ServicePackageID int64            // ID пакета услуг
	StaffID          *int64           // Назначенный мастер (опционально)
	TeamID           *int64           // Назначенная команда (опционально)
	Pattern          string           // weekly, biweekly, monthly, custom_dates
	Dates            []string         // Даты повторений, по одной на бронирование
	TotalOccurrences int              // Заявленное число повторений
	StartTime        types.TimeString // Время начала каждого повторения
	EndTime          types.TimeString // Время конца каждого повторения
	TotalPrice       float64          // Цена всей группы
	Notes            *string          // Заметки (опционально)

	ConfirmConflicts bool // Явное подтверждение пересечений
}

// Conflict пересечение на одной из дат группы
type Conflict struct {
	BookingID int64
	Date      string
}

// OccurrenceResponse одно повторение в созданной группе
type OccurrenceResponse struct {
	BookingID int64
	Sequence  int
	Date      string
	Price     float64
}

// Response модель ответа с созданной группой
type Response struct {
	GroupID          string
	Pattern          string
	TotalOccurrences int
	OriginalPrice    float64
	Occurrences      []OccurrenceResponse

	// Пересечения: при ErrConflictConfirmationRequired заполняются без
	// создания группы
	Conflicts []Conflict

	CreatedAt time.Time
}
