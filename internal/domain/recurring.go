package domain

import "time"

// RecurrencePattern паттерн повторения для группы бронирований
type RecurrencePattern string

const (
	PatternWeekly      RecurrencePattern = "weekly"
	PatternBiweekly    RecurrencePattern = "biweekly"
	PatternMonthly     RecurrencePattern = "monthly"
	PatternCustomDates RecurrencePattern = "custom_dates"
)

// ValidPattern возвращает true для известного паттерна повторения
func ValidPattern(p RecurrencePattern) bool {
	switch p {
	case PatternWeekly, PatternBiweekly, PatternMonthly, PatternCustomDates:
		return true
	default:
		return false
	}
}

// RecurringGroup группа из N бронирований, созданных атомарно по одному шаблону.
// Инварианты: len(BookingIDs) == TotalOccurrences;
// сумма цен бронирований группы равна OriginalTotalPrice.
type RecurringGroup struct {
	ID               string // uuid
	Pattern          RecurrencePattern
	TotalOccurrences int
	BookingIDs       []int64

	// Общие поля шаблона, из которого создавались бронирования
	CustomerID         int64
	ServicePackageID   int64
	StaffID            *int64
	TeamID             *int64
	OriginalTotalPrice float64

	CreatedAt time.Time
}
