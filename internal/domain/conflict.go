package domain

// ConflictRecord результат проверки кандидата на пересечение с существующими
// бронированиями ресурса. Вычисляется по требованию и нигде не хранится.
type ConflictRecord struct {
	Resource  Resource
	Date      string
	Candidate Interval

	// Все пересекающиеся бронирования, не только первое найденное:
	// решение блокировать или только предупредить принимает вызывающая сторона
	OverlappingBookingIDs []int64
}

// HasConflicts returns true if at least one overlapping booking was found
func (c *ConflictRecord) HasConflicts() bool {
	return len(c.OverlappingBookingIDs) > 0
}

// LayoutEntry позиция бронирования в колоночной раскладке дня.
// TotalColumns = 1 + число пересекающихся с ним бронирований; при
// нетранзитивных пересечениях это сознательное завышение относительно
// минимально необходимого числа колонок - вёрстка опирается именно на него.
type LayoutEntry struct {
	BookingID    int64
	Column       int
	TotalColumns int
}
