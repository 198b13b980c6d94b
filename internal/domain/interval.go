package domain

import (
	"errors"
	"fmt"

	"github.com/dmrtv/BSC-SchedulingService/pkg/types"
)

var (
	// ErrInvalidInterval возвращается при некорректном интервале (end <= start)
	ErrInvalidInterval = errors.New("domain: invalid interval, end must be after start")
)

// Interval полуоткрытый временной интервал [Start, End) внутри одного дня
type Interval struct {
	Start types.TimeString
	End   types.TimeString
}

// NewInterval создает интервал с валидацией границ.
// Интервал с end <= start считается некорректным.
func NewInterval(start, end types.TimeString) (Interval, error) {
	if err := start.Validate(); err != nil {
		return Interval{}, fmt.Errorf("%w: start: %v", ErrInvalidInterval, err)
	}
	if err := end.Validate(); err != nil {
		return Interval{}, fmt.Errorf("%w: end: %v", ErrInvalidInterval, err)
	}
	if !end.IsAfter(start) {
		return Interval{}, fmt.Errorf("%w: %s-%s", ErrInvalidInterval, start, end)
	}
	return Interval{Start: start, End: end}, nil
}

// Overlaps возвращает true, если интервалы действительно пересекаются.
// Интервалы полуоткрытые: если один заканчивается ровно там, где начинается
// другой, пересечения НЕТ.
//
// Примеры:
//   - 09:00-10:00 и 09:30-10:30 → пересекаются (09:30-10:00)
//   - 09:00-09:30 и 09:30-10:30 → не пересекаются (граничат)
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.IsBefore(other.End) && other.Start.IsBefore(i.End)
}

// Contains возвращает true, если момент t попадает в интервал [Start, End)
func (i Interval) Contains(t types.TimeString) bool {
	return !t.IsBefore(i.Start) && t.IsBefore(i.End)
}

// DurationMinutes возвращает длительность интервала в минутах
func (i Interval) DurationMinutes() (int, error) {
	start, err := i.Start.Minutes()
	if err != nil {
		return 0, err
	}
	end, err := i.End.Minutes()
	if err != nil {
		return 0, err
	}
	return end - start, nil
}

// String возвращает представление вида "09:00-10:00"
func (i Interval) String() string {
	return fmt.Sprintf("%s-%s", i.Start, i.End)
}
