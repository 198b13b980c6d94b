package conflicts

import (
	"sort"

	"github.com/dmrtv/BSC-SchedulingService/internal/domain"
)

// LayoutDay раскладывает бронирования одного дня по колонкам для
// параллельного отображения. Колонка выбирается жадно, наименьшая
// свободная среди пересекающихся ранее размещённых бронирований.
// TotalColumns считается как 1 плюс число пересечений самого
// бронирования, без группировки по связным компонентам, поэтому
// значение может быть завышено для непересекающихся соседей по
// цепочке. Клиент использует его как делитель ширины, завышение
// лишь сужает блок.
func (s *Service) LayoutDay(bookings []*domain.Booking) []domain.LayoutEntry {
	active := make([]*domain.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.IsActive() {
			active = append(active, b)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		if active[i].StartTime == active[j].StartTime {
			return active[i].ID < active[j].ID
		}
		return active[i].StartTime.IsBefore(active[j].StartTime)
	})

	entries := make([]domain.LayoutEntry, len(active))
	columns := make([]int, len(active))

	for i, b := range active {
		used := make(map[int]bool)
		overlaps := 0
		for j := 0; j < len(active); j++ {
			if j == i {
				continue
			}
			if b.Interval().Overlaps(active[j].Interval()) {
				overlaps++
				if j < i {
					used[columns[j]] = true
				}
			}
		}

		col := 0
		for used[col] {
			col++
		}
		columns[i] = col

		entries[i] = domain.LayoutEntry{
			BookingID:    b.ID,
			Column:       col,
			TotalColumns: 1 + overlaps,
		}
	}
	return entries
}
