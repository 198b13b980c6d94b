// Package membership решает, какие исторические бронирования "принадлежат"
// мастеру, исходя из окон его членства в командах.
//
// Ключевое правило: окна всегда перечитываются из хранилища в момент
// использования. Сервис и его вызывающие не хранят разрешённый набор окон
// в долгоживущих замыканиях - состав команды может измениться, пока такое
// замыкание ждёт своей очереди, и захваченный снэпшот даст неверную атрибуцию.
package membership

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sort"
	"time"

	"github.com/dmrtv/BSC-SchedulingService/internal/domain"
	windowRepo "github.com/dmrtv/BSC-SchedulingService/internal/infra/storage/membership"
)

// Service трекер окон членства
type Service struct {
	windowRepo WindowRepository
	logger     Logger
}

// NewService создает новый экземпляр трекера
func NewService(windowRepo WindowRepository, logger Logger) *Service {
	return &Service{
		windowRepo: windowRepo,
		logger:     logger,
	}
}

// ResolveWindows возвращает окна членства пары (staff, team), отсортированные
// по joinedAt по возрастанию. Всегда свежая выборка из хранилища.
func (s *Service) ResolveWindows(ctx context.Context, staffID, teamID int64) ([]*domain.MembershipWindow, error) {
	if staffID <= 0 || teamID <= 0 {
		return nil, fmt.Errorf("%w: staffID and teamID must be positive", ErrInvalidInput)
	}

	windows, err := s.windowRepo.GetWindows(ctx, staffID, teamID)
	if err != nil {
		s.logger.Error("ResolveWindows: repository error for staff=%d team=%d: %v", staffID, teamID, err)
		return nil, fmt.Errorf("%w: ResolveWindows - repository error: %v", ErrInternal, err)
	}

	// Репозиторий отдаёт окна отсортированными, но сортировка - часть
	// контракта этого метода, поэтому закрепляем её здесь
	sort.Slice(windows, func(i, j int) bool {
		return windows[i].JoinedAt.Before(windows[j].JoinedAt)
	})

	return windows, nil
}

// AttributesTo возвращает true, если бронирование относится к окну:
// createdAt попадает в [joinedAt, leftAt). Включительно по началу и
// исключительно по концу, чтобы на стыке выхода и повторного вступления
// бронирование не засчиталось дважды.
func AttributesTo(booking *domain.Booking, window *domain.MembershipWindow) bool {
	return window.Covers(booking.CreatedAt)
}

// IsAttributable возвращает true, если бронирование "считается" за мастером.
// Прямое назначение (booking.StaffID == staffID) засчитывается всегда, минуя
// логику окон. Командное бронирование засчитывается, если createdAt попадает
// хотя бы в одно окно членства мастера в этой команде - окна при этом
// перечитываются из хранилища на момент вызова.
func (s *Service) IsAttributable(ctx context.Context, booking *domain.Booking, staffID int64) (bool, error) {
	if booking == nil {
		return false, fmt.Errorf("%w: booking is required", ErrInvalidInput)
	}
	if staffID <= 0 {
		return false, fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}

	// Прямое назначение минует окна
	if booking.StaffID != nil && *booking.StaffID == staffID {
		return true, nil
	}

	if booking.TeamID == nil {
		return false, nil
	}

	windows, err := s.ResolveWindows(ctx, staffID, *booking.TeamID)
	if err != nil {
		return false, err
	}

	for _, window := range windows {
		if AttributesTo(booking, window) {
			return true, nil
		}
	}

	return false, nil
}

// WindowsByStaff возвращает все окна мастера по всем командам,
// свежей выборкой из хранилища.
func (s *Service) WindowsByStaff(ctx context.Context, staffID int64) ([]*domain.MembershipWindow, error) {
	if staffID <= 0 {
		return nil, fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}

	windows, err := s.windowRepo.GetWindowsByStaff(ctx, staffID)
	if err != nil {
		s.logger.Error("WindowsByStaff: repository error for staff=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: WindowsByStaff - repository error: %v", ErrInternal, err)
	}
	return windows, nil
}

// FilterAttributable возвращает бронирования, относящиеся к мастеру.
// Окна перечитываются один раз на вызов, не на бронирование.
func (s *Service) FilterAttributable(ctx context.Context, bookings []*domain.Booking, staffID int64) ([]*domain.Booking, error) {
	if staffID <= 0 {
		return nil, fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}

	// Свежие окна мастера по всем командам
	windows, err := s.windowRepo.GetWindowsByStaff(ctx, staffID)
	if err != nil {
		s.logger.Error("FilterAttributable: repository error for staff=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: FilterAttributable - repository error: %v", ErrInternal, err)
	}

	byTeam := make(map[int64][]*domain.MembershipWindow)
	for _, w := range windows {
		byTeam[w.TeamID] = append(byTeam[w.TeamID], w)
	}

	result := make([]*domain.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.StaffID != nil && *b.StaffID == staffID {
			result = append(result, b)
			continue
		}
		if b.TeamID == nil {
			continue
		}
		for _, w := range byTeam[*b.TeamID] {
			if AttributesTo(b, w) {
				result = append(result, b)
				break
			}
		}
	}

	return result, nil
}

// OpenWindow открывает новое окно членства мастера в команде.
// Окна одной пары (staff, team) не пересекаются, повторное вступление
// открывает новое окно после закрытого
func (s *Service) OpenWindow(ctx context.Context, staffID, teamID int64, joinedAt time.Time) (*domain.MembershipWindow, error) {
	if staffID <= 0 || teamID <= 0 {
		return nil, fmt.Errorf("%w: staffID and teamID must be positive", ErrInvalidInput)
	}
	if joinedAt.IsZero() {
		return nil, fmt.Errorf("%w: joinedAt is required", ErrInvalidInput)
	}

	window, err := s.windowRepo.Open(ctx, staffID, teamID, joinedAt)
	if err != nil {
		if errors.Is(err, windowRepo.ErrWindowOverlap) {
			s.logger.Warn("OpenWindow: overlap for staff=%d team=%d", staffID, teamID)
			return nil, ErrWindowOverlap
		}
		s.logger.Error("OpenWindow: repository error for staff=%d team=%d: %v", staffID, teamID, err)
		return nil, fmt.Errorf("%w: OpenWindow - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("OpenWindow: staff=%d joined team=%d at %s", staffID, teamID, joinedAt.Format(time.RFC3339))
	return window, nil
}

// CloseWindow закрывает открытое окно мастера в команде.
// История не переписывается: окно получает leftAt и остаётся в хранилище
func (s *Service) CloseWindow(ctx context.Context, staffID, teamID int64, leftAt time.Time) error {
	if staffID <= 0 || teamID <= 0 {
		return fmt.Errorf("%w: staffID and teamID must be positive", ErrInvalidInput)
	}
	if leftAt.IsZero() {
		return fmt.Errorf("%w: leftAt is required", ErrInvalidInput)
	}

	if err := s.windowRepo.Close(ctx, staffID, teamID, leftAt); err != nil {
		switch {
		case errors.Is(err, windowRepo.ErrWindowNotFound):
			s.logger.Warn("CloseWindow: no open window for staff=%d team=%d", staffID, teamID)
			return ErrWindowNotFound
		case errors.Is(err, windowRepo.ErrWindowAlreadyClosed):
			return ErrWindowAlreadyClosed
		case errors.Is(err, windowRepo.ErrInvalidWindow):
			return fmt.Errorf("%w: leftAt must be after joinedAt", ErrInvalidInput)
		}
		s.logger.Error("CloseWindow: repository error for staff=%d team=%d: %v", staffID, teamID, err)
		return fmt.Errorf("%w: CloseWindow - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CloseWindow: staff=%d left team=%d at %s", staffID, teamID, leftAt.Format(time.RFC3339))
	return nil
}

// WindowsHash детерминированный хэш набора окон.
// Входит в ключи кэша зависимых выборок: смена состава окон меняет раздел
// кэша целиком.
func WindowsHash(windows []*domain.MembershipWindow) string {
	sorted := make([]*domain.MembershipWindow, len(windows))
	copy(sorted, windows)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].TeamID != sorted[j].TeamID {
			return sorted[i].TeamID < sorted[j].TeamID
		}
		return sorted[i].JoinedAt.Before(sorted[j].JoinedAt)
	})

	h := fnv.New64a()
	for _, w := range sorted {
		fmt.Fprintf(h, "%d:%d:%d:", w.StaffID, w.TeamID, w.JoinedAt.UnixNano())
		if w.LeftAt != nil {
			fmt.Fprintf(h, "%d;", w.LeftAt.UnixNano())
		} else {
			fmt.Fprint(h, "open;")
		}
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

// ActiveWindowAt возвращает окно, покрывающее момент t, если такое есть
func ActiveWindowAt(windows []*domain.MembershipWindow, t time.Time) (*domain.MembershipWindow, bool) {
	for _, w := range windows {
		if w.Covers(t) {
			return w, true
		}
	}
	return nil, false
}
