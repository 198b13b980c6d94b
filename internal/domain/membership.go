package domain

import "time"

// MembershipWindow непрерывный период членства мастера в команде.
// Для пары (StaffID, TeamID) окна попарно не пересекаются во времени;
// мастер может выйти из команды и вступить снова - тогда окон несколько.
type MembershipWindow struct {
	ID       int64
	StaffID  int64
	TeamID   int64
	JoinedAt time.Time

	// LeftAt == nil означает активное членство.
	// Закрытое окно (LeftAt установлен) больше не изменяется.
	LeftAt *time.Time
}

// IsOpen returns true if the membership is currently active
func (w *MembershipWindow) IsOpen() bool {
	return w.LeftAt == nil
}

// Covers возвращает true, если момент t попадает в окно.
// Границы: включительно по JoinedAt, исключительно по LeftAt - чтобы при
// повторном вступлении момент на стыке окон не засчитывался дважды.
func (w *MembershipWindow) Covers(t time.Time) bool {
	if t.Before(w.JoinedAt) {
		return false
	}
	return w.LeftAt == nil || t.Before(*w.LeftAt)
}

// OverlapsWindow возвращает true, если два окна пересекаются во времени.
// Используется для проверки инварианта дизъюнктности при открытии окна.
func (w *MembershipWindow) OverlapsWindow(other *MembershipWindow) bool {
	// Открытое окно (LeftAt == nil) тянется в бесконечность
	wStartsBeforeOtherEnds := other.LeftAt == nil || w.JoinedAt.Before(*other.LeftAt)
	otherStartsBeforeWEnds := w.LeftAt == nil || other.JoinedAt.Before(*w.LeftAt)
	return wStartsBeforeOtherEnds && otherStartsBeforeWEnds
}
