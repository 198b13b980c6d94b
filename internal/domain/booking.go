package domain

import (
	"time"

	"github.com/dmrtv/BSC-SchedulingService/pkg/types"
)

// Booking represents a scheduled service booking in the system
type Booking struct {
	ID               int64
	CustomerID       int64
	ServicePackageID int64

	// Exactly one of StaffID/TeamID is set, or neither (unassigned booking)
	StaffID *int64
	TeamID  *int64

	// BookingDate календарная дата в формате "2026-09-01"
	BookingDate string
	StartTime   types.TimeString
	EndTime     types.TimeString
	TotalPrice  float64

	Status        BookingStatus
	PaymentStatus PaymentStatus

	// Recurring group membership (all nil for standalone bookings)
	RecurringGroupID  *string
	RecurringSequence *int
	RecurringTotal    *int

	// TeamMemberCountAtBooking фиксируется в момент создания и больше не меняется:
	// это исторический факт, а не живой join к составу команды
	TeamMemberCountAtBooking *int

	Notes *string

	ArchivedAt *time.Time

	// CreatedAt is immutable and drives membership-window attribution
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Interval returns the booking's time interval on its date
func (b *Booking) Interval() Interval {
	return Interval{Start: b.StartTime, End: b.EndTime}
}

// IsAssigned returns true if the booking is assigned to a staff member or a team
func (b *Booking) IsAssigned() bool {
	return b.StaffID != nil || b.TeamID != nil
}

// Resource returns the assigned resource, if any
func (b *Booking) Resource() (Resource, bool) {
	if b.StaffID != nil {
		return Resource{Kind: ResourceStaff, ID: *b.StaffID}, true
	}
	if b.TeamID != nil {
		return Resource{Kind: ResourceTeam, ID: *b.TeamID}, true
	}
	return Resource{}, false
}

// AssignedTo returns true if the booking occupies the given resource
func (b *Booking) AssignedTo(r Resource) bool {
	res, ok := b.Resource()
	return ok && res == r
}

// IsActive returns true if the booking still occupies its time slot
func (b *Booking) IsActive() bool {
	return b.ArchivedAt == nil &&
		b.Status != StatusCancelled &&
		b.Status != StatusNoShow
}

// IsRecurring returns true if the booking belongs to a recurring group
func (b *Booking) IsRecurring() bool {
	return b.RecurringGroupID != nil
}

// IsArchived returns true if the booking has been soft-deleted
func (b *Booking) IsArchived() bool {
	return b.ArchivedAt != nil
}

// IsSameDate returns true if the booking is on the given calendar date
func (b *Booking) IsSameDate(date string) bool {
	return b.BookingDate == date
}

// ResourceKind вид ресурса, занимаемого бронированием
type ResourceKind string

const (
	ResourceStaff ResourceKind = "staff"
	ResourceTeam  ResourceKind = "team"
)

// Resource ресурс (мастер или команда), на который назначено бронирование
type Resource struct {
	Kind ResourceKind
	ID   int64
}

// BookingsFilter фильтр для выборки бронирований
type BookingsFilter struct {
	Resource        *Resource      // Фильтр по ресурсу (опционально)
	CustomerID      *int64         // Фильтр по клиенту (опционально)
	StartDate       *string        // Начало периода, "2026-09-01" (опционально)
	EndDate         *string        // Конец периода, "2026-09-01" (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли отменённые, no-show и архивные
}
