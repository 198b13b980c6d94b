package sync

import (
	"context"
	"fmt"
	stdsync "sync"
	"time"

	"github.com/dmrtv/BSC-SchedulingService/internal/domain"
	"github.com/dmrtv/BSC-SchedulingService/internal/infra/cache"
	"github.com/dmrtv/BSC-SchedulingService/internal/infra/changefeed"
	"github.com/dmrtv/BSC-SchedulingService/internal/service/membership"
	"github.com/dmrtv/BSC-SchedulingService/pkg/metrics"
	"github.com/dmrtv/BSC-SchedulingService/pkg/types"
)

const (
	// UPDATE приходят сериями (правка статуса, потом заметок), окно шире.
	// INSERT и DELETE одиночные, их можно доносить быстрее.
	DefaultUpdateDebounce = 300 * time.Millisecond
	DefaultInsertDebounce = 100 * time.Millisecond
)

const (
	tableBookings    = "bookings"
	tableMemberships = "membership_windows"
)

// Notification уведомление подписчика об устаревших ключах
type Notification struct {
	Keys []cache.Key
}

// Subscription активная подписка клиента на изменения расписания.
// CustomerID и StaffID задают, чьими глазами смотрит клиент; ноль
// означает "не смотрит".
type Subscription struct {
	CustomerID int64
	StaffID    int64
	Notify     chan<- Notification
}

// Reconciler доносит события ленты изменений до кэша и подписчиков
type Reconciler struct {
	cache      Cache
	membership MembershipService
	events     <-chan changefeed.Event
	metrics    *metrics.Metrics
	logger     Logger

	updateDebounce time.Duration
	insertDebounce time.Duration

	mu     stdsync.Mutex
	subs   map[*Subscription]struct{}
	timers map[string]*time.Timer
}

func NewReconciler(
	c Cache,
	membershipSvc MembershipService,
	events <-chan changefeed.Event,
	m *metrics.Metrics,
	logger Logger,
	updateDebounce, insertDebounce time.Duration,
) *Reconciler {
	if updateDebounce <= 0 {
		updateDebounce = DefaultUpdateDebounce
	}
	if insertDebounce <= 0 {
		insertDebounce = DefaultInsertDebounce
	}
	return &Reconciler{
		cache:          c,
		membership:     membershipSvc,
		events:         events,
		metrics:        m,
		logger:         logger,
		updateDebounce: updateDebounce,
		insertDebounce: insertDebounce,
		subs:           make(map[*Subscription]struct{}),
		timers:         make(map[string]*time.Timer),
	}
}

// Subscribe регистрирует подписку и возвращает функцию отписки
func (r *Reconciler) Subscribe(sub *Subscription) func() {
	r.mu.Lock()
	r.subs[sub] = struct{}{}
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.subs, sub)
		r.mu.Unlock()
	}
}

// Run читает события до отмены контекста или закрытия канала
func (r *Reconciler) Run(ctx context.Context) error {
	defer r.stopTimers()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-r.events:
			if !ok {
				return ErrClosed
			}
			r.handle(ctx, ev)
		}
	}
}

func (r *Reconciler) handle(ctx context.Context, ev changefeed.Event) {
	if r.metrics != nil {
		r.metrics.FeedEventsTotal.WithLabelValues(ev.Table, string(ev.Type)).Inc()
	}

	switch ev.Table {
	case tableBookings:
		r.handleBooking(ctx, ev)
	case tableMemberships:
		r.handleMembership(ctx, ev)
	default:
		r.logger.Warn("handle: event for unknown table %q ignored", ev.Table)
	}
}

// handleBooking определяет, кого из подписчиков касается событие, и с
// дебаунсом инвалидирует их выборки. Релевантность для мастера считается
// по свежим окнам членства в момент события, не по состоянию на момент
// подписки.
func (r *Reconciler) handleBooking(ctx context.Context, ev changefeed.Event) {
	row, err := changefeed.DecodeBookingRow(ev.Row())
	if err != nil {
		r.logger.Error("handleBooking: %v", err)
		return
	}

	booking, err := bookingFromRow(row)
	if err != nil {
		r.logger.Error("handleBooking: booking id=%d: %v", row.ID, err)
		return
	}

	for _, sub := range r.subscribers() {
		keys, err := r.relevantKeys(ctx, sub, booking)
		if err != nil {
			r.logger.Error("handleBooking: relevance check failed for booking id=%d: %v", row.ID, err)
			continue
		}
		if len(keys) == 0 {
			continue
		}
		r.debounce(sub, ev.Type, row.ID, keys)
	}
}

// handleMembership перечитывает окна мастера и только после этого
// инвалидирует зависимые выборки. Обратный порядок оставил бы окно, в
// котором зависимая выборка перечитана по устаревшему набору окон.
func (r *Reconciler) handleMembership(ctx context.Context, ev changefeed.Event) {
	row, err := changefeed.DecodeMembershipRow(ev.Row())
	if err != nil {
		r.logger.Error("handleMembership: %v", err)
		return
	}

	key := MembershipKey(row.StaffID)
	token := r.cache.BeginRefetch(key)

	windows, err := r.membership.WindowsByStaff(ctx, row.StaffID)
	if err != nil {
		r.logger.Error("handleMembership: refetch windows for staff=%d failed: %v", row.StaffID, err)
		r.cache.Invalidate(key)
		return
	}

	if !r.cache.CompleteRefetch(token, windows) {
		r.logger.Info("handleMembership: stale refetch for staff=%d discarded", row.StaffID)
	}

	deps := r.cache.Dependents(key)
	if len(deps) > 0 {
		r.cache.Invalidate(deps...)
	}

	r.notifyStaff(row.StaffID, append(deps, key))
}

// relevantKeys возвращает ключи подписчика, которые устаревают из-за
// бронирования, либо пустой срез, если событие подписчика не касается
func (r *Reconciler) relevantKeys(ctx context.Context, sub *Subscription, booking *domain.Booking) ([]cache.Key, error) {
	var keys []cache.Key

	if sub.CustomerID > 0 && booking.CustomerID == sub.CustomerID {
		keys = append(keys,
			CustomerListKey(sub.CustomerID),
			CustomerDayKey(sub.CustomerID, booking.BookingDate),
		)
	}

	if sub.StaffID > 0 {
		ok, err := r.membership.IsAttributable(ctx, booking, sub.StaffID)
		if err != nil {
			return nil, err
		}
		if ok {
			windows, err := r.membership.WindowsByStaff(ctx, sub.StaffID)
			if err != nil {
				return nil, err
			}
			hash := membership.WindowsHash(windows)
			keys = append(keys, staffViewKeys(r.cache, sub.StaffID, hash, booking.BookingDate)...)
		}
	}

	return keys, nil
}

// debounce откладывает инвалидацию, схлопывая серию событий по одной
// записи в одно уведомление
func (r *Reconciler) debounce(sub *Subscription, evType changefeed.EventType, bookingID int64, keys []cache.Key) {
	delay := r.insertDebounce
	if evType == changefeed.EventUpdate {
		delay = r.updateDebounce
	}

	timerKey := fmt.Sprintf("%p:%d", sub, bookingID)

	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.timers[timerKey]; ok {
		t.Stop()
	}
	r.timers[timerKey] = time.AfterFunc(delay, func() {
		r.mu.Lock()
		delete(r.timers, timerKey)
		_, active := r.subs[sub]
		r.mu.Unlock()

		r.cache.Invalidate(keys...)
		if active {
			r.send(sub, Notification{Keys: keys})
		}
	})
}

func (r *Reconciler) subscribers() []*Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()

	subs := make([]*Subscription, 0, len(r.subs))
	for sub := range r.subs {
		subs = append(subs, sub)
	}
	return subs
}

func (r *Reconciler) notifyStaff(staffID int64, keys []cache.Key) {
	for _, sub := range r.subscribers() {
		if sub.StaffID != staffID {
			continue
		}
		r.send(sub, Notification{Keys: keys})
	}
}

// send не блокируется на подписчике: ключи к этому моменту уже
// инвалидированы, нечитающий клиент теряет лишь уведомление и
// выравнивается при переподключении
func (r *Reconciler) send(sub *Subscription, n Notification) {
	select {
	case sub.Notify <- n:
	default:
		r.logger.Warn("send: subscriber customer=%d staff=%d not reading, notification dropped", sub.CustomerID, sub.StaffID)
	}
}

func (r *Reconciler) stopTimers() {
	r.mu.Lock()
	for key, t := range r.timers {
		t.Stop()
		delete(r.timers, key)
	}
	r.mu.Unlock()
}

// bookingFromRow строит доменную модель из полезной нагрузки события
func bookingFromRow(row *changefeed.BookingRow) (*domain.Booking, error) {
	createdAt, err := time.Parse(time.RFC3339, row.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", row.CreatedAt, err)
	}

	booking := &domain.Booking{
		ID:               row.ID,
		CustomerID:       row.CustomerID,
		ServicePackageID: row.ServicePackageID,
		StaffID:          row.StaffID,
		TeamID:           row.TeamID,
		BookingDate:      row.BookingDate,
		StartTime:        types.TimeString(row.StartTime),
		EndTime:          types.TimeString(row.EndTime),
		Status:           domain.BookingStatus(row.Status),
		PaymentStatus:    domain.PaymentStatus(row.PaymentStatus),
		RecurringGroupID: row.RecurringGroupID,
		CreatedAt:        createdAt,
	}

	// Команда может прийти вложенной связью вместо плоского поля
	if booking.TeamID == nil && row.Team != nil && row.Team.ID > 0 {
		booking.TeamID = &row.Team.ID
	}

	return booking, nil
}
