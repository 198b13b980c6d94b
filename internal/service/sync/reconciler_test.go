package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmrtv/BSC-SchedulingService/internal/domain"
	"github.com/dmrtv/BSC-SchedulingService/internal/infra/cache"
	"github.com/dmrtv/BSC-SchedulingService/internal/infra/changefeed"
	"github.com/dmrtv/BSC-SchedulingService/internal/service/membership"
)

type fakeMembership struct {
	windows        []*domain.MembershipWindow
	windowsErr     error
	isAttributable func(booking *domain.Booking, staffID int64) (bool, error)
}

func (f *fakeMembership) WindowsByStaff(ctx context.Context, staffID int64) ([]*domain.MembershipWindow, error) {
	return f.windows, f.windowsErr
}

func (f *fakeMembership) IsAttributable(ctx context.Context, booking *domain.Booking, staffID int64) (bool, error) {
	if f.isAttributable != nil {
		return f.isAttributable(booking, staffID)
	}
	return false, nil
}

func bookingEvent(t *testing.T, evType changefeed.EventType, id, customerID int64, date string) changefeed.Event {
	t.Helper()
	payload, err := json.Marshal(map[string]interface{}{
		"id":             id,
		"customer_id":    customerID,
		"booking_date":   date,
		"start_time":     "10:00",
		"end_time":       "11:00",
		"status":         "confirmed",
		"payment_status": "unpaid",
		"created_at":     "2026-08-01T12:00:00Z",
	})
	require.NoError(t, err)
	ev := changefeed.Event{Table: "bookings", Type: evType}
	if evType == changefeed.EventDelete {
		ev.Old = payload
	} else {
		ev.New = payload
	}
	return ev
}

func membershipEvent(t *testing.T, staffID, teamID int64) changefeed.Event {
	t.Helper()
	payload, err := json.Marshal(map[string]interface{}{
		"id":        int64(1),
		"staff_id":  staffID,
		"team_id":   teamID,
		"joined_at": "2026-01-01T00:00:00Z",
	})
	require.NoError(t, err)
	return changefeed.Event{Table: "membership_windows", Type: changefeed.EventInsert, New: payload}
}

func runReconciler(t *testing.T, r *Reconciler, events chan changefeed.Event) (stop func()) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = r.Run(ctx)
	}()
	return func() {
		cancel()
		<-done
	}
}

func TestReconciler_CustomerNotifiedAfterDebounce(t *testing.T) {
	store := cache.New()
	store.Set(CustomerListKey(100), "cached")

	events := make(chan changefeed.Event)
	notify := make(chan Notification, 1)

	r := NewReconciler(store, &fakeMembership{}, events, nil, nopLogger{}, 5*time.Millisecond, time.Millisecond)
	unsub := r.Subscribe(&Subscription{CustomerID: 100, Notify: notify})
	defer unsub()

	stop := runReconciler(t, r, events)
	defer stop()

	events <- bookingEvent(t, changefeed.EventInsert, 1, 100, "2026-09-01")

	select {
	case n := <-notify:
		assert.Contains(t, n.Keys, CustomerListKey(100))
		assert.Contains(t, n.Keys, CustomerDayKey(100, "2026-09-01"))
	case <-time.After(time.Second):
		t.Fatal("no notification received")
	}
	assert.True(t, store.IsStale(CustomerListKey(100)))
}

func TestReconciler_IrrelevantEventIgnored(t *testing.T) {
	store := cache.New()
	events := make(chan changefeed.Event)
	notify := make(chan Notification, 1)

	r := NewReconciler(store, &fakeMembership{}, events, nil, nopLogger{}, time.Millisecond, time.Millisecond)
	unsub := r.Subscribe(&Subscription{CustomerID: 100, Notify: notify})
	defer unsub()

	stop := runReconciler(t, r, events)
	defer stop()

	// чужой клиент
	events <- bookingEvent(t, changefeed.EventInsert, 1, 200, "2026-09-01")

	select {
	case <-notify:
		t.Fatal("unexpected notification for unrelated booking")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestReconciler_DebounceCollapsesUpdateBurst(t *testing.T) {
	store := cache.New()
	events := make(chan changefeed.Event)
	notify := make(chan Notification, 10)

	r := NewReconciler(store, &fakeMembership{}, events, nil, nopLogger{}, 30*time.Millisecond, time.Millisecond)
	unsub := r.Subscribe(&Subscription{CustomerID: 100, Notify: notify})
	defer unsub()

	stop := runReconciler(t, r, events)
	defer stop()

	for i := 0; i < 5; i++ {
		events <- bookingEvent(t, changefeed.EventUpdate, 1, 100, "2026-09-01")
	}

	select {
	case <-notify:
	case <-time.After(time.Second):
		t.Fatal("no notification received")
	}

	// серия схлопнулась в одно уведомление
	select {
	case <-notify:
		t.Fatal("burst of updates produced more than one notification")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestReconciler_StaffRelevanceUsesFreshWindows(t *testing.T) {
	store := cache.New()
	events := make(chan changefeed.Event)
	notify := make(chan Notification, 1)

	windows := []*domain.MembershipWindow{
		{StaffID: 7, TeamID: 3, JoinedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	ms := &fakeMembership{
		windows: windows,
		isAttributable: func(booking *domain.Booking, staffID int64) (bool, error) {
			return staffID == 7, nil
		},
	}

	r := NewReconciler(store, ms, events, nil, nopLogger{}, time.Millisecond, time.Millisecond)
	unsub := r.Subscribe(&Subscription{StaffID: 7, Notify: notify})
	defer unsub()

	stop := runReconciler(t, r, events)
	defer stop()

	events <- bookingEvent(t, changefeed.EventInsert, 1, 100, "2026-09-01")

	hash := membership.WindowsHash(windows)
	select {
	case n := <-notify:
		assert.Contains(t, n.Keys, StaffListKey(7, hash))
		assert.Contains(t, n.Keys, StaffDayKey(7, hash, "2026-09-01"))
	case <-time.After(time.Second):
		t.Fatal("no notification received")
	}
}

func TestReconciler_MembershipRefetchPrecedesDependentInvalidation(t *testing.T) {
	store := cache.New()
	key := MembershipKey(7)
	dep := cache.Key("staff:7:somehash:list")
	store.Set(key, "old windows")
	store.Set(dep, "old bookings")
	store.Link(key, dep)

	events := make(chan changefeed.Event)
	notify := make(chan Notification, 1)

	windows := []*domain.MembershipWindow{
		{StaffID: 7, TeamID: 3, JoinedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	r := NewReconciler(store, &fakeMembership{windows: windows}, events, nil, nopLogger{}, time.Millisecond, time.Millisecond)
	unsub := r.Subscribe(&Subscription{StaffID: 7, Notify: notify})
	defer unsub()

	stop := runReconciler(t, r, events)
	defer stop()

	events <- membershipEvent(t, 7, 3)

	select {
	case n := <-notify:
		assert.Contains(t, n.Keys, key)
		assert.Contains(t, n.Keys, dep)
	case <-time.After(time.Second):
		t.Fatal("no notification received")
	}

	// Ключ окон уже перечитан и не устаревший, зависимый ключ устарел
	v, ok := store.Get(key)
	require.True(t, ok)
	assert.Equal(t, windows, v)
	assert.False(t, store.IsStale(key))
	assert.True(t, store.IsStale(dep))
}

func TestReconciler_UnknownTableIgnored(t *testing.T) {
	store := cache.New()
	events := make(chan changefeed.Event)

	r := NewReconciler(store, &fakeMembership{}, events, nil, nopLogger{}, time.Millisecond, time.Millisecond)
	stop := runReconciler(t, r, events)
	defer stop()

	events <- changefeed.Event{Table: "audit_log", Type: changefeed.EventInsert, New: json.RawMessage(`{}`)}
	// ничего не падает, следующее событие обрабатывается
	events <- bookingEvent(t, changefeed.EventInsert, 1, 1, "2026-09-01")
}

func TestBookingFromRow_NestedTeamRelation(t *testing.T) {
	for _, shape := range []string{
		`{"id": 1, "customer_id": 2, "booking_date": "2026-09-01", "start_time": "10:00", "end_time": "11:00", "status": "confirmed", "payment_status": "unpaid", "created_at": "2026-08-01T12:00:00Z", "team": {"id": 5}}`,
		`{"id": 1, "customer_id": 2, "booking_date": "2026-09-01", "start_time": "10:00", "end_time": "11:00", "status": "confirmed", "payment_status": "unpaid", "created_at": "2026-08-01T12:00:00Z", "team": [{"id": 5}]}`,
	} {
		row, err := changefeed.DecodeBookingRow(json.RawMessage(shape))
		require.NoError(t, err)
		booking, err := bookingFromRow(row)
		require.NoError(t, err)
		require.NotNil(t, booking.TeamID, fmt.Sprintf("shape %s", shape))
		assert.Equal(t, int64(5), *booking.TeamID)
	}
}

func TestRun_SlowSubscriberDoesNotBlockReconciliation(t *testing.T) {
	store := cache.New()
	events := make(chan changefeed.Event)

	r := NewReconciler(store, &fakeMembership{}, events, nil, nopLogger{}, time.Millisecond, time.Millisecond)

	// Подписчик, переставший читать уведомления
	stuck := make(chan Notification)
	unsub := r.Subscribe(&Subscription{StaffID: 7, Notify: stuck})
	defer unsub()

	stop := runReconciler(t, r, events)
	defer stop()

	events <- membershipEvent(t, 7, 3)
	go func() {
		events <- membershipEvent(t, 8, 3)
	}()

	// Нечитающий подписчик мастера 7 не останавливает обработку
	// события мастера 8
	require.Eventually(t, func() bool {
		_, ok := store.Get(MembershipKey(8))
		return ok
	}, time.Second, 5*time.Millisecond, "event for staff 8 was not processed")
}
