package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmrtv/BSC-SchedulingService/internal/domain"
	"github.com/dmrtv/BSC-SchedulingService/internal/infra/cache"
	"github.com/dmrtv/BSC-SchedulingService/internal/service/membership"
	"github.com/dmrtv/BSC-SchedulingService/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func TestMutate_SuccessInvalidatesKeys(t *testing.T) {
	store := cache.New()
	store.Set("a", []int64{1})
	store.Set("b", []int64{2})

	coord := NewCoordinator(store, nil, nil, nopLogger{})

	err := coord.Mutate(context.Background(), Mutation{
		Keys: []cache.Key{"a", "b"},
		Apply: func(c Cache) {
			c.Set("a", []int64{1, 99})
		},
		Remote: func(ctx context.Context) error { return nil },
	})
	require.NoError(t, err)

	// Оптимистичное значение осталось, но помечено устаревшим
	v, ok := store.Get("a")
	require.True(t, ok)
	assert.Equal(t, []int64{1, 99}, v)
	assert.True(t, store.IsStale("a"))
	assert.True(t, store.IsStale("b"))
}

func TestMutate_FailureRestoresAllKeys(t *testing.T) {
	store := cache.New()
	store.Set("day:2026-09-01", []int64{1, 2})
	// ключ "summary" отсутствует в кэше

	coord := NewCoordinator(store, nil, nil, nopLogger{})

	err := coord.Mutate(context.Background(), Mutation{
		Keys: []cache.Key{"day:2026-09-01", "summary"},
		Apply: func(c Cache) {
			c.Set("day:2026-09-01", []int64{1, 2, 3})
			c.Set("summary", "three bookings")
		},
		Remote: func(ctx context.Context) error {
			return errors.New("conflict detected on server")
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConcurrencyRollback)

	// Имевшийся ключ вернулся к старому значению, но помечен устаревшим:
	// отказ мог быть вызван чужой записью, следующая выборка перечитает
	v, ok := store.Get("day:2026-09-01")
	require.True(t, ok)
	assert.Equal(t, []int64{1, 2}, v)
	assert.True(t, store.IsStale("day:2026-09-01"))

	// Отсутствовавший ключ снова отсутствует, а не остался с
	// оптимистичным значением
	_, ok = store.Get("summary")
	assert.False(t, ok)
}

func TestMutate_FailureRollsBackDespiteCancelledContext(t *testing.T) {
	store := cache.New()
	store.Set("a", "before")

	coord := NewCoordinator(store, nil, nil, nopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	err := coord.Mutate(ctx, Mutation{
		Keys: []cache.Key{"a"},
		Apply: func(c Cache) {
			c.Set("a", "optimistic")
		},
		Remote: func(ctx context.Context) error {
			cancel()
			return ctx.Err()
		},
	})
	require.ErrorIs(t, err, ErrConcurrencyRollback)

	v, ok := store.Get("a")
	require.True(t, ok)
	assert.Equal(t, "before", v)
}

func TestMutate_CancelsPendingRefetch(t *testing.T) {
	store := cache.New()
	store.Set("a", "server-v1")

	// Перечитывание началось до мутации
	token := store.BeginRefetch("a")

	coord := NewCoordinator(store, nil, nil, nopLogger{})
	err := coord.Mutate(context.Background(), Mutation{
		Keys: []cache.Key{"a"},
		Apply: func(c Cache) {
			c.Set("a", "optimistic")
		},
		Remote: func(ctx context.Context) error { return nil },
	})
	require.NoError(t, err)

	// Результат устаревшего перечитывания отбрасывается
	assert.False(t, store.CompleteRefetch(token, "server-v1"))
	v, _ := store.Get("a")
	assert.Equal(t, "optimistic", v)
}

func TestMutate_Validation(t *testing.T) {
	coord := NewCoordinator(cache.New(), nil, nil, nopLogger{})

	err := coord.Mutate(context.Background(), Mutation{
		Keys:   []cache.Key{"a"},
		Remote: nil,
	})
	assert.ErrorIs(t, err, ErrInvalidMutation)

	err = coord.Mutate(context.Background(), Mutation{
		Remote: func(ctx context.Context) error { return nil },
	})
	assert.ErrorIs(t, err, ErrInvalidMutation)
}

func TestMutateBooking_DerivesKeysAndLinksStaffViews(t *testing.T) {
	store := cache.New()
	windows := []*domain.MembershipWindow{
		{ID: 1, StaffID: 7, TeamID: 3, JoinedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	coord := NewCoordinator(store, &fakeMembership{windows: windows}, nil, nopLogger{})

	hash := membership.WindowsHash(windows)
	groupID := "1b4e28ba-2fa1-11d2-883f-0016d3cca427"

	store.Set(CustomerListKey(100), "customer cached")
	store.Set(GroupKey(groupID), "group cached")
	store.Set(StaffDayKey(7, hash, "2026-09-01"), "staff cached")

	booking := &domain.Booking{
		ID:               1,
		CustomerID:       100,
		StaffID:          ptr.Ptr(int64(7)),
		BookingDate:      "2026-09-01",
		RecurringGroupID: &groupID,
	}

	err := coord.MutateBooking(context.Background(), booking, func(ctx context.Context) error { return nil })
	require.NoError(t, err)

	assert.True(t, store.IsStale(CustomerListKey(100)))
	assert.True(t, store.IsStale(CustomerDayKey(100, "2026-09-01")))
	assert.True(t, store.IsStale(GroupKey(groupID)))
	assert.True(t, store.IsStale(StaffDayKey(7, hash, "2026-09-01")))

	// Выборки мастера объявлены зависимыми от ключа членства:
	// инвалидация членства каскадно инвалидирует их
	deps := store.Dependents(MembershipKey(7))
	assert.Contains(t, deps, StaffListKey(7, hash))
	assert.Contains(t, deps, StaffDayKey(7, hash, "2026-09-01"))

	store.Set(StaffListKey(7, hash), "fresh")
	store.Invalidate(MembershipKey(7))
	assert.True(t, store.IsStale(StaffListKey(7, hash)))
}

func TestMutateBooking_FailureRestoresAndInvalidates(t *testing.T) {
	store := cache.New()
	coord := NewCoordinator(store, &fakeMembership{}, nil, nopLogger{})

	store.Set(CustomerListKey(100), []int64{1})

	booking := &domain.Booking{ID: 1, CustomerID: 100, BookingDate: "2026-09-01"}
	cause := errors.New("booking: not found")

	err := coord.MutateBooking(context.Background(), booking, func(ctx context.Context) error {
		return cause
	})
	require.ErrorIs(t, err, ErrConcurrencyRollback)
	// Исходная причина различима через цепочку ошибок
	require.ErrorIs(t, err, cause)

	v, ok := store.Get(CustomerListKey(100))
	require.True(t, ok)
	assert.Equal(t, []int64{1}, v)
	assert.True(t, store.IsStale(CustomerListKey(100)))
}

func TestMutateBooking_WindowsErrorSkipsStaffKeys(t *testing.T) {
	store := cache.New()
	coord := NewCoordinator(store, &fakeMembership{windowsErr: errors.New("db down")}, nil, nopLogger{})

	booking := &domain.Booking{ID: 1, CustomerID: 100, StaffID: ptr.Ptr(int64(7)), BookingDate: "2026-09-01"}

	// Недоступность окон не откладывает мутацию
	err := coord.MutateBooking(context.Background(), booking, func(ctx context.Context) error { return nil })
	require.NoError(t, err)
	assert.True(t, store.IsStale(CustomerListKey(100)))
	assert.Empty(t, store.Dependents(MembershipKey(7)))
}
