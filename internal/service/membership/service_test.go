package membership

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmrtv/BSC-SchedulingService/internal/domain"
	windowRepo "github.com/dmrtv/BSC-SchedulingService/internal/infra/storage/membership"
	"github.com/dmrtv/BSC-SchedulingService/pkg/ptr"
)

// fakeWindowRepo репозиторий окон для тестов.
// Функции-поля позволяют менять поведение между вызовами.
type fakeWindowRepo struct {
	getWindows        func(ctx context.Context, staffID, teamID int64) ([]*domain.MembershipWindow, error)
	getWindowsByStaff func(ctx context.Context, staffID int64) ([]*domain.MembershipWindow, error)
	open              func(ctx context.Context, staffID, teamID int64, joinedAt time.Time) (*domain.MembershipWindow, error)
	close             func(ctx context.Context, staffID, teamID int64, leftAt time.Time) error
}

func (f *fakeWindowRepo) GetWindows(ctx context.Context, staffID, teamID int64) ([]*domain.MembershipWindow, error) {
	return f.getWindows(ctx, staffID, teamID)
}

func (f *fakeWindowRepo) GetWindowsByStaff(ctx context.Context, staffID int64) ([]*domain.MembershipWindow, error) {
	return f.getWindowsByStaff(ctx, staffID)
}

func (f *fakeWindowRepo) Open(ctx context.Context, staffID, teamID int64, joinedAt time.Time) (*domain.MembershipWindow, error) {
	return f.open(ctx, staffID, teamID, joinedAt)
}

func (f *fakeWindowRepo) Close(ctx context.Context, staffID, teamID int64, leftAt time.Time) error {
	return f.close(ctx, staffID, teamID, leftAt)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var (
	d1 = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	d2 = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	d3 = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
)

// Два окна: [d1, d2) и [d3, открыто) - мастер вышел и вернулся
func rejoinWindows() []*domain.MembershipWindow {
	return []*domain.MembershipWindow{
		{ID: 1, StaffID: 7, TeamID: 5, JoinedAt: d1, LeftAt: &d2},
		{ID: 2, StaffID: 7, TeamID: 5, JoinedAt: d3},
	}
}

func teamBooking(createdAt time.Time) *domain.Booking {
	return &domain.Booking{ID: 100, TeamID: ptr.Ptr(int64(5)), CreatedAt: createdAt}
}

func newTestService(windows []*domain.MembershipWindow) *Service {
	repo := &fakeWindowRepo{
		getWindows: func(context.Context, int64, int64) ([]*domain.MembershipWindow, error) {
			return windows, nil
		},
		getWindowsByStaff: func(context.Context, int64) ([]*domain.MembershipWindow, error) {
			return windows, nil
		},
	}
	return NewService(repo, nopLogger{})
}

func TestIsAttributable_WindowsAndGap(t *testing.T) {
	svc := newTestService(rejoinWindows())
	ctx := context.Background()

	tests := []struct {
		name      string
		createdAt time.Time
		want      bool
	}{
		{"inside first window", d1.AddDate(0, 1, 0), true},
		{"at first window start (inclusive)", d1, true},
		{"at first window end (exclusive)", d2, false},
		{"in the gap between windows", d2.AddDate(0, 1, 0), false},
		{"at second window start", d3, true},
		{"after rejoin", d3.AddDate(0, 2, 0), true},
		{"before any window", d1.AddDate(0, 0, -1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.IsAttributable(ctx, teamBooking(tt.createdAt), 7)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsAttributable_DirectAssignmentBypassesWindows(t *testing.T) {
	// Репозиторий не должен быть вызван вовсе
	repo := &fakeWindowRepo{
		getWindows: func(context.Context, int64, int64) ([]*domain.MembershipWindow, error) {
			t.Fatal("windows must not be fetched for directly assigned bookings")
			return nil, nil
		},
	}
	svc := NewService(repo, nopLogger{})

	booking := &domain.Booking{ID: 1, StaffID: ptr.Ptr(int64(7)), CreatedAt: d2}
	got, err := svc.IsAttributable(context.Background(), booking, 7)
	require.NoError(t, err)
	assert.True(t, got)
}

func TestIsAttributable_UnassignedBooking(t *testing.T) {
	svc := newTestService(rejoinWindows())

	booking := &domain.Booking{ID: 1, CreatedAt: d1.AddDate(0, 1, 0)}
	got, err := svc.IsAttributable(context.Background(), booking, 7)
	require.NoError(t, err)
	assert.False(t, got)
}

// TestIsAttributable_UsesFreshWindows проверяет главное правило подсистемы:
// окна перечитываются при каждом вызове, а не захватываются один раз
func TestIsAttributable_UsesFreshWindows(t *testing.T) {
	current := rejoinWindows()
	repo := &fakeWindowRepo{
		getWindows: func(context.Context, int64, int64) ([]*domain.MembershipWindow, error) {
			return current, nil
		},
	}
	svc := NewService(repo, nopLogger{})
	ctx := context.Background()

	booking := teamBooking(d3.AddDate(0, 1, 0))

	got, err := svc.IsAttributable(ctx, booking, 7)
	require.NoError(t, err)
	assert.True(t, got)

	// Мастер вышел из команды: второе окно закрылось до createdAt бронирования
	closed := d3.AddDate(0, 0, 15)
	current = []*domain.MembershipWindow{
		{ID: 1, StaffID: 7, TeamID: 5, JoinedAt: d1, LeftAt: &d2},
		{ID: 2, StaffID: 7, TeamID: 5, JoinedAt: d3, LeftAt: &closed},
	}

	got, err = svc.IsAttributable(ctx, booking, 7)
	require.NoError(t, err)
	assert.False(t, got, "attribution must follow the current windows, not a captured snapshot")
}

func TestResolveWindows_SortedByJoinedAt(t *testing.T) {
	unsorted := []*domain.MembershipWindow{
		{ID: 2, StaffID: 7, TeamID: 5, JoinedAt: d3},
		{ID: 1, StaffID: 7, TeamID: 5, JoinedAt: d1, LeftAt: &d2},
	}
	svc := newTestService(unsorted)

	windows, err := svc.ResolveWindows(context.Background(), 7, 5)
	require.NoError(t, err)
	require.Len(t, windows, 2)
	assert.Equal(t, int64(1), windows[0].ID)
	assert.Equal(t, int64(2), windows[1].ID)
}

func TestFilterAttributable(t *testing.T) {
	svc := newTestService(rejoinWindows())

	bookings := []*domain.Booking{
		teamBooking(d1.AddDate(0, 1, 0)),                              // в первом окне
		teamBooking(d2.AddDate(0, 1, 0)),                              // в разрыве
		{ID: 3, StaffID: ptr.Ptr(int64(7)), CreatedAt: d2},            // прямое назначение
		{ID: 4, TeamID: ptr.Ptr(int64(99)), CreatedAt: d1},            // чужая команда
		{ID: 5, StaffID: ptr.Ptr(int64(8)), CreatedAt: d1},            // чужой мастер
	}

	got, err := svc.FilterAttributable(context.Background(), bookings, 7)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(100), got[0].ID)
	assert.Equal(t, int64(3), got[1].ID)
}

func TestWindowsHash(t *testing.T) {
	a := rejoinWindows()
	b := rejoinWindows()

	assert.Equal(t, WindowsHash(a), WindowsHash(b), "hash is deterministic")

	// Порядок окон на хэш не влияет
	reversed := []*domain.MembershipWindow{b[1], b[0]}
	assert.Equal(t, WindowsHash(a), WindowsHash(reversed))

	// Закрытие окна меняет хэш
	closed := d3.AddDate(0, 1, 0)
	changed := rejoinWindows()
	changed[1].LeftAt = &closed
	assert.NotEqual(t, WindowsHash(a), WindowsHash(changed))
}

func TestIsAttributable_InvalidInput(t *testing.T) {
	svc := newTestService(nil)

	_, err := svc.IsAttributable(context.Background(), nil, 7)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.IsAttributable(context.Background(), teamBooking(d1), 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestOpenWindow(t *testing.T) {
	repo := &fakeWindowRepo{
		open: func(ctx context.Context, staffID, teamID int64, joinedAt time.Time) (*domain.MembershipWindow, error) {
			return &domain.MembershipWindow{ID: 10, StaffID: staffID, TeamID: teamID, JoinedAt: joinedAt}, nil
		},
	}
	svc := NewService(repo, nopLogger{})

	w, err := svc.OpenWindow(context.Background(), 7, 5, d1)
	require.NoError(t, err)
	assert.Equal(t, int64(10), w.ID)
	assert.True(t, w.IsOpen())
}

func TestOpenWindow_OverlapRejected(t *testing.T) {
	repo := &fakeWindowRepo{
		open: func(ctx context.Context, staffID, teamID int64, joinedAt time.Time) (*domain.MembershipWindow, error) {
			return nil, windowRepo.ErrWindowOverlap
		},
	}
	svc := NewService(repo, nopLogger{})

	_, err := svc.OpenWindow(context.Background(), 7, 5, d1)
	assert.ErrorIs(t, err, ErrWindowOverlap)
}

func TestCloseWindow(t *testing.T) {
	var closedAt time.Time
	repo := &fakeWindowRepo{
		close: func(ctx context.Context, staffID, teamID int64, leftAt time.Time) error {
			closedAt = leftAt
			return nil
		},
	}
	svc := NewService(repo, nopLogger{})

	require.NoError(t, svc.CloseWindow(context.Background(), 7, 5, d2))
	assert.Equal(t, d2, closedAt)
}

func TestCloseWindow_NoOpenWindow(t *testing.T) {
	repo := &fakeWindowRepo{
		close: func(ctx context.Context, staffID, teamID int64, leftAt time.Time) error {
			return windowRepo.ErrWindowNotFound
		},
	}
	svc := NewService(repo, nopLogger{})

	err := svc.CloseWindow(context.Background(), 7, 5, d2)
	assert.ErrorIs(t, err, ErrWindowNotFound)
}
