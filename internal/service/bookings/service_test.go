package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmrtv/BSC-SchedulingService/internal/domain"
	bookingRepo "github.com/dmrtv/BSC-SchedulingService/internal/infra/storage/booking"
	"github.com/dmrtv/BSC-SchedulingService/internal/service/bookings/models"
	"github.com/dmrtv/BSC-SchedulingService/pkg/ptr"
	"github.com/dmrtv/BSC-SchedulingService/pkg/types"
)

type fakeBookingRepo struct {
	getByID             func(ctx context.Context, id int64) (*domain.Booking, error)
	getWithFilter       func(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
	getByGroupID        func(ctx context.Context, groupID string) ([]*domain.Booking, error)
	updatePaymentStatus func(ctx context.Context, id int64, status domain.PaymentStatus) error
	updateNotes         func(ctx context.Context, id int64, notes *string) error
	archive             func(ctx context.Context, id int64) error
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return f.getByID(ctx, id)
}

func (f *fakeBookingRepo) GetWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	return f.getWithFilter(ctx, filter)
}

func (f *fakeBookingRepo) GetByGroupID(ctx context.Context, groupID string) ([]*domain.Booking, error) {
	return f.getByGroupID(ctx, groupID)
}

func (f *fakeBookingRepo) UpdatePaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) error {
	return f.updatePaymentStatus(ctx, id, status)
}

func (f *fakeBookingRepo) UpdateNotes(ctx context.Context, id int64, notes *string) error {
	return f.updateNotes(ctx, id, notes)
}

func (f *fakeBookingRepo) Archive(ctx context.Context, id int64) error {
	return f.archive(ctx, id)
}

type fakeGroupRepo struct {
	getByID func(ctx context.Context, id string) (*domain.RecurringGroup, error)
}

func (f *fakeGroupRepo) GetByID(ctx context.Context, id string) (*domain.RecurringGroup, error) {
	return f.getByID(ctx, id)
}

type fakeMembershipSvc struct {
	isAttributable     func(ctx context.Context, booking *domain.Booking, staffID int64) (bool, error)
	filterAttributable func(ctx context.Context, bookings []*domain.Booking, staffID int64) ([]*domain.Booking, error)
	windowsByStaff     func(ctx context.Context, staffID int64) ([]*domain.MembershipWindow, error)
}

func (f *fakeMembershipSvc) IsAttributable(ctx context.Context, booking *domain.Booking, staffID int64) (bool, error) {
	return f.isAttributable(ctx, booking, staffID)
}

func (f *fakeMembershipSvc) FilterAttributable(ctx context.Context, bookings []*domain.Booking, staffID int64) ([]*domain.Booking, error) {
	return f.filterAttributable(ctx, bookings, staffID)
}

func (f *fakeMembershipSvc) WindowsByStaff(ctx context.Context, staffID int64) ([]*domain.MembershipWindow, error) {
	return f.windowsByStaff(ctx, staffID)
}

type passthroughMutator struct{}

func (passthroughMutator) MutateBooking(ctx context.Context, b *domain.Booking, remote func(ctx context.Context) error) error {
	return remote(ctx)
}

type recordingMutator struct {
	bookings []*domain.Booking
}

func (m *recordingMutator) MutateBooking(ctx context.Context, b *domain.Booking, remote func(ctx context.Context) error) error {
	m.bookings = append(m.bookings, b)
	return remote(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func testBooking(id int64) *domain.Booking {
	return &domain.Booking{
		ID:            id,
		CustomerID:    100,
		StaffID:       ptr.Ptr(int64(7)),
		BookingDate:   "2026-09-01",
		StartTime:     types.TimeString("10:00"),
		EndTime:       types.TimeString("11:00"),
		TotalPrice:    50,
		Status:        domain.StatusConfirmed,
		PaymentStatus: domain.PaymentUnpaid,
		CreatedAt:     time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestGetByID_OwnerAccess(t *testing.T) {
	repo := &fakeBookingRepo{
		getByID: func(ctx context.Context, id int64) (*domain.Booking, error) {
			return testBooking(id), nil
		},
	}
	svc := NewService(repo, nil, &fakeMembershipSvc{}, passthroughMutator{}, nopLogger{})

	resp, err := svc.GetByID(context.Background(), 1, 100, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "10:00", resp.StartTime)
}

func TestGetByID_StaffAttributionDenied(t *testing.T) {
	repo := &fakeBookingRepo{
		getByID: func(ctx context.Context, id int64) (*domain.Booking, error) {
			return testBooking(id), nil
		},
	}
	ms := &fakeMembershipSvc{
		isAttributable: func(ctx context.Context, booking *domain.Booking, staffID int64) (bool, error) {
			return false, nil
		},
	}
	svc := NewService(repo, nil, ms, passthroughMutator{}, nopLogger{})

	_, err := svc.GetByID(context.Background(), 1, 0, 9)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetByID_NotFound(t *testing.T) {
	repo := &fakeBookingRepo{
		getByID: func(ctx context.Context, id int64) (*domain.Booking, error) {
			return nil, bookingRepo.ErrBookingNotFound
		},
	}
	svc := NewService(repo, nil, &fakeMembershipSvc{}, passthroughMutator{}, nopLogger{})

	_, err := svc.GetByID(context.Background(), 42, 100, 0)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestGetStaffBookings_MergesDirectAndTeam(t *testing.T) {
	direct := testBooking(1)
	team := testBooking(2)
	team.StaffID = nil
	team.TeamID = ptr.Ptr(int64(3))

	repo := &fakeBookingRepo{
		getWithFilter: func(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
			require.NotNil(t, filter.Resource)
			switch filter.Resource.Kind {
			case domain.ResourceStaff:
				return []*domain.Booking{direct}, nil
			case domain.ResourceTeam:
				return []*domain.Booking{team}, nil
			}
			return nil, nil
		},
	}
	ms := &fakeMembershipSvc{
		windowsByStaff: func(ctx context.Context, staffID int64) ([]*domain.MembershipWindow, error) {
			return []*domain.MembershipWindow{
				{StaffID: staffID, TeamID: 3, JoinedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
			}, nil
		},
		filterAttributable: func(ctx context.Context, bookings []*domain.Booking, staffID int64) ([]*domain.Booking, error) {
			return bookings, nil
		},
	}
	svc := NewService(repo, nil, ms, passthroughMutator{}, nopLogger{})

	resp, err := svc.GetStaffBookings(context.Background(), &models.GetStaffBookingsRequest{StaffID: 7})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 2)
}

func TestUpdatePaymentStatus_ValidTransition(t *testing.T) {
	var applied domain.PaymentStatus
	repo := &fakeBookingRepo{
		getByID: func(ctx context.Context, id int64) (*domain.Booking, error) {
			return testBooking(id), nil
		},
		updatePaymentStatus: func(ctx context.Context, id int64, status domain.PaymentStatus) error {
			applied = status
			return nil
		},
	}
	svc := NewService(repo, nil, &fakeMembershipSvc{}, passthroughMutator{}, nopLogger{})

	resp, err := svc.UpdatePaymentStatus(context.Background(), 1, &models.UpdatePaymentStatusRequest{
		PaymentStatus: string(domain.PaymentPendingVerification),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPendingVerification, applied)
	assert.Equal(t, string(domain.PaymentPendingVerification), resp.PaymentStatus)
}

func TestUpdatePaymentStatus_InvalidJump(t *testing.T) {
	repo := &fakeBookingRepo{
		getByID: func(ctx context.Context, id int64) (*domain.Booking, error) {
			return testBooking(id), nil // unpaid
		},
	}
	svc := NewService(repo, nil, &fakeMembershipSvc{}, passthroughMutator{}, nopLogger{})

	_, err := svc.UpdatePaymentStatus(context.Background(), 1, &models.UpdatePaymentStatusRequest{
		PaymentStatus: string(domain.PaymentRefunded),
	})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateNotes_TooLong(t *testing.T) {
	svc := NewService(&fakeBookingRepo{}, nil, &fakeMembershipSvc{}, passthroughMutator{}, nopLogger{})

	long := make([]byte, domain.MaxNotesLength+1)
	for i := range long {
		long[i] = 'a'
	}
	err := svc.UpdateNotes(context.Background(), 1, &models.UpdateNotesRequest{Notes: ptr.Ptr(string(long))})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestArchive_AlreadyArchived(t *testing.T) {
	archived := testBooking(1)
	archived.ArchivedAt = ptr.Ptr(time.Now())

	repo := &fakeBookingRepo{
		getByID: func(ctx context.Context, id int64) (*domain.Booking, error) {
			return archived, nil
		},
	}
	svc := NewService(repo, nil, &fakeMembershipSvc{}, passthroughMutator{}, nopLogger{})

	err := svc.Archive(context.Background(), 1)
	assert.ErrorIs(t, err, ErrAlreadyArchived)
}

func TestArchive_SoftDelete(t *testing.T) {
	archivedID := int64(0)
	repo := &fakeBookingRepo{
		getByID: func(ctx context.Context, id int64) (*domain.Booking, error) {
			b := testBooking(id)
			b.RecurringGroupID = ptr.Ptr("2f0a4f3e-25c1-4f05-bd89-92f8a3a1c001")
			return b, nil
		},
		archive: func(ctx context.Context, id int64) error {
			archivedID = id
			return nil
		},
	}
	svc := NewService(repo, nil, &fakeMembershipSvc{}, passthroughMutator{}, nopLogger{})

	err := svc.Archive(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), archivedID)
}

func TestUpdatePaymentStatus_WriteGoesThroughMutator(t *testing.T) {
	var written domain.PaymentStatus
	repo := &fakeBookingRepo{
		getByID: func(ctx context.Context, id int64) (*domain.Booking, error) {
			return testBooking(id), nil // unpaid
		},
		updatePaymentStatus: func(ctx context.Context, id int64, status domain.PaymentStatus) error {
			written = status
			return nil
		},
	}
	mutator := &recordingMutator{}
	svc := NewService(repo, nil, &fakeMembershipSvc{}, mutator, nopLogger{})

	resp, err := svc.UpdatePaymentStatus(context.Background(), 1, &models.UpdatePaymentStatusRequest{
		PaymentStatus: string(domain.PaymentPartial),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPartial, written)
	assert.Equal(t, string(domain.PaymentPartial), resp.PaymentStatus)

	// Координатор получает бронирование: из него выводятся ключи выборок
	require.Len(t, mutator.bookings, 1)
	assert.Equal(t, int64(1), mutator.bookings[0].ID)
}

func TestUpdateNotes_WriteGoesThroughMutator(t *testing.T) {
	var written *string
	repo := &fakeBookingRepo{
		getByID: func(ctx context.Context, id int64) (*domain.Booking, error) {
			return testBooking(id), nil
		},
		updateNotes: func(ctx context.Context, id int64, notes *string) error {
			written = notes
			return nil
		},
	}
	mutator := &recordingMutator{}
	svc := NewService(repo, nil, &fakeMembershipSvc{}, mutator, nopLogger{})

	err := svc.UpdateNotes(context.Background(), 1, &models.UpdateNotesRequest{Notes: ptr.Ptr("перенести на час")})
	require.NoError(t, err)
	require.NotNil(t, written)
	assert.Equal(t, "перенести на час", *written)
	require.Len(t, mutator.bookings, 1)
	assert.Equal(t, int64(100), mutator.bookings[0].CustomerID)
}

func TestUpdateNotes_NotFound(t *testing.T) {
	repo := &fakeBookingRepo{
		getByID: func(ctx context.Context, id int64) (*domain.Booking, error) {
			return nil, bookingRepo.ErrBookingNotFound
		},
	}
	svc := NewService(repo, nil, &fakeMembershipSvc{}, passthroughMutator{}, nopLogger{})

	err := svc.UpdateNotes(context.Background(), 42, &models.UpdateNotesRequest{Notes: ptr.Ptr("note")})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestArchive_WriteGoesThroughMutator(t *testing.T) {
	repo := &fakeBookingRepo{
		getByID: func(ctx context.Context, id int64) (*domain.Booking, error) {
			return testBooking(id), nil
		},
		archive: func(ctx context.Context, id int64) error { return nil },
	}
	mutator := &recordingMutator{}
	svc := NewService(repo, nil, &fakeMembershipSvc{}, mutator, nopLogger{})

	require.NoError(t, svc.Archive(context.Background(), 1))
	require.Len(t, mutator.bookings, 1)
	assert.Equal(t, "2026-09-01", mutator.bookings[0].BookingDate)
}
