package create_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmrtv/BSC-SchedulingService/internal/domain"
	"github.com/dmrtv/BSC-SchedulingService/pkg/ptr"
	"github.com/dmrtv/BSC-SchedulingService/pkg/types"
)

type fakeBookingRepo struct {
	create func(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

func (f *fakeBookingRepo) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	return f.create(ctx, booking)
}

type fakeConflictSvc struct {
	detect func(ctx context.Context, resource domain.Resource, date string, candidate domain.Interval, candidateID int64) (domain.ConflictRecord, error)
}

func (f *fakeConflictSvc) DetectConflicts(ctx context.Context, resource domain.Resource, date string, candidate domain.Interval, candidateID int64) (domain.ConflictRecord, error) {
	return f.detect(ctx, resource, date, candidate, candidateID)
}

type fakeTeamClient struct {
	memberCount *int
}

func (f *fakeTeamClient) GetMemberCountWithGracefulDegradation(ctx context.Context, teamID int64) (*int, error) {
	return f.memberCount, nil
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func validRequest() *Request {
	return &Request{
		CustomerID:       100,
		ServicePackageID: 5,
		StaffID:          ptr.Ptr(int64(7)),
		Date:             "2026-09-10",
		StartTime:        types.TimeString("10:00"),
		EndTime:          types.TimeString("11:00"),
		TotalPrice:       50,
	}
}

func newUseCase(repo *fakeBookingRepo, conflictSvc *fakeConflictSvc, team *fakeTeamClient) *UseCase {
	uc := NewUseCase(repo, conflictSvc, team, fakeTxManager{}, nopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)}
	return uc
}

func noConflicts() *fakeConflictSvc {
	return &fakeConflictSvc{
		detect: func(ctx context.Context, resource domain.Resource, date string, candidate domain.Interval, candidateID int64) (domain.ConflictRecord, error) {
			return domain.ConflictRecord{Resource: resource, Date: date, Candidate: candidate}, nil
		},
	}
}

func echoCreate() *fakeBookingRepo {
	return &fakeBookingRepo{
		create: func(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
			created := *booking
			created.ID = 1
			return &created, nil
		},
	}
}

func TestExecute_CreatesPendingUnpaid(t *testing.T) {
	uc := newUseCase(echoCreate(), noConflicts(), &fakeTeamClient{})

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, string(domain.PaymentUnpaid), resp.PaymentStatus)
	assert.Empty(t, resp.Conflicts)
}

func TestExecute_ConflictsRequireConfirmation(t *testing.T) {
	created := false
	repo := &fakeBookingRepo{
		create: func(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
			created = true
			b := *booking
			b.ID = 2
			return &b, nil
		},
	}
	conflictSvc := &fakeConflictSvc{
		detect: func(ctx context.Context, resource domain.Resource, date string, candidate domain.Interval, candidateID int64) (domain.ConflictRecord, error) {
			return domain.ConflictRecord{
				Resource:              resource,
				Date:                  date,
				Candidate:             candidate,
				OverlappingBookingIDs: []int64{42},
			}, nil
		},
	}
	uc := newUseCase(repo, conflictSvc, &fakeTeamClient{})

	// Без подтверждения бронирование не создаётся, пересечения в ответе
	resp, err := uc.Execute(context.Background(), validRequest())
	require.ErrorIs(t, err, ErrConflictConfirmationRequired)
	require.NotNil(t, resp)
	require.Len(t, resp.Conflicts, 1)
	assert.Equal(t, int64(42), resp.Conflicts[0].BookingID)
	assert.False(t, created)

	// С подтверждением создаётся поверх пересечения
	req := validRequest()
	req.ConfirmConflicts = true
	resp, err = uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(2), resp.ID)
	require.Len(t, resp.Conflicts, 1)
}

func TestExecute_UnassignedSkipsConflictCheck(t *testing.T) {
	conflictCalled := false
	conflictSvc := &fakeConflictSvc{
		detect: func(ctx context.Context, resource domain.Resource, date string, candidate domain.Interval, candidateID int64) (domain.ConflictRecord, error) {
			conflictCalled = true
			return domain.ConflictRecord{}, nil
		},
	}
	uc := newUseCase(echoCreate(), conflictSvc, &fakeTeamClient{})

	req := validRequest()
	req.StaffID = nil

	_, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, conflictCalled)
}

func TestExecute_TeamMemberCountCaptured(t *testing.T) {
	uc := newUseCase(echoCreate(), noConflicts(), &fakeTeamClient{memberCount: ptr.Ptr(4)})

	req := validRequest()
	req.StaffID = nil
	req.TeamID = ptr.Ptr(int64(3))

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, resp.TeamMemberCountAtBooking)
	assert.Equal(t, 4, *resp.TeamMemberCountAtBooking)
}

func TestExecute_TeamServiceDegradedStillCreates(t *testing.T) {
	uc := newUseCase(echoCreate(), noConflicts(), &fakeTeamClient{memberCount: nil})

	req := validRequest()
	req.StaffID = nil
	req.TeamID = ptr.Ptr(int64(3))

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Nil(t, resp.TeamMemberCountAtBooking)
}

func TestExecute_BothStaffAndTeamRejected(t *testing.T) {
	uc := newUseCase(echoCreate(), noConflicts(), &fakeTeamClient{})

	req := validRequest()
	req.TeamID = ptr.Ptr(int64(3))

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrAmbiguousAssignment)
}

func TestExecute_PastDateRejected(t *testing.T) {
	uc := newUseCase(echoCreate(), noConflicts(), &fakeTeamClient{})

	req := validRequest()
	req.Date = "2026-08-31"

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_InvertedIntervalRejected(t *testing.T) {
	uc := newUseCase(echoCreate(), noConflicts(), &fakeTeamClient{})

	req := validRequest()
	req.StartTime = types.TimeString("11:00")
	req.EndTime = types.TimeString("10:00")

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInterval)
}
