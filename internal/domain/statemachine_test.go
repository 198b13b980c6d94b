package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
}

var allPaymentStatuses = []PaymentStatus{
	PaymentUnpaid,
	PaymentPendingVerification,
	PaymentPartial,
	PaymentPaid,
	PaymentRefundRequested,
	PaymentRefundCancelled,
	PaymentRefunded,
}

// TestTransitionStatus_FullTable перебирает все пары статусов и сверяет
// результат с таблицей допустимых переходов
func TestTransitionStatus_FullTable(t *testing.T) {
	legal := map[BookingStatus][]BookingStatus{
		StatusPending:    {StatusConfirmed, StatusCancelled},
		StatusConfirmed:  {StatusInProgress, StatusCancelled, StatusNoShow},
		StatusInProgress: {StatusCompleted},
		StatusCompleted:  {},
		StatusCancelled:  {},
		StatusNoShow:     {},
	}

	isLegal := func(from, to BookingStatus) bool {
		for _, s := range legal[from] {
			if s == to {
				return true
			}
		}
		return false
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			err := TransitionStatus(from, to)
			if isLegal(from, to) {
				assert.NoError(t, err, "%s -> %s must be legal", from, to)
			} else {
				assert.ErrorIs(t, err, ErrInvalidTransition, "%s -> %s must be rejected", from, to)
			}
		}
	}
}

func TestTransitionStatus_UnknownStatus(t *testing.T) {
	err := TransitionStatus("sleeping", StatusConfirmed)
	require.ErrorIs(t, err, ErrUnknownStatus)

	err = TransitionStatus(StatusPending, "sleeping")
	require.ErrorIs(t, err, ErrUnknownStatus)
}

func TestTransitionStatus_SideEffectContract(t *testing.T) {
	// in_progress достижим только из confirmed
	for _, from := range allStatuses {
		err := TransitionStatus(from, StatusInProgress)
		if from == StatusConfirmed {
			assert.NoError(t, err)
		} else {
			assert.Error(t, err)
		}
	}

	// completed достижим только из in_progress
	for _, from := range allStatuses {
		err := TransitionStatus(from, StatusCompleted)
		if from == StatusInProgress {
			assert.NoError(t, err)
		} else {
			assert.Error(t, err)
		}
	}
}

func TestTransitionPayment(t *testing.T) {
	tests := []struct {
		from    PaymentStatus
		to      PaymentStatus
		wantErr bool
	}{
		{PaymentUnpaid, PaymentPendingVerification, false},
		{PaymentUnpaid, PaymentPartial, false},
		{PaymentUnpaid, PaymentPaid, true},
		{PaymentPendingVerification, PaymentPaid, false},
		{PaymentPartial, PaymentPaid, false},
		{PaymentPaid, PaymentRefundRequested, false},
		{PaymentPaid, PaymentUnpaid, true},
		{PaymentRefundRequested, PaymentRefunded, false},
		{PaymentRefundRequested, PaymentRefundCancelled, false},
		{PaymentRefundCancelled, PaymentRefundRequested, false},
		{PaymentRefunded, PaymentPaid, true},
	}

	for _, tt := range tests {
		err := TransitionPayment(tt.from, tt.to)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidTransition, "%s -> %s", tt.from, tt.to)
		} else {
			assert.NoError(t, err, "%s -> %s", tt.from, tt.to)
		}
	}
}

func TestTerminalStatusesAcceptNothing(t *testing.T) {
	for _, terminal := range []BookingStatus{StatusCompleted, StatusCancelled, StatusNoShow} {
		assert.True(t, IsTerminalStatus(terminal))
		assert.Empty(t, AvailableStatuses(terminal))
	}

	assert.Empty(t, AvailablePaymentStatuses(PaymentRefunded))
}

func TestAvailableStatuses_ReturnsCopy(t *testing.T) {
	first := AvailableStatuses(StatusPending)
	first[0] = StatusNoShow

	second := AvailableStatuses(StatusPending)
	assert.Equal(t, StatusConfirmed, second[0], "mutating the returned slice must not affect the table")
}

func TestCompletionPaymentWarning(t *testing.T) {
	assert.True(t, CompletionPaymentWarning(PaymentUnpaid, 100))
	assert.False(t, CompletionPaymentWarning(PaymentUnpaid, 0), "free services complete without warning")
	assert.False(t, CompletionPaymentWarning(PaymentPaid, 100))
	assert.False(t, CompletionPaymentWarning(PaymentPartial, 100))
}

func TestStatusLabels(t *testing.T) {
	for _, s := range allStatuses {
		assert.NotEmpty(t, StatusLabel(s))
	}
	for _, s := range allPaymentStatuses {
		assert.NotEmpty(t, PaymentStatusLabel(s))
	}
	assert.Equal(t, "In progress", StatusLabel(StatusInProgress))
}
