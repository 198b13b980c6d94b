package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmrtv/BSC-SchedulingService/pkg/types"
)

func mustInterval(t *testing.T, start, end string) Interval {
	t.Helper()
	iv, err := NewInterval(types.TimeString(start), types.TimeString(end))
	require.NoError(t, err)
	return iv
}

func TestNewInterval_RejectsEndBeforeStart(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
	}{
		{"end before start", "10:00", "09:00"},
		{"end equals start", "10:00", "10:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewInterval(types.TimeString(tt.start), types.TimeString(tt.end))
			require.ErrorIs(t, err, ErrInvalidInterval)
		})
	}
}

func TestNewInterval_RejectsMalformedTimes(t *testing.T) {
	_, err := NewInterval("9am", "10:00")
	require.ErrorIs(t, err, ErrInvalidInterval)

	_, err = NewInterval("09:00", "25:99")
	require.ErrorIs(t, err, ErrInvalidInterval)
}

func TestInterval_Overlaps(t *testing.T) {
	tests := []struct {
		name string
		a    Interval
		b    Interval
		want bool
	}{
		{"partial overlap", mustInterval(t, "09:00", "10:00"), mustInterval(t, "09:30", "10:30"), true},
		{"containment", mustInterval(t, "09:00", "12:00"), mustInterval(t, "10:00", "11:00"), true},
		{"identical", mustInterval(t, "09:00", "10:00"), mustInterval(t, "09:00", "10:00"), true},
		{"boundary touch is not a conflict", mustInterval(t, "09:00", "09:30"), mustInterval(t, "09:30", "10:30"), false},
		{"disjoint", mustInterval(t, "09:00", "09:30"), mustInterval(t, "11:00", "11:30"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			// Симметрия: overlaps(a,b) == overlaps(b,a)
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a))
		})
	}
}

func TestInterval_OverlapsSelf(t *testing.T) {
	iv := mustInterval(t, "09:00", "10:00")
	assert.True(t, iv.Overlaps(iv))
}

func TestInterval_Contains(t *testing.T) {
	iv := mustInterval(t, "09:00", "10:00")

	assert.True(t, iv.Contains("09:00"), "start is inclusive")
	assert.True(t, iv.Contains("09:59"))
	assert.False(t, iv.Contains("10:00"), "end is exclusive")
	assert.False(t, iv.Contains("08:59"))
}

func TestInterval_DurationMinutes(t *testing.T) {
	iv := mustInterval(t, "09:15", "10:45")

	minutes, err := iv.DurationMinutes()
	require.NoError(t, err)
	assert.Equal(t, 90, minutes)
}
