package create_booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmrtv/BSC-SchedulingService/pkg/ptr"
	"github.com/dmrtv/BSC-SchedulingService/pkg/types"
)

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(req *Request)
		wantErr error
	}{
		{"valid", func(req *Request) {}, nil},
		{"zero customer", func(req *Request) { req.CustomerID = 0 }, ErrInvalidInput},
		{"zero package", func(req *Request) { req.ServicePackageID = 0 }, ErrInvalidInput},
		{"negative staff", func(req *Request) { req.StaffID = ptr.Ptr(int64(-1)) }, ErrInvalidInput},
		{"both staff and team", func(req *Request) { req.TeamID = ptr.Ptr(int64(3)) }, ErrAmbiguousAssignment},
		{"unassigned is fine", func(req *Request) { req.StaffID = nil }, nil},
		{"empty date", func(req *Request) { req.Date = "" }, ErrInvalidInput},
		{"bad date format", func(req *Request) { req.Date = "10.09.2026" }, ErrInvalidInput},
		{"negative price", func(req *Request) { req.TotalPrice = -1 }, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)
			err := validateRequest(req)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateInterval(t *testing.T) {
	req := validRequest()
	iv, err := validateInterval(req)
	assert.NoError(t, err)
	assert.Equal(t, types.TimeString("10:00"), iv.Start)

	req.EndTime = types.TimeString("10:00")
	_, err = validateInterval(req)
	assert.ErrorIs(t, err, ErrInvalidInterval)

	req.EndTime = types.TimeString("9 утра")
	_, err = validateInterval(req)
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestValidateDate(t *testing.T) {
	now := time.Date(2026, 9, 1, 23, 30, 0, 0, time.UTC)

	assert.NoError(t, validateDate("2026-09-01", now)) // сегодня
	assert.NoError(t, validateDate("2027-01-01", now))
	assert.ErrorIs(t, validateDate("2026-08-31", now), ErrInvalidDate)
}
