package open_membership

import (
	"context"
	"time"

	"github.com/dmrtv/BSC-SchedulingService/internal/domain"
)

type MembershipService interface {
	OpenWindow(ctx context.Context, staffID, teamID int64, joinedAt time.Time) (*domain.MembershipWindow, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
