package close_membership

import (
	"context"
	"time"
)

type MembershipService interface {
	CloseWindow(ctx context.Context, staffID, teamID int64, leftAt time.Time) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
