package membership

import (
	"context"
	"time"

	"github.com/dmrtv/BSC-SchedulingService/internal/domain"
)

// WindowRepository интерфейс репозитория окон членства
type WindowRepository interface {
	GetWindows(ctx context.Context, staffID, teamID int64) ([]*domain.MembershipWindow, error)
	GetWindowsByStaff(ctx context.Context, staffID int64) ([]*domain.MembershipWindow, error)
	Open(ctx context.Context, staffID, teamID int64, joinedAt time.Time) (*domain.MembershipWindow, error)
	Close(ctx context.Context, staffID, teamID int64, leftAt time.Time) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
