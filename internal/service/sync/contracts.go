package sync

import (
	"context"

	"github.com/dmrtv/BSC-SchedulingService/internal/domain"
	"github.com/dmrtv/BSC-SchedulingService/internal/infra/cache"
)

// Cache интерфейс кэша выборок
type Cache interface {
	Get(key cache.Key) (interface{}, bool)
	Set(key cache.Key, value interface{})
	Link(parent, dependent cache.Key)
	Dependents(parent cache.Key) []cache.Key
	Snapshot(keys ...cache.Key) cache.Snapshot
	Restore(snap cache.Snapshot)
	Invalidate(keys ...cache.Key)
	CancelRefetch(keys ...cache.Key)
	BeginRefetch(key cache.Key) cache.RefetchToken
	CompleteRefetch(token cache.RefetchToken, value interface{}) bool
}

// MembershipService трекер окон членства
type MembershipService interface {
	WindowsByStaff(ctx context.Context, staffID int64) ([]*domain.MembershipWindow, error)
	IsAttributable(ctx context.Context, booking *domain.Booking, staffID int64) (bool, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
