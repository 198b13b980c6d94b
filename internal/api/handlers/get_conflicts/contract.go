package get_conflicts

import (
	"context"

	"github.com/dmrtv/BSC-SchedulingService/internal/domain"
)

type ConflictService interface {
	DetectConflicts(ctx context.Context, resource domain.Resource, date string, candidate domain.Interval, candidateID int64) (domain.ConflictRecord, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
