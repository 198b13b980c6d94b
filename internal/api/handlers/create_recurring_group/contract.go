package create_recurring_group

import (
	"context"

	createRecurringGroup "github.com/dmrtv/BSC-SchedulingService/internal/usecase/create_recurring_group"
)

type CreateRecurringGroupUseCase interface {
	Execute(ctx context.Context, req *createRecurringGroup.Request) (*createRecurringGroup.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
