package realtime

import (
	syncService "github.com/dmrtv/BSC-SchedulingService/internal/service/sync"
)

type Subscriber interface {
	Subscribe(sub *syncService.Subscription) func()
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
