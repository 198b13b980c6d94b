// Package changefeed подписка на push-ленту изменений БД через LISTEN/NOTIFY.
// Триггеры БД публикуют в канал JSON вида {table, type, old, new}.
package changefeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

const (
	minReconnectInterval = time.Second
	maxReconnectInterval = time.Minute
	pingInterval         = 90 * time.Second
)

var (
	// ErrClosed возвращается после закрытия слушателя
	ErrClosed = errors.New("changefeed: listener closed")
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Listener слушатель ленты изменений
type Listener struct {
	pl      *pq.Listener
	channel string
	events  chan Event
	logger  Logger
}

// NewListener создает слушателя и подписывается на канал
func NewListener(dsn, channel string, logger Logger) (*Listener, error) {
	l := &Listener{
		channel: channel,
		events:  make(chan Event, 64),
		logger:  logger,
	}

	l.pl = pq.NewListener(dsn, minReconnectInterval, maxReconnectInterval, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			logger.Error("changefeed: listener event %d: %v", ev, err)
			return
		}
		if ev == pq.ListenerEventReconnected {
			logger.Warn("changefeed: reconnected to channel %s", channel)
		}
	})

	if err := l.pl.Listen(channel); err != nil {
		l.pl.Close()
		return nil, fmt.Errorf("changefeed: listen on channel %s: %w", channel, err)
	}

	return l, nil
}

// Events канал событий для потребителей
func (l *Listener) Events() <-chan Event {
	return l.events
}

// Run читает уведомления до отмены контекста.
// После реконнекта уведомления могли быть потеряны - потребитель обязан
// трактовать ленту как сигнал к перечитыванию, а не как журнал истины.
func (l *Listener) Run(ctx context.Context) error {
	defer close(l.events)

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-ticker.C:
			if err := l.pl.Ping(); err != nil {
				l.logger.Error("changefeed: ping failed: %v", err)
			}

		case n, ok := <-l.pl.Notify:
			if !ok {
				return ErrClosed
			}
			if n == nil {
				// nil приходит после реконнекта
				l.logger.Warn("changefeed: connection was re-established, notifications may have been lost")
				continue
			}

			var event Event
			if err := json.Unmarshal([]byte(n.Extra), &event); err != nil {
				l.logger.Error("changefeed: malformed notification payload: %v", err)
				continue
			}

			select {
			case l.events <- event:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// Close закрывает подключение слушателя
func (l *Listener) Close() error {
	return l.pl.Close()
}
