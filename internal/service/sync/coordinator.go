// Package sync согласует кэш клиентских выборок с хранилищем при
// оптимистичных мутациях и событиях ленты изменений.
package sync

import (
	"context"
	"fmt"

	"github.com/dmrtv/BSC-SchedulingService/internal/domain"
	"github.com/dmrtv/BSC-SchedulingService/internal/infra/cache"
	"github.com/dmrtv/BSC-SchedulingService/internal/service/membership"
	"github.com/dmrtv/BSC-SchedulingService/pkg/metrics"
)

// Mutation описывает одну оптимистичную мутацию.
// Keys перечисляет ВСЕ ключи, которые Apply затрагивает: снимок и откат
// работают именно по этому списку, и ключ, не попавший в него, после
// неудачной мутации останется в оптимистичном состоянии.
type Mutation struct {
	Keys   []cache.Key
	Apply  func(c Cache)
	Remote func(ctx context.Context) error
}

// Coordinator применяет оптимистичные мутации по протоколу
// snapshot -> apply -> remote -> restore/invalidate.
type Coordinator struct {
	cache      Cache
	membership MembershipService
	metrics    *metrics.Metrics
	logger     Logger
}

func NewCoordinator(c Cache, membershipSvc MembershipService, m *metrics.Metrics, logger Logger) *Coordinator {
	return &Coordinator{
		cache:      c,
		membership: membershipSvc,
		metrics:    m,
		logger:     logger,
	}
}

// Mutate выполняет мутацию. Порядок фиксированный:
//
//  1. отменить начатые перечитывания затронутых ключей, чтобы их результат
//     не перезаписал оптимистичное состояние;
//  2. снять снимок всех ключей;
//  3. применить оптимистичное обновление;
//  4. выполнить серверную операцию;
//  5. на развязке инвалидировать все ключи, чтобы следующая выборка
//     перечитала серверную правду; при ошибке перед этим вернуть ключи
//     к снимку: отказ мог быть вызван чужой конкурирующей записью, и
//     оптимистичное значение после него ложь.
//
// Откат выполняется и при отмене контекста: серверная операция могла не
// примениться, и оптимистичное состояние в этом случае ложь.
func (c *Coordinator) Mutate(ctx context.Context, m Mutation) error {
	if m.Remote == nil {
		return fmt.Errorf("%w: remote operation is required", ErrInvalidMutation)
	}
	if len(m.Keys) == 0 {
		return fmt.Errorf("%w: at least one key is required", ErrInvalidMutation)
	}

	c.cache.CancelRefetch(m.Keys...)
	snap := c.cache.Snapshot(m.Keys...)

	if m.Apply != nil {
		m.Apply(c.cache)
	}

	if err := m.Remote(ctx); err != nil {
		c.cache.Restore(snap)
		c.cache.Invalidate(m.Keys...)
		if c.metrics != nil {
			c.metrics.CacheRollbacksTotal.WithLabelValues("remote_failure").Inc()
		}
		c.logger.Warn("Mutate: remote operation failed, rolled back %d keys: %v", len(m.Keys), err)
		return fmt.Errorf("%w: %w", ErrConcurrencyRollback, err)
	}

	c.cache.Invalidate(m.Keys...)
	return nil
}

// MutateBooking выполняет мутацию одного бронирования по оптимистичному
// протоколу. Ключи выводятся из самого бронирования: выборки клиента,
// выборка повторяющейся группы и выборки мастера под текущим набором его
// окон членства. Выборки мастеров командного бронирования инвалидирует
// реконсилятор по событию ленты изменений.
func (c *Coordinator) MutateBooking(ctx context.Context, booking *domain.Booking, remote func(ctx context.Context) error) error {
	if booking == nil {
		return fmt.Errorf("%w: booking is required", ErrInvalidMutation)
	}
	return c.Mutate(ctx, Mutation{
		Keys:   c.bookingKeys(ctx, booking),
		Remote: remote,
	})
}

func (c *Coordinator) bookingKeys(ctx context.Context, b *domain.Booking) []cache.Key {
	keys := []cache.Key{
		CustomerListKey(b.CustomerID),
		CustomerDayKey(b.CustomerID, b.BookingDate),
	}

	if b.RecurringGroupID != nil && *b.RecurringGroupID != "" {
		keys = append(keys, GroupKey(*b.RecurringGroupID))
	}

	if b.StaffID != nil && *b.StaffID > 0 {
		windows, err := c.membership.WindowsByStaff(ctx, *b.StaffID)
		if err != nil {
			// мутация из-за кэша не откладывается: инвалидацию выборок
			// мастера донесёт лента изменений
			c.logger.Warn("bookingKeys: windows for staff=%d unavailable, staff keys skipped: %v", *b.StaffID, err)
			return keys
		}
		hash := membership.WindowsHash(windows)
		keys = append(keys, staffViewKeys(c.cache, *b.StaffID, hash, b.BookingDate)...)
	}

	return keys
}
