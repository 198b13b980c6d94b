package recurringgroup

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/dmrtv/BSC-SchedulingService/internal/domain"
	"github.com/dmrtv/BSC-SchedulingService/pkg/dbmetrics"
	"github.com/dmrtv/BSC-SchedulingService/pkg/psqlbuilder"
)

// Repository репозиторий повторяющихся групп бронирований
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория групп
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает запись группы.
// Вызывается в одной транзакции с пакетной вставкой бронирований группы:
// частично созданная группа не должна быть наблюдаема.
func (r *Repository) Create(ctx context.Context, group *domain.RecurringGroup) (*domain.RecurringGroup, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("recurring_groups").
		Columns(
			"id",
			"pattern",
			"total_occurrences",
			"booking_ids",
			"customer_id",
			"service_package_id",
			"staff_id",
			"team_id",
			"original_total_price",
		).
		Values(
			group.ID,
			group.Pattern,
			group.TotalOccurrences,
			pq.Array(group.BookingIDs),
			group.CustomerID,
			group.ServicePackageID,
			group.StaffID,
			group.TeamID,
			group.OriginalTotalPrice,
		).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}
	group.CreatedAt = createdAt.Time

	return group, nil
}

// GetByID получает группу по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.RecurringGroup, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"pattern",
		"total_occurrences",
		"booking_ids",
		"customer_id",
		"service_package_id",
		"staff_id",
		"team_id",
		"original_total_price",
		"created_at",
	).
		From("recurring_groups").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var group domain.RecurringGroup
	var createdAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&group.ID,
		&group.Pattern,
		&group.TotalOccurrences,
		pq.Array(&group.BookingIDs),
		&group.CustomerID,
		&group.ServicePackageID,
		&group.StaffID,
		&group.TeamID,
		&group.OriginalTotalPrice,
		&createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrGroupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan group: %v", ErrScanRow, err)
	}
	group.CreatedAt = createdAt.Time

	return &group, nil
}

// UpdateBookingIDs записывает итоговый список бронирований группы.
// Используется внутри транзакции создания после пакетной вставки, когда
// становятся известны присвоенные БД идентификаторы.
func (r *Repository) UpdateBookingIDs(ctx context.Context, id string, bookingIDs []int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("recurring_groups").
		Set("booking_ids", pq.Array(bookingIDs)).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateBookingIDs - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateBookingIDs - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateBookingIDs - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrGroupNotFound
	}

	return nil
}
