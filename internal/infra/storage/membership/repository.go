package membership

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/dmrtv/BSC-SchedulingService/internal/domain"
	"github.com/dmrtv/BSC-SchedulingService/pkg/dbmetrics"
	"github.com/dmrtv/BSC-SchedulingService/pkg/psqlbuilder"
)

var windowColumns = []string{
	"id",
	"staff_id",
	"team_id",
	"joined_at",
	"left_at",
}

// Repository репозиторий окон членства в командах.
// Хранилище - единственный авторитетный источник окон: сервисы всегда
// перечитывают их здесь, а не держат снэпшот в памяти.
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория окон членства
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetWindows получает окна членства пары (staff, team), отсортированные по joined_at
func (r *Repository) GetWindows(ctx context.Context, staffID, teamID int64) ([]*domain.MembershipWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(windowColumns...).
		From("membership_windows").
		Where(squirrel.Eq{"staff_id": staffID, "team_id": teamID}).
		OrderBy("joined_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetWindows - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWindows - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanWindows(rows)
}

// GetWindowsByStaff получает все окна членства мастера во всех командах
func (r *Repository) GetWindowsByStaff(ctx context.Context, staffID int64) ([]*domain.MembershipWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(windowColumns...).
		From("membership_windows").
		Where(squirrel.Eq{"staff_id": staffID}).
		OrderBy("team_id ASC, joined_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetWindowsByStaff - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWindowsByStaff - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanWindows(rows)
}

// Open открывает новое окно членства.
// Перед вставкой проверяет дизъюнктность с существующими окнами пары.
func (r *Repository) Open(ctx context.Context, staffID, teamID int64, joinedAt time.Time) (*domain.MembershipWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	existing, err := r.GetWindows(ctx, staffID, teamID)
	if err != nil {
		return nil, err
	}

	candidate := &domain.MembershipWindow{
		StaffID:  staffID,
		TeamID:   teamID,
		JoinedAt: joinedAt,
	}
	for _, w := range existing {
		if w.OverlapsWindow(candidate) {
			return nil, fmt.Errorf("%w: staff=%d team=%d joined_at=%s",
				ErrWindowOverlap, staffID, teamID, joinedAt.Format(time.RFC3339))
		}
	}

	query, args, err := psqlbuilder.Insert("membership_windows").
		Columns("staff_id", "team_id", "joined_at").
		Values(staffID, teamID, joinedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Open - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&candidate.ID); err != nil {
		return nil, fmt.Errorf("%w: Open - execute insert: %v", ErrExecQuery, err)
	}

	return candidate, nil
}

// Close закрывает активное окно членства, выставляя left_at.
// Закрытые окна неизменяемы: повторное закрытие - ошибка.
func (r *Repository) Close(ctx context.Context, staffID, teamID int64, leftAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	windows, err := r.GetWindows(ctx, staffID, teamID)
	if err != nil {
		return err
	}

	open, err := openWindow(windows)
	if err != nil {
		return fmt.Errorf("%w: staff=%d team=%d", err, staffID, teamID)
	}

	if !leftAt.After(open.JoinedAt) {
		return fmt.Errorf("%w: left_at=%s joined_at=%s",
			ErrInvalidWindow, leftAt.Format(time.RFC3339), open.JoinedAt.Format(time.RFC3339))
	}

	query, args, err := psqlbuilder.Update("membership_windows").
		Set("left_at", leftAt).
		Where(squirrel.Eq{"id": open.ID, "left_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Close - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Close - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Close - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrWindowAlreadyClosed
	}

	return nil
}

// openWindow выбирает открытое окно пары (staff, team).
// Пустой набор означает, что членства не было вовсе; набор без
// открытого окна - что оно уже закрыто
func openWindow(windows []*domain.MembershipWindow) (*domain.MembershipWindow, error) {
	if len(windows) == 0 {
		return nil, ErrWindowNotFound
	}
	for _, w := range windows {
		if w.IsOpen() {
			return w, nil
		}
	}
	return nil, ErrWindowAlreadyClosed
}

func scanWindows(rows *sql.Rows) ([]*domain.MembershipWindow, error) {
	windows := make([]*domain.MembershipWindow, 0)

	for rows.Next() {
		var w domain.MembershipWindow
		if err := rows.Scan(&w.ID, &w.StaffID, &w.TeamID, &w.JoinedAt, &w.LeftAt); err != nil {
			return nil, fmt.Errorf("%w: scanWindows - scan row: %v", ErrScanRow, err)
		}
		windows = append(windows, &w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanWindows - rows error: %v", ErrScanRow, err)
	}

	return windows, nil
}
