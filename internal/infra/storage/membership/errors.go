package membership

import "errors"

var (
	// ErrWindowNotFound возвращается, когда окно членства не найдено
	ErrWindowNotFound = errors.New("membership.repository: window not found")

	// ErrWindowOverlap возвращается при попытке открыть окно, пересекающееся
	// с существующим окном той же пары (staff, team)
	ErrWindowOverlap = errors.New("membership.repository: window overlaps an existing window")

	// ErrWindowAlreadyClosed возвращается при попытке закрыть уже закрытое окно
	ErrWindowAlreadyClosed = errors.New("membership.repository: window already closed")

	// ErrInvalidWindow возвращается при некорректных границах окна (left_at <= joined_at)
	ErrInvalidWindow = errors.New("membership.repository: left_at must be after joined_at")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("membership.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("membership.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("membership.repository: failed to scan row")
)
