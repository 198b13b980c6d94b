package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrBatchSizeMismatch возвращается, когда пакетная вставка вернула
	// не столько строк, сколько ожидалось
	ErrBatchSizeMismatch = errors.New("booking.repository: batch insert returned wrong row count")

	// ErrReferencedByGroup возвращается при попытке физически удалить
	// бронирование, входящее в повторяющуюся группу
	ErrReferencedByGroup = errors.New("booking.repository: booking is referenced by a recurring group")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
