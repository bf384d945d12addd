package period

import "errors"

var (
	// ErrDayNotFound в цикле периода нет строки на этот день (выходной)
	ErrDayNotFound = errors.New("period.repository: period day schedule not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("period.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("period.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("period.repository: failed to scan row")
)
