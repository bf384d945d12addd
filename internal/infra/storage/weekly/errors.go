package weekly

import "errors"

var (
	// ErrNotFound недельного расписания на этот день нет (выходной)
	ErrNotFound = errors.New("weekly.repository: weekly availability not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("weekly.repository: failed to build query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("weekly.repository: failed to scan row")
)
