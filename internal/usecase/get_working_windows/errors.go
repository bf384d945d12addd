package get_working_windows

import "errors"

var (
	// ErrTenantNotFound возвращается, когда арендатор не зарегистрирован
	ErrTenantNotFound = errors.New("get_working_windows: tenant not found")

	// ErrInvalidRange возвращается, когда конец диапазона раньше начала
	ErrInvalidRange = errors.New("get_working_windows: end date is before start date")

	// ErrRangeTooLong возвращается, когда диапазон длиннее допустимого
	ErrRangeTooLong = errors.New("get_working_windows: date range is too long")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_working_windows: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_working_windows: internal error")
)
