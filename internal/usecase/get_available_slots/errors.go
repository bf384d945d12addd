package get_available_slots

import "errors"

var (
	// ErrTenantNotFound возвращается, когда арендатор не зарегистрирован
	ErrTenantNotFound = errors.New("get_available_slots: tenant not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("get_available_slots: service not found")

	// ErrInvalidRange возвращается, когда конец диапазона раньше начала
	ErrInvalidRange = errors.New("get_available_slots: end date is before start date")

	// ErrRangeTooLong возвращается, когда диапазон длиннее допустимого
	ErrRangeTooLong = errors.New("get_available_slots: date range is too long")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
