package create_appointment

import "errors"

var (
	// ErrTenantNotFound возвращается, когда арендатор не зарегистрирован
	ErrTenantNotFound = errors.New("create_appointment: tenant not found")

	// ErrEmployeeNotFound возвращается, когда сотрудник не найден
	ErrEmployeeNotFound = errors.New("create_appointment: employee not found")

	// ErrEmployeeNotBookable возвращается, когда сотрудник не принимает записи
	ErrEmployeeNotBookable = errors.New("create_appointment: employee is not bookable")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("create_appointment: service not found")

	// ErrOutsideWorkingWindow возвращается, когда интервал записи не помещается в рабочее окно
	ErrOutsideWorkingWindow = errors.New("create_appointment: time is outside working window")

	// ErrInvalidTimeSlot возвращается, когда время не совпадает с сеткой слотов сотрудника
	ErrInvalidTimeSlot = errors.New("create_appointment: invalid time slot")

	// ErrTooLateToBook возвращается, когда начало раньше допустимого времени записи
	ErrTooLateToBook = errors.New("create_appointment: too late to book this slot")

	// ErrSlotNotAvailable возвращается, когда слот уже занят
	ErrSlotNotAvailable = errors.New("create_appointment: slot no longer available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
