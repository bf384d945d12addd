package domain

import (
	"errors"

	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

var (
	// ErrInvalidTimeFormat некорректное время в хранилище.
	// Прерывает расчет только для одного сотрудника и дня.
	ErrInvalidTimeFormat = types.ErrInvalidTimeFormat

	// ErrAmbiguousPeriodOverlap на одну дату действует несколько периодов.
	// Применяется детерминированный выбор, ошибка только логируется.
	ErrAmbiguousPeriodOverlap = errors.New("domain: ambiguous schedule period overlap")

	// ErrEmployeeNotBookable сотрудник не активен
	ErrEmployeeNotBookable = errors.New("domain: employee is not bookable")

	// ErrNoWorkingWindow у сотрудника нет рабочего окна на дату
	ErrNoWorkingWindow = errors.New("domain: no working window")

	// ErrInvalidLeadTime некорректное значение lead_time
	ErrInvalidLeadTime = errors.New("domain: invalid lead time")
)
