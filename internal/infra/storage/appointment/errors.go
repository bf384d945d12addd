package appointment

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment.repository: appointment not found")

	// ErrSlotConflict вставка отклонена ограничением на пересечение интервалов
	ErrSlotConflict = errors.New("appointment.repository: slot conflicts with an active appointment")

	// ErrCannotCancel возвращается, когда запись не может быть отменена
	ErrCannotCancel = errors.New("appointment.repository: appointment cannot be canceled")

	// ErrTransaction возвращается при работе вне транзакции там, где она обязательна
	ErrTransaction = errors.New("appointment.repository: transaction required")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")
)

// Коды ошибок PostgreSQL
const (
	pgExclusionViolation   = "23P01"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// IsConflict проверяет, что ошибка означает конкурентное занятие слота:
// нарушение exclusion constraint, сбой сериализации или взаимоблокировка
func IsConflict(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrSlotConflict) {
		return true
	}

	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	switch pqErr.Code {
	case pgExclusionViolation, pgSerializationFailure, pgDeadlockDetected:
		return true
	default:
		return false
	}
}
