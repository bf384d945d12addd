package domain

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// AppointmentStatus статус записи
type AppointmentStatus string

const (
	AppointmentStatusActive   AppointmentStatus = "active"
	AppointmentStatusCanceled AppointmentStatus = "canceled"
)

// Appointment сохраненная запись. Время хранится в UTC.
// Date локальная дата арендатора, StartsAt и EndsAt абсолютные моменты для проверки пересечений в БД.
type Appointment struct {
	ID         int64
	EmployeeID int64
	ServiceID  int64
	Date       time.Time
	TimeStart  types.TimeString
	TimeEnd    types.TimeString
	StartsAt   time.Time
	EndsAt     time.Time
	Status     AppointmentStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsActive только активные записи ограничивают доступность
func (a *Appointment) IsActive() bool {
	return a.Status == AppointmentStatusActive
}

// CanBeCanceled отменить можно только активную запись
func (a *Appointment) CanBeCanceled() bool {
	return a.Status == AppointmentStatusActive
}
