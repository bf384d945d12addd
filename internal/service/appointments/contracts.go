package appointments

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByEmployeeAndDate(ctx context.Context, employeeID int64, date time.Time) ([]*domain.Appointment, error)
	Cancel(ctx context.Context, id int64) error
}

// Normalizer перевод UTC времени суток в локальное
type Normalizer interface {
	ToLocal(utc types.TimeString, date time.Time) (types.TimeString, error)
}

// EventPublisher публикация событий о записях
type EventPublisher interface {
	PublishAppointmentCanceled(ctx context.Context, tenantID string, appt *domain.Appointment) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
