package tenant

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/appointments/models"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/rangeexpander"
	"github.com/m04kA/SMC-AvailabilityService/pkg/interval"
)

// Availability расчет рабочих окон и занятых интервалов сотрудника
type Availability interface {
	GetEmployee(ctx context.Context, employeeID int64) (*domain.Employee, error)
	GetWorkingWindows(ctx context.Context, employeeID int64, date time.Time) ([]domain.WorkingWindow, error)
	ComputeWindows(ctx context.Context, emp *domain.Employee, date time.Time) ([]domain.WorkingWindow, error)
	GetBookedIntervals(ctx context.Context, employeeID int64, date time.Time) ([]interval.Interval, error)
}

// RangeExpander обход диапазона дат
type RangeExpander interface {
	Expand(ctx context.Context, employeeIDs []int64, start, end time.Time) ([]rangeexpander.DayWindows, error)
}

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

// AppointmentStore запись в журнал записей
type AppointmentStore interface {
	LockEmployeeDay(ctx context.Context, employeeID int64, date time.Time) error
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
}

// AppointmentService чтение и отмена записей
type AppointmentService interface {
	GetByID(ctx context.Context, id int64) (*models.AppointmentResponse, error)
	ListByEmployeeAndDate(ctx context.Context, employeeID int64, date time.Time) (*models.AppointmentListResponse, error)
	Cancel(ctx context.Context, id int64) (*models.AppointmentResponse, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher публикация событий о записях
type EventPublisher interface {
	PublishAppointmentBooked(ctx context.Context, tenantID string, appt *domain.Appointment) error
	PublishAppointmentCanceled(ctx context.Context, tenantID string, appt *domain.Appointment) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
