package availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// EmployeeRepository интерфейс репозитория сотрудников
type EmployeeRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Employee, error)
}

// WeeklyRepository интерфейс репозитория недельных шаблонов
type WeeklyRepository interface {
	GetByEmployeeAndDay(ctx context.Context, employeeID int64, day time.Weekday) (*domain.WeeklyAvailability, error)
}

// PeriodRepository интерфейс репозитория циклических периодов
type PeriodRepository interface {
	GetCovering(ctx context.Context, employeeID int64, date time.Time) ([]*domain.SchedulePeriod, error)
	GetDaySchedule(ctx context.Context, periodID int64, weekNumber int, day time.Weekday) (*domain.PeriodDaySchedule, error)
}

// BlockedRepository интерфейс репозитория блокировок
type BlockedRepository interface {
	GetByEmployeeAndDate(ctx context.Context, employeeID int64, date time.Time) ([]*domain.BlockedTime, error)
}

// AppointmentRepository интерфейс репозитория записей (только чтение)
type AppointmentRepository interface {
	GetActiveByEmployeeAndDate(ctx context.Context, employeeID int64, date time.Time) ([]*domain.Appointment, error)
}

// WindowCache кеш рабочих окон одного арендатора
type WindowCache interface {
	Get(ctx context.Context, employeeID int64, date time.Time) ([]domain.WorkingWindow, bool, error)
	Set(ctx context.Context, employeeID int64, date time.Time, windows []domain.WorkingWindow) error
}

// Metrics метрики расчета доступности
type Metrics interface {
	RecordWindowsResolved(tenant string, n int)
	RecordResolutionError(tenant, kind string)
	RecordWindowCacheLookup(result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
