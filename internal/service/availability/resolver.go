package availability

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	employeeRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/employee"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/timenorm"
	"github.com/m04kA/SMC-AvailabilityService/pkg/metrics"
)

var tracer = otel.Tracer("github.com/m04kA/SMC-AvailabilityService/internal/service/availability")

// Результаты обращения к кешу окон
const (
	cacheHit   = "hit"
	cacheMiss  = "miss"
	cacheError = "error"
)

// Repositories источники данных резолвера
type Repositories struct {
	Employees    EmployeeRepository
	Weekly       WeeklyRepository
	Periods      PeriodRepository
	Blocks       BlockedRepository
	Appointments AppointmentRepository
}

// Options настройки резолвера
type Options struct {
	TenantID    string
	BreakPolicy BreakPolicy
	Cache       WindowCache // nil = без кеша
	Metrics     Metrics     // nil = без метрик
}

// Resolver вычисляет рабочие окна сотрудника на дату.
// Не хранит состояния между вызовами и безопасен для конкурентного использования.
type Resolver struct {
	employees    EmployeeRepository
	weekly       WeeklyRepository
	periods      PeriodRepository
	blocks       BlockedRepository
	appointments AppointmentRepository
	normalizer   *timenorm.Normalizer
	cache        WindowCache
	metrics      Metrics
	logger       Logger
	tenantID     string
	breakPolicy  BreakPolicy
}

// NewResolver создает новый экземпляр резолвера
func NewResolver(repos Repositories, normalizer *timenorm.Normalizer, logger Logger, opts Options) *Resolver {
	r := &Resolver{
		employees:    repos.Employees,
		weekly:       repos.Weekly,
		periods:      repos.Periods,
		blocks:       repos.Blocks,
		appointments: repos.Appointments,
		normalizer:   normalizer,
		cache:        opts.Cache,
		metrics:      opts.Metrics,
		logger:       logger,
		tenantID:     opts.TenantID,
		breakPolicy:  opts.BreakPolicy,
	}
	if r.metrics == nil {
		r.metrics = metrics.Nop{}
	}
	if r.breakPolicy == "" {
		r.breakPolicy = BreakPolicyOwn
	}
	return r
}

// Normalizer нормализатор времени арендатора
func (r *Resolver) Normalizer() *timenorm.Normalizer {
	return r.normalizer
}

// GetEmployee получает сотрудника. Недопустимый шаг сетки логируется.
func (r *Resolver) GetEmployee(ctx context.Context, employeeID int64) (*domain.Employee, error) {
	emp, err := r.employees.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, employeeRepo.ErrEmployeeNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, wrapRepoErr("GetEmployee", err)
	}

	if !domain.IsValidSlotGranularity(emp.SlotGranularityMinutes) {
		r.logger.Warn("GetEmployee: employee=%d has invalid slot granularity %d, using %d",
			emp.ID, emp.SlotGranularityMinutes, domain.DefaultSlotGranularityMinutes)
	}

	return emp, nil
}

// GetWorkingWindows возвращает непересекающиеся рабочие окна сотрудника на дату (0..2 в обычном случае).
// Пусто для выходного дня, неизвестного или неактивного сотрудника и полностью заблокированного дня.
func (r *Resolver) GetWorkingWindows(ctx context.Context, employeeID int64, date time.Time) ([]domain.WorkingWindow, error) {
	ctx, span := tracer.Start(ctx, "availability.GetWorkingWindows",
		trace.WithAttributes(
			attribute.String("tenant.id", r.tenantID),
			attribute.Int64("employee.id", employeeID),
			attribute.String("date", date.Format(domain.DateFormat)),
		),
	)
	defer span.End()

	emp, err := r.GetEmployee(ctx, employeeID)
	if errors.Is(err, ErrEmployeeNotFound) {
		r.logger.Warn("GetWorkingWindows: employee=%d not found", employeeID)
		return []domain.WorkingWindow{}, nil
	}
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if !emp.IsBookable() {
		r.logger.Info("GetWorkingWindows: %v: employee=%d status=%s", domain.ErrEmployeeNotBookable, emp.ID, emp.Status)
		return []domain.WorkingWindow{}, nil
	}

	if windows, ok := r.cached(ctx, employeeID, date); ok {
		return windows, nil
	}

	windows, err := r.ComputeWindows(ctx, emp, date)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, employeeID, date, windows); err != nil {
			r.logger.Warn("GetWorkingWindows: failed to cache windows for employee=%d: %v", employeeID, err)
		}
	}

	return windows, nil
}

// ComputeWindows вычисляет окна без кеша. Используется при фиксации записи.
func (r *Resolver) ComputeWindows(ctx context.Context, emp *domain.Employee, date time.Time) ([]domain.WorkingWindow, error) {
	src, err := r.ResolveSource(ctx, emp.ID, date)
	if err != nil {
		r.recordError(err)
		return nil, err
	}

	if src.IsClosed() {
		r.metrics.RecordWindowsResolved(r.tenantID, 0)
		return []domain.WorkingWindow{}, nil
	}

	blocks, allDay, err := r.blockIntervals(ctx, emp.ID, date)
	if err != nil {
		r.recordError(err)
		return nil, err
	}
	if allDay {
		r.metrics.RecordWindowsResolved(r.tenantID, 0)
		return []domain.WorkingWindow{}, nil
	}

	windows, err := r.windowsFromSource(emp.ID, date, *src.Day, blocks)
	if err != nil {
		err = wrapRepoErr("ComputeWindows", err)
		r.recordError(err)
		return nil, err
	}

	r.metrics.RecordWindowsResolved(r.tenantID, len(windows))
	return windows, nil
}

func (r *Resolver) cached(ctx context.Context, employeeID int64, date time.Time) ([]domain.WorkingWindow, bool) {
	if r.cache == nil {
		return nil, false
	}

	windows, ok, err := r.cache.Get(ctx, employeeID, date)
	if err != nil {
		r.metrics.RecordWindowCacheLookup(cacheError)
		r.logger.Warn("GetWorkingWindows: cache lookup failed for employee=%d: %v", employeeID, err)
		return nil, false
	}
	if !ok {
		r.metrics.RecordWindowCacheLookup(cacheMiss)
		return nil, false
	}

	r.metrics.RecordWindowCacheLookup(cacheHit)
	loc := r.normalizer.Location()
	for i := range windows {
		windows[i].Start = windows[i].Start.In(loc)
		windows[i].End = windows[i].End.In(loc)
	}
	return windows, true
}

func (r *Resolver) recordError(err error) {
	kind := "internal"
	if errors.Is(err, domain.ErrInvalidTimeFormat) {
		kind = "invalid_time_format"
	}
	r.metrics.RecordResolutionError(r.tenantID, kind)
}
