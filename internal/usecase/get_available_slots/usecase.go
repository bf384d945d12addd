package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	serviceRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/service"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/availability"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/slots"
	"github.com/m04kA/SMC-AvailabilityService/internal/tenant"
	"github.com/m04kA/SMC-AvailabilityService/pkg/tracing"
)

var tracer = tracing.Tracer("github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_available_slots")

// UseCase use case для получения доступных слотов сотрудников
type UseCase struct {
	engines      EngineRegistry
	maxRangeDays int
	metrics      Metrics
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	engines EngineRegistry,
	maxRangeDays int,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		engines:      engines,
		maxRangeDays: maxRangeDays,
		metrics:      metrics,
		logger:       logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	ctx, span := tracer.Start(ctx, "usecase.GetAvailableSlots",
		trace.WithAttributes(
			attribute.String("tenant.id", req.TenantID),
			attribute.Int64("service.id", req.ServiceID),
			attribute.Int("employees", len(req.EmployeeIDs)),
		),
	)
	defer span.End()

	uc.logger.Info("GetAvailableSlots: tenant=%s, employees=%v, service=%d, start=%s, end=%s",
		req.TenantID, req.EmployeeIDs, req.ServiceID,
		req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req, uc.maxRangeDays); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем движок арендатора
	engine, err := uc.engines.Engine(req.TenantID)
	if err != nil {
		if errors.Is(err, tenant.ErrTenantNotFound) {
			uc.logger.Warn("GetAvailableSlots: tenant %s not found", req.TenantID)
			return nil, ErrTenantNotFound
		}
		return nil, fmt.Errorf("%w: failed to get engine: %v", ErrInternal, err)
	}

	// 3. Получаем услугу
	service, err := engine.Services.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	duration := service.TotalDuration()
	if duration <= 0 {
		uc.logger.Warn("GetAvailableSlots: service id=%d has non-positive duration", service.ID)
		return nil, fmt.Errorf("%w: service id=%d has non-positive duration", ErrInvalidInput, service.ID)
	}

	// 4. Получаем текущее время в зоне арендатора
	now := engine.Normalizer.Now()

	// 5. Рабочие окна всех сотрудников на весь диапазон
	days, err := engine.Expander.Expand(ctx, req.EmployeeIDs, req.StartDate, req.EndDate)
	if err != nil {
		span.RecordError(err)
		uc.logger.Error("GetAvailableSlots: failed to expand range: %v", err)
		return nil, fmt.Errorf("%w: failed to resolve working windows: %v", ErrInternal, err)
	}

	// 6. Настройки сотрудников (шаг сетки, время до записи)
	employees, err := uc.loadEmployees(ctx, engine, req.EmployeeIDs)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	resp := &Response{
		TenantID:        req.TenantID,
		ServiceID:       service.ID,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		DurationMinutes: int(duration.Minutes()),
		Slots:           []Slot{},
		Skipped:         []SkippedDay{},
	}

	// 7. Генерируем слоты для каждой пары сотрудник/дата
	for _, day := range days {
		for _, ew := range day.Employees {
			if ew.Err != nil {
				resp.Skipped = append(resp.Skipped, SkippedDay{EmployeeID: ew.EmployeeID, Date: day.Date, Reason: ew.Err.Error()})
				continue
			}

			emp, ok := employees[ew.EmployeeID]
			if !ok || len(ew.Windows) == 0 {
				continue
			}

			booked, err := engine.Availability.GetBookedIntervals(ctx, emp.ID, day.Date)
			if err != nil {
				if errors.Is(err, domain.ErrInvalidTimeFormat) {
					uc.logger.Warn("GetAvailableSlots: skipping employee=%d date=%s: %v",
						emp.ID, day.Date.Format(domain.DateFormat), err)
					resp.Skipped = append(resp.Skipped, SkippedDay{EmployeeID: emp.ID, Date: day.Date, Reason: err.Error()})
					continue
				}
				uc.logger.Error("GetAvailableSlots: failed to get appointments for employee=%d: %v", emp.ID, err)
				return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
			}

			for s := range slots.Generate(emp, day.Date, duration, ew.Windows, booked, now) {
				resp.Slots = append(resp.Slots, toSlot(engine.Normalizer, s))
			}
		}
	}

	// 8. Сортируем по (дата, начало, сотрудник)
	sortSlots(resp.Slots)

	uc.metrics.RecordSlotsGenerated(req.TenantID, len(resp.Slots))
	uc.logger.Info("GetAvailableSlots: generated %d slots, skipped %d employee days",
		len(resp.Slots), len(resp.Skipped))

	return resp, nil
}

// loadEmployees получает бронируемых сотрудников. Неизвестные и неактивные пропускаются.
func (uc *UseCase) loadEmployees(ctx context.Context, engine *tenant.Engine, ids []int64) (map[int64]*domain.Employee, error) {
	employees := make(map[int64]*domain.Employee, len(ids))
	for _, id := range ids {
		emp, err := engine.Availability.GetEmployee(ctx, id)
		if err != nil {
			if errors.Is(err, availability.ErrEmployeeNotFound) {
				uc.logger.Warn("GetAvailableSlots: employee id=%d not found", id)
				continue
			}
			// Битые настройки сотрудника: его дни уже попали в Skipped
			if errors.Is(err, domain.ErrInvalidTimeFormat) {
				uc.logger.Warn("GetAvailableSlots: skipping employee id=%d: %v", id, err)
				continue
			}
			uc.logger.Error("GetAvailableSlots: failed to get employee id=%d: %v", id, err)
			return nil, fmt.Errorf("%w: failed to get employee: %w", ErrInternal, err)
		}
		if !emp.IsBookable() {
			continue
		}
		employees[id] = emp
	}
	return employees, nil
}
