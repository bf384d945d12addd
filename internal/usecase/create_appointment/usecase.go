package create_appointment

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/appointment"
	serviceRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/service"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/appointments/models"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/availability"
	"github.com/m04kA/SMC-AvailabilityService/internal/tenant"
	"github.com/m04kA/SMC-AvailabilityService/pkg/interval"
	"github.com/m04kA/SMC-AvailabilityService/pkg/tracing"
)

var tracer = tracing.Tracer("github.com/m04kA/SMC-AvailabilityService/internal/usecase/create_appointment")

// UseCase use case для фиксации записи на слот
type UseCase struct {
	engines EngineRegistry
	metrics Metrics
	logger  Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(engines EngineRegistry, metrics Metrics, logger Logger) *UseCase {
	return &UseCase{
		engines: engines,
		metrics: metrics,
		logger:  logger,
	}
}

// Execute выполняет use case создания записи.
// Проверка и вставка идут в сериализуемой транзакции под advisory lock на день сотрудника,
// ограничение исключения в БД отсекает оставшиеся гонки.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*models.AppointmentResponse, error) {
	ctx, span := tracer.Start(ctx, "usecase.CreateAppointment",
		trace.WithAttributes(
			attribute.String("tenant.id", req.TenantID),
			attribute.Int64("employee.id", req.EmployeeID),
			attribute.Int64("service.id", req.ServiceID),
		),
	)
	defer span.End()

	uc.logger.Info("CreateAppointment: tenant=%s, employee=%d, service=%d, date=%s, time=%s",
		req.TenantID, req.EmployeeID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}
	date := domain.CivilDate(req.Date)

	// 2. Получаем движок арендатора
	engine, err := uc.engines.Engine(req.TenantID)
	if err != nil {
		if errors.Is(err, tenant.ErrTenantNotFound) {
			uc.logger.Warn("CreateAppointment: tenant %s not found", req.TenantID)
			return nil, ErrTenantNotFound
		}
		return nil, fmt.Errorf("%w: failed to get engine: %v", ErrInternal, err)
	}

	// 3. Получаем услугу
	service, err := engine.Services.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	duration := service.TotalDuration()
	if duration <= 0 {
		return nil, fmt.Errorf("%w: service id=%d has non-positive duration", ErrInvalidInput, service.ID)
	}

	// 4. Интервал записи в локальном времени
	start, err := engine.Normalizer.LocalInstant(req.StartTime, date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	candidate := interval.New(start, start.Add(duration))

	// 5. Получаем текущее время
	now := engine.Normalizer.Now()

	var result *domain.Appointment

	// 6. Выполняем проверку и вставку в сериализуемой транзакции
	err = engine.TxManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 6.1. Блокируем день сотрудника до первого чтения в транзакции
		if err := engine.Appointments.LockEmployeeDay(txCtx, req.EmployeeID, date); err != nil {
			return fmt.Errorf("%w: failed to lock employee day: %w", ErrInternal, err)
		}

		// 6.2. Получаем сотрудника
		emp, err := engine.Availability.GetEmployee(txCtx, req.EmployeeID)
		if err != nil {
			if errors.Is(err, availability.ErrEmployeeNotFound) {
				uc.logger.Warn("CreateAppointment: employee id=%d not found", req.EmployeeID)
				return ErrEmployeeNotFound
			}
			return fmt.Errorf("%w: failed to get employee: %w", ErrInternal, err)
		}
		if !emp.IsBookable() {
			uc.logger.Warn("CreateAppointment: employee id=%d status=%s", emp.ID, emp.Status)
			return ErrEmployeeNotBookable
		}

		// 6.3. Пересчитываем окна без кеша
		windows, err := engine.Availability.ComputeWindows(txCtx, emp, date)
		if err != nil {
			return fmt.Errorf("%w: failed to resolve working windows: %w", ErrInternal, err)
		}

		// 6.4. Интервал должен целиком лежать в рабочем окне
		window, ok := findWindow(windows, candidate)
		if !ok {
			uc.logger.Warn("CreateAppointment: %v: employee=%d %s-%s",
				domain.ErrNoWorkingWindow, emp.ID, candidate.Start.Format(domain.TimeFormat), candidate.End.Format(domain.TimeFormat))
			return ErrOutsideWorkingWindow
		}

		// 6.5. Сетка и время до записи
		if err := validateAlignment(window, start, emp.Granularity()); err != nil {
			uc.logger.Warn("CreateAppointment: %v", err)
			return err
		}
		if err := validateLeadTime(emp, start, now); err != nil {
			uc.logger.Warn("CreateAppointment: %v", err)
			return err
		}

		// 6.6. Повторно читаем активные записи (FOR UPDATE)
		booked, err := engine.Availability.GetBookedIntervals(txCtx, emp.ID, date)
		if err != nil {
			return fmt.Errorf("%w: failed to get appointments: %w", ErrInternal, err)
		}
		if interval.OverlapsAny(candidate, booked) {
			uc.logger.Warn("CreateAppointment: slot %s overlaps active appointment of employee=%d",
				req.StartTime, emp.ID)
			return ErrSlotNotAvailable
		}

		// 6.7. Время хранится в UTC
		utcStart, err := engine.Normalizer.ToUTC(engine.Normalizer.LocalTimeOf(candidate.Start), date)
		if err != nil {
			return fmt.Errorf("%w: failed to convert start: %w", ErrInternal, err)
		}
		utcEnd, err := engine.Normalizer.ToUTC(engine.Normalizer.LocalTimeOf(candidate.End), date)
		if err != nil {
			return fmt.Errorf("%w: failed to convert end: %w", ErrInternal, err)
		}

		// 6.8. Сохраняем запись
		created, err := engine.Appointments.Create(txCtx, &domain.Appointment{
			EmployeeID: emp.ID,
			ServiceID:  service.ID,
			Date:       date,
			TimeStart:  utcStart,
			TimeEnd:    utcEnd,
			StartsAt:   candidate.Start.UTC(),
			EndsAt:     candidate.End.UTC(),
			Status:     domain.AppointmentStatusActive,
		})
		if err != nil {
			return err
		}

		result = created
		return nil
	})

	if err != nil {
		switch {
		case appointmentRepo.IsConflict(err), errors.Is(err, ErrSlotNotAvailable):
			uc.metrics.RecordBookingConflict(req.TenantID)
			uc.logger.Warn("CreateAppointment: slot no longer available: %v", err)
			return nil, ErrSlotNotAvailable
		case isDomainErr(err):
			return nil, err
		}

		span.RecordError(err)
		uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
		if errors.Is(err, ErrInternal) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d", result.ID)

	// 7. Событие публикуется после фиксации транзакции
	if engine.Publisher != nil {
		if err := engine.Publisher.PublishAppointmentBooked(ctx, req.TenantID, result); err != nil {
			uc.logger.Warn("CreateAppointment: failed to publish event for appointment id=%d: %v", result.ID, err)
		}
	}

	return models.FromDomainAppointment(result,
		engine.Normalizer.LocalTimeOf(candidate.Start),
		engine.Normalizer.LocalTimeOf(candidate.End),
	), nil
}

// isDomainErr ошибки, которые возвращаются клиенту как есть
func isDomainErr(err error) bool {
	for _, target := range []error{
		ErrEmployeeNotFound,
		ErrEmployeeNotBookable,
		ErrOutsideWorkingWindow,
		ErrInvalidTimeSlot,
		ErrTooLateToBook,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
