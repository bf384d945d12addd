package get_working_windows

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/timenorm"
	"github.com/m04kA/SMC-AvailabilityService/internal/tenant"
)

// UseCase use case для получения рабочих окон сотрудников на диапазон дат
type UseCase struct {
	engines      EngineRegistry
	maxRangeDays int
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(engines EngineRegistry, maxRangeDays int, logger Logger) *UseCase {
	return &UseCase{
		engines:      engines,
		maxRangeDays: maxRangeDays,
		logger:       logger,
	}
}

// Execute выполняет use case получения рабочих окон
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetWorkingWindows: tenant=%s, employees=%v, start=%s, end=%s",
		req.TenantID, req.EmployeeIDs, req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req, uc.maxRangeDays); err != nil {
		uc.logger.Warn("GetWorkingWindows: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем движок арендатора
	engine, err := uc.engines.Engine(req.TenantID)
	if err != nil {
		if errors.Is(err, tenant.ErrTenantNotFound) {
			uc.logger.Warn("GetWorkingWindows: tenant %s not found", req.TenantID)
			return nil, ErrTenantNotFound
		}
		return nil, fmt.Errorf("%w: failed to get engine: %v", ErrInternal, err)
	}

	// 3. Обходим диапазон
	days, err := engine.Expander.Expand(ctx, req.EmployeeIDs, req.StartDate, req.EndDate)
	if err != nil {
		uc.logger.Error("GetWorkingWindows: failed to expand range: %v", err)
		return nil, fmt.Errorf("%w: failed to resolve working windows: %v", ErrInternal, err)
	}

	// 4. Конвертируем в response
	resp := &Response{
		TenantID: req.TenantID,
		Days:     make([]Day, 0, len(days)),
	}
	for _, d := range days {
		day := Day{Date: d.Date, Employees: make([]EmployeeWindows, 0, len(d.Employees))}
		for _, ew := range d.Employees {
			entry := EmployeeWindows{EmployeeID: ew.EmployeeID, Windows: make([]Window, 0, len(ew.Windows))}
			if ew.Err != nil {
				entry.Error = ew.Err.Error()
			}
			for _, w := range ew.Windows {
				entry.Windows = append(entry.Windows, toWindow(engine.Normalizer, w))
			}
			day.Employees = append(day.Employees, entry)
		}
		resp.Days = append(resp.Days, day)
	}

	return resp, nil
}

func toWindow(n *timenorm.Normalizer, w domain.WorkingWindow) Window {
	result := Window{
		StartTime: n.LocalTimeOf(w.Start),
		EndTime:   n.LocalTimeOf(w.End),
		Start:     w.Start,
		End:       w.End,
	}
	if w.Break != nil {
		bs, be := n.LocalTimeOf(w.Break.Start), n.LocalTimeOf(w.Break.End)
		result.BreakStart, result.BreakEnd = &bs, &be
	}
	return result
}
