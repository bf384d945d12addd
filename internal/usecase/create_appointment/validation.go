package create_appointment

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/interval"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if strings.TrimSpace(req.TenantID) == "" {
		return fmt.Errorf("%w: tenantID is required", ErrInvalidInput)
	}

	if req.EmployeeID <= 0 {
		return fmt.Errorf("%w: employeeID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	// Проверяем, что время начала указано
	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	// Валидируем формат времени
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	return nil
}

// findWindow возвращает окно, целиком содержащее интервал записи
func findWindow(windows []domain.WorkingWindow, candidate interval.Interval) (domain.WorkingWindow, bool) {
	for _, w := range windows {
		if w.Interval().Contains(candidate) {
			return w, true
		}
	}
	return domain.WorkingWindow{}, false
}

// validateAlignment проверяет, что начало лежит на сетке от начала окна
func validateAlignment(window domain.WorkingWindow, start time.Time, step time.Duration) error {
	if start.Sub(window.Start)%step != 0 {
		return fmt.Errorf("%w: start must be aligned to %d minute grid from %s",
			ErrInvalidTimeSlot, int(step.Minutes()), window.Start.Format(domain.TimeFormat))
	}
	return nil
}

// validateLeadTime проверяет отсечку по времени до записи
func validateLeadTime(emp *domain.Employee, start, now time.Time) error {
	cutoff := emp.LeadTime.Cutoff(now)
	if start.Before(cutoff) {
		return fmt.Errorf("%w: earliest start is %s", ErrTooLateToBook, cutoff.Format(time.DateTime))
	}
	return nil
}
