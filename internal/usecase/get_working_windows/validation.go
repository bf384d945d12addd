package get_working_windows

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// validateRequest валидирует входные данные запроса и нормализует диапазон дат
func validateRequest(req *Request, maxRangeDays int) error {
	if strings.TrimSpace(req.TenantID) == "" {
		return fmt.Errorf("%w: tenantID is required", ErrInvalidInput)
	}

	if len(req.EmployeeIDs) == 0 {
		return fmt.Errorf("%w: at least one employeeID is required", ErrInvalidInput)
	}
	for _, id := range req.EmployeeIDs {
		if id <= 0 {
			return fmt.Errorf("%w: employeeID must be positive, got %d", ErrInvalidInput, id)
		}
	}

	if req.StartDate.IsZero() {
		return fmt.Errorf("%w: startDate is required", ErrInvalidInput)
	}
	if req.EndDate.IsZero() {
		req.EndDate = req.StartDate
	}
	req.StartDate = domain.CivilDate(req.StartDate)
	req.EndDate = domain.CivilDate(req.EndDate)

	if req.EndDate.Before(req.StartDate) {
		return ErrInvalidRange
	}

	days := domain.DaysBetween(req.StartDate, req.EndDate) + 1
	if maxRangeDays > 0 && days > maxRangeDays {
		return fmt.Errorf("%w: %d days requested, at most %d allowed", ErrRangeTooLong, days, maxRangeDays)
	}

	return nil
}
