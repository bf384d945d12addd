package get_available_slots

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
	req.EmployeeIDs = uniqueIDs(req.EmployeeIDs)

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.StartDate.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if req.EndDate.IsZero() {
		req.EndDate = req.StartDate
	}
	req.StartDate = domain.CivilDate(req.StartDate)
	req.EndDate = domain.CivilDate(req.EndDate)

	return validateRange(req, maxRangeDays)
}

// validateRange проверяет порядок и длину диапазона (границы включительно)
func validateRange(req *Request, maxRangeDays int) error {
	if req.EndDate.Before(req.StartDate) {
		return ErrInvalidRange
	}

	days := domain.DaysBetween(req.StartDate, req.EndDate) + 1
	if maxRangeDays > 0 && days > maxRangeDays {
		return fmt.Errorf("%w: %d days requested, at most %d allowed", ErrRangeTooLong, days, maxRangeDays)
	}

	return nil
}

// uniqueIDs убирает повторы, сохраняя порядок
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	result := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
