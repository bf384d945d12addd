package get_available_slots

import (
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	TenantID        string          `json:"tenantId"`
	ServiceID       int64           `json:"serviceId"`
	StartDate       string          `json:"startDate"`
	EndDate         string          `json:"endDate"`
	DurationMinutes int             `json:"durationMinutes"`
	Slots           []AvailableSlot `json:"slots"`
	Skipped         []SkippedDay    `json:"skipped,omitempty"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	EmployeeID int64  `json:"employeeId"`
	Date       string `json:"date"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
}

// SkippedDay дата сотрудника без расчета
type SkippedDay struct {
	EmployeeID int64  `json:"employeeId"`
	Date       string `json:"date"`
	Reason     string `json:"reason"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			EmployeeID: slot.EmployeeID,
			Date:       slot.Date.Format(domain.DateFormat),
			StartTime:  slot.StartTime.String(),
			EndTime:    slot.EndTime.String(),
		}
	}

	var skipped []SkippedDay
	for _, s := range resp.Skipped {
		skipped = append(skipped, SkippedDay{
			EmployeeID: s.EmployeeID,
			Date:       s.Date.Format(domain.DateFormat),
			Reason:     s.Reason,
		})
	}

	return &AvailableSlotsResponse{
		TenantID:        resp.TenantID,
		ServiceID:       resp.ServiceID,
		StartDate:       resp.StartDate.Format(domain.DateFormat),
		EndDate:         resp.EndDate.Format(domain.DateFormat),
		DurationMinutes: resp.DurationMinutes,
		Slots:           slots,
		Skipped:         skipped,
	}
}
