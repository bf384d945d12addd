package get_working_windows

import (
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	getWorkingWindows "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_working_windows"
)

// WorkingWindowsResponse HTTP response model
type WorkingWindowsResponse struct {
	TenantID string `json:"tenantId"`
	Days     []Day  `json:"days"`
}

// Day окна сотрудников на дату
type Day struct {
	Date      string            `json:"date"`
	Employees []EmployeeWindows `json:"employees"`
}

// EmployeeWindows окна одного сотрудника
type EmployeeWindows struct {
	EmployeeID int64    `json:"employeeId"`
	Windows    []Window `json:"windows"`
	Error      string   `json:"error,omitempty"`
}

// Window рабочее окно, время локальное
type Window struct {
	StartTime  string  `json:"startTime"`
	EndTime    string  `json:"endTime"`
	BreakStart *string `json:"breakStart,omitempty"`
	BreakEnd   *string `json:"breakEnd,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getWorkingWindows.Response) *WorkingWindowsResponse {
	days := make([]Day, len(resp.Days))
	for i, d := range resp.Days {
		employees := make([]EmployeeWindows, len(d.Employees))
		for j, e := range d.Employees {
			windows := make([]Window, len(e.Windows))
			for k, w := range e.Windows {
				windows[k] = Window{
					StartTime: w.StartTime.String(),
					EndTime:   w.EndTime.String(),
				}
				if w.BreakStart != nil && w.BreakEnd != nil {
					bs, be := w.BreakStart.String(), w.BreakEnd.String()
					windows[k].BreakStart = &bs
					windows[k].BreakEnd = &be
				}
			}
			employees[j] = EmployeeWindows{
				EmployeeID: e.EmployeeID,
				Windows:    windows,
				Error:      e.Error,
			}
		}
		days[i] = Day{
			Date:      d.Date.Format(domain.DateFormat),
			Employees: employees,
		}
	}

	return &WorkingWindowsResponse{
		TenantID: resp.TenantID,
		Days:     days,
	}
}
